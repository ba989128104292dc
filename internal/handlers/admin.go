package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const adminSecretHeader = "X-Admin-Secret"

type phoneEntry struct {
	Phone string `json:"phone"`
}

type usersResponse struct {
	Users []phoneEntry `json:"users"`
}

// @Summary      List registered phones (dev only)
// @Tags         admin
// @Produce      json
// @Param        X-Admin-Secret  header    string  true  "Admin secret"
// @Success      200             {object}  usersResponse
// @Failure      403             {object}  errorResponse
// @Failure      503             {object}  errorResponse
// @Router       /users [get]
func (h *Handler) listUsers(c *gin.Context) {
	phones, err := h.services.ListPhones(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err, "admin_list_users_failed")
		return
	}

	resp := usersResponse{Users: make([]phoneEntry, 0, len(phones))}
	for _, p := range phones {
		resp.Users = append(resp.Users, phoneEntry{Phone: p})
	}
	c.JSON(http.StatusOK, resp)
}
