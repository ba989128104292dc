package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const welcomeMessage = "Welcome to the FastAPI backend!"

// @Summary      Welcome message
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      List items
// @Tags         items
// @Produce      json
// @Success      200  {array}  models.Item
// @Router       /items [get]
func (h *Handler) listItems(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.ListItems(c.Request.Context()))
}

// @Summary      Get item
// @Tags         items
// @Produce      json
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  models.Item
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /items/{id} [get]
func (h *Handler) getItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortWithDetail(c, http.StatusUnprocessableEntity, "item id must be an integer")
		return
	}

	item, err := h.services.GetItem(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err, "item_get_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, item)
}
