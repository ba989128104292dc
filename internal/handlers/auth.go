package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both register and login.
// Password must be present but may be empty.
type authCredentials struct {
	Phone    string  `json:"phone" example:"1234567890"`
	Password *string `json:"password" example:"s3cr3t"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type meResponse struct {
	Phone string `json:"phone"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Infow("auth_bad_request_body", "err", err, "request_id", requestID(c))
		abortWithDetail(c, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

// bindCredentials binds an authCredentials body. A missing or empty phone is
// reported the same way as a malformed one.
func (h *Handler) bindCredentials(c *gin.Context) (string, string, bool) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return "", "", false
	}
	if input.Phone == "" {
		abortWithDetail(c, http.StatusBadRequest, msgInvalidPhone)
		return "", "", false
	}
	if input.Password == nil {
		h.log.Infow("auth_missing_password", "request_id", requestID(c))
		abortWithDetail(c, http.StatusBadRequest, msgInvalidBody)
		return "", "", false
	}
	return input.Phone, *input.Password, true
}

// @Summary      Register
// @Description  Creates an account for a 10-digit phone and returns a token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	phoneNum, password, ok := h.bindCredentials(c)
	if !ok {
		return
	}

	token, err := h.services.Register(c.Request.Context(), phoneNum, password)
	if err != nil {
		h.writeServiceError(c, err, "auth_register_failed", "phone", phoneNum)
		return
	}

	h.log.Infow("auth_registered", "phone", phoneNum, "request_id", requestID(c))
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// @Summary      Login
// @Description  Unknown phone and wrong password both return 401 with the same body.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	phoneNum, password, ok := h.bindCredentials(c)
	if !ok {
		return
	}

	token, err := h.services.Login(c.Request.Context(), phoneNum, password)
	if err != nil {
		h.writeServiceError(c, err, "auth_login_failed", "phone", phoneNum)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, meResponse{Phone: c.GetString(ctxPhoneKey)})
}
