package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
)

// Accounts is the account service the auth handlers depend on.
type Accounts interface {
	Signup(ctx context.Context, req *models.SignupRequest) error
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// AuthHandler serves POST /signup and POST /login.
type AuthHandler struct {
	accounts Accounts
}

func NewAuthHandler(accounts Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Signup creates an account.
// @Summary Account creation
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "Signup data"
// @Success 200 {object} map[string]interface{} "msg"
// @Failure 400 {object} models.ErrorResponse "Email already registered or invalid body"
// @Router /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Msg: "Invalid request", Error: err.Error()})
		return
	}

	if err := h.accounts.Signup(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Signup successful"})
}

// Login checks credentials and issues a token.
// @Summary Credential check and token issue
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login data"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} models.ErrorResponse "Incorrect password"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Msg: "Invalid request", Error: err.Error()})
		return
	}

	resp, err := h.accounts.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
