package apihandlers

import (
	"net/http"

	"clipnote/internal/auth"

	"github.com/gin-gonic/gin"
)

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *APIHandler) RegisterHandler(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	session, err := h.Auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "Username")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   session.Token,
		"user":    session.User,
	})
}

func (h *APIHandler) LoginHandler(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	session, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   session.Token,
		"user":    session.User,
	})
}

// VerifyHandler echoes the identity carried by a valid token.
func (h *APIHandler) VerifyHandler(c *gin.Context) {
	claims, ok := auth.GetClaims(c)
	if !ok {
		Unauthorized(c, "Invalid token")
		return
	}
	id, _ := claims.UserID()
	c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": id, "username": claims.Username}})
}
