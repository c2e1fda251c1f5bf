package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/identity"
)

type AuthHandler struct {
	users  *identity.Service
	tokens *identity.Tokens
}

func NewAuthHandler(users *identity.Service, tokens *identity.Tokens) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// --------- Requests ---------

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Password é opcional: os usuários de demonstração entram só com o e-mail.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *identity.User `json:"user"`
	Token string         `json:"token"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	user, err := h.users.SignUp(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_user", "Erro ao criar usuário.")
		return
	}

	h.respond(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	user, err := h.users.SignIn(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		httperr.FromError(c, err, "internal_error", "Erro ao entrar.")
		return
	}

	h.respond(c, http.StatusOK, user)
}

func (h *AuthHandler) respond(c *gin.Context, status int, user *identity.User) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar sessão.")
		return
	}

	c.JSON(status, authResponse{User: user, Token: token})
}
