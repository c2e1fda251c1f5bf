package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/identity"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
)

type MeHandler struct {
	users *identity.Service
}

func NewMeHandler(users *identity.Service) *MeHandler {
	return &MeHandler{users: users}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, err := h.users.Current(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		httperr.FromError(c, err, "internal_error", "Erro ao carregar usuário.")
		return
	}

	httpresp.OK(c, user)
}
