package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

type AdminHandler struct {
	complete *ucAppointment.CompleteAppointment
	byDate   *ucAppointment.ListAppointmentsByDate
	now      ucAppointment.Clock
}

func NewAdminHandler(
	complete *ucAppointment.CompleteAppointment,
	byDate *ucAppointment.ListAppointmentsByDate,
	now ucAppointment.Clock,
) *AdminHandler {
	return &AdminHandler{
		complete: complete,
		byDate:   byDate,
		now:      now,
	}
}

// ListByDate devolve a agenda do dia; sem ?date= usa hoje.
func (h *AdminHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = timezone.Today(h.now())
	}

	out, err := h.byDate.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.OK(c, out)
}

func (h *AdminHandler) Complete(c *gin.Context) {
	ap, err := h.complete.Execute(
		c.Request.Context(),
		middleware.CurrentUserID(c),
		c.Param("id"),
	)
	if err != nil {
		httperr.FromError(c, err, "failed_to_complete_appointment", "Erro ao concluir agendamento.")
		return
	}

	httpresp.OK(c, ap)
}
