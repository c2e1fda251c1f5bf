package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentHandler atende o cliente logado.
type AppointmentHandler struct {
	book   *ucAppointment.BookAppointment
	recent *ucAppointment.ListRecentAppointments
	cancel *ucAppointment.CancelAppointment
}

func NewAppointmentHandler(
	book *ucAppointment.BookAppointment,
	recent *ucAppointment.ListRecentAppointments,
	cancel *ucAppointment.CancelAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:   book,
		recent: recent,
		cancel: cancel,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.book.Execute(c.Request.Context(), ucAppointment.BookAppointmentInput{
		ClientID: middleware.CurrentUserID(c),
		Date:     req.Date,
		Time:     req.Time,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_appointment", "Erro ao criar agendamento.")
		return
	}

	c.JSON(http.StatusCreated, res)
}

// ======================================================
// LIST (últimos cinco)
// ======================================================

func (h *AppointmentHandler) ListRecent(c *gin.Context) {
	out, err := h.recent.Execute(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	ap, err := h.cancel.Execute(
		c.Request.Context(),
		middleware.CurrentUserID(c),
		c.Param("id"),
	)
	if err != nil {
		httperr.FromError(c, err, "failed_to_cancel_appointment", "Erro ao cancelar agendamento.")
		return
	}

	httpresp.OK(c, ap)
}
