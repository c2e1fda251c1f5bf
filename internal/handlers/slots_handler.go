package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// SlotsHandler é público: mostra os horários livres de um dia.
type SlotsHandler struct {
	slots *ucAppointment.GetSlots
	now   ucAppointment.Clock
}

func NewSlotsHandler(slots *ucAppointment.GetSlots, now ucAppointment.Clock) *SlotsHandler {
	return &SlotsHandler{slots: slots, now: now}
}

type slotsResponse struct {
	Date  string                 `json:"date"`
	Slots []appointment.TimeSlot `json:"slots"`
}

func (h *SlotsHandler) List(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = timezone.Today(h.now())
	}

	slots, err := h.slots.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_slots", "Erro ao carregar horários.")
		return
	}

	if slots == nil {
		slots = []appointment.TimeSlot{}
	}

	c.JSON(200, slotsResponse{Date: date, Slots: slots})
}
