package dto

import "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"

type AppointmentListDTO struct {
	ID          string             `json:"id"`
	ClientID    string             `json:"client_id"`
	ClientEmail string             `json:"client_email"`
	Date        string             `json:"date"`
	Time        string             `json:"time"`
	Status      appointment.Status `json:"status"`
}

// DayScheduleDTO é a agenda do dia mostrada ao administrador.
type DayScheduleDTO struct {
	Date         string               `json:"date"`
	Total        int                  `json:"total"`
	Completed    int                  `json:"completed"`
	Appointments []AppointmentListDTO `json:"appointments"`
}

// RecentAppointmentsDTO é o painel do cliente: últimos cinco e resumo.
type RecentAppointmentsDTO struct {
	Appointments []appointment.Appointment `json:"appointments"`
	Next         *appointment.Appointment  `json:"next"`
	Completed    int                       `json:"completed"`
}
