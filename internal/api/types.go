package api

import (
	"github.com/hackgods/doctor-booking/internal/booking"
	"github.com/hackgods/doctor-booking/internal/calendar"
)

type CreateBookingRequest struct {
	PatientName   string `json:"patientName"`
	PatientEmail  string `json:"patientEmail"`
	PatientPhone  string `json:"patientPhone"`
	PatientGender string `json:"patientGender"`
	PatientAge    int    `json:"patientAge"`
	DoctorID      string `json:"doctorId"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	HealthIssue   string `json:"healthIssue"`
	Notes         string `json:"notes"`
}

type TransitionRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

type ExceptionRequest struct {
	Type      string               `json:"type"`
	Reason    string               `json:"reason"`
	TimeSlots []calendar.TimeRange `json:"timeSlots"`
}

type SlotView struct {
	Time      calendar.TimeOfDay `json:"time"`
	Available bool               `json:"available"`
}

type SlotsResponse struct {
	DoctorID string        `json:"doctorId"`
	Date     calendar.Date `json:"date"`
	Slots    []SlotView    `json:"slots"`
}

type BookingResponse struct {
	booking.Booking
	// AllowedTransitions lists the statuses the caller may move this booking to.
	AllowedTransitions []booking.Status `json:"allowedTransitions"`
}

type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"`
}
