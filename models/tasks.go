package models

// CompleteAppointmentPayload is the body of the auto-completion task.
type CompleteAppointmentPayload struct {
	AppointmentID string `json:"appointmentId"`
}
