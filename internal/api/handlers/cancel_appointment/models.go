package cancel_appointment

// CancelAppointmentRequest is the HTTP request model.
type CancelAppointmentRequest struct {
	ByCustomer bool `json:"byCustomer"`
}

// CancelAppointmentResponse is the HTTP response model.
type CancelAppointmentResponse struct {
	ID                 int64   `json:"id"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}
