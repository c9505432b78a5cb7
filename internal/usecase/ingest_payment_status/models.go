package ingest_payment_status

// Request carries a payment status observation, either pushed by the gateway
// webhook or pulled by the status poller.
type Request struct {
	GatewayRef string
	Status     string
}

// Response reports the stored transaction state after ingestion.
type Response struct {
	GatewayRef    string
	PaymentStatus string

	// Applied is false when the observation was a duplicate of an already
	// terminal state and nothing changed.
	Applied bool
}
