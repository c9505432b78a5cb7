package domain

// Service is a bookable offering of an establishment, delivered as a
// read-only snapshot by the settings provider.
type Service struct {
	ID               int64
	EstablishmentID  int64
	Name             string
	DurationMinutes  int
	Price            float64
	PromotionalPrice *float64
	Active           bool
}

// BasePrice returns the promotional price when set, otherwise the list price.
func (s *Service) BasePrice() float64 {
	if s.PromotionalPrice != nil {
		return *s.PromotionalPrice
	}
	return s.Price
}
