package domain

// Measurements are optional free-text body measurements.
type Measurements struct {
	Height string `json:"height,omitempty"`
	Waist  string `json:"waist,omitempty"`
}

// Customer is a shop customer with a reference photo.
type Customer struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PhotoURL     string        `json:"photoUrl"`
	Measurements *Measurements `json:"measurements,omitempty"`
}

// DefaultCustomerEmail is stored when a customer is captured without one.
const DefaultCustomerEmail = "customer@example.com"
