package dto

// CheckoutRequest payload for POST /api/checkout. Every field is optional.
type CheckoutRequest struct {
	PriceID  string `json:"priceId"`
	Interval string `json:"interval"`
	ReturnTo string `json:"returnTo"`
}

// CheckoutResponse carries the hosted checkout URL.
type CheckoutResponse struct {
	URL string `json:"url"`
}
