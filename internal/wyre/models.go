package wyre

// Fixed order shape for every reservation this service creates: card-funded
// USD converted to ETH at the configured destination wallet.
const (
	SourceCurrency = "USD"
	DestCurrency   = "ETH"
	PaymentMethod  = "debit-card"
)

// OrderStatusComplete is the provider's terminal status for a fully settled
// order. Anything else counts as not paid.
const OrderStatusComplete = "COMPLETE"

// OrderReservationRequest is the body of POST /orders/reserve.
type OrderReservationRequest struct {
	Dest              string   `json:"dest"`
	Amount            float64  `json:"amount"`
	ReferenceID       string   `json:"referenceId"`
	DestCurrency      string   `json:"destCurrency"`
	PaymentMethod     string   `json:"paymentMethod"`
	SourceCurrency    string   `json:"sourceCurrency"`
	ReferrerAccountID string   `json:"referrerAccountId"`
	LockFields        []string `json:"lockFields"`
}

// ReservationResponse is the provider's answer to a reservation request.
type ReservationResponse struct {
	Reservation string `json:"reservation"`
	URL         string `json:"url"`
}

// DebitCardDetails carries raw card data submitted by the buyer. It is
// forwarded to the provider and never persisted.
type DebitCardDetails struct {
	Number string `json:"number"`
	Year   string `json:"year"`
	Month  string `json:"month"`
	CVV    string `json:"cvv"`
}

// Address is the buyer's billing address.
type Address struct {
	Street1    string `json:"street1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentRequest is the body of POST /debitcard/process/partner.
type PaymentRequest struct {
	Dest              string           `json:"dest"`
	ReferrerAccountID string           `json:"referrerAccountId"`
	SourceCurrency    string           `json:"sourceCurrency"`
	DestCurrency      string           `json:"destCurrency"`
	Amount            string           `json:"amount"`
	DebitCard         DebitCardDetails `json:"debitCard"`
	ReferenceID       string           `json:"referenceId"`
	ReservationID     string           `json:"reservationId"`
	Address           Address          `json:"address"`
	GivenName         string           `json:"givenName"`
	FamilyName        string           `json:"familyName"`
	Email             string           `json:"email"`
	Phone             string           `json:"phone"`
}

// ChargeResponse is the provider's answer to a card charge: the created
// order and its initial processing status.
type ChargeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// OrderStatus is the provider's answer to GET /orders/{id}.
type OrderStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
