package domain

// Position is a read-only snapshot of one holding at the venue. Produced
// fresh on every read; never cached.
type Position struct {
	Account     string  `json:"account"`
	Symbol      string  `json:"symbol"`
	Exchange    string  `json:"exchange"`
	Currency    string  `json:"currency"`
	Quantity    float64 `json:"position"`
	AverageCost float64 `json:"avgCost"`
}

// AccountValue is one raw account-summary row as reported by the venue.
// Value stays a string here; numeric coercion happens at the service layer.
type AccountValue struct {
	Account  string `json:"account"`
	Tag      string `json:"tag"`
	Currency string `json:"currency"`
	Value    string `json:"value"`
}
