package cartserver

// CartItem is one cart line as exposed over HTTP. Money fields are decimal strings with two places.
type CartItem struct {
	Id       int64  `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Image    string `json:"image,omitempty"`
	Amount   int    `json:"amount"`
	Subtotal string `json:"subtotal"`
}

type CartSummary struct {
	Lines int    `json:"lines"`
	Units int    `json:"units"`
	Total string `json:"total"`
}

type Cart struct {
	Items   []CartItem  `json:"items"`
	Summary CartSummary `json:"summary"`
	// Outcome is set on mutation responses: "applied" or "ignored".
	Outcome string `json:"outcome,omitempty"`
}

type UpdateAmountRequest struct {
	Amount *int `json:"amount" binding:"required"`
}
