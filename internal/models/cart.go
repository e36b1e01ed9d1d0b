package models

// CartLine binds a remote line identifier to a quantity and a snapshot of
// the variant it represents.
type CartLine struct {
	ID           string  `json:"id"`
	Quantity     int     `json:"quantity"`
	VariantID    string  `json:"variantId"`
	VariantTitle string  `json:"variantTitle"`
	ProductTitle string  `json:"productTitle"`
	Price        float64 `json:"price"`
	Image        string  `json:"image,omitempty"`
}

// Cart mirrors the remote cart's authoritative state. It is replaced
// wholesale after every mutation and read, never patched incrementally.
type Cart struct {
	ID          string     `json:"id"`
	CheckoutURL string     `json:"checkoutUrl"`
	Lines       []CartLine `json:"lines"`
}
