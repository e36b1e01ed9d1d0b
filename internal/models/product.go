package models

// Size is one purchasable variant of a product.
type Size struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Product is the application-facing product shape. Products are ephemeral:
// rebuilt on every successful fetch or cache hit, never mutated in place.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Weight      string   `json:"weight,omitempty"`
	Volume      string   `json:"volume,omitempty"`
	Badge       string   `json:"badge"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Usage       string   `json:"usage"`
	Storage     string   `json:"storage"`
	Packaging   string   `json:"packaging"`
	SkinType    string   `json:"skinType"`
	Image       string   `json:"image"`
	Sizes       []Size   `json:"sizes,omitempty"`
}
