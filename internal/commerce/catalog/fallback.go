package catalog

import (
	"strings"

	"storefront-gateway/internal/models"
)

// fallbackCatalog is fixed seed data served only when the remote path is
// unavailable or returns nothing valid. It is never merged with remote data,
// so callers always know the provenance of what they are showing.
var fallbackCatalog = []models.Product{
	{
		ID:       "botanical-hair-oil",
		Name:     "Botanical Hair Oil",
		Category: "haircare",
		Price:    780,
		Volume:   "100 ml",
		Badge:    "Natural • Cold-Pressed • Reusable Glass Bottle",
		Sizes: []models.Size{
			{ID: "variant-bho-50", Label: "50 ml", Price: 420},
			{ID: "variant-bho-100", Label: "100 ml", Price: 780},
		},
		Description: "A preservative-free blend of cold-pressed oils and botanicals that nourishes the scalp, strengthens roots and restores natural shine without heaviness.",
		Ingredients: []string{
			"Sesame Oil", "Almond Oil", "Jojoba Oil", "Rosehip Oil",
			"Amla Oil", "Bhringaraj Oil", "Rosemary Oil", "Lavender Oil",
			"Vitamin E", "Curry Leaves", "Rose Petals",
		},
		Usage:     "Warm a small amount and massage into the scalp. Leave on for a few hours or overnight before washing.",
		Storage:   "Store at room temperature away from direct sunlight. Use within 6 months.",
		Packaging: "Premium glass bottle designed for reuse.",
		SkinType:  "All Skin Types",
		Image:     "https://images.unsplash.com/photo-1631730359585-38a4935cbec4?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID:          "saffron-body-butter",
		Name:        "Saffron Body Butter",
		Category:    "skincare",
		Price:       520,
		Weight:      "70g",
		Badge:       "Natural • Organic • Reusable Glass Jar",
		Description: "A rich whipped butter that melts into the skin and locks in moisture for a full day.",
		Ingredients: []string{"Ghee", "Saffron", "Almond Oil", "Rose Water"},
		Usage:       "Apply a pea-sized amount to damp skin and massage gently.",
		Storage:     "Keep refrigerated; the formula carries zero preservatives.",
		Packaging:   "Reusable glass jar. Repurpose for storage or return for refills.",
		SkinType:    "All Skin Types",
		Image:       "https://images.unsplash.com/photo-1620916566398-39f1143ab7be?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID:          "herbal-face-toner",
		Name:        "Herbal Face Toner",
		Category:    "skincare",
		Price:       210,
		Volume:      "130 ml",
		Badge:       "Natural • Organic • Reusable Spray Bottle",
		Description: "A refreshing mist of active botanicals that balances and hydrates in one pass.",
		Ingredients: []string{"Rose Hydrosol", "Witch Hazel", "Lavender Extract"},
		Usage:       "Mist over face and neck after cleansing and pat in gently.",
		Storage:     "Refrigerate for peak potency and a cooling effect.",
		Packaging:   "Reusable glass spray bottle.",
		SkinType:    "All Skin Types",
		Image:       "https://images.unsplash.com/photo-1601049541289-9b1b7bbbfe19?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID:          "citrus-sugar-scrub",
		Name:        "Citrus Sugar Scrub",
		Category:    "skincare",
		Price:       430,
		Weight:      "100g",
		Badge:       "Natural • Organic • Reusable Container",
		Description: "Gentle enough to exfoliate without irritation, hydrating enough to leave skin fresh and even-toned.",
		Ingredients: []string{"Sugar Cane", "Honey", "Lemon Zest", "Coconut Oil"},
		Usage:       "Massage onto damp skin in circular motions. Rinse with lukewarm water.",
		Storage:     "Keep in a cool place. Avoid letting water sit inside the jar.",
		Packaging:   "Reusable jar.",
		SkinType:    "All Skin Types",
		Image:       "https://images.unsplash.com/photo-1552046122-03184de85e08?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID:          "soy-candle-set",
		Name:        "Soy Candle Set",
		Category:    "coming-soon",
		Price:       0,
		Badge:       "Coming Soon",
		Description: "Hand-poured soy candles in reusable glass containers.",
		Ingredients: []string{"Soy Wax", "Essential Oils", "Cotton Wick"},
		Usage:       "Trim the wick to 1/4 inch before lighting.",
		Storage:     "Store in a cool, dry place away from direct sunlight.",
		Packaging:   "Reusable glass container.",
		SkinType:    "All Skin Types",
		Image:       "https://images.unsplash.com/photo-1602874801007-bd458bb1b8b6?auto=format&fit=crop&q=80&w=800",
	},
}

// FallbackCatalog returns a copy of the full fallback catalog.
func FallbackCatalog() []models.Product {
	out := make([]models.Product, len(fallbackCatalog))
	copy(out, fallbackCatalog)
	return out
}

// FilterFallback returns the fallback products whose category matches
// exactly. Empty or "all" means no filter.
func FilterFallback(category string) []models.Product {
	if category == "" || category == "all" {
		return FallbackCatalog()
	}
	out := make([]models.Product, 0, len(fallbackCatalog))
	for _, product := range fallbackCatalog {
		if product.Category == category {
			out = append(out, product)
		}
	}
	return out
}

// FindFallback resolves an identifier against the fallback catalog, by
// product id or by name-derived slug.
func FindFallback(identifier string) (*models.Product, bool) {
	for i := range fallbackCatalog {
		if fallbackCatalog[i].ID == identifier || slugify(fallbackCatalog[i].Name) == identifier {
			product := fallbackCatalog[i]
			return &product, true
		}
	}
	return nil, false
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
