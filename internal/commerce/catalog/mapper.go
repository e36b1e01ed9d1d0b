package catalog

import (
	"encoding/json"
	"strconv"
	"strings"

	"storefront-gateway/internal/commerce/schema"
	"storefront-gateway/internal/models"
)

// Display defaults for records missing optional custom attributes.
const (
	defaultCategory = "coming-soon"
	defaultBadge    = "New"
	defaultSkinType = "All Skin Types"
	defaultSize     = "One Size"
)

// mapVerifiedProduct converts a validated remote record into the internal
// product shape.
func mapVerifiedProduct(node *schema.VerifiedProduct) models.Product {
	price, _ := strconv.ParseFloat(node.PriceRange.MinVariantPrice.Amount, 64)

	product := models.Product{
		ID:          node.ID,
		Name:        node.Title,
		Category:    metafieldOr(node.Category, defaultCategory),
		Price:       price,
		Weight:      metafieldOr(node.Weight, ""),
		Volume:      metafieldOr(node.Volume, ""),
		Badge:       metafieldOr(node.Badge, defaultBadge),
		Description: node.Description,
		Ingredients: parseIngredients(node.Ingredients),
		Usage:       metafieldOr(node.Usage, ""),
		Storage:     metafieldOr(node.Storage, ""),
		Packaging:   metafieldOr(node.Packaging, ""),
		SkinType:    metafieldOr(node.SkinType, defaultSkinType),
	}

	if len(node.Images.Nodes) > 0 {
		product.Image = node.Images.Nodes[0].URL
	}

	if node.Variants != nil {
		for _, variant := range node.Variants.Nodes {
			label := variant.Title
			if label == "Default Title" {
				label = defaultSize
			}
			variantPrice := price
			if variant.Price != nil {
				if parsed, err := strconv.ParseFloat(variant.Price.Amount, 64); err == nil {
					variantPrice = parsed
				}
			}
			product.Sizes = append(product.Sizes, models.Size{
				ID:    variant.ID,
				Label: label,
				Price: variantPrice,
			})
		}
	}

	return product
}

func metafieldOr(field *schema.Metafield, fallback string) string {
	if field == nil || field.Value == nil || *field.Value == "" {
		return fallback
	}
	return *field.Value
}

// parseIngredients accepts either a JSON string array or a comma-separated
// list, the two encodings the remote metafield has been seen to carry.
func parseIngredients(field *schema.Metafield) []string {
	if field == nil || field.Value == nil || *field.Value == "" {
		return []string{}
	}
	value := *field.Value

	if strings.Contains(value, "[") {
		var list []string
		if err := json.Unmarshal([]byte(value), &list); err == nil {
			return list
		}
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
