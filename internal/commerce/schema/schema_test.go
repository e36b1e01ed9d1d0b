package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "storefront-gateway/internal/common/errors"
)

func validProductJSON() string {
	return `{
		"id": "gid://shop/Product/1",
		"title": "Botanical Hair Oil",
		"handle": "botanical-hair-oil",
		"description": "A nourishing oil.",
		"priceRange": {"minVariantPrice": {"amount": "780.0", "currencyCode": "INR"}},
		"images": {"nodes": [{"url": "https://cdn.example.com/oil.jpg", "altText": null}]},
		"ingredients": {"value": "Sesame Oil, Almond Oil"},
		"badge": null,
		"variants": {"nodes": [{"id": "gid://shop/ProductVariant/11", "title": "50 ml", "price": {"amount": "420.0"}}]}
	}`
}

func TestValidateProductAccepts(t *testing.T) {
	product, rejection := ValidateProduct(json.RawMessage(validProductJSON()))

	require.Nil(t, rejection)
	require.NotNil(t, product)
	assert.Equal(t, "Botanical Hair Oil", product.Title)
	assert.Equal(t, "780.0", product.PriceRange.MinVariantPrice.Amount)
	require.NotNil(t, product.Ingredients)
	assert.Equal(t, "Sesame Oil, Almond Oil", *product.Ingredients.Value)
	assert.Nil(t, product.Badge)
	require.NotNil(t, product.Variants)
	assert.Len(t, product.Variants.Nodes, 1)
}

func TestValidateProductRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing title", `{"id": "1", "handle": "h", "description": "d", "priceRange": {"minVariantPrice": {"amount": "1"}}, "images": {"nodes": []}}`},
		{"price amount wrong type", `{"id": "1", "title": "T", "handle": "h", "description": "d", "priceRange": {"minVariantPrice": {"amount": 780}}, "images": {"nodes": []}}`},
		{"missing images", `{"id": "1", "title": "T", "handle": "h", "description": "d", "priceRange": {"minVariantPrice": {"amount": "1"}}}`},
		{"null record", `null`},
		{"empty record", ``},
		{"metafield without value", `{"id": "1", "title": "T", "handle": "h", "description": "d", "priceRange": {"minVariantPrice": {"amount": "1"}}, "images": {"nodes": []}, "badge": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, rejection := ValidateProduct(json.RawMessage(tt.raw))
			assert.Nil(t, product)
			require.NotNil(t, rejection)
			assert.NotEmpty(t, rejection.Reasons)
		})
	}
}

func TestValidateProductRejectionCarriesTitle(t *testing.T) {
	_, rejection := ValidateProduct(json.RawMessage(`{"title": "Broken Soap"}`))
	require.NotNil(t, rejection)
	assert.Contains(t, rejection.String(), "Broken Soap")

	_, rejection = ValidateProduct(json.RawMessage(`{"id": "x"}`))
	require.NotNil(t, rejection)
	assert.Contains(t, rejection.String(), "x")

	_, rejection = ValidateProduct(json.RawMessage(`{}`))
	require.NotNil(t, rejection)
	assert.Contains(t, rejection.String(), "<untitled>")
}

func TestValidateProductStrictReturnsValidationError(t *testing.T) {
	_, err := ValidateProductStrict(json.RawMessage(`{"title": "Broken"}`))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	product, err := ValidateProductStrict(json.RawMessage(validProductJSON()))
	require.NoError(t, err)
	assert.Equal(t, "Botanical Hair Oil", product.Title)
}

func TestValidateCart(t *testing.T) {
	raw := `{
		"id": "gid://shop/Cart/1",
		"checkoutUrl": "https://shop.example.com/checkout/1",
		"lines": {"nodes": [{
			"id": "gid://shop/CartLine/1",
			"quantity": 2,
			"merchandise": {
				"id": "gid://shop/ProductVariant/11",
				"title": "50 ml",
				"price": {"amount": "420.0"},
				"product": {"title": "Botanical Hair Oil", "images": {"nodes": [{"url": "https://cdn.example.com/oil.jpg"}]}}
			}
		}]}
	}`

	cart, err := ValidateCart(json.RawMessage(raw))
	require.NoError(t, err)
	assert.Equal(t, "gid://shop/Cart/1", cart.ID)
	require.Len(t, cart.Lines.Nodes, 1)
	assert.Equal(t, 2, cart.Lines.Nodes[0].Quantity)
	assert.Equal(t, "Botanical Hair Oil", cart.Lines.Nodes[0].Merchandise.Product.Title)
}

func TestValidateCartRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing checkoutUrl", `{"id": "c1", "lines": {"nodes": []}}`},
		{"line without merchandise", `{"id": "c1", "checkoutUrl": "https://x", "lines": {"nodes": [{"id": "l1", "quantity": 1}]}}`},
		{"quantity wrong type", `{"id": "c1", "checkoutUrl": "https://x", "lines": {"nodes": [{"id": "l1", "quantity": "2", "merchandise": {"id": "v", "title": "t", "product": {"title": "p"}}}]}}`},
		{"null cart", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateCart(json.RawMessage(tt.raw))
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		})
	}
}
