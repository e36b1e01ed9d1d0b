// Package schema is the defensive layer between raw remote payloads and the
// internal data model. Records are checked structurally (required fields and
// types only) before they are trusted; a record that fails stays out of the
// application entirely.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "storefront-gateway/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// VerifiedProduct is a raw remote product that passed structural validation.
// Field shapes mirror the remote API subset the gateway depends on.
type VerifiedProduct struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	Description string `json:"description"`
	PriceRange  struct {
		MinVariantPrice Money `json:"minVariantPrice"`
	} `json:"priceRange"`
	Images struct {
		Nodes []Image `json:"nodes"`
	} `json:"images"`

	// Custom attributes, all nullable.
	Ingredients *Metafield `json:"ingredients"`
	Usage       *Metafield `json:"usage"`
	Storage     *Metafield `json:"storage"`
	Packaging   *Metafield `json:"packaging"`
	SkinType    *Metafield `json:"skinType"`
	Badge       *Metafield `json:"badge"`
	Weight      *Metafield `json:"weight"`
	Volume      *Metafield `json:"volume"`
	Category    *Metafield `json:"category"`

	Variants *struct {
		Nodes []Variant `json:"nodes"`
	} `json:"variants"`
}

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode,omitempty"`
}

type Image struct {
	URL     string  `json:"url"`
	AltText *string `json:"altText,omitempty"`
}

// Metafield is a single custom attribute; the value itself may be null.
type Metafield struct {
	Value *string `json:"value"`
}

type Variant struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Price            *Money `json:"price,omitempty"`
	AvailableForSale *bool  `json:"availableForSale,omitempty"`
}

// VerifiedCart is a raw remote cart that passed structural validation.
type VerifiedCart struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Lines       struct {
		Nodes []VerifiedCartLine `json:"nodes"`
	} `json:"lines"`
}

type VerifiedCartLine struct {
	ID          string `json:"id"`
	Quantity    int    `json:"quantity"`
	Merchandise struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Price   *Money `json:"price,omitempty"`
		Product struct {
			ID     string `json:"id,omitempty"`
			Title  string `json:"title"`
			Handle string `json:"handle,omitempty"`
			Images struct {
				Nodes []Image `json:"nodes"`
			} `json:"images"`
		} `json:"product"`
	} `json:"merchandise"`
}

// Rejection explains why one record was dropped. Title identifies the record
// in logs; remote payloads are duck-typed so even the title may be absent.
type Rejection struct {
	Title   string
	Reasons []string
}

func (r *Rejection) String() string {
	title := r.Title
	if title == "" {
		title = "<untitled>"
	}
	return fmt.Sprintf("%s: %s", title, strings.Join(r.Reasons, "; "))
}

const productSchemaJSON = `{
  "type": "object",
  "required": ["id", "title", "handle", "description", "priceRange", "images"],
  "properties": {
    "id": {"type": "string"},
    "title": {"type": "string"},
    "handle": {"type": "string"},
    "description": {"type": "string"},
    "priceRange": {
      "type": "object",
      "required": ["minVariantPrice"],
      "properties": {"minVariantPrice": {"$ref": "#/definitions/money"}}
    },
    "images": {
      "type": "object",
      "required": ["nodes"],
      "properties": {
        "nodes": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["url"],
            "properties": {
              "url": {"type": "string", "format": "uri"},
              "altText": {"type": ["string", "null"]}
            }
          }
        }
      }
    },
    "ingredients": {"$ref": "#/definitions/metafield"},
    "usage": {"$ref": "#/definitions/metafield"},
    "storage": {"$ref": "#/definitions/metafield"},
    "packaging": {"$ref": "#/definitions/metafield"},
    "skinType": {"$ref": "#/definitions/metafield"},
    "badge": {"$ref": "#/definitions/metafield"},
    "weight": {"$ref": "#/definitions/metafield"},
    "volume": {"$ref": "#/definitions/metafield"},
    "category": {"$ref": "#/definitions/metafield"},
    "variants": {
      "type": ["object", "null"],
      "properties": {
        "nodes": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id", "title"],
            "properties": {
              "id": {"type": "string"},
              "title": {"type": "string"},
              "price": {"$ref": "#/definitions/money"},
              "availableForSale": {"type": "boolean"}
            }
          }
        }
      }
    }
  },
  "definitions": {
    "money": {
      "type": "object",
      "required": ["amount"],
      "properties": {
        "amount": {"type": "string"},
        "currencyCode": {"type": "string"}
      }
    },
    "metafield": {
      "type": ["object", "null"],
      "required": ["value"],
      "properties": {"value": {"type": ["string", "null"]}}
    }
  }
}`

const cartSchemaJSON = `{
  "type": "object",
  "required": ["id", "checkoutUrl", "lines"],
  "properties": {
    "id": {"type": "string"},
    "checkoutUrl": {"type": "string", "format": "uri"},
    "lines": {
      "type": "object",
      "required": ["nodes"],
      "properties": {
        "nodes": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id", "quantity", "merchandise"],
            "properties": {
              "id": {"type": "string"},
              "quantity": {"type": "integer"},
              "merchandise": {
                "type": "object",
                "required": ["id", "title", "product"],
                "properties": {
                  "id": {"type": "string"},
                  "title": {"type": "string"},
                  "product": {
                    "type": "object",
                    "required": ["title"],
                    "properties": {"title": {"type": "string"}}
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

var (
	productSchema = mustCompile(productSchemaJSON)
	cartSchema    = mustCompile(cartSchemaJSON)
)

func mustCompile(doc string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("schema: invalid embedded schema: %v", err))
	}
	return schema
}

// ValidateProduct checks one raw product record. Invalid records return a
// Rejection for logging; they never reach the internal model. Applied
// per-record: one bad record in a batch does not fail its neighbors.
func ValidateProduct(raw json.RawMessage) (*VerifiedProduct, *Rejection) {
	reasons := check(productSchema, raw)
	if len(reasons) > 0 {
		return nil, &Rejection{Title: titleOf(raw), Reasons: reasons}
	}

	var product VerifiedProduct
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, &Rejection{Title: titleOf(raw), Reasons: []string{err.Error()}}
	}
	return &product, nil
}

// ValidateProductStrict is the fetch-by-id variant: with no partial result
// to salvage, a shape mismatch is an error for the caller.
func ValidateProductStrict(raw json.RawMessage) (*VerifiedProduct, error) {
	product, rejection := ValidateProduct(raw)
	if rejection != nil {
		return nil, apperrors.NewValidationError(rejection.String())
	}
	return product, nil
}

// ValidateCart checks the authoritative cart state returned by every cart
// read and mutation. Always strict: a malformed cart cannot be partially
// trusted.
func ValidateCart(raw json.RawMessage) (*VerifiedCart, error) {
	if reasons := check(cartSchema, raw); len(reasons) > 0 {
		return nil, apperrors.NewValidationError("cart: " + strings.Join(reasons, "; "))
	}

	var cart VerifiedCart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, apperrors.NewValidationError("cart: " + err.Error())
	}
	return &cart, nil
}

func check(schema *gojsonschema.Schema, raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{"record is empty"}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return []string{err.Error()}
	}
	if result.Valid() {
		return nil
	}

	reasons := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		reasons = append(reasons, desc.String())
	}
	return reasons
}

// titleOf pulls the identifying title out of an arbitrary raw record for
// rejection logs.
func titleOf(raw json.RawMessage) string {
	var probe struct {
		Title string `json:"title"`
		ID    string `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	if probe.Title != "" {
		return probe.Title
	}
	return probe.ID
}
