// Package cart manages the remote shopping cart through a persisted cart
// identity. The remote cart is the single source of truth: after every
// mutation the full cart is re-read from the mutation payload and replaces
// any previous view wholesale.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"storefront-gateway/internal/commerce/catalog"
	"storefront-gateway/internal/commerce/graphql"
	"storefront-gateway/internal/commerce/schema"
	apperrors "storefront-gateway/internal/common/errors"
	"storefront-gateway/internal/common/logger"
	"storefront-gateway/internal/models"
	"storefront-gateway/internal/storage"
)

type Service struct {
	client  *graphql.Client
	store   storage.Store
	catalog *catalog.Service
	logger  logger.Logger
}

func New(client *graphql.Client, store storage.Store, cat *catalog.Service, log logger.Logger) *Service {
	return &Service{
		client:  client,
		store:   store,
		catalog: cat,
		logger:  log.WithFields(map[string]interface{}{"component": "cart"}),
	}
}

// GetCart returns the current cart. When no cart identity exists yet the
// result is an empty cart without any remote call. A cart id that the remote
// no longer recognizes is discarded and the empty cart returned.
func (s *Service) GetCart(ctx context.Context) (*models.Cart, error) {
	cartID, err := s.store.Get(ctx, storage.KeyCartID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &models.Cart{Lines: []models.CartLine{}}, nil
		}
		return nil, err
	}

	resp := s.client.Request(ctx, cartQuery, graphql.Options{
		Variables: map[string]interface{}{"cartId": cartID},
	})
	if resp.Failed() {
		return nil, resp.Err()
	}

	var payload struct {
		Cart json.RawMessage `json:"cart"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, apperrors.NewValidationError("cart: " + err.Error())
	}
	if len(payload.Cart) == 0 || string(payload.Cart) == "null" {
		// The remote expired or dropped the cart; forget the stale id.
		s.logger.Warn("stored cart no longer exists, resetting", map[string]interface{}{"cart_id": cartID})
		_ = s.store.Delete(ctx, storage.KeyCartID)
		return &models.Cart{Lines: []models.CartLine{}}, nil
	}

	return s.adopt(ctx, payload.Cart)
}

// AddLine adds a quantity of a product's variant to the cart. When variantID
// is empty the variant is resolved from the product's first size. A product
// with no resolvable variant is a deliberate no-op: the current cart is
// returned unchanged and no error is raised.
func (s *Service) AddLine(ctx context.Context, productID string, quantity int, variantID string) (*models.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	if variantID == "" {
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			s.logger.WithError(err).Warn("add-to-cart skipped, product not resolvable", map[string]interface{}{
				"product_id": productID,
			})
			return s.GetCart(ctx)
		}
		if len(product.Sizes) == 0 {
			s.logger.Warn("add-to-cart skipped, product has no purchasable variant", map[string]interface{}{
				"product_id": productID,
			})
			return s.GetCart(ctx)
		}
		variantID = product.Sizes[0].ID
	}

	cartID, err := s.ensureCart(ctx)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, "cartLinesAdd", cartLinesAddMutation, map[string]interface{}{
		"cartId": cartID,
		"lines": []map[string]interface{}{
			{"merchandiseId": variantID, "quantity": quantity},
		},
	})
}

// UpdateLine sets the quantity of an existing cart line. A quantity of zero
// removes the line.
func (s *Service) UpdateLine(ctx context.Context, lineID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, lineID)
	}

	cartID, err := s.requireCart(ctx)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, "cartLinesUpdate", cartLinesUpdateMutation, map[string]interface{}{
		"cartId": cartID,
		"lines": []map[string]interface{}{
			{"id": lineID, "quantity": quantity},
		},
	})
}

// RemoveLine deletes a cart line.
func (s *Service) RemoveLine(ctx context.Context, lineID string) (*models.Cart, error) {
	cartID, err := s.requireCart(ctx)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, "cartLinesRemove", cartLinesRemoveMutation, map[string]interface{}{
		"cartId":  cartID,
		"lineIds": []string{lineID},
	})
}

// AssociateWithCustomer attaches the stored customer token to the cart so
// checkout starts signed in. Association is best effort: any failure is
// logged and swallowed because the cart itself remains fully usable.
func (s *Service) AssociateWithCustomer(ctx context.Context) {
	token, err := s.store.Get(ctx, storage.KeyCustomerToken)
	if err != nil {
		return
	}
	cartID, err := s.store.Get(ctx, storage.KeyCartID)
	if err != nil {
		return
	}

	resp := s.client.Request(ctx, cartBuyerIdentityUpdateMutation, graphql.Options{
		Variables: map[string]interface{}{
			"cartId":        cartID,
			"buyerIdentity": map[string]interface{}{"customerAccessToken": token},
		},
	})
	if resp.Failed() {
		s.logger.WithError(resp.Err()).Warn("cart association failed", map[string]interface{}{
			"cart_id": cartID,
		})
	}
}

// CheckoutURL returns the last persisted checkout URL, empty when no cart
// has been created yet.
func (s *Service) CheckoutURL(ctx context.Context) string {
	url, err := s.store.Get(ctx, storage.KeyCheckoutURL)
	if err != nil {
		return ""
	}
	return url
}

// ensureCart returns the persisted cart id, creating a remote cart lazily on
// first use. A stored customer token is attached at creation time.
func (s *Service) ensureCart(ctx context.Context) (string, error) {
	cartID, err := s.store.Get(ctx, storage.KeyCartID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}

	input := map[string]interface{}{}
	if token, err := s.store.Get(ctx, storage.KeyCustomerToken); err == nil && token != "" {
		input["buyerIdentity"] = map[string]interface{}{"customerAccessToken": token}
	}

	cart, err := s.mutate(ctx, "cartCreate", cartCreateMutation, map[string]interface{}{"input": input})
	if err != nil {
		return "", err
	}
	return cart.ID, nil
}

// requireCart is ensureCart for operations that only make sense against an
// existing cart.
func (s *Service) requireCart(ctx context.Context) (string, error) {
	cartID, err := s.store.Get(ctx, storage.KeyCartID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperrors.NewBusinessError("no active cart")
		}
		return "", err
	}
	return cartID, nil
}

// mutate runs one cart mutation and adopts the returned cart as the new
// authoritative state. Cart operations are never cached.
func (s *Service) mutate(ctx context.Context, field, mutation string, variables map[string]interface{}) (*models.Cart, error) {
	resp := s.client.Request(ctx, mutation, graphql.Options{Variables: variables})
	if resp.Failed() {
		return nil, resp.Err()
	}

	var payload map[string]struct {
		Cart       json.RawMessage `json:"cart"`
		UserErrors []struct {
			Message string `json:"message"`
		} `json:"userErrors"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, apperrors.NewValidationError("cart: " + err.Error())
	}

	result, ok := payload[field]
	if !ok {
		return nil, apperrors.NewValidationError("cart: missing " + field + " in response")
	}
	if len(result.UserErrors) > 0 {
		return nil, apperrors.NewBusinessError(result.UserErrors[0].Message)
	}

	return s.adopt(ctx, result.Cart)
}

// adopt validates a raw cart payload, persists its identity and checkout URL
// and maps it into the internal shape.
func (s *Service) adopt(ctx context.Context, raw json.RawMessage) (*models.Cart, error) {
	verified, err := schema.ValidateCart(raw)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, storage.KeyCartID, verified.ID); err != nil {
		return nil, err
	}
	if verified.CheckoutURL != "" {
		if err := s.store.Set(ctx, storage.KeyCheckoutURL, verified.CheckoutURL); err != nil {
			return nil, err
		}
	}

	return mapVerifiedCart(verified), nil
}

func mapVerifiedCart(verified *schema.VerifiedCart) *models.Cart {
	cart := &models.Cart{
		ID:          verified.ID,
		CheckoutURL: verified.CheckoutURL,
		Lines:       make([]models.CartLine, 0, len(verified.Lines.Nodes)),
	}

	for _, node := range verified.Lines.Nodes {
		line := models.CartLine{
			ID:           node.ID,
			Quantity:     node.Quantity,
			VariantID:    node.Merchandise.ID,
			VariantTitle: node.Merchandise.Title,
			ProductTitle: node.Merchandise.Product.Title,
		}
		if node.Merchandise.Price != nil {
			if price, err := strconv.ParseFloat(node.Merchandise.Price.Amount, 64); err == nil {
				line.Price = price
			}
		}
		if nodes := node.Merchandise.Product.Images.Nodes; len(nodes) > 0 {
			line.Image = nodes[0].URL
		}
		cart.Lines = append(cart.Lines, line)
	}

	return cart
}
