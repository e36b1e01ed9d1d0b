// Package catalog exposes the product read operations consumed by UI
// collaborators. Every operation degrades to the local fallback catalog
// instead of surfacing availability failures.
package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"storefront-gateway/internal/commerce/graphql"
	"storefront-gateway/internal/commerce/schema"
	"storefront-gateway/internal/common/config"
	apperrors "storefront-gateway/internal/common/errors"
	"storefront-gateway/internal/common/logger"
	"storefront-gateway/internal/common/metrics"
	"storefront-gateway/internal/models"
)

// remoteIDPrefix distinguishes opaque remote identifiers from
// human-readable handles.
const remoteIDPrefix = "gid://"

// minSearchLength is the shortest term treated as meaningful input.
const minSearchLength = 2

// maxSearchResults bounds the predictive search result set.
const maxSearchResults = 5

type Service struct {
	client     *graphql.Client
	productTTL time.Duration
	searchTTL  time.Duration
	logger     logger.Logger
}

func New(client *graphql.Client, cacheCfg config.CacheConfig, log logger.Logger) *Service {
	return &Service{
		client:     client,
		productTTL: config.GetDuration(cacheCfg.ProductTTL),
		searchTTL:  config.GetDuration(cacheCfg.SearchTTL),
		logger:     log.WithFields(map[string]interface{}{"component": "catalog"}),
	}
}

// ListProducts returns the catalog, optionally filtered by category. It
// never fails: a remote failure or a batch with zero valid records serves
// the fallback catalog instead. The two causes are logged distinctly even
// though the recovery is the same.
func (s *Service) ListProducts(ctx context.Context, category string) []models.Product {
	filter := ""
	if category != "" && category != "all" {
		filter = "tag:" + category
	}

	resp := s.client.Request(ctx, listProductsQuery, graphql.Options{
		Variables: map[string]interface{}{"query": filter},
		CacheTTL:  s.productTTL,
	})
	if resp.Failed() {
		return s.serveFallback("list", category, "remote call failed", resp.Err())
	}

	nodes, err := decodeNodes(resp.Data, "products")
	if err != nil {
		return s.serveFallback("list", category, "malformed response", err)
	}

	products := s.validateAndMap(nodes)
	if len(products) == 0 {
		return s.serveFallback("list", category, "no valid products in response", nil)
	}
	return products
}

// GetProduct fetches a single product by opaque remote identifier or by
// handle. Strict validation applies: any failure falls back to resolving
// the identifier against the local catalog before reporting not-found.
func (s *Service) GetProduct(ctx context.Context, identifier string) (*models.Product, error) {
	query := productByHandleQuery
	variables := map[string]interface{}{"handle": identifier}
	dataKey := "productByHandle"
	if strings.HasPrefix(identifier, remoteIDPrefix) {
		query = productByIDQuery
		variables = map[string]interface{}{"id": identifier}
		dataKey = "product"
	}

	resp := s.client.Request(ctx, query, graphql.Options{
		Variables: variables,
		CacheTTL:  s.productTTL,
	})

	if !resp.Failed() {
		var payload map[string]json.RawMessage
		if err := json.Unmarshal(resp.Data, &payload); err == nil {
			if node, ok := payload[dataKey]; ok && len(node) > 0 && string(node) != "null" {
				verified, err := schema.ValidateProductStrict(node)
				if err == nil {
					product := mapVerifiedProduct(verified)
					return &product, nil
				}
				s.logger.WithError(err).Warn("strict validation failed for product", map[string]interface{}{
					"identifier": identifier,
				})
			}
		}
	}

	if product, ok := FindFallback(identifier); ok {
		metrics.CatalogFallbacksTotal.WithLabelValues("get").Inc()
		s.logger.Warn("serving fallback product", map[string]interface{}{"identifier": identifier})
		return product, nil
	}

	return nil, apperrors.NewNotFoundError(identifier)
}

// SearchProducts runs a prefix-style predictive search. Terms under two
// characters are not-yet-meaningful input and short-circuit to an empty
// result without a network call. Failures also yield an empty result; search
// never serves fallback data.
func (s *Service) SearchProducts(ctx context.Context, term string) []models.Product {
	term = strings.TrimSpace(term)
	if len(term) < minSearchLength {
		return []models.Product{}
	}

	filter := "title:" + term + "* OR product_type:" + term + "*"
	resp := s.client.Request(ctx, searchProductsQuery, graphql.Options{
		Variables: map[string]interface{}{"query": filter},
		CacheTTL:  s.searchTTL,
	})
	if resp.Failed() {
		s.logger.WithError(resp.Err()).Warn("search failed", map[string]interface{}{"term": term})
		return []models.Product{}
	}

	nodes, err := decodeNodes(resp.Data, "products")
	if err != nil {
		s.logger.WithError(err).Warn("malformed search response", map[string]interface{}{"term": term})
		return []models.Product{}
	}

	products := s.validateAndMap(nodes)
	if len(products) > maxSearchResults {
		products = products[:maxSearchResults]
	}
	return products
}

// validateAndMap applies relaxed per-record validation: each invalid record
// is dropped with a logged reason while the rest of the batch proceeds.
func (s *Service) validateAndMap(nodes []json.RawMessage) []models.Product {
	products := make([]models.Product, 0, len(nodes))
	for _, raw := range nodes {
		verified, rejection := schema.ValidateProduct(raw)
		if rejection != nil {
			metrics.ValidationRejectionsTotal.Inc()
			s.logger.Warn("dropping invalid product", map[string]interface{}{
				"record": rejection.String(),
			})
			continue
		}
		products = append(products, mapVerifiedProduct(verified))
	}
	return products
}

func (s *Service) serveFallback(operation, category, reason string, err error) []models.Product {
	metrics.CatalogFallbacksTotal.WithLabelValues(operation).Inc()
	fields := map[string]interface{}{"reason": reason}
	if category != "" {
		fields["category"] = category
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	s.logger.Warn("serving fallback catalog", fields)
	return FilterFallback(category)
}

func decodeNodes(data json.RawMessage, key string) ([]json.RawMessage, error) {
	var payload map[string]struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload[key].Nodes, nil
}
