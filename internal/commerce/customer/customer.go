// Package customer handles account auth against the remote storefront. The
// access token is the only persisted credential; passwords are forwarded
// once and never stored.
package customer

import (
	"context"
	"encoding/json"
	"errors"

	"storefront-gateway/internal/commerce/graphql"
	apperrors "storefront-gateway/internal/common/errors"
	"storefront-gateway/internal/common/logger"
	"storefront-gateway/internal/storage"
)

// Profile is the signed-in customer's identity subset exposed to callers.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Service struct {
	client *graphql.Client
	store  storage.Store
	logger logger.Logger
}

func New(client *graphql.Client, store storage.Store, log logger.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "customer"}),
	}
}

// Login exchanges credentials for an access token and persists it. Wrong
// credentials surface as a business error carrying the remote message.
func (s *Service) Login(ctx context.Context, email, password string) (*Profile, error) {
	resp := s.client.Request(ctx, tokenCreateMutation, graphql.Options{
		Variables: map[string]interface{}{
			"input": map[string]interface{}{"email": email, "password": password},
		},
	})
	if resp.Failed() {
		return nil, resp.Err()
	}

	var payload struct {
		TokenCreate struct {
			CustomerAccessToken *struct {
				AccessToken string `json:"accessToken"`
			} `json:"customerAccessToken"`
			CustomerUserErrors []struct {
				Message string `json:"message"`
			} `json:"customerUserErrors"`
		} `json:"customerAccessTokenCreate"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, apperrors.NewValidationError("customer: " + err.Error())
	}
	if len(payload.TokenCreate.CustomerUserErrors) > 0 {
		return nil, apperrors.NewBusinessError(payload.TokenCreate.CustomerUserErrors[0].Message)
	}
	if payload.TokenCreate.CustomerAccessToken == nil {
		return nil, apperrors.NewAuthError("invalid credentials")
	}

	token := payload.TokenCreate.CustomerAccessToken.AccessToken
	if err := s.store.Set(ctx, storage.KeyCustomerToken, token); err != nil {
		return nil, err
	}

	s.logger.Info("customer signed in", map[string]interface{}{"email": email})
	return s.CurrentProfile(ctx)
}

// Register creates an account and signs the customer in immediately.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (*Profile, error) {
	resp := s.client.Request(ctx, customerCreateMutation, graphql.Options{
		Variables: map[string]interface{}{
			"input": map[string]interface{}{
				"email":     email,
				"password":  password,
				"firstName": firstName,
				"lastName":  lastName,
			},
		},
	})
	if resp.Failed() {
		return nil, resp.Err()
	}

	var payload struct {
		CustomerCreate struct {
			Customer           *Profile `json:"customer"`
			CustomerUserErrors []struct {
				Message string `json:"message"`
			} `json:"customerUserErrors"`
		} `json:"customerCreate"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, apperrors.NewValidationError("customer: " + err.Error())
	}
	if len(payload.CustomerCreate.CustomerUserErrors) > 0 {
		return nil, apperrors.NewBusinessError(payload.CustomerCreate.CustomerUserErrors[0].Message)
	}
	if payload.CustomerCreate.Customer == nil {
		return nil, apperrors.NewBusinessError("account could not be created")
	}

	s.logger.Info("customer registered", map[string]interface{}{"email": email})
	return s.Login(ctx, email, password)
}

// CurrentProfile resolves the stored token into the customer profile. A
// missing or rejected token is an auth error; the rejected token is dropped
// so callers are not stuck retrying it.
func (s *Service) CurrentProfile(ctx context.Context) (*Profile, error) {
	token, err := s.store.Get(ctx, storage.KeyCustomerToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewAuthError("not signed in")
		}
		return nil, err
	}

	resp := s.client.Request(ctx, customerQuery, graphql.Options{
		Variables: map[string]interface{}{"customerAccessToken": token},
	})
	if resp.Failed() {
		return nil, resp.Err()
	}

	var payload struct {
		Customer *Profile `json:"customer"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, apperrors.NewValidationError("customer: " + err.Error())
	}
	if payload.Customer == nil {
		_ = s.store.Delete(ctx, storage.KeyCustomerToken)
		return nil, apperrors.NewAuthError("session expired")
	}

	return payload.Customer, nil
}

// Logout invalidates the remote token and clears the stored one. The remote
// invalidation is best effort; the local state is cleared regardless.
func (s *Service) Logout(ctx context.Context) error {
	token, err := s.store.Get(ctx, storage.KeyCustomerToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	resp := s.client.Request(ctx, tokenDeleteMutation, graphql.Options{
		Variables: map[string]interface{}{"customerAccessToken": token},
	})
	if resp.Failed() {
		s.logger.WithError(resp.Err()).Warn("remote token invalidation failed", nil)
	}

	return s.store.Delete(ctx, storage.KeyCustomerToken)
}
