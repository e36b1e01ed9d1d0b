// Package http exposes the gateway's commerce operations as a JSON API.
package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront-gateway/internal/assistant"
	"storefront-gateway/internal/commerce/cart"
	"storefront-gateway/internal/commerce/catalog"
	"storefront-gateway/internal/commerce/customer"
	"storefront-gateway/internal/common/logger"
	"storefront-gateway/internal/common/observability"
)

type Handler struct {
	catalog   *catalog.Service
	cart      *cart.Service
	customer  *customer.Service
	assistant *assistant.Service
	logger    logger.Logger
}

func NewHandler(cat *catalog.Service, crt *cart.Service, cust *customer.Service, ast *assistant.Service, log logger.Logger) *Handler {
	return &Handler{
		catalog:   cat,
		cart:      crt,
		customer:  cust,
		assistant: ast,
		logger:    log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

// Router wires every route with the shared middleware chain.
func (h *Handler) Router(obs *observability.Observability) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{identifier}", h.getProduct)
	mux.HandleFunc("GET /api/search", h.searchProducts)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/lines", h.addCartLine)
	mux.HandleFunc("PUT /api/cart/lines/{id}", h.updateCartLine)
	mux.HandleFunc("DELETE /api/cart/lines/{id}", h.removeCartLine)
	mux.HandleFunc("POST /api/cart/associate", h.associateCart)

	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/logout", h.logout)
	mux.HandleFunc("GET /api/auth/profile", h.profile)

	mux.HandleFunc("POST /api/assistant/chat", h.chat)

	mux.HandleFunc("GET /healthz", h.health)
	mux.Handle("GET /metrics", promhttp.Handler())

	logging := WithLogging(h.logger, obs)
	return WithRequestID(logging(mux))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.ListProducts(r.Context(), r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), r.PathValue("identifier"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	result, err := h.cart.GetCart(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) addCartLine(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		VariantID string `json:"variantId"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.cart.AddLine(r.Context(), body.ProductID, body.Quantity, body.VariantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) updateCartLine(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.cart.UpdateLine(r.Context(), r.PathValue("id"), body.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) removeCartLine(w http.ResponseWriter, r *http.Request) {
	result, err := h.cart.RemoveLine(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) associateCart(w http.ResponseWriter, r *http.Request) {
	h.cart.AssociateWithCustomer(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	profile, err := h.customer.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	profile, err := h.customer.Register(r.Context(), body.Email, body.Password, body.FirstName, body.LastName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.customer.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.customer.CurrentProfile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := decodeBody(r, &body); err != nil || body.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	// Ground the reply in whatever catalog view is currently served,
	// fallback included.
	products := h.catalog.ListProducts(r.Context(), "")
	reply, err := h.assistant.Ask(r.Context(), body.Message, products)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
