package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/foodkart/backend/internal/auth"
	"github.com/foodkart/backend/internal/cart"
	"github.com/foodkart/backend/internal/catalog"
	"github.com/foodkart/backend/internal/entity"
	"github.com/foodkart/backend/internal/orderview"
	"github.com/foodkart/backend/internal/repository"
	"github.com/foodkart/backend/internal/service"
)

// SubscriberFactory builds a fresh status-feed subscriber for one viewer.
// Each order stream needs its own subscriber so viewers don't split a
// consumer group between them.
type SubscriberFactory func() (message.Subscriber, error)

// Handler handles HTTP requests for the storefront.
type Handler struct {
	menu      *catalog.Catalog
	carts     *cart.Registry
	provider  auth.Provider
	orders    *service.Orders
	orderRepo repository.OrderRepository
	newSub    SubscriberFactory
}

func NewHandler(menu *catalog.Catalog, carts *cart.Registry, provider auth.Provider,
	orders *service.Orders, orderRepo repository.OrderRepository, newSub SubscriberFactory) *Handler {
	return &Handler{
		menu:      menu,
		carts:     carts,
		provider:  provider,
		orders:    orders,
		orderRepo: orderRepo,
		newSub:    newSub,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/menu", h.handleGetMenu)

	mux.HandleFunc("POST /api/auth/signup", h.handleSignUp)
	mux.HandleFunc("POST /api/auth/signin", h.handleSignIn)
	mux.HandleFunc("POST /api/auth/signout", h.handleSignOut)

	mux.HandleFunc("GET /api/cart", h.handleGetCart)
	mux.HandleFunc("POST /api/cart/items/{id}", h.handleAddToCart)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.handleRemoveFromCart)

	mux.HandleFunc("POST /api/orders", h.handleCheckout)
	mux.HandleFunc("GET /api/orders", h.handleGetOrders)
	mux.HandleFunc("GET /api/orders/stream", h.handleOrderStream)

	mux.HandleFunc("GET /api/admin/orders", h.handleAdminGetOrders)
	mux.HandleFunc("PUT /api/admin/orders/{id}/status", h.handleAdminSetStatus)
}

func (h *Handler) handleGetMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.menu.Items())
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	identity, err := h.provider.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, identity)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	if err := h.provider.SignOut(r.Context(), token); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type cartResponse struct {
	Items       map[string]int `json:"items"`
	TotalItems  int            `json:"total_items"`
	TotalAmount int64          `json:"total_amount"`
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var resp cartResponse
	h.carts.With(session.Token, func(c *cart.Cart) {
		resp = cartResponse{
			Items:       c.Items(),
			TotalItems:  c.TotalItems(),
			TotalAmount: c.TotalAmount(),
		}
	})
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	itemID := r.PathValue("id")
	if _, found := h.menu.Lookup(itemID); !found {
		http.Error(w, "unknown menu item", http.StatusNotFound)
		return
	}

	var resp cartResponse
	h.carts.With(session.Token, func(c *cart.Cart) {
		c.Add(itemID)
		resp = cartResponse{Items: c.Items(), TotalItems: c.TotalItems(), TotalAmount: c.TotalAmount()}
	})
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	itemID := r.PathValue("id")
	var resp cartResponse
	h.carts.With(session.Token, func(c *cart.Cart) {
		c.Remove(itemID)
		resp = cartResponse{Items: c.Items(), TotalItems: c.TotalItems(), TotalAmount: c.TotalAmount()}
	})
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var details service.CheckoutDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var order *entity.Order
	var err error
	h.carts.With(session.Token, func(c *cart.Cart) {
		order, err = h.orders.Place(r.Context(), session.UserID, c, details)
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ForUser(r.Context(), session.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// handleOrderStream serves the live order view over server-sent events: the
// full list once, then one event per status change. The subscription is torn
// down when the client disconnects.
func (h *Handler) handleOrderStream(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub, err := h.newSub()
	if err != nil {
		slog.Error("Failed to create feed subscriber", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer sub.Close()

	feed, err := orderview.OpenFeed(r.Context(), session.UserID, h.orderRepo, sub)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer feed.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	writeSSE(w, "orders", feed.Orders())
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-feed.Updates():
			if !open {
				return
			}
			writeSSE(w, "status", event)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}

func (h *Handler) handleAdminGetOrders(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.All(r.Context(), session.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

type setStatusRequest struct {
	Status entity.Status `json:"status"`
}

func (h *Handler) handleAdminSetStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	orderID := r.PathValue("id")
	if err := h.orders.SetStatus(r.Context(), session.UserID, orderID, req.Status); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order_id": orderID,
		"status":   req.Status,
	})
}

func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (*auth.Session, bool) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return nil, false
	}
	session, err := h.provider.Session(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			http.Error(w, "not signed in", http.StatusUnauthorized)
		} else {
			slog.Error("Failed to resolve session", "err", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return nil, false
	}
	return session, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrNoSession),
		errors.Is(err, service.ErrNotSignedIn):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrNotAdmin):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, auth.ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrMissingField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("Request failed", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// EnableCORS is a middleware to allow the web frontend to connect.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
