package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/hariansyahfajrin/mart-api/internal/orders"
	"github.com/hariansyahfajrin/mart-api/internal/redisx"
)

type OrderService interface {
	Create(ctx context.Context, in orders.CreateInput) (*orders.Order, error)
	Get(ctx context.Context, id string) (*orders.Order, error)
	List(ctx context.Context) ([]orders.Order, error)
	ListByUser(ctx context.Context, userID string) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, id string, status orders.Status, trackingURL string) (*orders.Order, error)
	Delete(ctx context.Context, id string) error
}

type OrdersHandler struct {
	Svc   OrderService
	Redis *redis.Client
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/user/{userID}", h.listByUser)
		r.Get("/{id}", h.get)
		r.Get("/{id}/status", h.getStatus)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type updateOrderReq struct {
	OrderStatus string `json:"orderStatus"`
	TrackingURL string `json:"trackingUrl"`
}

// statusCache is the cached slice of an order servable without a DB trip.
type statusCache struct {
	Status      orders.Status `json:"status"`
	TrackingURL string        `json:"tracking_url,omitempty"`
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in orders.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Create(ctx, in)
	if err != nil {
		failErr(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	ok(w, "Order created successfully.", o)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Svc.Get(ctx, id)
	if err != nil {
		failErr(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	ok(w, "Order retrieved successfully.", o)
}

// getStatus answers from the redis cache when it can and falls back to the
// store, refilling the cache on the way out.
func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, id)
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			ok(w, "Order status retrieved successfully.", json.RawMessage(s))
			return
		}
	}

	o, err := h.Svc.Get(ctx, id)
	if err != nil {
		failErr(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	ok(w, "Order status retrieved successfully.", statusCache{Status: o.Status, TrackingURL: o.TrackingURL})
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	os, err := h.Svc.List(ctx)
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Orders retrieved successfully.", os)
}

func (h *OrdersHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	os, err := h.Svc.ListByUser(ctx, userID)
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Orders retrieved successfully.", os)
}

func (h *OrdersHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.OrderStatus == "" {
		fail(w, http.StatusBadRequest, "Order Status is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.UpdateStatus(ctx, id, orders.Status(req.OrderStatus), req.TrackingURL)
	if err != nil {
		failErr(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	ok(w, "Order updated successfully.", o)
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Delete(ctx, id); err != nil {
		failErr(w, err)
		return
	}
	if h.Redis != nil {
		_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderStatus, id)).Err()
	}
	ok(w, "Order deleted successfully.", nil)
}

// cacheStatus is best effort; a cache miss just costs a DB read next time.
func (h *OrdersHandler) cacheStatus(ctx context.Context, o *orders.Order) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	b, err := json.Marshal(statusCache{Status: o.Status, TrackingURL: o.TrackingURL})
	if err != nil {
		return
	}
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
}
