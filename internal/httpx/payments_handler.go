package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hariansyahfajrin/mart-api/internal/payments"
)

type StripeGateway interface {
	CreatePaymentSheet(ctx context.Context, req payments.StripeRequest) (*payments.PaymentSheet, error)
}

type MidtransGateway interface {
	CreateTransaction(ctx context.Context, req payments.MidtransRequest) (*payments.SnapTransaction, error)
	TransactionStatus(ctx context.Context, orderID string) (string, error)
}

// PaymentsHandler relays gateway tokens back to the caller; provider
// protocol details stay inside the gateway clients.
type PaymentsHandler struct {
	Stripe   StripeGateway
	Midtrans MidtransGateway
}

func (h *PaymentsHandler) Register(r *chi.Mux) {
	r.Route("/payment", func(r chi.Router) {
		r.Post("/stripe", h.stripe)
		r.Post("/midtrans", h.midtrans)
		r.Post("/midtrans/status", h.midtransStatus)
	})
}

func (h *PaymentsHandler) stripe(w http.ResponseWriter, r *http.Request) {
	var req payments.StripeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	sheet, err := h.Stripe.CreatePaymentSheet(ctx, req)
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Payment sheet created successfully.", sheet)
}

func (h *PaymentsHandler) midtrans(w http.ResponseWriter, r *http.Request) {
	var req payments.MidtransRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	tx, err := h.Midtrans.CreateTransaction(ctx, req)
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Transaction created successfully.", tx)
}

func (h *PaymentsHandler) midtransStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.OrderID == "" {
		fail(w, http.StatusBadRequest, "Order ID is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	status, err := h.Midtrans.TransactionStatus(ctx, req.OrderID)
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Success", map[string]string{"status": status})
}
