package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/hariansyahfajrin/mart-api/internal/inventory"
	kafkax "github.com/hariansyahfajrin/mart-api/internal/kafka"
)

type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status, trackingURL string) (*Order, error)
	Delete(ctx context.Context, id string) (*Order, error)
}

type Ledger interface {
	Reserve(ctx context.Context, items []inventory.Item) error
	Release(ctx context.Context, items []inventory.Item) error
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Service drives the order lifecycle: validate, persist, reconcile stock
// through the ledger, publish events.
type Service struct {
	Store       Store
	Ledger      Ledger
	Producer    Publisher
	ServiceName string
	Log         *zap.Logger
}

type CreateInput struct {
	UserID          string     `json:"userID"`
	Items           []LineItem `json:"items"`
	TotalPrice      float64    `json:"totalPrice"`
	ShippingAddress Address    `json:"shippingAddress"`
	PaymentMethod   string     `json:"paymentMethod"`
	CouponCode      string     `json:"couponCode"`
	OrderTotal      float64    `json:"orderTotal"`
	TrackingURL     string     `json:"trackingUrl"`
}

func (in CreateInput) validate() error {
	switch {
	case in.UserID == "":
		return &ValidationError{Field: "userID"}
	case len(in.Items) == 0:
		return &ValidationError{Field: "items"}
	case in.TotalPrice == 0:
		return &ValidationError{Field: "totalPrice"}
	case in.ShippingAddress == (Address{}):
		return &ValidationError{Field: "shippingAddress"}
	case in.PaymentMethod == "":
		return &ValidationError{Field: "paymentMethod"}
	case in.OrderTotal == 0:
		return &ValidationError{Field: "orderTotal"}
	}
	return nil
}

// Create reserves stock for every line item before the order row is written,
// so a failed reservation leaves no order behind and no quantity touched.
// If the write itself fails the reservation is compensated.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	items := toLedgerItems(in.Items)
	if err := s.Ledger.Reserve(ctx, items); err != nil {
		return nil, err
	}

	o := &Order{
		UserID:          in.UserID,
		Items:           in.Items,
		Status:          StatusPlaced,
		TotalPrice:      in.TotalPrice,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		CouponCode:      in.CouponCode,
		OrderTotal:      in.OrderTotal,
		TrackingURL:     in.TrackingURL,
	}
	if err := s.Store.Create(ctx, o); err != nil {
		if rerr := s.Ledger.Release(ctx, items); rerr != nil {
			s.Log.Error("compensating release failed", zap.Error(rerr), zap.String("user_id", in.UserID))
		}
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.publish(EventOrderCreated, o.ID, OrderCreatedPayload{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Items:      o.Items,
		OrderTotal: o.OrderTotal,
	})
	s.Log.Info("order created", zap.String("order_id", o.ID), zap.String("user_id", o.UserID))
	return o, nil
}

// UpdateStatus accepts any status string; legal transitions are not
// enforced. Stock is released only on the transition into "cancelled" from a
// non-cancelled state, so repeating the cancellation cannot release twice.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status, trackingURL string) (*Order, error) {
	prev, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	o, err := s.Store.UpdateStatus(ctx, id, status, trackingURL)
	if err != nil {
		return nil, err
	}

	if status.Cancelled() && !prev.Status.Cancelled() {
		if err := s.Ledger.Release(ctx, toLedgerItems(o.Items)); err != nil {
			return nil, fmt.Errorf("release stock: %w", err)
		}
		s.publish(EventOrderCancelled, o.ID, OrderStatusChangedPayload{
			OrderID: o.ID, UserID: o.UserID, Status: o.Status,
		})
		s.Log.Info("order cancelled", zap.String("order_id", o.ID))
		return o, nil
	}

	s.publish(EventOrderStatusChanged, o.ID, OrderStatusChangedPayload{
		OrderID: o.ID, UserID: o.UserID, Status: o.Status, TrackingURL: o.TrackingURL,
	})
	return o, nil
}

// Delete removes the order and returns its stock, unless a cancellation
// already did.
func (s *Service) Delete(ctx context.Context, id string) error {
	o, err := s.Store.Delete(ctx, id)
	if err != nil {
		return err
	}

	if !o.Status.Cancelled() {
		if err := s.Ledger.Release(ctx, toLedgerItems(o.Items)); err != nil {
			return fmt.Errorf("release stock: %w", err)
		}
	}

	s.publish(EventOrderDeleted, o.ID, OrderDeletedPayload{OrderID: o.ID, UserID: o.UserID})
	s.Log.Info("order deleted", zap.String("order_id", o.ID))
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.Store.List(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.Store.ListByUser(ctx, userID)
}

func (s *Service) publish(eventType, orderID string, payload any) {
	if s.Producer == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	s.Producer.Publish(PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func toLedgerItems(items []LineItem) []inventory.Item {
	out := make([]inventory.Item, 0, len(items))
	for _, it := range items {
		out = append(out, inventory.Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}
