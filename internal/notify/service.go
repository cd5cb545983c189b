package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/hariansyahfajrin/mart-api/internal/kafka"
	"github.com/hariansyahfajrin/mart-api/internal/orders"
	"github.com/hariansyahfajrin/mart-api/internal/redisx"
	"github.com/hariansyahfajrin/mart-api/internal/users"
)

type UserGetter interface {
	Get(ctx context.Context, id string) (*users.User, error)
}

// Service turns order lifecycle events into customer emails.
type Service struct {
	Users  UserGetter
	Mailer users.Mailer
	Redis  *redis.Client
	Log    *zap.Logger
}

// HandleOrderEvent is wired as the kafka consumer handler.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}

	// dedup on event_id so redeliveries don't double-send; the key is only
	// written after the event is handled, so a failed send stays retriable
	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, "notify", env.EventID)
		if ok, _ := redisx.Exists(ctx, s.Redis, dkey); ok {
			return nil
		}
		if err := s.handle(ctx, env); err != nil {
			return err
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
		return nil
	}
	return s.handle(ctx, env)
}

func (s *Service) handle(ctx context.Context, env orders.Envelope) error {
	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		body := fmt.Sprintf("Your order %s has been placed. Total: %.2f.\n", p.OrderID, p.OrderTotal)
		return s.send(ctx, p.UserID, "Order confirmation", body)

	case orders.EventOrderCancelled:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		body := fmt.Sprintf("Your order %s has been cancelled and the items returned to stock.\n", p.OrderID)
		return s.send(ctx, p.UserID, "Order cancelled", body)

	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		body := fmt.Sprintf("Your order %s is now %q.", p.OrderID, p.Status)
		if p.TrackingURL != "" {
			body += " Track it at " + p.TrackingURL + "."
		}
		return s.send(ctx, p.UserID, "Order update", body+"\n")
	}
	return nil // unknown event types are ignored
}

func (s *Service) send(ctx context.Context, userID, subject, body string) error {
	u, err := s.Users.Get(ctx, userID)
	if errors.Is(err, users.ErrNotFound) {
		// the user was deleted since; nothing to notify
		s.Log.Warn("notify: user gone, skipping", zap.String("user_id", userID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user %s: %w", userID, err)
	}
	if err := s.Mailer.Send(ctx, u.Email, subject, body); err != nil {
		return err
	}
	s.Log.Info("notification sent", zap.String("user_id", userID), zap.String("subject", subject))
	return nil
}
