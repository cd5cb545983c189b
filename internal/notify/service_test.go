package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	kafkax "github.com/hariansyahfajrin/mart-api/internal/kafka"
	"github.com/hariansyahfajrin/mart-api/internal/orders"
	"github.com/hariansyahfajrin/mart-api/internal/users"
)

type MockUserGetter struct {
	mock.Mock
}

func (m *MockUserGetter) Get(ctx context.Context, id string) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func message(t *testing.T, eventType string, payload any) kafkago.Message {
	t.Helper()
	env := orders.Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "test",
		Payload:      kafkax.MustMarshal(payload),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandleOrderEvent_OrderCreated_SendsConfirmation(t *testing.T) {
	ug := new(MockUserGetter)
	mailer := new(MockMailer)
	svc := &Service{Users: ug, Mailer: mailer, Log: zap.NewNop()}
	ctx := context.Background()

	ug.On("Get", ctx, "u1").Return(&users.User{ID: "u1", Email: "budi@example.com"}, nil)
	mailer.On("Send", ctx, "budi@example.com", "Order confirmation", mock.Anything).Return(nil)

	m := message(t, orders.EventOrderCreated, orders.OrderCreatedPayload{
		OrderID: "o1", UserID: "u1", OrderTotal: 100,
	})

	require.NoError(t, svc.HandleOrderEvent(ctx, m))
	mailer.AssertExpectations(t)
}

func TestHandleOrderEvent_UnknownType_Ignored(t *testing.T) {
	ug := new(MockUserGetter)
	mailer := new(MockMailer)
	svc := &Service{Users: ug, Mailer: mailer, Log: zap.NewNop()}

	m := message(t, "SomethingElse", map[string]string{"x": "y"})

	require.NoError(t, svc.HandleOrderEvent(context.Background(), m))
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleOrderEvent_UserGone_NoError(t *testing.T) {
	ug := new(MockUserGetter)
	mailer := new(MockMailer)
	svc := &Service{Users: ug, Mailer: mailer, Log: zap.NewNop()}
	ctx := context.Background()

	ug.On("Get", ctx, "u1").Return(nil, users.ErrNotFound)

	m := message(t, orders.EventOrderCancelled, orders.OrderStatusChangedPayload{
		OrderID: "o1", UserID: "u1", Status: orders.StatusCancelled,
	})

	assert.NoError(t, svc.HandleOrderEvent(ctx, m))
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleOrderEvent_UserLookupFails_ReturnsError(t *testing.T) {
	ug := new(MockUserGetter)
	mailer := new(MockMailer)
	svc := &Service{Users: ug, Mailer: mailer, Log: zap.NewNop()}
	ctx := context.Background()

	boom := errors.New("connection reset")
	ug.On("Get", ctx, "u1").Return(nil, boom)

	m := message(t, orders.EventOrderCreated, orders.OrderCreatedPayload{
		OrderID: "o1", UserID: "u1", OrderTotal: 100,
	})

	// transient failures must surface so the message is redelivered
	assert.ErrorIs(t, svc.HandleOrderEvent(ctx, m), boom)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
