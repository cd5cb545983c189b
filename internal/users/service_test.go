package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockStore) GetByName(ctx context.Context, name string) (*User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockStore) GetByResetToken(ctx context.Context, token string) (*User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockStore) List(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockStore) Update(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	args := m.Called(ctx, id, token, expires)
	return args.Error(0)
}

func (m *MockStore) ResetPassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestService_Register_LowercasesAndHashes(t *testing.T) {
	store := new(MockStore)
	svc := &Service{Store: store, Mailer: new(MockMailer), Log: zap.NewNop()}
	ctx := context.Background()

	store.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
		return u.Name == "budi" && u.Email == "budi@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")) == nil
	})).Return(nil)

	u, err := svc.Register(ctx, "Budi", "Budi@Example.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "budi", u.Name)
	store.AssertExpectations(t)
}

func TestService_Login(t *testing.T) {
	store := new(MockStore)
	svc := &Service{Store: store, Mailer: new(MockMailer), Log: zap.NewNop()}
	ctx := context.Background()

	stored := &User{ID: "u1", Name: "budi", PasswordHash: hash(t, "secret123")}
	store.On("GetByName", ctx, "budi").Return(stored, nil)
	store.On("GetByName", ctx, "ghost").Return(nil, ErrNotFound)

	t.Run("success", func(t *testing.T) {
		u, err := svc.Login(ctx, "Budi", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "budi", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_ForgotPassword_MailsToken(t *testing.T) {
	store := new(MockStore)
	mailer := new(MockMailer)
	svc := &Service{Store: store, Mailer: mailer, Log: zap.NewNop()}
	ctx := context.Background()

	u := &User{ID: "u1", Email: "budi@example.com"}
	store.On("GetByEmail", ctx, "budi@example.com").Return(u, nil)

	var issued string
	store.On("SetResetToken", ctx, "u1", mock.MatchedBy(func(token string) bool {
		issued = token
		return len(token) == 5
	}), mock.AnythingOfType("time.Time")).Return(nil)

	mailer.On("Send", ctx, "budi@example.com", "Password Reset", mock.MatchedBy(func(body string) bool {
		return issued != "" && len(body) > 0
	})).Return(nil)

	err := svc.ForgotPassword(ctx, "Budi@Example.com")

	require.NoError(t, err)
	store.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestService_ResetPassword(t *testing.T) {
	store := new(MockStore)
	svc := &Service{Store: store, Mailer: new(MockMailer), Log: zap.NewNop()}
	ctx := context.Background()

	u := &User{ID: "u1"}
	store.On("GetByResetToken", ctx, "12345").Return(u, nil)
	store.On("GetByResetToken", ctx, "00000").Return(nil, ErrNotFound)
	store.On("ResetPassword", ctx, "u1", mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("newpass1")) == nil
	})).Return(nil)

	t.Run("valid token", func(t *testing.T) {
		require.NoError(t, svc.ResetPassword(ctx, "12345", "newpass1"))
	})

	t.Run("expired or unknown token", func(t *testing.T) {
		assert.ErrorIs(t, svc.ResetPassword(ctx, "00000", "newpass1"), ErrTokenInvalid)
	})
}

func TestNumericToken(t *testing.T) {
	for i := 0; i < 20; i++ {
		token, err := numericToken(5)
		require.NoError(t, err)
		require.Len(t, token, 5)
		assert.NotEqual(t, byte('0'), token[0])
		for _, c := range token {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}
