package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hariansyahfajrin/mart-api/internal/users"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*users.User, error)
	Login(ctx context.Context, name, password string) (*users.User, error)
	Update(ctx context.Context, id, name, password string) (*users.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Get(ctx context.Context, id string) (*users.User, error)
	List(ctx context.Context) ([]users.User, error)
	Delete(ctx context.Context, id string) error
}

type UsersHandler struct {
	Svc UserService
}

func (h *UsersHandler) Register(r *chi.Mux) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/forgot-password", h.forgotPassword)
		r.Post("/reset-password/{token}", h.resetPassword)
	})
}

type credentialsReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	us, err := h.Svc.List(ctx)
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Users retrieved successfully.", us)
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "User retrieved successfully.", u)
}

func (h *UsersHandler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.Password == "" || req.Email == "" {
		fail(w, http.StatusBadRequest, "Name, password, and email are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password); err != nil {
		failErr(w, err)
		return
	}
	ok(w, "User created successfully.", nil)
}

func (h *UsersHandler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Svc.Login(ctx, req.Name, req.Password)
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Login successful.", u)
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, "Name and password are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Svc.Update(ctx, chi.URLParam(r, "id"), req.Name, req.Password)
	if err != nil {
		failErr(w, err)
		return
	}
	ok(w, "User updated successfully.", u)
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		failErr(w, err)
		return
	}
	ok(w, "User deleted successfully.", nil)
}

func (h *UsersHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" {
		fail(w, http.StatusBadRequest, "Email is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Svc.ForgotPassword(ctx, req.Email); err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Password reset email sent.", nil)
}

func (h *UsersHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.NewPassword == "" {
		fail(w, http.StatusBadRequest, "New password is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.ResetPassword(ctx, chi.URLParam(r, "token"), req.NewPassword); err != nil {
		failErr(w, err)
		return
	}
	ok(w, "Password has been reset.", nil)
}
