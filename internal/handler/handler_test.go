package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/charitymap/charitymap/internal/domain"
	internal_errors "github.com/charitymap/charitymap/internal/errors"
	mw "github.com/charitymap/charitymap/internal/middleware"
)

// --- Service mocks ---

type MockAuthService struct {
	MockLogin        func(creds domain.Credentials) (string, domain.PublicUser, error)
	MockRegister     func(reg domain.Registration) (string, domain.PublicUser, error)
	MockCurrentUser  func(id domain.UserId) (domain.PublicUser, error)
	MockCreateInvite func(email domain.Email) (domain.InviteToken, bool, error)
	MockVerifyInvite func(token string) (domain.Email, error)
}

func (m *MockAuthService) Login(creds domain.Credentials) (string, domain.PublicUser, error) {
	return m.MockLogin(creds)
}

func (m *MockAuthService) Register(reg domain.Registration) (string, domain.PublicUser, error) {
	return m.MockRegister(reg)
}

func (m *MockAuthService) CurrentUser(id domain.UserId) (domain.PublicUser, error) {
	return m.MockCurrentUser(id)
}

func (m *MockAuthService) CreateInvite(email domain.Email) (domain.InviteToken, bool, error) {
	return m.MockCreateInvite(email)
}

func (m *MockAuthService) VerifyInvite(token string) (domain.Email, error) {
	return m.MockVerifyInvite(token)
}

type MockEventService struct {
	MockList       func() ([]domain.Event, error)
	MockGet        func(id domain.EventId) (domain.Event, error)
	MockListByUser func(userId domain.UserId) ([]domain.Event, error)
	MockCreate     func(actor *domain.User, input domain.Event) (domain.Event, error)
	MockUpdate     func(actor *domain.User, id domain.EventId, patch domain.EventPatch) (domain.Event, error)
	MockDelete     func(actor *domain.User, id domain.EventId) error
}

func (m *MockEventService) List() ([]domain.Event, error) {
	return m.MockList()
}

func (m *MockEventService) Get(id domain.EventId) (domain.Event, error) {
	return m.MockGet(id)
}

func (m *MockEventService) ListByUser(userId domain.UserId) ([]domain.Event, error) {
	return m.MockListByUser(userId)
}

func (m *MockEventService) Create(actor *domain.User, input domain.Event) (domain.Event, error) {
	return m.MockCreate(actor, input)
}

func (m *MockEventService) Update(actor *domain.User, id domain.EventId, patch domain.EventPatch) (domain.Event, error) {
	return m.MockUpdate(actor, id, patch)
}

func (m *MockEventService) Delete(actor *domain.User, id domain.EventId) error {
	return m.MockDelete(actor, id)
}

// --- Helpers ---

func createRequest(t *testing.T, method, url string, body []byte) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, url, bytes.NewBuffer(body))
}

// injectUser mimics the auth middleware by putting a fixed user into the
// request context.
func injectUser(user *domain.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), mw.UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setupTestRouter(h *Handler, actor *domain.User) *chi.Mux {
	router := chi.NewRouter()

	router.Post("/auth/login", h.Login)
	router.Post("/auth/register", h.Register)
	router.Get("/auth/verify-invite/{token}", h.VerifyInvite)
	router.Get("/events", h.ListEvents)
	router.Get("/events/{id}", h.GetEvent)

	router.Group(func(r chi.Router) {
		r.Use(injectUser(actor))
		r.Get("/auth/me", h.Me)
		r.Post("/auth/create-invite", h.CreateInvite)
		r.Post("/events", h.CreateEvent)
		r.Put("/events/{id}", h.UpdateEvent)
		r.Delete("/events/{id}", h.DeleteEvent)
		r.Get("/my-events", h.MyEvents)
	})

	return router
}

func notFoundErr(message string) error {
	return &internal_errors.ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
}

func forbiddenErr(message string) error {
	return &internal_errors.ErrorWithStatusCode{Message: message, StatusCode: http.StatusForbidden}
}
