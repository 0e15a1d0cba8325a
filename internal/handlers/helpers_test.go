package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"stockmana/internal/auth"
	"stockmana/internal/logging"
	"stockmana/internal/middleware"
	"stockmana/internal/models"
	"stockmana/internal/repository"
	"stockmana/internal/services"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []services.EmailMessage
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg services.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubImages struct {
	err error
}

func (s stubImages) Upload(_ context.Context, img services.ImageUpload) (models.ProductImage, error) {
	if s.err != nil {
		return models.ProductImage{}, s.err
	}
	return models.ProductImage{FileName: img.FileName, FilePath: "https://cdn.test/" + img.FileName, FileType: img.ContentType, FileSize: "1 B"}, nil
}

var testCookie = CookieConfig{Name: "token", Secure: true, TTL: 24 * time.Hour}

type testEnv struct {
	store  repository.Store
	tokens *auth.TokenService
	mailer *recordingMailer
	router http.Handler
}

func newTestEnv(t *testing.T, store repository.Store, images services.ImageStore) *testEnv {
	t.Helper()
	log := logging.Nop()
	tokens := auth.NewTokenService(auth.Config{Secret: "test", SessionTTL: 24 * time.Hour, ResetTTL: 30 * time.Minute}, store.PasswordResets())
	mailer := &recordingMailer{}
	accounts := services.NewAccountService(store, tokens, mailer, services.AccountConfig{
		FrontendURL: "http://front.test",
		BcryptCost:  bcrypt.MinCost,
	}, log)

	authH := NewAuthHandler(accounts, testCookie, log)
	userH := NewUserHandler(accounts, log)
	productH := NewProductHandler(services.NewProductService(store, images, log), log)
	contactH := NewContactHandler(services.NewContactService(mailer, "support@test", log), log)
	gate := middleware.RequireAuth(testCookie.Name, tokens, store.Users(), log)

	r := chi.NewRouter()
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
		r.Get("/log-out", authH.Logout)
		r.Get("/login-status", authH.LoginStatus)
		r.Post("/forgot-password", authH.ForgotPassword)
		r.Put("/reset-password/{resetToken}", authH.ResetPassword)
		r.With(gate).Get("/get-user", userH.GetUser)
		r.With(gate).Patch("/update-profile", userH.UpdateProfile)
		r.With(gate).Patch("/change-password", userH.ChangePassword)
	})
	r.Route("/api/products", func(r chi.Router) {
		r.Use(gate)
		r.Post("/", productH.CreateProduct)
		r.Get("/", productH.ListProducts)
		r.Delete("/", productH.DeleteProducts)
		r.Get("/{id}", productH.GetProduct)
		r.Patch("/{id}", productH.UpdateProduct)
		r.Delete("/{id}", productH.DeleteProduct)
	})
	r.With(gate).Post("/api/contact-us", contactH.ContactUs)

	return &testEnv{store: store, tokens: tokens, mailer: mailer, router: r}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// registerUser registers an account and returns its session cookie and id.
func (e *testEnv) registerUser(t *testing.T, email string) (*http.Cookie, string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/users/register", map[string]string{"username": "a", "email": email, "password": "secret1"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	data := resp["data"].(map[string]any)
	return sessionCookie(t, w), data["id"].(string)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie.Name {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", testCookie.Name)
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, w.Body.String())
	}
	return resp
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d (%s)", status, w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["success"] != false {
		t.Fatalf("expected success=false, got %v", resp)
	}
	if message != "" && resp["message"] != message {
		t.Fatalf("expected message %q, got %v", message, resp["message"])
	}
}
