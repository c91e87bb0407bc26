package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medsyn/console/internal/config"
	"github.com/medsyn/console/internal/platform/gateway"
	"github.com/medsyn/console/internal/platform/session"
)

var testKeys = config.StorageKeys{
	Token:        "medsyn_test_auth_token",
	RefreshToken: "medsyn_test_refresh_token",
	UserProfile:  "medsyn_test_user_profile",
}

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *session.Session, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.New(session.NewMemoryStore(), testKeys)
	client := gateway.New(gateway.Options{
		APIURL:     srv.URL,
		HospitalID: "hosp-1",
		Tokens:     sess,
		Logger:     zerolog.Nop(),
	})
	return NewService(client, sess, zerolog.Nop()), sess, srv
}

func TestLogin_PersistsSession(t *testing.T) {
	svc, sess, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/signin" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode credentials: %v", err)
		}
		if creds.Email != "doc@medsyn.test" {
			t.Errorf("unexpected email %q", creds.Email)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": LoginData{
				User:         User{ID: "u1", FirstName: "Asha", Email: "doc@medsyn.test", Role: "doctor"},
				AccessToken:  "access-1",
				RefreshToken: "refresh-1",
			},
		})
	})

	user, err := svc.Login(context.Background(), Credentials{Email: "doc@medsyn.test", Password: "secret123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("expected signed-in user returned, got %+v", user)
	}
	if sess.Token() != "access-1" || sess.RefreshToken() != "refresh-1" {
		t.Error("expected token pair persisted")
	}
	if !svc.IsAuthenticated() {
		t.Error("expected authenticated after login")
	}
	current, err := svc.CurrentUser()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.FirstName != "Asha" {
		t.Errorf("expected cached profile, got %+v", current)
	}
}

func TestLogin_FailureLeavesSessionUntouched(t *testing.T) {
	svc, sess, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "invalid credentials",
		})
	})

	_, err := svc.Login(context.Background(), Credentials{Email: "doc@medsyn.test", Password: "wrong-pass"})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "invalid credentials" {
		t.Errorf("expected server message surfaced, got %v", err)
	}
	if sess.Token() != "" {
		t.Error("failed login must not persist a token")
	}
	if svc.IsAuthenticated() {
		t.Error("expected unauthenticated after failed login")
	}
}

func TestLogin_RejectsInvalidInputWithoutRequest(t *testing.T) {
	called := false
	svc, _, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	if _, err := svc.Login(context.Background(), Credentials{Email: "not-an-email", Password: "x"}); err == nil {
		t.Fatal("expected validation error")
	}
	if called {
		t.Error("validation failure must not reach the network")
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	svc, sess, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": LoginData{
				User:        User{ID: "u1"},
				AccessToken: "access-1",
			},
		})
	})
	if _, err := svc.Login(context.Background(), Credentials{Email: "doc@medsyn.test", Password: "secret123"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Logout(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Token() != "" || sess.RefreshToken() != "" {
		t.Error("expected credentials cleared")
	}
	if _, err := svc.CurrentUser(); err != session.ErrNotAuthenticated {
		t.Errorf("expected profile cleared, got %v", err)
	}
}

func TestProfile_RefreshesCachedCopy(t *testing.T) {
	svc, sess, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/signin":
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    LoginData{User: User{ID: "u1", FirstName: "Asha"}, AccessToken: "access-1"},
			})
		case "/auth/user-profile":
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    User{ID: "u1", FirstName: "Asha", Phone: "555-0101"},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	if _, err := svc.Login(context.Background(), Credentials{Email: "doc@medsyn.test", Password: "secret123"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, err := svc.Profile(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Phone != "555-0101" {
		t.Errorf("expected fresh profile, got %+v", user)
	}
	var cached User
	if err := sess.CurrentUser(&cached); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached.Phone != "555-0101" {
		t.Error("expected cached profile refreshed")
	}
}

func TestForgotPassword(t *testing.T) {
	svc, _, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/forgot-password" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["email"] != "doc@medsyn.test" {
			t.Errorf("unexpected body %v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": "code-1"})
	})

	code, err := svc.ForgotPassword(context.Background(), "doc@medsyn.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "code-1" {
		t.Errorf("unexpected code %q", code)
	}
}

func TestResetPassword(t *testing.T) {
	svc, _, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/reset-password" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	if err := svc.ResetPassword(context.Background(), PasswordReset{
		Email:    "doc@medsyn.test",
		Code:     "code-1",
		Password: "fresh-password-1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResetPassword_ValidatesBeforeRequest(t *testing.T) {
	called := false
	svc, _, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	if err := svc.ResetPassword(context.Background(), PasswordReset{Email: "doc@medsyn.test"}); err == nil {
		t.Fatal("expected validation error")
	}
	if called {
		t.Error("invalid reset must not reach the backend")
	}
}
