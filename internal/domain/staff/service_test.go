package staff

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medsyn/console/internal/platform/gateway"
	"github.com/medsyn/console/pkg/pagination"
)

type staticTokens struct{}

func (staticTokens) Token() string { return "tok" }

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(gateway.New(gateway.Options{
		APIURL:     srv.URL,
		HospitalID: "hosp-1",
		Tokens:     staticTokens{},
		Logger:     zerolog.Nop(),
	}))
}

func TestList(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/staff/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": ListData{
				Staff:      []Profile{{UserID: "u1", FirstName: "Meera", Role: "nurse"}},
				TotalCount: 1,
			},
		})
	})

	data, err := svc.List(context.Background(), pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Staff) != 1 || data.Staff[0].Role != "nurse" {
		t.Errorf("unexpected listing: %+v", data)
	}
}

func TestRegister_ValidatesRole(t *testing.T) {
	called := false
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	_, err := svc.Register(context.Background(), RegisterForm{
		FirstName: "Meera",
		LastName:  "Nair",
		Email:     "meera@medsyn.test",
		Password:  "longenough",
		Role:      "janitor",
	})
	if err == nil {
		t.Fatal("expected role validation error")
	}
	if called {
		t.Error("invalid form must not reach the network")
	}
}

func TestRegister(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/create" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    Profile{UserID: "u2", FirstName: "Meera", Role: "nurse"},
		})
	})

	created, err := svc.Register(context.Background(), RegisterForm{
		FirstName: "Meera",
		LastName:  "Nair",
		Email:     "meera@medsyn.test",
		Password:  "longenough",
		Role:      "nurse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != "u2" {
		t.Errorf("expected created profile, got %+v", created)
	}
}

func TestGet(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/staff/u1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    Profile{UserID: "u1", FirstName: "Meera", Role: "nurse"},
		})
	})

	profile, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.FirstName != "Meera" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestUpdate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/update-profile" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var profile Profile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			t.Fatalf("decode profile: %v", err)
		}
		if profile.UserID != "u1" || profile.Role != "doctor" {
			t.Errorf("unexpected body %+v", profile)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": profile})
	})

	updated, err := svc.Update(context.Background(), Profile{UserID: "u1", FirstName: "Meera", Role: "doctor"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Role != "doctor" {
		t.Errorf("unexpected profile: %+v", updated)
	}
}
