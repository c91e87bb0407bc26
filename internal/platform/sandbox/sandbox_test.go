package sandbox

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medsyn/console/internal/config"
	"github.com/medsyn/console/internal/domain/auth"
	"github.com/medsyn/console/internal/domain/bot"
	"github.com/medsyn/console/internal/domain/dietplan"
	"github.com/medsyn/console/internal/domain/healthevent"
	"github.com/medsyn/console/internal/domain/patient"
	"github.com/medsyn/console/internal/domain/staff"
	"github.com/medsyn/console/internal/domain/summary"
	"github.com/medsyn/console/internal/domain/therapy"
	"github.com/medsyn/console/internal/platform/gateway"
	"github.com/medsyn/console/internal/platform/session"
	"github.com/medsyn/console/pkg/pagination"
)

var testKeys = config.StorageKeys{
	Token:        "medsyn_test_auth_token",
	RefreshToken: "medsyn_test_refresh_token",
	UserProfile:  "medsyn_test_user_profile",
}

func startSandbox(t *testing.T) (*gateway.Client, *session.Session) {
	t.Helper()
	e := echo.New()
	New().Register(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	sess := session.New(session.NewMemoryStore(), testKeys)
	client := gateway.New(gateway.Options{
		APIURL:     srv.URL,
		BotAPIURL:  srv.URL,
		HospitalID: "hosp-1",
		Tokens:     sess,
		Logger:     zerolog.Nop(),
	})
	return client, sess
}

func signin(t *testing.T, client *gateway.Client, sess *session.Session) {
	t.Helper()
	svc := auth.NewService(client, sess, zerolog.Nop())
	if _, err := svc.Login(context.Background(), auth.Credentials{
		Email:    "doc@medsyn.test",
		Password: "sandbox123",
	}); err != nil {
		t.Fatalf("sandbox signin: %v", err)
	}
}

func TestSignin_RejectsBadCredentials(t *testing.T) {
	client, sess := startSandbox(t)
	svc := auth.NewService(client, sess, zerolog.Nop())
	_, err := svc.Login(context.Background(), auth.Credentials{
		Email:    "doc@medsyn.test",
		Password: "wrong-password",
	})
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
}

func TestUnauthenticatedRequestsGet401(t *testing.T) {
	client, _ := startSandbox(t)
	svc := patient.NewService(client)
	_, err := svc.List(context.Background(), pagination.Params{Page: 1, Limit: 10}, "")
	if err == nil {
		t.Fatal("expected 401 before signin")
	}
}

func TestPatientRoster(t *testing.T) {
	client, sess := startSandbox(t)
	signin(t, client, sess)

	svc := patient.NewService(client)
	data, err := svc.List(context.Background(), pagination.Params{Page: 1, Limit: 10}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Patients) != 3 {
		t.Errorf("expected seeded roster, got %d patients", len(data.Patients))
	}

	filtered, err := svc.List(context.Background(), pagination.Params{Page: 1, Limit: 10}, "asha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered.Patients) != 1 || filtered.Patients[0].FirstName != "Asha" {
		t.Errorf("unexpected search result: %+v", filtered.Patients)
	}
}

func TestEventLifecycle(t *testing.T) {
	client, sess := startSandbox(t)
	signin(t, client, sess)

	svc := healthevent.NewService(client)
	created, err := svc.Add(context.Background(), healthevent.Event{
		HealthID:    "H1001",
		Type:        "therapy",
		Status:      "scheduled",
		Description: "Hydrotherapy session",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.EventID == "" {
		t.Fatal("expected backend-assigned event ID")
	}

	data, err := svc.List(context.Background(), "H1001", pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.TotalCount != 3 || data.Events[0].EventID != created.EventID {
		t.Errorf("expected created event first, got %+v", data.Events)
	}

	if err := svc.Delete(context.Background(), "H1001", created.EventID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ = svc.List(context.Background(), "H1001", pagination.Params{Page: 1, Limit: 10})
	if data.TotalCount != 2 {
		t.Errorf("expected event deleted, total %d", data.TotalCount)
	}
}

func TestDietPlanGeneration(t *testing.T) {
	client, sess := startSandbox(t)
	signin(t, client, sess)

	svc := dietplan.NewService(client)
	plan, err := svc.Generate(context.Background(), "H1001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	week := dietplan.MapWeek(plan.Entries)
	monday, _ := week.DayByName("monday")
	if len(monday.Meals[dietplan.SlotBreakfast].Foods) == 0 {
		t.Error("expected generated breakfast slot filled")
	}
}

func TestSummaryPolling(t *testing.T) {
	client, sess := startSandbox(t)
	signin(t, client, sess)

	svc := summary.NewService(client)
	overview, err := svc.GenerateAndAwait(context.Background(), "H1001", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overview.IsProcessing || overview.Summary == "" {
		t.Errorf("expected finished summary, got %+v", overview)
	}
}

func TestBotQuery(t *testing.T) {
	client, sess := startSandbox(t)
	signin(t, client, sess)

	svc := bot.NewService(client)
	reply, err := svc.Ask(context.Background(), bot.Query{Text: "how is the patient doing", PatientID: "p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text == "" {
		t.Error("expected an answer")
	}
	if svc.Transcript().Len() != 2 {
		t.Error("expected both turns in the transcript")
	}
}

func TestStaffRegisterAndUpdate(t *testing.T) {
	client, sess := startSandbox(t)
	signin(t, client, sess)

	svc := staff.NewService(client)
	created, err := svc.Register(context.Background(), staff.RegisterForm{
		FirstName: "Nisha",
		LastName:  "Varma",
		Email:     "nisha@medsyn.test",
		Password:  "longenough",
		Role:      "nurse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID == "" {
		t.Fatal("expected backend-assigned user ID")
	}

	fetched, err := svc.Get(context.Background(), created.UserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched.Email != "nisha@medsyn.test" {
		t.Errorf("expected registered account fetched, got %+v", fetched)
	}

	fetched.Role = "doctor"
	updated, err := svc.Update(context.Background(), fetched)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Role != "doctor" {
		t.Errorf("expected role updated, got %+v", updated)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	client, sess := startSandbox(t)
	svc := auth.NewService(client, sess, zerolog.Nop())

	code, err := svc.ForgotPassword(context.Background(), "doc@medsyn.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code == "" {
		t.Fatal("expected a reset code")
	}
	if err := svc.ResetPassword(context.Background(), auth.PasswordReset{
		Email:    "doc@medsyn.test",
		Code:     code,
		Password: "fresh-password-1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Login(context.Background(), auth.Credentials{
		Email:    "doc@medsyn.test",
		Password: "sandbox123",
	}); err == nil {
		t.Fatal("expected the old password rejected")
	}
	if _, err := svc.Login(context.Background(), auth.Credentials{
		Email:    "doc@medsyn.test",
		Password: "fresh-password-1",
	}); err != nil {
		t.Fatalf("expected the new password accepted: %v", err)
	}
}

func TestPatientUpdate(t *testing.T) {
	client, sess := startSandbox(t)
	signin(t, client, sess)

	svc := patient.NewService(client)
	updated, err := svc.Update(context.Background(), "p1", patient.OnboardForm{
		FirstName:   "Asha",
		LastName:    "Menon-Iyer",
		DateOfBirth: "1984-02-11",
		Gender:      "female",
		Phone:       "9900112233",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.LastName != "Menon-Iyer" || updated.HealthID != "H1001" {
		t.Errorf("expected edits saved with identity kept, got %+v", updated)
	}
}

func TestInterventionUpdateAndVisitEdit(t *testing.T) {
	client, sess := startSandbox(t)
	signin(t, client, sess)

	svc := therapy.NewService(client)
	plan, err := svc.Interventions(context.Background(), "H1001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iv := plan.Interventions[0]
	iv.Status = therapy.StatusArchived
	updated, err := svc.UpdateIntervention(context.Background(), iv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != therapy.StatusArchived {
		t.Errorf("expected archived status saved, got %+v", updated)
	}
	if len(updated.Visits) == 0 {
		t.Error("expected the visit log kept through the update")
	}

	visit := updated.Visits[0]
	visit.Summary = "Revised summary"
	edited, err := svc.UpdateVisit(context.Background(), "H1001", visit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edited.Summary != "Revised summary" {
		t.Errorf("expected visit edit saved, got %+v", edited)
	}
}

func TestUnknownIDsGetFailureEnvelopes(t *testing.T) {
	client, sess := startSandbox(t)
	signin(t, client, sess)

	if _, err := patient.NewService(client).Get(context.Background(), "p999"); err == nil ||
		!strings.Contains(err.Error(), "patient not found") {
		t.Errorf("expected patient-not-found envelope message, got %v", err)
	}

	if _, err := healthevent.NewService(client).Update(context.Background(), healthevent.Event{
		HealthID: "H1001",
		EventID:  "no-such-event",
		Type:     "scan",
		Status:   "scheduled",
	}); err == nil || !strings.Contains(err.Error(), "event not found") {
		t.Errorf("expected event-not-found envelope message, got %v", err)
	}
}
