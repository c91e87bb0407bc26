package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medsyn/console/internal/platform/gateway"
)

type staticTokens struct{}

func (staticTokens) Token() string { return "tok" }

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(gateway.New(gateway.Options{
		APIURL:     srv.URL,
		BotAPIURL:  srv.URL,
		HospitalID: "hosp-1",
		Tokens:     staticTokens{},
		Logger:     zerolog.Nop(),
	}))
}

func TestAsk(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/medsyn-consumer/api/bot/user-query" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("query") != "summarize recent labs" {
			t.Errorf("unexpected query %q", r.FormValue("query"))
		}
		if r.FormValue("patientId") != "p1" {
			t.Errorf("unexpected patientId %q", r.FormValue("patientId"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    Reply{Answer: "CBC and CMP within normal limits.", PatientID: "p1"},
		})
	})

	reply, err := svc.Ask(context.Background(), Query{Text: "summarize recent labs", PatientID: "p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Role != RoleAssistant || !strings.Contains(reply.Text, "normal limits") {
		t.Errorf("unexpected reply: %+v", reply)
	}

	msgs := svc.Transcript().Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected both turns recorded, got %d", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[1].Role != RoleAssistant {
		t.Errorf("unexpected transcript order: %+v", msgs)
	}
}

func TestAsk_WithAttachment(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		if header.Filename != "labs.pdf" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    Reply{Answer: "The attached report shows improvement."},
		})
	})

	if _, err := svc.Ask(context.Background(), Query{
		Text:     "what does this report say",
		FileName: "labs.pdf",
		Content:  []byte("%PDF-1.4"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Transcript().Messages()[0].FileName != "labs.pdf" {
		t.Error("expected attachment recorded on the user turn")
	}
}

func TestAsk_FailureRecordsNothing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "assistant unavailable"})
	})

	if _, err := svc.Ask(context.Background(), Query{Text: "hello"}); err == nil {
		t.Fatal("expected error")
	}
	if svc.Transcript().Len() != 0 {
		t.Error("failed exchange must not land in the transcript")
	}
}

func TestAsk_RejectsEmptyQuery(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty query must not reach the network")
	})
	if _, err := svc.Ask(context.Background(), Query{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestTranscriptExport(t *testing.T) {
	tr := NewTranscript()
	tr.Append(RoleUser, "hello", "p1", "")
	tr.Append(RoleAssistant, "hi there", "", "")

	var text bytes.Buffer
	if err := tr.ExportText(&text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text.String(), "user: hello") || !strings.Contains(text.String(), "assistant: hi there") {
		t.Errorf("unexpected text export: %q", text.String())
	}

	var raw bytes.Buffer
	if err := tr.ExportJSON(&raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded []Message
	if err := json.Unmarshal(raw.Bytes(), &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Text != "hello" {
		t.Errorf("unexpected JSON export: %+v", decoded)
	}

	tr.Clear()
	if tr.Len() != 0 {
		t.Error("expected cleared transcript")
	}
}
