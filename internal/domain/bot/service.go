// Package bot is the chatbot client: multipart queries against the
// assistant API and the conversation transcript.
package bot

import (
	"context"

	"github.com/medsyn/console/internal/platform/gateway"
)

type Service struct {
	client     *gateway.Client
	transcript *Transcript
}

func NewService(client *gateway.Client) *Service {
	return &Service{client: client, transcript: NewTranscript()}
}

func (s *Service) Transcript() *Transcript {
	return s.transcript
}

// Ask sends one query to the assistant. The request is always multipart:
// the query text, the optional patient scope, and the optional attached
// document. Both sides of the exchange land in the transcript; a failed
// request records nothing.
func (s *Service) Ask(ctx context.Context, q Query) (Message, error) {
	if err := q.Validate(); err != nil {
		return Message{}, err
	}

	form := gateway.NewMultipartForm().AddField("query", q.Text)
	if q.PatientID != "" {
		form.AddField("patientId", q.PatientID)
	}
	if len(q.Content) > 0 {
		form.AddFile("file", q.FileName, q.Content)
	}

	env, err := gateway.PostBotMultipart[gateway.Envelope[Reply]](ctx, s.client, gateway.EndpointBotUserQuery, form)
	if err != nil {
		return Message{}, err
	}
	reply, err := env.Unwrap(gateway.EndpointBotUserQuery, "assistant query failed")
	if err != nil {
		return Message{}, err
	}

	s.transcript.Append(RoleUser, q.Text, q.PatientID, q.FileName)
	return s.transcript.Append(RoleAssistant, reply.Answer, reply.PatientID, ""), nil
}
