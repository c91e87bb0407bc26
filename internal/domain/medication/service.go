// Package medication covers a patient's prescription list: searchable
// paginated listing, manual entry, edits, and extraction from scanned
// prescription documents.
package medication

import (
	"context"
	"net/url"

	"github.com/medsyn/console/internal/platform/gateway"
	"github.com/medsyn/console/pkg/pagination"
)

type Service struct {
	client *gateway.Client
}

func NewService(client *gateway.Client) *Service {
	return &Service{client: client}
}

// List fetches one page of a patient's medications. The listing route has
// no searchless variant; the backend treats the literal "null" segment as
// no filter.
func (s *Service) List(ctx context.Context, healthID string, params pagination.Params, search string) (ListData, error) {
	if search == "" {
		search = "null"
	}
	pathParams := params.PathParams()
	pathParams["healthId"] = healthID
	pathParams["search"] = url.PathEscape(search)
	endpoint, err := gateway.Resolve(gateway.EndpointMedicationList, pathParams)
	if err != nil {
		return ListData{}, err
	}
	env, err := gateway.Get[gateway.Envelope[ListData]](ctx, s.client, endpoint)
	if err != nil {
		return ListData{}, err
	}
	return env.Unwrap(endpoint, "medication list load failed")
}

// Add records a manually entered medication and returns the created record.
func (s *Service) Add(ctx context.Context, med Medication) (Medication, error) {
	if err := med.Validate(); err != nil {
		return Medication{}, err
	}
	if med.Source == "" {
		med.Source = SourceManual
	}
	env, err := gateway.Post[gateway.Envelope[Medication]](ctx, s.client, gateway.EndpointMedicationUpload, med)
	if err != nil {
		return Medication{}, err
	}
	return env.Unwrap(gateway.EndpointMedicationUpload, "medication create failed")
}

// Update saves edits to a medication and returns the updated record.
func (s *Service) Update(ctx context.Context, med Medication) (Medication, error) {
	if err := med.Validate(); err != nil {
		return Medication{}, err
	}
	endpoint, err := gateway.Resolve(gateway.EndpointMedicationUpdate, map[string]string{"healthId": med.HealthID})
	if err != nil {
		return Medication{}, err
	}
	env, err := gateway.Post[gateway.Envelope[Medication]](ctx, s.client, endpoint, med)
	if err != nil {
		return Medication{}, err
	}
	return env.Unwrap(endpoint, "medication update failed")
}

// UploadScan sends a prescription document for extraction and returns the
// medications the backend read out of it, already persisted with
// source "scanned".
func (s *Service) UploadScan(ctx context.Context, healthID, filename string, content []byte) (ScanResult, error) {
	form := gateway.NewMultipartForm().
		AddField("healthId", healthID).
		AddFile("file", filename, content)
	env, err := gateway.PostMultipart[gateway.Envelope[ScanResult]](ctx, s.client, gateway.EndpointMedicationUpload, form)
	if err != nil {
		return ScanResult{}, err
	}
	return env.Unwrap(gateway.EndpointMedicationUpload, "prescription scan failed")
}
