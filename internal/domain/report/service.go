// Package report covers patient document handling: multipart upload and
// the paginated report listing.
package report

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/medsyn/console/internal/platform/gateway"
	"github.com/medsyn/console/pkg/pagination"
)

// MaxUploadSize caps report uploads at 10 MB, matching the backend limit.
const MaxUploadSize = 10 << 20

type Service struct {
	client *gateway.Client
	http   *http.Client
}

func NewService(client *gateway.Client) *Service {
	return &Service{client: client, http: &http.Client{}}
}

// Upload attaches a document to a patient record and returns the created
// report entry.
func (s *Service) Upload(ctx context.Context, form UploadForm) (Report, error) {
	if err := form.Validate(); err != nil {
		return Report{}, err
	}
	if len(form.Content) > MaxUploadSize {
		return Report{}, fmt.Errorf("file exceeds the %d MB upload limit", MaxUploadSize>>20)
	}
	body := gateway.NewMultipartForm().
		AddField("healthId", form.HealthID).
		AddField("name", form.Name).
		AddField("type", form.Type).
		AddFile("file", form.FileName, form.Content)
	env, err := gateway.PostMultipart[gateway.Envelope[Report]](ctx, s.client, gateway.EndpointReportUpload, body)
	if err != nil {
		return Report{}, err
	}
	return env.Unwrap(gateway.EndpointReportUpload, "report upload failed")
}

// List fetches one page of a patient's reports.
func (s *Service) List(ctx context.Context, healthID string, params pagination.Params) (ListData, error) {
	pathParams := params.PathParams()
	pathParams["healthId"] = healthID
	endpoint, err := gateway.Resolve(gateway.EndpointReportList, pathParams)
	if err != nil {
		return ListData{}, err
	}
	env, err := gateway.Get[gateway.Envelope[ListData]](ctx, s.client, endpoint)
	if err != nil {
		return ListData{}, err
	}
	return env.Unwrap(endpoint, "report list load failed")
}

// Download fetches the document bytes from the report's storage URL. The
// URL is presigned by the backend, so no auth headers are attached.
func (s *Service) Download(ctx context.Context, rep Report) ([]byte, error) {
	if rep.URL == "" {
		return nil, fmt.Errorf("report %s has no document URL", rep.ReportID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rep.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document fetch failed: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("document exceeds the %dMB limit", MaxUploadSize>>20)
	}
	return data, nil
}
