package healthevent

import (
	"context"

	"github.com/medsyn/console/internal/platform/panel"
	"github.com/medsyn/console/pkg/pagination"
)

// API is the slice of Service the panel needs.
type API interface {
	List(ctx context.Context, healthID string, params pagination.Params) (ListData, error)
	Add(ctx context.Context, event Event) (Event, error)
	Update(ctx context.Context, event Event) (Event, error)
	Delete(ctx context.Context, healthID, eventID string) error
}

// Panel drives the timeline view for one patient: the paginated listing
// and the create/edit editor.
type Panel struct {
	svc      API
	healthID string
	params   pagination.Params
	list     *panel.List[Event]
	editor   *panel.Editor[Event]
}

func NewPanel(svc API, healthID string) *Panel {
	return &Panel{
		svc:      svc,
		healthID: healthID,
		params:   pagination.Normalize(1, pagination.DefaultLimit),
		list:     panel.NewList(func(e Event) string { return e.EventID }),
		editor:   panel.NewEditor[Event](),
	}
}

func (p *Panel) List() *panel.List[Event]     { return p.list }
func (p *Panel) Editor() *panel.Editor[Event] { return p.editor }
func (p *Panel) Params() pagination.Params    { return p.params }

func (p *Panel) Load(ctx context.Context) error {
	p.list.BeginLoad()
	data, err := p.svc.List(ctx, p.healthID, p.params)
	if err != nil {
		p.list.Fail(err)
		return err
	}
	p.list.Fill(data.Events, data.TotalCount)
	return nil
}

func (p *Panel) GoTo(ctx context.Context, page int) error {
	p.params = pagination.Normalize(page, p.params.Limit)
	return p.Load(ctx)
}

// SubmitCreate saves the editor draft as a new event. On success the editor
// closes and the created record is merged to the front of the listing.
func (p *Panel) SubmitCreate(ctx context.Context) (Event, error) {
	created, err := p.editor.Submit(func(draft Event) (Event, error) {
		draft.HealthID = p.healthID
		return p.svc.Add(ctx, draft)
	})
	if err != nil {
		return Event{}, err
	}
	p.list.Prepend(created)
	return created, nil
}

// SubmitEdit saves the editor draft over the existing event and replaces it
// in the listing.
func (p *Panel) SubmitEdit(ctx context.Context) (Event, error) {
	updated, err := p.editor.Submit(func(draft Event) (Event, error) {
		draft.HealthID = p.healthID
		return p.svc.Update(ctx, draft)
	})
	if err != nil {
		return Event{}, err
	}
	p.list.Replace(updated)
	return updated, nil
}

// Remove deletes an event and drops it from the listing.
func (p *Panel) Remove(ctx context.Context, eventID string) error {
	if err := p.svc.Delete(ctx, p.healthID, eventID); err != nil {
		return err
	}
	p.list.Remove(eventID)
	return nil
}
