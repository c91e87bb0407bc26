package patient

import (
	"context"
	"sync"
	"time"

	"github.com/medsyn/console/internal/platform/panel"
	"github.com/medsyn/console/pkg/pagination"
)

// DefaultSearchDebounce is how long the roster waits after the last
// keystroke before issuing a search request.
const DefaultSearchDebounce = 2 * time.Second

// Lister is the slice of Service the panel needs.
type Lister interface {
	List(ctx context.Context, params pagination.Params, search string) (ListData, error)
}

// Panel drives the roster view: the current page, the active search term
// and the debounce timer that coalesces rapid term changes into one request.
type Panel struct {
	svc  Lister
	list *panel.List[Profile]

	mu       sync.Mutex
	params   pagination.Params
	search   string
	debounce time.Duration
	timer    *time.Timer
}

func NewPanel(svc Lister) *Panel {
	return &Panel{
		svc:      svc,
		list:     panel.NewList(func(p Profile) string { return p.PatientID }),
		params:   pagination.Normalize(1, pagination.DefaultLimit),
		debounce: DefaultSearchDebounce,
	}
}

// SetDebounce overrides the search delay. Tests shorten it.
func (p *Panel) SetDebounce(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.debounce = d
}

func (p *Panel) List() *panel.List[Profile]  { return p.list }
func (p *Panel) Params() pagination.Params   { return p.params }

// Load fetches the current page with the current search term.
func (p *Panel) Load(ctx context.Context) error {
	p.mu.Lock()
	params, search := p.params, p.search
	p.mu.Unlock()

	p.list.BeginLoad()
	data, err := p.svc.List(ctx, params, search)
	if err != nil {
		p.list.Fail(err)
		return err
	}
	p.list.Fill(data.Patients, data.TotalCount)
	return nil
}

// GoTo loads the given page immediately.
func (p *Panel) GoTo(ctx context.Context, page int) error {
	p.mu.Lock()
	p.params = pagination.Normalize(page, p.params.Limit)
	p.mu.Unlock()
	return p.Load(ctx)
}

// SetSearch updates the search term and arms the debounce timer. Only the
// timer that survives the full delay issues a request, always for the
// latest term and always from page one.
func (p *Panel) SetSearch(ctx context.Context, term string) {
	p.mu.Lock()
	p.search = term
	p.params = pagination.Normalize(1, p.params.Limit)
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.debounce, func() {
		_ = p.Load(ctx)
	})
	p.mu.Unlock()
}

// FlushSearch cancels any pending debounce and loads immediately, the
// enter-key path around the debounce.
func (p *Panel) FlushSearch(ctx context.Context) error {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()
	return p.Load(ctx)
}

// MergeOnboarded prepends a freshly admitted patient to the roster.
func (p *Panel) MergeOnboarded(created Profile) {
	p.list.Prepend(created)
}

// MergeUpdated replaces the edited patient in place.
func (p *Panel) MergeUpdated(updated Profile) {
	p.list.Replace(updated)
}
