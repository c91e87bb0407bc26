// Package term renders console output: status lines, tables, pagination
// footers and saved documents. It is presentation only; nothing in here
// talks to the network.
package term

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/medsyn/console/pkg/pagination"
)

// Printer writes formatted output to a single destination.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Success, Error and Warn are the console's status lines, the counterpart
// of transient notifications in a graphical client.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.out, "ok: "+format+"\n", args...)
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.out, "error: "+format+"\n", args...)
}

func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.out, "warn: "+format+"\n", args...)
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Table renders aligned columns. Empty cells render as a dash so sparse
// records stay readable.
func (p *Printer) Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if cell == "" {
				cell = "-"
			}
			cells[i] = cell
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
}

// PageFooter renders the record window under a paginated table.
func (p *Printer) PageFooter(params pagination.Params, total int) {
	start, end := params.Window(total)
	if total == 0 {
		fmt.Fprintln(p.out, "No records")
		return
	}
	fmt.Fprintf(p.out, "Showing %d-%d of %d (page %d/%d)\n",
		start, end, total, params.Page, params.TotalPages(total))
}

// SaveDocument writes fetched document bytes under dir and returns the
// path, the console's stand-in for an inline document viewer.
func SaveDocument(dir, name string, content []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Spinner prints a progress indicator while a slow call is in flight.
// Start and Stop pair; Stop clears the line.
type Spinner struct {
	out    io.Writer
	label  string
	done   chan struct{}
	wg     sync.WaitGroup
	active bool
}

func NewSpinner(out io.Writer, label string) *Spinner {
	return &Spinner{out: out, label: label}
}

func (s *Spinner) Start() {
	if s.active {
		return
	}
	s.active = true
	s.done = make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-s.done:
				fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.label)+2))
				return
			case <-ticker.C:
				fmt.Fprintf(s.out, "\r%s %s", frames[i%len(frames)], s.label)
				i++
			}
		}
	}()
}

func (s *Spinner) Stop() {
	if !s.active {
		return
	}
	s.active = false
	close(s.done)
	s.wg.Wait()
}
