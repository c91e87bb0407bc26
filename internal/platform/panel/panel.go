// Package panel holds the state machines behind every listing and edit flow
// in the console: one load lifecycle per listing and one open/submit/close
// cycle per editor, shared so each feature stops hand-rolling its own flags.
package panel

import (
	"github.com/medsyn/console/internal/platform/async"
)

// List tracks a fetched collection and applies the console's merge policy:
// created records are prepended, updated records replace in place by ID,
// deleted records are removed. No mutation triggers a refetch.
type List[T any] struct {
	id    func(T) string
	state async.State[[]T]
	total int
}

// NewList builds a listing keyed by the given identity function.
func NewList[T any](id func(T) string) *List[T] {
	return &List[T]{id: id, state: async.IdleState[[]T]()}
}

func (l *List[T]) BeginLoad() {
	l.state = async.LoadingState[[]T]()
}

// Fill replaces the listing with a freshly fetched page.
func (l *List[T]) Fill(items []T, total int) {
	if items == nil {
		items = []T{}
	}
	l.state = async.ReadyState(items)
	l.total = total
}

func (l *List[T]) Fail(err error) {
	l.state = async.FailedState[[]T](err)
}

func (l *List[T]) State() async.State[[]T] { return l.state }
func (l *List[T]) Total() int              { return l.total }

// Items returns the loaded records, nil outside the ready phase.
func (l *List[T]) Items() []T {
	return l.state.Value()
}

// Prepend merges a newly created record to the front of the listing.
func (l *List[T]) Prepend(item T) {
	if !l.state.IsReady() {
		return
	}
	l.state = async.ReadyState(append([]T{item}, l.state.Value()...))
	l.total++
}

// Replace swaps the record with the same ID in place. A record the listing
// has never seen is ignored; the next load picks it up.
func (l *List[T]) Replace(item T) {
	if !l.state.IsReady() {
		return
	}
	items := l.state.Value()
	for i := range items {
		if l.id(items[i]) == l.id(item) {
			items[i] = item
			l.state = async.ReadyState(items)
			return
		}
	}
}

// Remove drops the record with the given ID.
func (l *List[T]) Remove(id string) {
	if !l.state.IsReady() {
		return
	}
	items := l.state.Value()
	kept := items[:0]
	for _, item := range items {
		if l.id(item) != id {
			kept = append(kept, item)
		}
	}
	if len(kept) < len(items) {
		l.total--
	}
	l.state = async.ReadyState(kept)
}

// EditorMode is the position of an editor in its open/close cycle.
type EditorMode int

const (
	EditorClosed EditorMode = iota
	EditorCreating
	EditorEditing
)

// Editor drives one create-or-edit modal flow. Submit closes the editor on
// success and returns the server record for merging; on failure the editor
// stays open holding the error so the form can be corrected and resubmitted.
type Editor[T any] struct {
	mode  EditorMode
	draft T
	state async.State[T]
}

func NewEditor[T any]() *Editor[T] {
	return &Editor[T]{state: async.IdleState[T]()}
}

func (e *Editor[T]) OpenCreate(draft T) {
	e.mode = EditorCreating
	e.draft = draft
	e.state = async.IdleState[T]()
}

func (e *Editor[T]) OpenEdit(record T) {
	e.mode = EditorEditing
	e.draft = record
	e.state = async.IdleState[T]()
}

func (e *Editor[T]) Close() {
	var zero T
	e.mode = EditorClosed
	e.draft = zero
	e.state = async.IdleState[T]()
}

func (e *Editor[T]) Mode() EditorMode      { return e.mode }
func (e *Editor[T]) IsOpen() bool          { return e.mode != EditorClosed }
func (e *Editor[T]) Draft() T              { return e.draft }
func (e *Editor[T]) SetDraft(draft T)      { e.draft = draft }
func (e *Editor[T]) State() async.State[T] { return e.state }

// Submit runs the save operation with the current draft.
func (e *Editor[T]) Submit(save func(T) (T, error)) (T, error) {
	e.state = async.LoadingState[T]()
	record, err := save(e.draft)
	if err != nil {
		e.state = async.FailedState[T](err)
		var zero T
		return zero, err
	}
	e.Close()
	return record, nil
}
