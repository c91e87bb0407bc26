package panel

import (
	"errors"
	"testing"
)

type record struct {
	ID   string
	Name string
}

func recordID(r record) string { return r.ID }

func TestList_LoadLifecycle(t *testing.T) {
	l := NewList(recordID)
	if l.State().IsReady() || l.State().IsLoading() {
		t.Fatal("expected idle before load")
	}

	l.BeginLoad()
	if !l.State().IsLoading() {
		t.Error("expected loading during fetch")
	}

	l.Fill([]record{{ID: "1", Name: "a"}}, 5)
	if !l.State().IsReady() || len(l.Items()) != 1 || l.Total() != 5 {
		t.Errorf("expected ready listing, got %+v total %d", l.Items(), l.Total())
	}

	l.Fail(errors.New("boom"))
	if !l.State().IsFailed() {
		t.Error("expected failed state")
	}
}

func TestList_FillNilBecomesEmpty(t *testing.T) {
	l := NewList(recordID)
	l.Fill(nil, 0)
	if l.Items() == nil {
		t.Error("expected non-nil empty listing")
	}
}

func TestList_MergePolicy(t *testing.T) {
	l := NewList(recordID)
	l.Fill([]record{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}, 2)

	// Created records go to the front.
	l.Prepend(record{ID: "3", Name: "c"})
	items := l.Items()
	if items[0].ID != "3" || len(items) != 3 || l.Total() != 3 {
		t.Errorf("expected prepended record, got %+v", items)
	}

	// Updates replace in place by ID.
	l.Replace(record{ID: "2", Name: "b2"})
	if l.Items()[2].Name != "b2" {
		t.Errorf("expected in-place replacement, got %+v", l.Items())
	}
	l.Replace(record{ID: "unknown", Name: "x"})
	if len(l.Items()) != 3 {
		t.Error("unknown record must not be merged")
	}

	l.Remove("1")
	if len(l.Items()) != 2 || l.Total() != 2 {
		t.Errorf("expected record removed, got %+v", l.Items())
	}
	l.Remove("1")
	if l.Total() != 2 {
		t.Error("removing a missing record must not change the total")
	}
}

func TestList_MergeIgnoredBeforeLoad(t *testing.T) {
	l := NewList(recordID)
	l.Prepend(record{ID: "1"})
	if l.State().IsReady() {
		t.Error("merge before load must not fabricate a ready listing")
	}
}

func TestEditor_SubmitSuccessClosesAndReturnsRecord(t *testing.T) {
	e := NewEditor[record]()
	e.OpenCreate(record{Name: "draft"})
	if e.Mode() != EditorCreating || !e.IsOpen() {
		t.Fatal("expected editor open for create")
	}

	created, err := e.Submit(func(draft record) (record, error) {
		return record{ID: "1", Name: draft.Name}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "1" {
		t.Errorf("expected server record returned, got %+v", created)
	}
	if e.IsOpen() {
		t.Error("expected editor closed after successful submit")
	}
}

func TestEditor_SubmitFailureStaysOpen(t *testing.T) {
	e := NewEditor[record]()
	e.OpenEdit(record{ID: "1", Name: "before"})

	_, err := e.Submit(func(record) (record, error) {
		return record{}, errors.New("duplicate record")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !e.IsOpen() || e.Mode() != EditorEditing {
		t.Error("expected editor to stay open on failure")
	}
	if !e.State().IsFailed() {
		t.Error("expected failed submit state retained")
	}
	if e.Draft().Name != "before" {
		t.Error("expected draft preserved for correction")
	}
}
