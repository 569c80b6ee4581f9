package game

import (
	"errors"
	"testing"
)

func TestListenerRegistry(t *testing.T) {
	r := NewListenerRegistry()

	if !r.Register("resize", func() error { return nil }) {
		t.Error("successful registration reported failure")
	}
	if r.Register("color-scheme", func() error { return errors.New("unsupported") }) {
		t.Error("failing registration reported success")
	}
	if r.Register("panicky", func() error { panic("boom") }) {
		t.Error("panicking registration reported success")
	}
	if r.Register("nil", nil) {
		t.Error("nil registration reported success")
	}

	if got := r.Registered(); len(got) != 1 || got[0] != "resize" {
		t.Errorf("Registered() = %v, want [resize]", got)
	}
	if got := r.Failed(); len(got) != 3 {
		t.Errorf("Failed() = %v, want 3 entries", got)
	}
}
