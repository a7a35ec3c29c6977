package notify

import (
	"errors"
	"testing"
)

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(message string) error {
	f.messages = append(f.messages, message)
	return f.err
}

func TestMulti_FansOutToAll(t *testing.T) {
	a := &fakeNotifier{}
	b := &fakeNotifier{}

	m := NewMulti(a, nil, b)
	if err := m.Notify("urgent approval waiting"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(a.messages) != 1 || len(b.messages) != 1 {
		t.Errorf("deliveries = %d/%d, want 1/1", len(a.messages), len(b.messages))
	}
}

func TestMulti_ErrorDoesNotStopFanOut(t *testing.T) {
	boom := errors.New("boom")
	a := &fakeNotifier{err: boom}
	b := &fakeNotifier{}

	m := NewMulti(a, b)
	err := m.Notify("x")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want first failure surfaced", err)
	}
	if len(b.messages) != 1 {
		t.Error("later notifier skipped after earlier failure")
	}
}

func TestMulti_EmptyIsNoop(t *testing.T) {
	if err := NewMulti().Notify("x"); err != nil {
		t.Errorf("empty multi: %v", err)
	}
}
