package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jclinedev/hiddencity/internal/domain"
)

type recordingSender struct {
	name   string
	err    error
	titles []string
}

func (r *recordingSender) Send(_ context.Context, title, _ string) error {
	if r.err != nil {
		return r.err
	}
	r.titles = append(r.titles, title)
	return nil
}

func (r *recordingSender) Name() string { return r.name }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifyFiltersByEvent(t *testing.T) {
	s := &recordingSender{name: "test"}
	n := NewNotifier([]Sender{s}, []string{EventArbFound}, testLogger())

	if err := n.Notify(context.Background(), EventRunComplete, "done", "body"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if len(s.titles) != 0 {
		t.Fatalf("filtered event reached sender: %v", s.titles)
	}

	if err := n.Notify(context.Background(), EventArbFound, "found", "body"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if len(s.titles) != 1 || s.titles[0] != "found" {
		t.Fatalf("allowed event not delivered, got %v", s.titles)
	}
}

func TestNotifyEmptyEventListAllowsAll(t *testing.T) {
	s := &recordingSender{name: "test"}
	n := NewNotifier([]Sender{s}, nil, testLogger())

	for _, ev := range []string{EventArbFound, EventRunComplete, EventError} {
		if err := n.Notify(context.Background(), ev, ev, "body"); err != nil {
			t.Fatalf("Notify(%s) error = %v", ev, err)
		}
	}
	if len(s.titles) != 3 {
		t.Fatalf("delivered = %d, want 3", len(s.titles))
	}
}

func TestDispatchContinuesPastFailingSender(t *testing.T) {
	failing := &recordingSender{name: "bad", err: errors.New("boom")}
	ok := &recordingSender{name: "good"}
	n := NewNotifier([]Sender{failing, ok}, nil, testLogger())

	err := n.NotifyAll(context.Background(), "title", "body")
	if err == nil {
		t.Fatal("NotifyAll() expected combined error")
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Fatalf("error should name failing sender, got %v", err)
	}
	if len(ok.titles) != 1 {
		t.Fatalf("healthy sender skipped after failure, delivered = %d", len(ok.titles))
	}
}

func TestNotifyNoSenders(t *testing.T) {
	n := NewNotifier(nil, nil, testLogger())
	if err := n.NotifyAll(context.Background(), "title", "body"); err != nil {
		t.Fatalf("NotifyAll() with no senders error = %v", err)
	}
}

func TestFindingAlert(t *testing.T) {
	f := domain.Finding{
		Origin:               "JFK",
		Destination:          "SLC",
		CandidateDestination: "LAX",
		TicketPrice:          39,
		EvaluationPrice:      59,
		Savings:              20,
	}

	title, message := FindingAlert(f)
	if !strings.Contains(title, "JFK-SLC via LAX") {
		t.Errorf("title = %q", title)
	}
	for _, want := range []string{"Book JFK-LAX", "deplane at SLC", "$39.00", "$59.00", "Savings: $20.00"} {
		if !strings.Contains(message, want) {
			t.Errorf("message missing %q:\n%s", want, message)
		}
	}
}

func TestRunAlertNoBaseline(t *testing.T) {
	run := domain.Run{
		Origin:      "JFK",
		Destination: "SLC",
		Date:        "12/01/2026",
		BasePrice:   -1,
	}

	_, message := RunAlert(run)
	if !strings.Contains(message, "No direct baseline") {
		t.Errorf("message should report missing baseline:\n%s", message)
	}
}

func TestRunAlertReportsEarlyEnd(t *testing.T) {
	run := domain.Run{
		Origin:      "JFK",
		Destination: "SLC",
		Date:        "12/01/2026",
		BasePrice:   59,
		Error:       "fetch offers JFK-LAX: connection refused",
	}

	_, message := RunAlert(run)
	if !strings.Contains(message, "Ended early") {
		t.Errorf("message should report early end:\n%s", message)
	}
}
