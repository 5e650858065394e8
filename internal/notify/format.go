package notify

import (
	"fmt"
	"strings"

	"github.com/jclinedev/hiddencity/internal/domain"
)

// FindingAlert formats a hidden-city finding as an alert title and body.
func FindingAlert(f domain.Finding) (title, message string) {
	title = fmt.Sprintf("Hidden-city fare: %s-%s via %s", f.Origin, f.Destination, f.CandidateDestination)

	var b strings.Builder
	fmt.Fprintf(&b, "Book %s-%s, deplane at %s.\n", f.Origin, f.CandidateDestination, f.Destination)
	fmt.Fprintf(&b, "Ticket: $%.2f vs direct $%.2f\n", f.TicketPrice, f.EvaluationPrice)
	fmt.Fprintf(&b, "Savings: $%.2f", f.Savings)
	message = b.String()
	return title, message
}

// RunAlert formats a completed run as an alert title and body. The body
// reports the finding count and, when the run ended early, the failure.
func RunAlert(run domain.Run) (title, message string) {
	title = fmt.Sprintf("Scan complete: %s-%s on %s", run.Origin, run.Destination, run.Date)

	var b strings.Builder
	fmt.Fprintf(&b, "%d finding(s) across %d candidate(s).", len(run.Findings), len(run.Summaries))
	if run.BasePrice >= 0 {
		fmt.Fprintf(&b, "\nDirect baseline: $%.2f", run.BasePrice)
	} else {
		b.WriteString("\nNo direct baseline available.")
	}
	if run.Error != "" {
		fmt.Fprintf(&b, "\nEnded early: %s", run.Error)
	}
	message = b.String()
	return title, message
}
