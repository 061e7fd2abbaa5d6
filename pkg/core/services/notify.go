package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// EmailSender sends plain-text emails
type EmailSender interface {
	SendEmail(ctx context.Context, to []string, subject, body string) error
}

// NotifyConflicts emails the conflicts of a preview to the recipients.
// Returns false without sending when the preview is fully covered or nobody is configured.
func NotifyConflicts(ctx context.Context, sender EmailSender, logger *zap.Logger, recipients []string, preview *Preview) (bool, error) {
	if len(preview.Conflicts) == 0 || len(recipients) == 0 {
		logger.Debug("No conflict report to send",
			zap.Int("conflicts", len(preview.Conflicts)),
			zap.Int("recipients", len(recipients)))
		return false, nil
	}

	subject := fmt.Sprintf("Duty rota %s: %d unfilled slot(s)", preview.Month, len(preview.Conflicts))
	if err := sender.SendEmail(ctx, recipients, subject, conflictReportBody(preview)); err != nil {
		return false, fmt.Errorf("failed to send conflict report: %w", err)
	}

	logger.Info("Sent conflict report",
		zap.String("month", preview.Month.String()),
		zap.Strings("recipients", recipients),
		zap.Int("conflicts", len(preview.Conflicts)))
	return true, nil
}

func conflictReportBody(preview *Preview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The generated schedule for %s could not fill every slot.\n\n", preview.Month)
	for _, conflict := range preview.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict)
	}
	if len(preview.Unassigned) > 0 {
		days := make([]string, 0, len(preview.Unassigned))
		for _, day := range preview.Unassigned {
			days = append(days, fmt.Sprintf("%s %d", preview.Month.Weekday(day), day))
		}
		fmt.Fprintf(&b, "\nUnassigned days: %s\n", strings.Join(days, ", "))
	}
	b.WriteString("\nReview the roster or vacations, then regenerate or assign the days by hand before applying.\n")
	return b.String()
}
