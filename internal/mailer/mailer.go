// Package mailer sends the post-run email digest. Log lines are not
// streamed out as they happen; the whole run is summarized once and flushed
// in a single message, so a scheduler-driven night run produces exactly one
// email per invocation.
package mailer

import (
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/SDFIdk/SDE-CRA/internal/models"
	"github.com/SDFIdk/SDE-CRA/types"
)

// BuildDigest renders the subject and plain-text body for a run summary.
func BuildDigest(cfg types.EmailConfig, summary models.RunSummary) (subject, body string) {
	var tags []string
	seen := make(map[string]bool)
	for _, step := range summary.Steps {
		if step.ConnRole == models.RoleOwner && !seen[step.ConnTag] {
			seen[step.ConnTag] = true
			tags = append(tags, step.ConnTag)
		}
	}

	subject = fmt.Sprintf("Report from SDE maintenance [%s]", summary.OverallStatus)
	if len(tags) > 0 {
		subject = fmt.Sprintf("%s - %s", subject, strings.Join(tags, ","))
	}
	if cfg.SubjectPrefix != "" {
		subject = cfg.SubjectPrefix + " " + subject
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Maintenance run %s (%s)\n", summary.RunId, summary.Cmd)
	fmt.Fprintf(&b, "Started: %s\n", summary.RunStartTime)
	fmt.Fprintf(&b, "Host: %s\n", summary.Initiator.Tenant)
	fmt.Fprintf(&b, "Overall: %s (%d succeeded, %d failed)\n", summary.OverallStatus, summary.StepsSucceeded, summary.StepsFailed)
	fmt.Fprintf(&b, "Total duration: %.1f seconds\n", float64(summary.TotalDurationMs)/1000)

	if len(summary.EditVersions) > 0 {
		fmt.Fprintf(&b, "\nNote: edit versions present, compression was not optimal: %s\n", strings.Join(summary.EditVersions, ", "))
	}

	b.WriteString("\nSteps:\n")
	for _, step := range summary.Steps {
		status := "OK"
		if !step.Success {
			status = "FAILED: " + step.Error
		}
		fmt.Fprintf(&b, "  %-28s %-6s %8.1fs  %s\n", step.StepId, step.ConnRole, float64(step.DurationMs)/1000, status)
	}

	if summary.TimingReport != "" {
		b.WriteString("\nTime profile report:\n")
		b.WriteString(summary.TimingReport)
		b.WriteString("\n")
	}

	return subject, b.String()
}

// SendDigest builds and sends the digest according to cfg. It is a no-op
// when email reporting is disabled.
func SendDigest(cfg types.EmailConfig, summary models.RunSummary) error {
	if !cfg.Enabled {
		return nil
	}

	subject, body := BuildDigest(cfg, summary)

	msg := mail.NewMsg()
	if err := msg.From(cfg.From); err != nil {
		return fmt.Errorf("invalid sender address %q: %w", cfg.From, err)
	}
	if err := msg.To(cfg.To...); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client for %s: %w", cfg.Host, err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send digest via %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return nil
}
