package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/PrayerPraise/models"
)

type EmailService struct {
	client   *resend.Client
	from     string
	calendar Calendar
	logger   *zap.Logger
}

var emailService *EmailService

// InitEmailService initializes the email service with Resend API
func InitEmailService(apiKey, from string, calendar Calendar, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if apiKey == "" {
		logger.Warn("RESEND_API_KEY not set, weekly summary emails are disabled")
		emailService = nil
		return
	}

	emailService = &EmailService{
		client:   resend.NewClient(apiKey),
		from:     from,
		calendar: calendar,
		logger:   logger,
	}
	logger.Info("email service initialized with Resend")
}

// GetEmailService returns the singleton email service instance
func GetEmailService() *EmailService {
	return emailService
}

// SendWeeklySummary emails the weekly digest.
func (s *EmailService) SendWeeklySummary(_ context.Context, toEmail string, summary models.WeeklySummary) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("email service not initialized")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Your weekly Prayer & Praise summary",
		Html:    s.weeklySummaryHTML(summary),
		Text:    s.weeklySummaryText(summary),
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error("failed to send weekly summary", zap.String("to", toEmail), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("sent weekly summary", zap.String("to", toEmail), zap.String("email_id", sent.Id))
	return nil
}

func (s *EmailService) weeklySummaryText(summary models.WeeklySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This week: %d active prayers, %d praises, %d follow-ups completed.\n",
		summary.Active_Prayers, len(summary.Recent_Praises), summary.Completed_Followups)
	fmt.Fprintf(&b, "Answered: %d. Archived: %d. Pending follow-ups: %d (%d overdue).\n",
		summary.Answered_Prayers, summary.Archived_Prayers, summary.Pending_Followups, summary.Overdue_Followups)

	if len(summary.Upcoming_Followups) > 0 {
		b.WriteString("\nComing up:\n")
		for _, r := range summary.Upcoming_Followups {
			fmt.Fprintf(&b, "- %s: %s\n", s.calendar.FormatDate(r.Fire_At), r.Person)
		}
	}
	if len(summary.Recent_Praises) > 0 {
		b.WriteString("\nPraises:\n")
		for _, p := range summary.Recent_Praises {
			fmt.Fprintf(&b, "- %s: %s\n", s.calendar.FormatDate(p.Date), p.Text)
		}
	}
	return b.String()
}

func (s *EmailService) weeklySummaryHTML(summary models.WeeklySummary) string {
	var upcoming strings.Builder
	for _, r := range summary.Upcoming_Followups {
		fmt.Fprintf(&upcoming, "<li><strong>%s</strong> %s</li>\n",
			html.EscapeString(s.calendar.FormatDate(r.Fire_At)), html.EscapeString(r.Person))
	}
	if upcoming.Len() == 0 {
		upcoming.WriteString("<li>No follow-ups this week.</li>\n")
	}

	var praises strings.Builder
	for _, p := range summary.Recent_Praises {
		fmt.Fprintf(&praises, "<li><strong>%s</strong> %s</li>\n",
			html.EscapeString(s.calendar.FormatDate(p.Date)), html.EscapeString(p.Text))
	}
	if praises.Len() == 0 {
		praises.WriteString("<li>No praises recorded this week.</li>\n")
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            text-align: center;
            padding: 20px 0;
            border-bottom: 2px solid #90c590;
        }
        .header h1 {
            color: #90c590;
            margin: 0;
        }
        .stats td {
            padding: 4px 12px 4px 0;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>Weekly Prayer &amp; Praise Summary</h1>
    </div>

    <table class="stats">
        <tr><td>Active prayers</td><td>%d</td></tr>
        <tr><td>Answered prayers</td><td>%d</td></tr>
        <tr><td>Archived prayers</td><td>%d</td></tr>
        <tr><td>Follow-ups completed this week</td><td>%d</td></tr>
        <tr><td>Pending follow-ups</td><td>%d (%d overdue)</td></tr>
    </table>

    <h2>Coming up</h2>
    <ul>
%s    </ul>

    <h2>Praises this week</h2>
    <ul>
%s    </ul>
</body>
</html>
`, summary.Active_Prayers, summary.Answered_Prayers, summary.Archived_Prayers,
		summary.Completed_Followups, summary.Pending_Followups, summary.Overdue_Followups,
		upcoming.String(), praises.String())
}
