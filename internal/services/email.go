package services

import (
	"fmt"
	"html"
	"log"
	"net/smtp"
	"strings"

	"studytrack-backend/internal/models"
	"studytrack-backend/internal/stats"
)

type EmailService struct {
	host        string
	port        string
	user        string
	pass        string
	from        string
	frontendURL string
	devMode     bool
}

func NewEmailService(host, port, user, pass, from, frontendURL string) *EmailService {
	devMode := host == "" || user == ""
	if devMode {
		log.Println("⚠ Email service running in DEV MODE (logging to console)")
	}
	return &EmailService{
		host:        host,
		port:        port,
		user:        user,
		pass:        pass,
		from:        from,
		frontendURL: frontendURL,
		devMode:     devMode,
	}
}

// Send delivers a queued job.
func (s *EmailService) Send(job *models.EmailJob) error {
	switch job.Kind {
	case models.EmailVerification:
		return s.SendVerificationEmail(job.To, job.Token)
	case models.EmailWeeklyDigest:
		if job.Digest == nil {
			return fmt.Errorf("weekly digest job %s has no digest", job.ID)
		}
		return s.SendWeeklyDigestEmail(job.To, job.Name, *job.Digest)
	case models.EmailStudyReminder:
		return s.SendStudyReminderEmail(job.To, job.Name)
	default:
		return fmt.Errorf("unknown email kind: %s", job.Kind)
	}
}

const emailShell = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; box-shadow: 0 4px 24px rgba(0,0,0,0.08); overflow: hidden;">
    <div style="background: linear-gradient(135deg, #0ea5e9 0%%, #6366f1 100%%); padding: 32px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 24px; font-weight: 700;">StudyTrack</h1>
      <p style="color: rgba(255,255,255,0.85); margin: 8px 0 0; font-size: 14px;">Class 11 &amp; 12 study companion</p>
    </div>
    <div style="padding: 32px;">
      %s
    </div>
  </div>
</body>
</html>`

func (s *EmailService) SendVerificationEmail(to, token string) error {
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)

	body := fmt.Sprintf(`<h2 style="margin: 0 0 16px; font-size: 20px; color: #1e293b;">Verify Your Email</h2>
      <p style="color: #64748b; font-size: 14px; line-height: 1.6; margin: 0 0 24px;">
        Welcome to StudyTrack! Verify your email address to start tracking your study time.
      </p>
      <a href="%s" style="display: inline-block; background: #6366f1; color: white; text-decoration: none; padding: 12px 32px; border-radius: 8px; font-weight: 600; font-size: 14px;">
        Verify Email
      </a>
      <p style="color: #94a3b8; font-size: 12px; margin: 24px 0 0; line-height: 1.5;">
        If the button doesn't work, copy and paste this link:<br>
        <a href="%s" style="color: #6366f1;">%s</a>
      </p>
      <p style="color: #94a3b8; font-size: 12px; margin: 16px 0 0;">
        This link expires in 24 hours.
      </p>`, verifyURL, verifyURL, verifyURL)

	return s.sendHTML(to, "Verify your StudyTrack account", fmt.Sprintf(emailShell, body))
}

func (s *EmailService) SendWeeklyDigestEmail(to, name string, digest models.DigestStats) error {
	return s.sendHTML(to, "Your week of study on StudyTrack", fmt.Sprintf(emailShell, digestBody(name, digest, s.frontendURL)))
}

func digestBody(name string, digest models.DigestStats, frontendURL string) string {
	var rows strings.Builder
	for _, entry := range digest.Subjects {
		h, m := stats.SplitHours(entry.Minutes)
		fmt.Fprintf(&rows,
			`<tr><td style="padding: 6px 0; color: #1e293b;">%s</td><td style="padding: 6px 0; text-align: right; color: #64748b;">%dh %dm (%.0f%%)</td></tr>`,
			html.EscapeString(entry.Name), h, m, entry.Percentage,
		)
	}

	totalH, totalM := stats.SplitHours(digest.TotalMinutes)
	return fmt.Sprintf(`<h2 style="margin: 0 0 16px; font-size: 20px; color: #1e293b;">Hi %s, here is your week</h2>
      <p style="color: #64748b; font-size: 14px; line-height: 1.6; margin: 0 0 16px;">
        Week of %s: <strong>%dh %dm</strong> across %d sessions (average %d min).
      </p>
      <table style="width: 100%%; font-size: 14px; border-collapse: collapse;">%s</table>
      <a href="%s/dashboard" style="display: inline-block; margin-top: 24px; background: #6366f1; color: white; text-decoration: none; padding: 12px 32px; border-radius: 8px; font-weight: 600; font-size: 14px;">
        Open dashboard
      </a>`,
		html.EscapeString(name), digest.WeekStart.Format("Jan 2"), totalH, totalM,
		digest.SessionCount, digest.AverageMinutes, rows.String(), frontendURL,
	)
}

func (s *EmailService) SendStudyReminderEmail(to, name string) error {
	body := fmt.Sprintf(`<h2 style="margin: 0 0 16px; font-size: 20px; color: #1e293b;">We miss you, %s</h2>
      <p style="color: #64748b; font-size: 14px; line-height: 1.6; margin: 0 0 24px;">
        You have not logged a study session in a few days. Even 25 focused minutes keep the streak alive.
      </p>
      <a href="%s/tracker" style="display: inline-block; background: #6366f1; color: white; text-decoration: none; padding: 12px 32px; border-radius: 8px; font-weight: 600; font-size: 14px;">
        Start a session
      </a>`, html.EscapeString(name), s.frontendURL)

	return s.sendHTML(to, "Time for a study session?", fmt.Sprintf(emailShell, body))
}

func (s *EmailService) sendHTML(to, subject, htmlBody string) error {
	if s.devMode {
		log.Printf("📧 [DEV EMAIL] To: %s | Subject: %s", to, subject)
		log.Printf("📧 Body:\n%s", htmlBody)
		return nil
	}

	headers := []string{
		fmt.Sprintf("From: %s", s.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	log.Printf("📧 Email sent to %s: %s", to, subject)
	return nil
}
