package notify

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"eposupdate/internal/config"
	"eposupdate/internal/domain"
	"eposupdate/internal/port"
)

// EmailAPI is the subset of the SES v2 client used to send notifications.
type EmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesNotifier struct {
	client      EmailAPI
	fromAddress string
	fromName    string
	recipients  []string
}

// NewSESNotifier creates an SES-backed Notifier that emails every
// configured recipient.
func NewSESNotifier(ctx context.Context, cfg *config.NotifyConfig) (port.Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return NewSESNotifierWithClient(sesv2.NewFromConfig(awsCfg), cfg), nil
}

// NewSESNotifierWithClient creates an SES Notifier using client.
func NewSESNotifierWithClient(client EmailAPI, cfg *config.NotifyConfig) port.Notifier {
	return &sesNotifier{
		client:      client,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		recipients:  cfg.Recipients,
	}
}

func (s *sesNotifier) Notify(ctx context.Context, runID string, note domain.Notification) error {
	if len(s.recipients) == 0 {
		return nil
	}

	subject := fmt.Sprintf("[EPOS mass update] %s: %s", note.Title, note.Message)
	textBody := fmt.Sprintf("%s\n\n%s\n\nRun: %s\n", note.Title, note.Message, runID)
	htmlBody := buildNotificationHTML(runID, note)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: s.recipients,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildNotificationHTML(runID string, note domain.Notification) string {
	color := "#15803D"
	if note.Severity == domain.SeverityError {
		color = "#B91C1C"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: %s;">%s</h2>
  <p>%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Run %s</p>
</body>
</html>`, color, html.EscapeString(note.Title), html.EscapeString(note.Message), html.EscapeString(runID))
}
