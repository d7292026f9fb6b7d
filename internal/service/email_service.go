package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"lexidrill/internal/models"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. If fromEmail is empty
// the service is disabled and every send becomes a logged no-op.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail sends a welcome email to new users
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Welcome to LexiDrill!"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Welcome to LexiDrill!</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Thank you for creating your LexiDrill account! Build vocabulary lists, import words in bulk, and let spaced repetition do the rest.</p>
			<p>Here's what you can do next:</p>
			<ul>
				<li>Create a vocabulary list or import one from CSV</li>
				<li>Review due flashcards every day</li>
				<li>Watch your words mature as your streaks grow</li>
			</ul>
			<p style="text-align: center;">
				<a href="%s/login" class="button">Get Started</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from LexiDrill. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toName, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Thank you for creating your LexiDrill account! Build vocabulary lists, import words in bulk, and let spaced repetition do the rest.

Here's what you can do next:
- Create a vocabulary list or import one from CSV
- Review due flashcards every day
- Watch your words mature as your streaks grow

Get started: %s/login

---
This is an automated email from LexiDrill. Please do not reply.
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendImportFinishedEmail notifies a user that their CSV import reached
// a terminal state. Failures here must never fail the import itself.
func (s *EmailService) SendImportFinishedEmail(ctx context.Context, toEmail, toName string, job *models.ImportJob) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): import %d finished, to %s", job.ID, toEmail)
		return nil
	}

	var headline string
	switch job.Status {
	case models.ImportStatusCompleted:
		headline = "Your import finished successfully"
	case models.ImportStatusPartialSuccess:
		headline = "Your import finished with some skipped rows"
	default:
		headline = "Your import failed"
	}

	subject := fmt.Sprintf("LexiDrill import update: %s", job.OriginalFilename)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Your CSV import of <strong>%s</strong> has finished with status <strong>%s</strong>.</p>
			<ul>
				<li>Rows processed: %d</li>
				<li>Words added: %d</li>
				<li>Duplicates skipped: %d</li>
				<li>Invalid rows: %d</li>
			</ul>
			<p>Visit your library to review the results: %s/library</p>
		</div>
		<div class="footer">
			<p>This is an automated email from LexiDrill. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, headline, toName, job.OriginalFilename, job.Status, job.TotalCount, job.InsertedCount, job.DuplicateCount, job.InvalidCount, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Your CSV import of %s has finished with status %s.

Rows processed: %d
Words added: %d
Duplicates skipped: %d
Invalid rows: %d

Visit your library to review the results: %s/library

---
This is an automated email from LexiDrill. Please do not reply.
`, toName, job.OriginalFilename, job.Status, job.TotalCount, job.InsertedCount, job.DuplicateCount, job.InvalidCount, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}
	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
