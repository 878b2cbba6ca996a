package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
)

// PendingSubmissionNotice - данные письма инструктору о новой отправке, ожидающей оценки
type PendingSubmissionNotice struct {
	SubmissionID uint
	GameTitle    string
	TaskTitle    string
	TaskType     string
	TeamName     string
}

// EmailService отправляет служебные письма
type EmailService interface {
	NotifyPendingSubmission(ctx context.Context, toEmail string, notice PendingSubmissionNotice) error
}

// NoopEmailService используется, когда отправка писем не настроена
type NoopEmailService struct{}

func (s *NoopEmailService) NotifyPendingSubmission(ctx context.Context, toEmail string, notice PendingSubmissionNotice) error {
	log.Debug().Str("component", "EmailService").Str("to", toEmail).Uint("submission_id", notice.SubmissionID).Msg("noop pending submission notice")
	return nil
}

// ResendEmailService отправляет письма через Resend REST API.
// Каждое письмо отправляется ровно один раз, без повторов.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) NotifyPendingSubmission(ctx context.Context, toEmail string, notice PendingSubmissionNotice) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("toEmail is required")
	}

	subject, text, body := renderPendingSubmission(notice)
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: subject,
		Text:    text,
		Html:    body,
	}
	options := &resend.SendEmailOptions{
		IdempotencyKey: fmt.Sprintf("submission-%d", notice.SubmissionID),
	}

	if _, err := s.client.Emails.SendWithOptions(ctx, params, options); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}

func renderPendingSubmission(n PendingSubmissionNotice) (subject, text, body string) {
	subject = fmt.Sprintf("New %s submission in %s", n.TaskType, n.GameTitle)
	text = fmt.Sprintf("Team %s submitted an answer to \"%s\" in game \"%s\". It is waiting for your evaluation.",
		n.TeamName, n.TaskTitle, n.GameTitle)
	body = fmt.Sprintf("<p>Team <strong>%s</strong> submitted an answer to <strong>%s</strong> in game <strong>%s</strong>.</p><p>It is waiting for your evaluation.</p>",
		html.EscapeString(n.TeamName), html.EscapeString(n.TaskTitle), html.EscapeString(n.GameTitle))
	return subject, text, body
}
