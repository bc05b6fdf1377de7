package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"customize-api/internal/config"
)

type Service interface {
	SendChangesetPendingReview(ctx context.Context, toEmail, fullName, changesetUUID, title string) error
}

type service struct {
	client *resend.Client
	cfg    *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		cfg:    cfg,
	}
}

func (s *service) SendChangesetPendingReview(ctx context.Context, toEmail, fullName, changesetUUID, title string) error {
	subject := "A changeset is awaiting review"
	if title == "" {
		title = "Untitled"
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="margin-top: 0;">Hi, %s!</h2>
	<p>
		The changeset <strong>%s</strong> has been submitted for review and is
		waiting to be scheduled or published.
	</p>
	<div style="text-align: center; margin: 30px 0;">
		<a href="%s/changesets/%s"
		   style="background-color: #2271b1; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: bold; display: inline-block;">
			Review Changeset
		</a>
	</div>
</body>
</html>`, fullName, title, s.cfg.SiteURL, changesetUUID)

	params := &resend.SendEmailRequest{
		From:    s.cfg.FromEmail,
		To:      []string{toEmail},
		Subject: subject,
		Html:    html,
	}

	_, err := s.client.Emails.Send(params)
	return err
}
