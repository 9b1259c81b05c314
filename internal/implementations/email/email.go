package email

import (
	"accounts/internal/core/domain/user"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/golang-module/carbon/v2"
)

type Templates struct {
	VerifyEmail   string
	ResetPassword string
}

type URLs struct {
	VerifyEmail   url.URL
	ResetPassword url.URL
}

type EmailSender struct {
	ses *ses.Client
	// This address must be verified with Amazon SES.
	sender    string
	templates Templates
	urls      URLs
	now       func() time.Time
}

func NewEmailSender(
	awsConfig aws.Config,
	sender string,
	templates Templates,
	urls URLs,
	now func() time.Time,
) *EmailSender {
	if now == nil {
		panic("now must not be nil")
	}
	return &EmailSender{
		ses:       ses.NewFromConfig(awsConfig),
		sender:    sender,
		templates: templates,
		urls:      urls,
		now:       now,
	}
}

func (s *EmailSender) SendToken(ctx context.Context, notification user.TokenNotification) error {
	if notification.Email == "" {
		return fmt.Errorf("email of user %d is not defined", notification.UserID)
	}

	template, params, err := s.prepare(notification)
	if err != nil {
		return err
	}
	templateParamsBytes, err := json.Marshal(params)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{notification.Email},
			},
			Template:     &template,
			TemplateData: &templateParams,
		},
	)
	return err
}

func (s *EmailSender) prepare(notification user.TokenNotification) (string, templateParams, error) {
	var template string
	var base url.URL
	switch notification.Purpose {
	case user.PurposeVerifyEmail:
		template, base = s.templates.VerifyEmail, s.urls.VerifyEmail
	case user.PurposeResetPassword:
		template, base = s.templates.ResetPassword, s.urls.ResetPassword
	default:
		return "", templateParams{}, fmt.Errorf("unknown token purpose %q", notification.Purpose)
	}
	return template, templateParams{
		URL:       Link(base, notification.Token),
		ExpiresIn: ExpiresIn(notification.ExpiresAt, s.now()),
	}, nil
}

// Link appends the sealed token to the base URL as the "token" query param.
func Link(base url.URL, token user.SealedToken) string {
	query := base.Query()
	query.Set("token", string(token))
	base.RawQuery = query.Encode()
	return base.String()
}

// ExpiresIn renders the expiry relative to now, e.g. "1 hour from now".
func ExpiresIn(expiresAt time.Time, now time.Time) string {
	return carbon.Time2Carbon(expiresAt).DiffForHumans(carbon.Time2Carbon(now))
}

type templateParams struct {
	URL       string `json:"url"`
	ExpiresIn string `json:"expiresIn"`
}
