package email

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type sesClient interface {
	SendTemplatedEmail(
		ctx context.Context,
		params *ses.SendTemplatedEmailInput,
		optFns ...func(*ses.Options),
	) (*ses.SendTemplatedEmailOutput, error)
}

// PasswordResetSender delivers password reset tokens with an Amazon SES template.
type PasswordResetSender struct {
	ses sesClient
	// This address must be verified with Amazon SES.
	sender   string
	template string
	now      func() time.Time
}

func NewPasswordResetSender(
	awsConfig aws.Config,
	sender string,
	template string,
	now func() time.Time,
) *PasswordResetSender {
	return newPasswordResetSender(ses.NewFromConfig(awsConfig), sender, template, now)
}

func newPasswordResetSender(client sesClient, sender string, template string, now func() time.Time) *PasswordResetSender {
	if sender == "" {
		panic("email sender must not be empty")
	}
	if template == "" {
		panic("password reset template must not be empty")
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &PasswordResetSender{ses: client, sender: sender, template: template, now: now}
}

func (s *PasswordResetSender) SendPasswordResetToken(
	ctx context.Context,
	u user.User,
	reset user.PasswordReset,
) error {
	if u.Email == "" {
		return errors.New("user email is not defined")
	}

	validFor := reset.ExpiresAt.Sub(s.now())
	templateParamsBytes, err := json.Marshal(
		passwordResetTemplateParams{
			Title:           "Password Reset",
			Name:            u.Name,
			Token:           string(reset.Token),
			ValidForSeconds: int(math.Max(0, math.Round(validFor.Seconds()))),
		},
	)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(u.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.template,
			TemplateData: &templateParams,
		},
	)
	return err
}

type passwordResetTemplateParams struct {
	Title           string `json:"title"`
	Name            string `json:"name"`
	Token           string `json:"token"`
	ValidForSeconds int    `json:"validForSeconds"`
}
