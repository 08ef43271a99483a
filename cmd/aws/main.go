// Command aws manages the SES template used for password reset emails.
//
//	aws create-template
//	aws delete-template
//	aws send-template -to user@example.com -data '{"name":"Alice","token":"a1B2c3"}'
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/caarlos0/env/v6"
)

const (
	PasswordResetSubject = "{{title}}"
	PasswordResetHTML    = `<p>Hello, {{name}}!</p>
<p>Your password reset code is <b>{{token}}</b>.</p>
<p>The code is valid for {{validForSeconds}} seconds. If you did not request a reset, ignore this email.</p>`
	PasswordResetText = `Hello, {{name}}!

Your password reset code is {{token}}.
The code is valid for {{validForSeconds}} seconds. If you did not request a reset, ignore this email.`
)

type Config struct {
	AwsRegion    string `env:"AWS_REGION" envDefault:"eu-central-1"`
	AwsAccessKey string `env:"AWS_ACCESS_KEY,required"`
	AwsSecretKey string `env:"AWS_SECRET_KEY,required"`
	// Must be verified with Amazon SES.
	AwsEmailSender                string `env:"AWS_EMAIL_SENDER" envDefault:"noreply@example.com"`
	AwsEmailPasswordResetTemplate string `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE" envDefault:"password-reset"`
}

func main() {
	if len(os.Args) < 2 {
		exit(fmt.Errorf("usage: %s create-template | delete-template | send-template", os.Args[0]))
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		exit(err)
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(cfg.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AwsAccessKey,
				cfg.AwsSecretKey,
				"",
			),
		),
	)
	if err != nil {
		exit(err)
	}
	svc := ses.NewFromConfig(awsCfg)

	switch os.Args[1] {
	case "create-template":
		err = CreateEmailTemplate(svc, cfg.AwsEmailPasswordResetTemplate)
	case "delete-template":
		err = DeleteEmailTemplate(svc, cfg.AwsEmailPasswordResetTemplate)
	case "send-template":
		flags := flag.NewFlagSet("send-template", flag.ExitOnError)
		to := flags.String("to", "", "recipient email")
		data := flags.String("data", "{}", "template data as JSON")
		flags.Parse(os.Args[2:])
		if *to == "" {
			exit(fmt.Errorf("-to is required"))
		}
		err = SendEmailTemplate(svc, cfg.AwsEmailSender, *to, cfg.AwsEmailPasswordResetTemplate, *data)
	default:
		err = fmt.Errorf("unknown command: %q", os.Args[1])
	}
	if err != nil {
		exit(err)
	}
	fmt.Println("Success.")
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func CreateEmailTemplate(svc *ses.Client, name string) error {
	_, err := svc.CreateTemplate(context.Background(), &ses.CreateTemplateInput{
		Template: &types.Template{
			TemplateName: aws.String(name),
			SubjectPart:  aws.String(PasswordResetSubject),
			HtmlPart:     aws.String(PasswordResetHTML),
			TextPart:     aws.String(PasswordResetText),
		},
	})
	return err
}

func DeleteEmailTemplate(svc *ses.Client, name string) error {
	_, err := svc.DeleteTemplate(context.Background(), &ses.DeleteTemplateInput{
		TemplateName: aws.String(name),
	})
	return err
}

func SendEmailTemplate(svc *ses.Client, sender string, to string, name string, data string) error {
	_, err := svc.SendTemplatedEmail(context.Background(), &ses.SendTemplatedEmailInput{
		Source:       aws.String(sender),
		Destination:  &types.Destination{ToAddresses: []string{to}},
		Template:     aws.String(name),
		TemplateData: aws.String(data),
	})
	return err
}
