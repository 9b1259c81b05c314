package main

import (
	"accounts/internal/config"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type template struct {
	Subject string
	Html    string
	Text    string
}

// Both templates receive {{url}} and {{expiresIn}}.
var (
	verifyEmailTemplate = template{
		Subject: "Confirm your email address",
		Html: `<p>Welcome!</p>
<p>Please <a href="{{url}}">confirm your email address</a>.</p>
<p>The link expires {{expiresIn}}.</p>`,
		Text: "Welcome!\n\nPlease confirm your email address: {{url}}\n\nThe link expires {{expiresIn}}.",
	}
	resetPasswordTemplate = template{
		Subject: "Reset your password",
		Html: `<p>Somebody asked to reset the password of your account.</p>
<p><a href="{{url}}">Choose a new password</a>. The link expires {{expiresIn}}.</p>
<p>If it was not you, just ignore this email.</p>`,
		Text: "Somebody asked to reset the password of your account.\n\n" +
			"Choose a new password: {{url}}\nThe link expires {{expiresIn}}.\n\n" +
			"If it was not you, just ignore this email.",
	}
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	svc := newClient(cfg)
	ctx := context.Background()

	switch os.Args[1] {
	case "create":
		CreateEmailTemplate(ctx, svc, cfg.AwsEmailVerifyEmailTemplate, verifyEmailTemplate)
		CreateEmailTemplate(ctx, svc, cfg.AwsEmailResetPasswordTemplate, resetPasswordTemplate)
	case "delete":
		DeleteEmailTemplate(ctx, svc, cfg.AwsEmailVerifyEmailTemplate)
		DeleteEmailTemplate(ctx, svc, cfg.AwsEmailResetPasswordTemplate)
	case "send":
		if len(os.Args) != 5 {
			usage()
		}
		SendEmailTemplate(ctx, svc, cfg.AwsEmailSender, os.Args[2], os.Args[3], os.Args[4])
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: email_templates create | delete | send <to> <template> <json-params>")
	os.Exit(2)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func newClient(cfg *config.Config) *ses.Client {
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
		fail(err)
	}
	return ses.NewFromConfig(awsCfg)
}

func CreateEmailTemplate(ctx context.Context, svc *ses.Client, name string, t template) {
	result, err := svc.CreateTemplate(ctx, &ses.CreateTemplateInput{
		Template: &types.Template{
			SubjectPart:  aws.String(t.Subject),
			HtmlPart:     aws.String(t.Html),
			TextPart:     aws.String(t.Text),
			TemplateName: aws.String(name),
		},
	})
	if err != nil {
		fail(err)
	}

	fmt.Println("Created", name)
	fmt.Println(result)
}

func DeleteEmailTemplate(ctx context.Context, svc *ses.Client, name string) {
	result, err := svc.DeleteTemplate(ctx, &ses.DeleteTemplateInput{
		TemplateName: aws.String(name),
	})
	if err != nil {
		fail(err)
	}

	fmt.Println("Deleted", name)
	fmt.Println(result)
}

func SendEmailTemplate(ctx context.Context, svc *ses.Client, sender, to, name, params string) {
	result, err := svc.SendTemplatedEmail(ctx, &ses.SendTemplatedEmailInput{
		Source: aws.String(sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Template:     aws.String(name),
		TemplateData: aws.String(params),
	})
	if err != nil {
		fail(err)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}
