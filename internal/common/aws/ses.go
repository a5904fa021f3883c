// internal/common/aws/ses.go

// Package aws wraps the AWS SDK clients behind the narrow surface the
// counselor alert notifier consumes, so the rest of the pipeline never
// touches SDK configuration directly.
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// SESClient delivers counselor alert emails. It satisfies the
// alerts.EmailSender interface.
type SESClient struct {
	client *ses.Client
}

// NewSESClient builds an SES client from the ambient AWS credential
// chain for the given region.
func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESClient{client: ses.NewFromConfig(cfg)}, nil
}

// SendEmail sends one counselor alert email.
func (s *SESClient) SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	return s.client.SendEmail(ctx, input)
}
