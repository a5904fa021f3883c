// internal/alerts/notifier.go
package alerts

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	"mindline-backend/internal/common/config"
	pipelineerrors "mindline-backend/internal/common/errors"
	"mindline-backend/internal/common/logger"
	"mindline-backend/internal/models"
)

// SMSPublisher is the slice of the SNS client the notifier needs.
type SMSPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// EmailSender is the slice of the SES client the notifier needs.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// Notifier delivers counselor alerts for high-level crisis detections.
// Delivery is best-effort: failures are logged, never propagated, and
// never affect the turn result.
type Notifier struct {
	cfg    config.AlertsConfig
	sms    SMSPublisher
	email  EmailSender
	logger logger.Logger
}

func NewNotifier(cfg config.AlertsConfig, sms SMSPublisher, email EmailSender, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		sms:    sms,
		email:  email,
		logger: log.With(map[string]interface{}{"component": "alerts"}),
	}
}

// NotifyHighRisk alerts the on-call counselor channel about a high-level
// detection. Only assessment metadata is sent, never message content.
func (n *Notifier) NotifyHighRisk(ctx context.Context, turnID, userID string, crisis models.CrisisAssessment) {
	if !n.cfg.Enabled || crisis.Level != models.CrisisHigh {
		return
	}

	tags := make([]string, 0, len(crisis.Triggers))
	for _, trigger := range crisis.Triggers {
		tags = append(tags, trigger.Tag)
	}

	summary := fmt.Sprintf(
		"High-risk crisis detected. turn=%s user=%s confidence=%.2f triggers=%v at=%s",
		turnID, userID, crisis.Confidence, tags, crisis.ComputedAt.Format(time.RFC3339),
	)

	if n.cfg.SMS.Enabled && n.sms != nil {
		n.sendSMS(ctx, summary)
	}
	if n.cfg.Email.Enabled && n.email != nil {
		n.sendEmail(ctx, summary)
	}
}

func (n *Notifier) sendSMS(ctx context.Context, message string) {
	input := &sns.PublishInput{
		Message:     awssdk.String(message),
		PhoneNumber: awssdk.String(n.cfg.SMS.PhoneNumber),
	}
	if n.cfg.SMS.SenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    awssdk.String("String"),
				StringValue: awssdk.String(n.cfg.SMS.SenderID),
			},
		}
	}

	if _, err := n.sms.Publish(ctx, input); err != nil {
		stdErr := pipelineerrors.NewAlertSendFailedError("sms", err)
		n.logger.WithError(stdErr).Error("failed to deliver counselor SMS alert", nil)
		return
	}
	n.logger.Info("counselor SMS alert delivered", nil)
}

func (n *Notifier) sendEmail(ctx context.Context, summary string) {
	input := &ses.SendEmailInput{
		Source: awssdk.String(n.cfg.Email.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.cfg.Email.ToEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{
				Data: awssdk.String("High-risk crisis alert"),
			},
			Body: &sestypes.Body{
				Text: &sestypes.Content{
					Data: awssdk.String(summary),
				},
			},
		},
	}

	if _, err := n.email.SendEmail(ctx, input); err != nil {
		stdErr := pipelineerrors.NewAlertSendFailedError("email", err)
		n.logger.WithError(stdErr).Error("failed to deliver counselor email alert", nil)
		return
	}
	n.logger.Info("counselor email alert delivered", nil)
}
