// internal/alerts/notifier_test.go
package alerts

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindline-backend/internal/common/config"
	"mindline-backend/internal/common/logger"
	"mindline-backend/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakePublisher struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, input)
	return &sns.PublishOutput{}, f.err
}

type fakeSender struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSender) SendEmail(_ context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, input)
	return &ses.SendEmailOutput{}, f.err
}

func alertsConfig() config.AlertsConfig {
	cfg := config.AlertsConfig{Enabled: true, AWSRegion: "us-east-1"}
	cfg.SMS.Enabled = true
	cfg.SMS.PhoneNumber = "+15550100"
	cfg.Email.Enabled = true
	cfg.Email.FromEmail = "alerts@example.com"
	cfg.Email.ToEmail = "oncall@example.com"
	return cfg
}

func highAssessment() models.CrisisAssessment {
	return models.CrisisAssessment{
		Detected:   true,
		Level:      models.CrisisHigh,
		Triggers:   []models.Trigger{{Tag: "suicidal-ideation"}},
		Confidence: 0.7,
	}
}

// ==========================
// Notification Delivery
// ==========================

func TestNotifyHighRiskSendsBothChannels(t *testing.T) {
	sms := &fakePublisher{}
	email := &fakeSender{}
	n := NewNotifier(alertsConfig(), sms, email, logger.NewTestLogger(t))

	n.NotifyHighRisk(context.Background(), "turn-1", "user-1", highAssessment())

	require.Len(t, sms.inputs, 1)
	assert.Contains(t, *sms.inputs[0].Message, "suicidal-ideation")
	assert.Equal(t, "+15550100", *sms.inputs[0].PhoneNumber)

	require.Len(t, email.inputs, 1)
	assert.Equal(t, "alerts@example.com", *email.inputs[0].Source)
}

func TestNotifyHighRiskIgnoresLowerLevels(t *testing.T) {
	sms := &fakePublisher{}
	n := NewNotifier(alertsConfig(), sms, nil, logger.NewTestLogger(t))

	assessment := highAssessment()
	assessment.Level = models.CrisisMedium
	n.NotifyHighRisk(context.Background(), "turn-1", "user-1", assessment)

	assert.Empty(t, sms.inputs)
}

func TestNotifyHighRiskDisabled(t *testing.T) {
	sms := &fakePublisher{}
	cfg := alertsConfig()
	cfg.Enabled = false
	n := NewNotifier(cfg, sms, nil, logger.NewTestLogger(t))

	n.NotifyHighRisk(context.Background(), "turn-1", "user-1", highAssessment())

	assert.Empty(t, sms.inputs)
}

func TestNotifyHighRiskSwallowsDeliveryErrors(t *testing.T) {
	sms := &fakePublisher{err: errors.New("throttled")}
	email := &fakeSender{err: errors.New("rejected")}
	n := NewNotifier(alertsConfig(), sms, email, logger.NewTestLogger(t))

	// Must not panic or propagate anything.
	n.NotifyHighRisk(context.Background(), "turn-1", "user-1", highAssessment())

	assert.Len(t, sms.inputs, 1)
	assert.Len(t, email.inputs, 1)
}

func TestNotifyHighRiskOmitsMessageContent(t *testing.T) {
	sms := &fakePublisher{}
	n := NewNotifier(alertsConfig(), sms, nil, logger.NewTestLogger(t))

	n.NotifyHighRisk(context.Background(), "turn-1", "user-1", highAssessment())

	require.Len(t, sms.inputs, 1)
	message := *sms.inputs[0].Message
	assert.Contains(t, message, "user=user-1")
	assert.Contains(t, message, "confidence=0.70")
}
