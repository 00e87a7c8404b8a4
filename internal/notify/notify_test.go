package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"eposupdate/internal/config"
	"eposupdate/internal/domain"
	"eposupdate/internal/notify"
	"eposupdate/mocks"
)

var failed = domain.Notification{
	Title:    "Error",
	Message:  "Failed to update EPOS records",
	Severity: domain.SeverityError,
	Mode:     domain.ModeSticky,
}

func TestLogNotifier_Notify(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := notify.NewLogNotifier(zap.New(core))

	require.NoError(t, n.Notify(context.Background(), "run-1", failed))
	require.NoError(t, n.Notify(context.Background(), "run-1", domain.Notification{
		Title: "Success", Message: "Updated Successfully!!!", Severity: domain.SeveritySuccess,
	}))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "run-1", entries[0].ContextMap()["run_id"])
	assert.Equal(t, "Failed to update EPOS records", entries[0].ContextMap()["message"])
	assert.Equal(t, "sticky", entries[0].ContextMap()["mode"])
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
}

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	first := new(mocks.MockNotifier)
	second := new(mocks.MockNotifier)
	first.On("Notify", mock.Anything, "run-1", failed).Return(errors.New("first down")).Once()
	second.On("Notify", mock.Anything, "run-1", failed).Return(nil).Once()

	err := notify.NewMulti(first, nil, second).Notify(context.Background(), "run-1", failed)

	assert.ErrorContains(t, err, "first down")
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{}, nil
}

func TestSESNotifier_Notify(t *testing.T) {
	client := &fakeSES{}
	n := notify.NewSESNotifierWithClient(client, &config.NotifyConfig{
		FromAddress: "noreply@example.com",
		FromName:    "EPOS Mass Update",
		Recipients:  []string{"ops@example.com", "lead@example.com"},
	})

	require.NoError(t, n.Notify(context.Background(), "run-42", failed))

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "EPOS Mass Update <noreply@example.com>", *in.FromEmailAddress)
	assert.Equal(t, []string{"ops@example.com", "lead@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "[EPOS mass update] Error: Failed to update EPOS records", *in.Content.Simple.Subject.Data)
	assert.Contains(t, *in.Content.Simple.Body.Text.Data, "run-42")
	assert.Contains(t, *in.Content.Simple.Body.Html.Data, "#B91C1C")
}

func TestSESNotifier_Error(t *testing.T) {
	client := &fakeSES{err: errors.New("throttled")}
	n := notify.NewSESNotifierWithClient(client, &config.NotifyConfig{Recipients: []string{"ops@example.com"}})

	err := n.Notify(context.Background(), "run-1", failed)

	assert.ErrorContains(t, err, "SES SendEmail: throttled")
}

func TestSESNotifier_NoRecipients(t *testing.T) {
	client := &fakeSES{}
	n := notify.NewSESNotifierWithClient(client, &config.NotifyConfig{})

	require.NoError(t, n.Notify(context.Background(), "run-1", failed))
	assert.Empty(t, client.inputs)
}
