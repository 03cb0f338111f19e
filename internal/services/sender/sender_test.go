package services

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sub-manager/internal/lib/smtp"
	"github.com/magabrotheeeer/sub-manager/internal/models"
)

type MockTransport struct{ mock.Mock }

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
	written []byte
}

func (m *MockSMTPClient) Mail(from string) error {
	return m.Called(from).Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	return m.Called(to).Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Quit() error {
	return m.Called().Error(0)
}

func (m *MockSMTPClient) Close() error {
	return m.Called().Error(0)
}

type writeCloserBuffer struct {
	data []byte
}

func (w *writeCloserBuffer) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *writeCloserBuffer) Close() error { return nil }

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func reminderBody(t *testing.T) []byte {
	t.Helper()
	reminder := models.PaymentReminder{
		Email: "alice@example.com",
		Items: []models.ReminderItem{
			{SubscriptionTitle: "Netflix", SubscriptionPrice: 15.99, PaymentDate: time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)},
			{SubscriptionTitle: "Spotify", SubscriptionPrice: 9.99, PaymentDate: time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)},
		},
	}
	body, err := json.Marshal(reminder)
	require.NoError(t, err)
	return body
}

func TestSenderService_SendPaymentReminder(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	buf := &writeCloserBuffer{}

	transport.On("GetSMTPUser").Return("noreply@sub-manager.io")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "noreply@sub-manager.io").Return(nil).Once()
	client.On("Rcpt", "alice@example.com").Return(nil).Once()
	client.On("Data").Return(buf, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	service := NewSenderService(transport, newNoopLogger())
	err := service.SendPaymentReminder(reminderBody(t))
	require.NoError(t, err)

	msg := string(buf.data)
	assert.Contains(t, msg, "Subject: Payment Notification")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "<b>Netflix</b>: 15.99 due on 2024-05-11")
	assert.Contains(t, msg, "<b>Spotify</b>: 9.99 due on 2024-05-11")
	client.AssertExpectations(t)
}

func TestSenderService_SendPaymentReminder_BadPayload(t *testing.T) {
	transport := new(MockTransport)
	service := NewSenderService(transport, newNoopLogger())

	err := service.SendPaymentReminder([]byte("not-json"))
	require.Error(t, err)
	transport.AssertNotCalled(t, "Connect")
}

func TestSenderService_SendPaymentReminder_EmptyReminder(t *testing.T) {
	transport := new(MockTransport)
	service := NewSenderService(transport, newNoopLogger())

	body, err := json.Marshal(models.PaymentReminder{Email: "", Items: nil})
	require.NoError(t, err)

	// Пустое напоминание пропускается без ошибки, чтобы сообщение не
	// возвращалось в очередь бесконечно
	err = service.SendPaymentReminder(body)
	require.NoError(t, err)
	transport.AssertNotCalled(t, "Connect")
}

func TestSenderService_SendPaymentReminder_ConnectError(t *testing.T) {
	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("noreply@sub-manager.io")
	transport.On("Connect").Return(nil, errors.New("dial error")).Once()

	service := NewSenderService(transport, newNoopLogger())
	err := service.SendPaymentReminder(reminderBody(t))
	require.Error(t, err)
}
