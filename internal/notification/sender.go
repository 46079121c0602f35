package notification

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SMS/email delivery. Callers treat delivery as fire-and-forget: failures
// are logged, never propagated into a request's outcome.
type Sender interface {
	SendSMS(ctx context.Context, phone string, message string) error
	SendEmail(ctx context.Context, to string, subject string, body string) error
}

// LogSender writes every dispatch to the structured log instead of a
// provider. Stands in for the SMS/email gateway outside production.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendSMS(ctx context.Context, phone string, message string) error {
	s.log.Info("sms dispatched",
		zap.String("dispatch_id", uuid.NewString()),
		zap.String("phone", phone),
		zap.String("message", message),
	)
	return nil
}

func (s *LogSender) SendEmail(ctx context.Context, to string, subject string, body string) error {
	s.log.Info("email dispatched",
		zap.String("dispatch_id", uuid.NewString()),
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// 6-digit login code.
func GenerateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
