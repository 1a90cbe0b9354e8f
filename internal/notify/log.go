package notify

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Log prints the digest instead of sending it (dry runs, cron output).
type Log struct {
	out    io.Writer
	logger *zap.Logger
}

func NewLog(out io.Writer, log *zap.Logger) *Log {
	if log == nil {
		log = zap.NewNop()
	}
	return &Log{out: out, logger: log}
}

func (l *Log) Notify(_ context.Context, subject, body string) error {
	l.logger.Info("digest ready", zap.String("subject", subject), zap.Int("body_length", len(body)))
	if l.out == nil {
		return nil
	}
	_, err := fmt.Fprintf(l.out, "Subject: %s\n\n%s\n", subject, body)
	return err
}
