package payment

import (
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v80"
)

// slogLeveledLogger routes the Stripe SDK's own logging through slog.
type slogLeveledLogger struct {
	log *slog.Logger
}

var _ stripe.LeveledLoggerInterface = (*slogLeveledLogger)(nil)

func (l *slogLeveledLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *slogLeveledLogger) Infof(format string, v ...interface{}) {
	l.log.Info(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *slogLeveledLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *slogLeveledLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...), "component", "stripe")
}
