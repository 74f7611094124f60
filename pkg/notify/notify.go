// Package notify surfaces non-blocking user-visible notices, the terminal
// analog of the web client's toast messages. Stores and workflows report
// outcomes here instead of letting errors escape into the presentation layer.
package notify

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Notifier writes user-facing notices and mirrors them to the structured log.
type Notifier struct {
	out    io.Writer
	logger *zap.Logger
}

// New returns a notifier writing to stderr.
func New(logger *zap.Logger) *Notifier {
	return &Notifier{out: os.Stderr, logger: logger}
}

// NewWriter returns a notifier writing to w. Used by tests.
func NewWriter(w io.Writer, logger *zap.Logger) *Notifier {
	return &Notifier{out: w, logger: logger}
}

// Successf reports a completed operation.
func (n *Notifier) Successf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	n.logger.Info(msg)
	fmt.Fprintln(n.out, msg)
}

// Errorf reports a failure the user can act on. The operation's state is
// expected to be left intact so the user can retry.
func (n *Notifier) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	n.logger.Warn(msg)
	fmt.Fprintln(n.out, "error: "+msg)
}
