// Package mailer defines the out-of-band delivery contract for confirmation
// codes. Delivery is fire-and-forget: the signup flow never waits on an
// acknowledgement and a lost message is recovered by signing up again.
package mailer

import "log/slog"

// Mailer delivers a confirmation code to a destination address.
type Mailer interface {
	Deliver(to, code string)
}

// LogMailer is the development transport. The code only appears at debug
// level; production logs see just the destination.
type LogMailer struct{}

func (LogMailer) Deliver(to, code string) {
	slog.Info("confirmation code dispatched", "to", to)
	slog.Debug("confirmation code", "to", to, "code", code)
}
