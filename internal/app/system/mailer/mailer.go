// Package mailer sends transactional email over SMTP.
//
// Mail is never on the critical path of a mutation: callers hand messages
// to a Dispatcher, which sends them in the background and logs failures.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Processes name the reasons an email is sent. They appear in logs.
const (
	ProcessNewUser                   = "PROCESS_NEW_USER"
	ProcessResetPasswordTokenRequest = "PROCESS_RESET_PASSWORD_TOKEN_REQUEST"
	ProcessResetPasswordConfirmation = "PROCESS_RESET_PASSWORD_CONFIRMATION"
	ProcessNewFollower               = "PROCESS_NEW_FOLLOWER"
)

// Email is a rendered message. HTMLBody is preferred when both are set.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// Config describes the SMTP account used for outbound mail.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// SMTP sends mail through an SMTP relay.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
	name   string
}

// NewSMTP returns a Sender for cfg.
func NewSMTP(cfg Config) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   cfg.From,
		name:   cfg.FromName,
	}
}

// Send dials the relay and delivers e. gomail has no context support, so
// ctx is only checked before dialing.
func (s *SMTP) Send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.To == "" {
		return errors.New("mailer: missing recipient")
	}
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.name)
	m.SetHeader("To", e.To)
	m.SetHeader("Subject", e.Subject)
	switch {
	case e.HTMLBody != "" && e.TextBody != "":
		m.SetBody("text/plain", e.TextBody)
		m.AddAlternative("text/html", e.HTMLBody)
	case e.HTMLBody != "":
		m.SetBody("text/html", e.HTMLBody)
	default:
		m.SetBody("text/plain", e.TextBody)
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Log is a Sender that only logs. It stands in when mail is disabled.
type Log struct {
	Logger *zap.Logger
}

// Send logs e at info level.
func (l Log) Send(_ context.Context, e Email) error {
	l.Logger.Info("email (not sent, mail disabled)",
		zap.String("to", e.To),
		zap.String("subject", e.Subject))
	return nil
}

// Dispatcher sends mail in the background.
type Dispatcher struct {
	sender  Sender
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher wraps sender. Each send gets its own timeout.
func NewDispatcher(sender Sender, logger *zap.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{sender: sender, log: logger, timeout: timeout}
}

// Dispatch sends e without blocking. A failure is logged with process and
// otherwise swallowed.
func (d *Dispatcher) Dispatch(process string, e Email) {
	if d == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.sender.Send(ctx, e); err != nil {
			d.log.Warn("error sending email",
				zap.String("process", process),
				zap.String("to", e.To),
				zap.Error(err))
			return
		}
		d.log.Debug("email sent", zap.String("process", process), zap.String("to", e.To))
	}()
}

// Wait blocks until every dispatched send has finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
