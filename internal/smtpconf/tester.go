package smtpconf

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

// SuccessMessage is returned when the server accepted the connection and login.
const SuccessMessage = "SMTP connection successful!"

// ErrPlaintextAuth is returned for a remote server configured with neither
// TLS nor SSL. PLAIN credentials are only sent over an encrypted connection
// or to a loopback host.
var ErrPlaintextAuth = errors.New("credentials are only sent over an encrypted connection; enable TLS (STARTTLS) or SSL for this server")

// Tester opens a connection to an SMTP server, logs in and quits. It never
// sends mail.
type Tester struct {
	Timeout  time.Duration
	HeloName string
	// TLSConfig, when set, is cloned for SSL and STARTTLS handshakes.
	TLSConfig *tls.Config
}

// NewTester creates a Tester with the given dial and dialogue timeout.
func NewTester(timeout time.Duration, heloName string) *Tester {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if heloName == "" {
		heloName = "localhost"
	}
	return &Tester{Timeout: timeout, HeloName: heloName}
}

// Test runs the connection test. The outcome is always reported in the result;
// it never returns an error or panics.
func (t *Tester) Test(ctx context.Context, c domain.SMTPConfig) (res domain.SMTPTestResult) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(fmt.Errorf("%v", r))
		}
	}()

	if err := ValidateForTest(c); err != nil {
		return domain.SMTPTestResult{Success: false, Message: err.Error()}
	}

	if !c.UseTLS && !c.UseSSL && !isLoopback(c.Host) {
		logger.Warn("smtp test refused plaintext auth", "config_id", c.ID, "host", c.Host, "port", c.Port)
		return failed(ErrPlaintextAuth)
	}

	if err := t.run(ctx, c); err != nil {
		logger.Warn("smtp test failed", "config_id", c.ID, "host", c.Host, "username", c.Username, "error", err)
		return failed(err)
	}
	logger.Info("smtp test succeeded", "config_id", c.ID, "host", c.Host)
	return domain.SMTPTestResult{Success: true, Message: SuccessMessage}
}

func failed(err error) domain.SMTPTestResult {
	return domain.SMTPTestResult{Success: false, Message: "SMTP test failed: " + err.Error()}
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (t *Tester) run(ctx context.Context, c domain.SMTPConfig) error {
	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	conn, err := t.dial(ctx, addr, c)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, c.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("greeting: %w", err)
	}
	defer client.Close()

	if err := client.Hello(t.HeloName); err != nil {
		return fmt.Errorf("ehlo: %w", err)
	}

	if c.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return fmt.Errorf("server does not support STARTTLS")
		}
		if err := client.StartTLS(t.tlsConfig(c.Host)); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if ok, _ := client.Extension("AUTH"); ok {
		if err := client.Auth(smtp.PlainAuth("", c.Username, c.Password, c.Host)); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	} else {
		return fmt.Errorf("server does not offer AUTH")
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("quit: %w", err)
	}
	return nil
}

func (t *Tester) dial(ctx context.Context, addr string, c domain.SMTPConfig) (net.Conn, error) {
	nd := &net.Dialer{Timeout: t.Timeout}
	if c.UseSSL {
		d := &tls.Dialer{NetDialer: nd, Config: t.tlsConfig(c.Host)}
		return d.DialContext(ctx, "tcp", addr)
	}
	return nd.DialContext(ctx, "tcp", addr)
}

func (t *Tester) tlsConfig(host string) *tls.Config {
	if t.TLSConfig != nil {
		cfg := t.TLSConfig.Clone()
		if cfg.ServerName == "" {
			cfg.ServerName = host
		}
		return cfg
	}
	return &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
}
