package smtpconf

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTPServer accepts one session and replies to AUTH with authReply.
func fakeSMTPServer(t *testing.T, extensions []string, authReply string) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		fmt.Fprint(conn, "220 fake.local ESMTP\r\n")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"):
				fmt.Fprint(conn, "250-fake.local\r\n")
				for _, ext := range extensions {
					fmt.Fprintf(conn, "250-%s\r\n", ext)
				}
				fmt.Fprint(conn, "250 HELP\r\n")
			case strings.HasPrefix(cmd, "AUTH"):
				fmt.Fprint(conn, authReply+"\r\n")
			case strings.HasPrefix(cmd, "QUIT"):
				fmt.Fprint(conn, "221 bye\r\n")
				return
			default:
				fmt.Fprint(conn, "250 ok\r\n")
			}
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port
}

func testConfig(port int) domain.SMTPConfig {
	return domain.SMTPConfig{ID: 1, Host: "127.0.0.1", Port: port, Username: "mailer", Password: "secret"}
}

func TestTester_Success(t *testing.T) {
	port := fakeSMTPServer(t, []string{"AUTH PLAIN LOGIN"}, "235 2.7.0 Authentication successful")

	res := NewTester(2*time.Second, "studio.test").Test(context.Background(), testConfig(port))
	assert.True(t, res.Success, res.Message)
	assert.Equal(t, SuccessMessage, res.Message)
}

func TestTester_AuthRejected(t *testing.T) {
	port := fakeSMTPServer(t, []string{"AUTH PLAIN"}, "535 5.7.8 Authentication credentials invalid")

	res := NewTester(2*time.Second, "").Test(context.Background(), testConfig(port))
	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.Message, "SMTP test failed: "), res.Message)
	assert.Contains(t, res.Message, "auth")
}

func TestTester_StartTLSUnsupported(t *testing.T) {
	port := fakeSMTPServer(t, []string{"AUTH PLAIN"}, "235 ok")
	cfg := testConfig(port)
	cfg.UseTLS = true

	res := NewTester(2*time.Second, "").Test(context.Background(), cfg)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "STARTTLS")
}

func TestTester_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	res := NewTester(time.Second, "").Test(context.Background(), testConfig(port))
	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.Message, "SMTP test failed: "))
}

func TestTester_ValidationFailure(t *testing.T) {
	res := NewTester(time.Second, "").Test(context.Background(), domain.SMTPConfig{ID: 1})
	assert.False(t, res.Success)
	assert.Equal(t, ErrMissingFields.Error(), res.Message)
}

func TestTester_PlaintextRemoteHost(t *testing.T) {
	cfg := domain.SMTPConfig{ID: 2, Host: "smtp.example.com", Port: 25, Username: "mailer", Password: "secret"}

	start := time.Now()
	res := NewTester(5*time.Second, "").Test(context.Background(), cfg)
	assert.False(t, res.Success)
	assert.Equal(t, "SMTP test failed: "+ErrPlaintextAuth.Error(), res.Message)
	// refused before any dial
	assert.Less(t, time.Since(start), time.Second)
}

func TestIsLoopback(t *testing.T) {
	assert.True(t, isLoopback("localhost"))
	assert.True(t, isLoopback("127.0.0.1"))
	assert.True(t, isLoopback("::1"))
	assert.False(t, isLoopback("smtp.example.com"))
	assert.False(t, isLoopback("10.0.0.5"))
}
