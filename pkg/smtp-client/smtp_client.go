package smtp_client

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
	"net/textproto"
	"sync"
	"time"

	"github.com/knadh/smtppool"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

const (
	DEFAULT_MAX_CONNECTIONS = 2
	DEFAULT_SEND_TIMEOUT    = 30 * time.Second
)

// SmtpClient sends campaign emails through a pooled SMTP connection. The pool
// is built lazily from the transport settings document and rebuilt whenever
// the credentials change or a send fails.
type SmtpClient struct {
	mu       sync.Mutex
	pool     *smtppool.Pool
	settings types.SMTPSettings
}

func NewSmtpClient() *SmtpClient {
	return &SmtpClient{}
}

func (sc *SmtpClient) SendMail(
	ctx context.Context,
	transport types.TransportSettings,
	to string,
	subject string,
	htmlContent string,
) error {
	pool, err := sc.poolFor(transport.SMTP)
	if err != nil {
		return err
	}

	from := transport.FromAddress
	if transport.FromName != "" {
		from = fmt.Sprintf("%s <%s>", transport.FromName, transport.FromAddress)
	}

	e := smtppool.Email{
		To:      []string{to},
		From:    from,
		Subject: subject,
		HTML:    []byte(htmlContent),
		Headers: textproto.MIMEHeader{},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- pool.Send(e)
	}()

	select {
	case err = <-errCh:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		slog.Error("error when trying to send email", slog.String("host", transport.SMTP.Host), slog.String("error", err.Error()))
		sc.reset()
	}
	return err
}

func (sc *SmtpClient) poolFor(settings types.SMTPSettings) (*smtppool.Pool, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.pool != nil && sc.settings == settings {
		return sc.pool, nil
	}
	if sc.pool != nil {
		sc.pool.Close()
		sc.pool = nil
	}

	var auth smtp.Auth
	if settings.Username != "" || settings.Password != "" {
		auth = smtp.PlainAuth("", settings.Username, settings.Password, settings.Host)
	}

	pool, err := smtppool.New(smtppool.Opt{
		Host:            settings.Host,
		Port:            settings.Port,
		MaxConns:        DEFAULT_MAX_CONNECTIONS,
		IdleTimeout:     DEFAULT_SEND_TIMEOUT,
		PoolWaitTimeout: DEFAULT_SEND_TIMEOUT,
		TLSConfig: &tls.Config{
			ServerName: settings.Host,
		},
		Auth: auth,
	})
	if err != nil {
		return nil, err
	}

	sc.pool = pool
	sc.settings = settings
	return pool, nil
}

func (sc *SmtpClient) reset() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.pool != nil {
		sc.pool.Close()
		sc.pool = nil
	}
}
