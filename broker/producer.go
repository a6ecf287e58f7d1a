package broker

import (
	"fmt"
	"time"

	"smartnotes/smartnotes/utils/logger"

	"github.com/nats-io/nats.go"
)

// Publisher sends raw payloads to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Client wraps a single NATS connection used for both publishing and
// subscribing.
type Client struct {
	conn *nats.Conn
}

// Connect dials NATS. The initial dial is not retried so callers can run
// without a broker.
func Connect(url string) (*Client, error) {
	conn, err := nats.Connect(url,
		nats.Name("smartnotes"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Log.Info().Str("url", conn.ConnectedUrl()).Msg("NATS connection established")
	return &Client{conn: conn}, nil
}

func (c *Client) Publish(subject string, data []byte) error {
	if c == nil || c.conn == nil {
		return nats.ErrConnectionClosed
	}
	if err := c.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (c *Client) Close() {
	if c == nil || c.conn == nil {
		return
	}
	if err := c.conn.Drain(); err != nil {
		logger.Log.Warn().Err(err).Msg("NATS drain failed, closing")
		c.conn.Close()
	}
}
