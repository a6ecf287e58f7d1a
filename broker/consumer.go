package broker

import (
	"fmt"

	"smartnotes/smartnotes/utils/logger"

	"github.com/nats-io/nats.go"
)

type Message struct {
	Subject string
	Data    []byte
}

// Subscriber delivers messages for a subject pattern on a channel. The
// returned function unsubscribes.
type Subscriber interface {
	Subscribe(subject string, buffer int) (<-chan Message, func(), error)
}

func (c *Client) Subscribe(subject string, buffer int) (<-chan Message, func(), error) {
	if c == nil || c.conn == nil {
		return nil, nil, nats.ErrConnectionClosed
	}

	out := make(chan Message, buffer)
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		select {
		case out <- toMessage(msg):
		default:
			logger.Log.Warn().Str("subject", msg.Subject).Msg("Subscriber channel full, dropping message")
		}
	})
	if err != nil {
		close(out)
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	logger.Log.Info().Str("subject", subject).Msg("NATS subscription started")

	stop := func() {
		if err := sub.Unsubscribe(); err != nil {
			logger.Log.Warn().Err(err).Str("subject", subject).Msg("Unsubscribe failed")
		}
	}
	return out, stop, nil
}

func toMessage(msg *nats.Msg) Message {
	return Message{Subject: msg.Subject, Data: msg.Data}
}
