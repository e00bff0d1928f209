package helpers

import (
	"encoding/json"
	"log/slog"

	"github.com/davidnwogucodes/sadaora/model"
	"github.com/nats-io/nats.go"
)

// Subjects used for follow events
const (
	SubjectFollow   = "profile.follow"
	SubjectUnfollow = "profile.unfollow"
)

// Publisher sends follow events on NATS.
// A Publisher without connection drops every message
type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// InitNATS starts a new NATS connection. A failed connection is logged
// and results in a Publisher that drops messages
func InitNATS(url string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Publisher{logger: logger}
	if url == "" {
		return p
	}

	connection, err := nats.Connect(url)
	if err != nil {
		logger.Warn("cannot connect to NATS", "url", url, "error", err)
		return p
	}

	p.conn = connection
	return p
}

// Publish allows publishing message on NATS
func (p *Publisher) Publish(subject string, message model.Message) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		p.logger.Error("cannot encode message", "subject", subject, "error", err)
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn("failed to send message", "subject", subject, "error", err)
	}
}

// Close drains pending messages and closes the connection
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}

	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
