package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const defaultSubject = "payout.results"

// Publisher sends finished runs to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

func NewPublisher(url, subject string) (*Publisher, error) {
	if subject == "" {
		subject = defaultSubject
	}
	conn, err := nats.Connect(url,
		nats.Name("payout-optimizer"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", "err", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{conn: conn, subject: subject}, nil
}

func (p *Publisher) Publish(rec *RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return err
	}
	return p.conn.Flush()
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
