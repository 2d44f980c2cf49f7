// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// ReloadRequester queues a snapshot rebuild.
type ReloadRequester interface {
	RequestReload(trigger string) bool
}

// Replies sent to request-reply reload messages.
const (
	ReplyAccepted = "accepted"
	ReplyPending  = "pending"
)

// NATSReloadConfig configures the reload subscriber.
type NATSReloadConfig struct {
	URL           string
	Subject       string
	QueueGroup    string
	MaxReconnects int
	ReconnectWait time.Duration
}

// NATSReloadService forwards messages on the reload subject to the
// snapshot loader. With a queue group only one replica of the service
// handles each message.
type NATSReloadService struct {
	config NATSReloadConfig
	loader ReloadRequester
	logger zerolog.Logger
	name   string
}

// NewNATSReloadService creates the subscriber.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewNATSReloadService(cfg NATSReloadConfig, loader ReloadRequester, logger zerolog.Logger) *NATSReloadService {
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 2 * time.Second
	}
	return &NATSReloadService{
		config: cfg,
		loader: loader,
		logger: logger.With().Str("service", "nats-reload").Str("subject", cfg.Subject).Logger(),
		name:   "nats-reload",
	}
}

// Serve implements suture.Service. A failed connect or subscribe is
// returned so suture retries with backoff.
func (s *NATSReloadService) Serve(ctx context.Context) error {
	nc, err := nats.Connect(s.config.URL,
		nats.Name("menurec"),
		nats.MaxReconnects(s.config.MaxReconnects),
		nats.ReconnectWait(s.config.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				s.logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			s.logger.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Close()

	sub, err := nc.QueueSubscribe(s.config.Subject, s.config.QueueGroup, s.handle)
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", s.config.Subject, err)
	}
	if err := nc.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	s.logger.Info().Str("queue_group", s.config.QueueGroup).Msg("listening for reload requests")

	<-ctx.Done()

	if err := sub.Unsubscribe(); err != nil {
		s.logger.Debug().Err(err).Msg("unsubscribe failed")
	}
	return ctx.Err()
}

func (s *NATSReloadService) handle(msg *nats.Msg) {
	reply := ReplyPending
	if s.loader.RequestReload(TriggerNATS) {
		reply = ReplyAccepted
	}

	if msg.Reply == "" {
		return
	}
	if err := msg.Respond([]byte(reply)); err != nil {
		s.logger.Warn().Err(err).Msg("failed to answer reload request")
	}
}

// String implements fmt.Stringer for suture logs.
func (s *NATSReloadService) String() string {
	return s.name
}
