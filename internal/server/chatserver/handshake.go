package chatserver

import (
	"context"
	"errors"

	"github.com/yndnr/relaychat-go/internal/core/domain"
	"github.com/yndnr/relaychat-go/internal/storage/eventlog"
	"github.com/yndnr/relaychat-go/internal/telemetry/metric"
)

// Handshake prompts and replies. Every string is sent as one frame.
const (
	PromptSessionToken = "session token (blank if none): "
	PromptUsername     = "username: "
	PromptPassword     = "password: "

	ReplyWrongToken    = "wrong session token!\n"
	ReplyWrongPassword = "wrong password!\n"
	ReplyEmptyUsername = "username must not be empty!\n"
)

func greeting(username string) string {
	return "hello " + username + "\n"
}

// handshake runs the authentication dialogue on c. It returns the
// authenticated username, or ok=false when c must be closed.
//
// A wrong session token falls through to the username/password stage. A
// rejected username/password ends the dialogue.
func (s *Server) handshake(ctx context.Context, c *Conn) (username string, ok bool) {
	log := s.logger.With("conn_id", c.ID())

	if err := c.SendString(PromptSessionToken); err != nil {
		log.Debug("handshake write failed", "error", err)
		return "", false
	}
	tok, err := c.readFrame()
	if err != nil {
		s.abortHandshake(c, err)
		return "", false
	}

	if len(tok) > 0 {
		name, err := s.auth.ResolveToken(ctx, string(tok))
		switch {
		case err == nil:
			if err := c.SendString(greeting(name)); err != nil {
				return "", false
			}
			s.record(eventlog.EventTokenLogin, "conn", c.ID(), "user", name)
			s.metrics.RecordAuth(metric.AuthToken)
			log.Info("authenticated using session token", "username", name)
			return name, true
		case errors.Is(err, domain.ErrUnknownSessionToken):
			s.record(eventlog.EventWrongToken, "conn", c.ID())
			s.metrics.RecordAuth(metric.AuthWrongToken)
			log.Info("wrong session token")
			if err := c.SendString(ReplyWrongToken); err != nil {
				return "", false
			}
		default:
			log.Error("session lookup failed", "error", err)
			return "", false
		}
	}

	if err := c.SendString(PromptUsername); err != nil {
		return "", false
	}
	name, err := c.readFrame()
	if err != nil {
		s.abortHandshake(c, err)
		return "", false
	}
	if err := c.SendString(PromptPassword); err != nil {
		return "", false
	}
	pw, err := c.readFrame()
	if err != nil {
		s.abortHandshake(c, err)
		return "", false
	}

	res, err := s.auth.Login(ctx, string(name), pw)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrWrongPassword):
		s.record(eventlog.EventWrongPassword, "conn", c.ID(), "user", string(name))
		s.metrics.RecordAuth(metric.AuthWrongPassword)
		log.Info("wrong password", "username", string(name))
		_ = c.SendString(ReplyWrongPassword)
		return "", false
	case errors.Is(err, domain.ErrEmptyUsername):
		s.record(eventlog.EventEmptyUsername, "conn", c.ID())
		s.metrics.RecordAuth(metric.AuthEmptyUsername)
		_ = c.SendString(ReplyEmptyUsername)
		return "", false
	default:
		log.Error("login failed", "username", string(name), "error", err)
		return "", false
	}

	reply := greeting(res.Username)
	if res.Registered {
		reply += "your session token is " + res.Token + "\n"
		s.record(eventlog.EventRegistered, "conn", c.ID(), "user", res.Username)
		s.metrics.RecordAuth(metric.AuthRegistered)
		log.Info("registered user", "username", res.Username)
	} else {
		reply += "your new session token is " + res.Token + "\n"
		s.record(eventlog.EventPasswordLogin, "conn", c.ID(), "user", res.Username)
		s.metrics.RecordAuth(metric.AuthPassword)
		log.Info("authenticated using password", "username", res.Username)
	}
	if err := c.SendString(reply); err != nil {
		return "", false
	}
	return res.Username, true
}

func (s *Server) abortHandshake(c *Conn, err error) {
	s.metrics.RecordAuth(metric.AuthAborted)
	s.logger.Debug("handshake aborted", "conn_id", c.ID(), "error", err)
}
