// Package session assembles the orchestration stack for one network
// profile and contract: connector, signer bridge, submission journal,
// event sinks, and the typed escrow surface, with a single explicit
// Close instead of ambient global state.
package session

import (
	"time"

	"github.com/decentpay/escrowkit/internal/chain/soroban"
	"github.com/decentpay/escrowkit/internal/config"
	"github.com/decentpay/escrowkit/internal/events"
	"github.com/decentpay/escrowkit/internal/journal"
	"github.com/decentpay/escrowkit/internal/service/escrow"
	"github.com/decentpay/escrowkit/internal/service/invoke"
	"github.com/decentpay/escrowkit/internal/signer"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// Session is a fully wired orchestration stack.
type Session struct {
	Connector *soroban.Client
	Invoker   *invoke.Service
	Escrow    *escrow.Service
	Journal   *journal.Journal
	Events    *events.Dispatcher

	nats *events.NATSPublisher
}

// New builds a session from configuration and a signer bridge. The
// bridge stays outside the session's ownership; keys never enter this
// process.
func New(cfg *config.Config, bridge signer.Bridge) (*Session, error) {
	if cfg == nil {
		return nil, ekerr.Wrap(ekerr.ErrConfigInvalid, "configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Contract.ID == "" {
		return nil, ekerr.Wrap(ekerr.ErrConfigInvalid, "contract.id is required")
	}

	profile := soroban.NetworkProfile{
		Endpoint: cfg.Network.Endpoint,
		Network:  cfg.Network.Passphrase,
		BaseFee:  cfg.Network.BaseFee,
		Timeout:  cfg.NetworkTimeout(),
	}

	connector, err := soroban.NewClient(profile, &soroban.ClientOptions{
		Limiter: soroban.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		Connector: connector,
		Events:    events.NewDispatcher(),
	}

	sink := events.Multi{s.Events}
	if cfg.Events.Driver == "nats" {
		nats, err := events.NewNATSPublisher(events.NATSConfig{
			URL:     cfg.Events.URL,
			Subject: cfg.Events.Subject,
		})
		if err != nil {
			return nil, err
		}
		s.nats = nats
		sink = append(sink, nats)
	}

	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			s.closePartial()
			return nil, err
		}
		s.Journal = j
	}

	invoker, err := invoke.NewService(invoke.Options{
		Profile:    profile,
		ContractID: cfg.Contract.ID,
		Connector:  connector,
		Bridge:     bridge,
		Recorder:   recorderOrNil(s.Journal),
		Sink:       sink,
		Confirm: invoke.ConfirmOpts{
			Interval:    time.Duration(cfg.Confirmation.IntervalSeconds) * time.Second,
			MaxAttempts: cfg.Confirmation.MaxAttempts,
		},
	})
	if err != nil {
		s.closePartial()
		return nil, err
	}

	s.Invoker = invoker
	s.Escrow = escrow.NewService(invoker)
	return s, nil
}

// Close releases the session's local resources. The connector holds no
// persistent connections and needs no teardown.
func (s *Session) Close() error {
	var firstErr error
	if s.Journal != nil {
		if err := s.Journal.Close(); err != nil {
			firstErr = err
		}
	}
	if s.nats != nil {
		if err := s.nats.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Session) closePartial() {
	_ = s.Close()
}

// recorderOrNil avoids a typed-nil interface when the journal is
// disabled.
func recorderOrNil(j *journal.Journal) invoke.Recorder {
	if j == nil {
		return nil
	}
	return j
}
