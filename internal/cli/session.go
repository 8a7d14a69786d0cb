package cli

import (
	"context"

	"github.com/decentpay/escrowkit/internal/envelope"
	"github.com/decentpay/escrowkit/internal/session"
	"github.com/decentpay/escrowkit/internal/signer"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// noSigner is the bridge used by read-only diagnostic commands. Reads
// resolve by simulation and never request a signature; any signing
// attempt through this bridge is a bug surfaced as an error.
type noSigner struct{}

func (noSigner) SignAuthEntry(_ context.Context, _ envelope.AuthorizationEntry, _ string) (envelope.AuthorizationEntry, error) {
	return envelope.AuthorizationEntry{}, ekerr.Wrap(ekerr.ErrSignerAddressRequired,
		"no signing agent attached; diagnostic commands are read-only")
}

func (noSigner) SignTransaction(_ context.Context, _ []byte, _ signer.SignOpts) ([]byte, error) {
	return nil, ekerr.Wrap(ekerr.ErrSignerAddressRequired,
		"no signing agent attached; diagnostic commands are read-only")
}

// openSession wires a read-only session from the global configuration.
// The caller owns the returned session and must Close it.
func openSession() (*session.Session, error) {
	if cfg == nil {
		return nil, ekerr.Wrap(ekerr.ErrConfigInvalid, "configuration not initialized")
	}
	return session.New(cfg, noSigner{})
}
