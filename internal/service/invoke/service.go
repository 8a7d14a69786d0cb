package invoke

import (
	"context"
	"encoding/json"

	"github.com/decentpay/escrowkit/internal/chain/soroban"
	"github.com/decentpay/escrowkit/internal/envelope"
	"github.com/decentpay/escrowkit/internal/events"
	"github.com/decentpay/escrowkit/internal/journal"
	"github.com/decentpay/escrowkit/internal/service/escrow"
	"github.com/decentpay/escrowkit/internal/signer"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// Service runs the invocation pipeline against one contract.
type Service struct {
	profile    soroban.NetworkProfile
	contractID string
	connector  Connector
	bridge     signer.Bridge
	recorder   Recorder
	sink       events.Sink
	locks      *AccountLocks
	confirm    ConfirmOpts
}

// Options assemble a Service. Recorder and Sink are optional; absent
// ones become no-ops.
type Options struct {
	Profile    soroban.NetworkProfile
	ContractID string
	Connector  Connector
	Bridge     signer.Bridge
	Recorder   Recorder
	Sink       events.Sink
	Confirm    ConfirmOpts
}

// NewService creates an invocation service.
func NewService(opts Options) (*Service, error) {
	if opts.ContractID == "" {
		return nil, ekerr.WithDetails(ekerr.ErrConfigInvalid, map[string]string{
			"reason": "contract id is required",
		})
	}
	if opts.Connector == nil {
		return nil, ekerr.WithDetails(ekerr.ErrConfigInvalid, map[string]string{
			"reason": "connector is required",
		})
	}
	if opts.Bridge == nil {
		return nil, ekerr.WithDetails(ekerr.ErrConfigInvalid, map[string]string{
			"reason": "signer bridge is required",
		})
	}

	sink := opts.Sink
	if sink == nil {
		sink = events.Discard{}
	}

	return &Service{
		profile:    opts.Profile,
		contractID: opts.ContractID,
		connector:  opts.Connector,
		bridge:     opts.Bridge,
		recorder:   opts.Recorder,
		sink:       sink,
		locks:      NewAccountLocks(),
		confirm:    opts.Confirm,
	}, nil
}

// Invoke runs one write invocation end to end: validate, build,
// simulate, sign, submit, confirm. Exactly one envelope is submitted
// per call, and every failure carries exactly one taxonomy code.
func (s *Service) Invoke(ctx context.Context, req Request) (*Result, error) {
	method, err := escrow.LookupMethod(req.Method)
	if err != nil {
		return nil, classify(StageValidate, err)
	}
	if method.ReadOnly {
		return nil, classify(StageValidate, ekerr.WithDetails(
			ekerr.Wrap(ekerr.ErrInvalidMethod, "method is read-only"),
			map[string]string{"method": req.Method},
		))
	}
	if req.SignerAddress == "" {
		return nil, classify(StageValidate, ekerr.ErrSignerAddressRequired)
	}
	if !envelope.IsAddress(req.SignerAddress) {
		return nil, classify(StageValidate, ekerr.WithDetails(
			ekerr.ErrInvalidAddress,
			map[string]string{"address": req.SignerAddress},
		))
	}

	// One in-flight envelope per account: a second invocation from the
	// same source waits here instead of burning a duplicate sequence.
	s.locks.Lock(req.SignerAddress)
	defer s.locks.Unlock(req.SignerAddress)

	// The sequence number is fetched fresh inside the lock; a value
	// fetched earlier could already be consumed.
	account, err := s.connector.GetAccount(ctx, req.SignerAddress)
	if err != nil {
		return nil, classify(StageBuild, err)
	}

	env, err := envelope.Build(envelope.BuildParams{
		Source:     req.SignerAddress,
		Sequence:   account.Sequence,
		Network:    s.profile.Network,
		ContractID: s.contractID,
		Method:     req.Method,
		Args:       req.Args,
		BaseFee:    s.profile.BaseFee,
		Timeout:    s.profile.Timeout,
	})
	if err != nil {
		return nil, classify(StageBuild, err)
	}

	sim, err := s.connector.Simulate(ctx, env)
	if err != nil {
		return nil, classify(StageSimulate, err)
	}
	if !sim.OK {
		return nil, simulationFailure(req.Method, sim.ErrorMessage)
	}

	final, err := s.finalize(ctx, env, sim, req.SignerAddress)
	if err != nil {
		return nil, err
	}

	return s.submitAndConfirm(ctx, final, req)
}

// finalize signs discovered auth entries, folds the simulated resource
// fee into a fresh envelope, and signs the result.
func (s *Service) finalize(ctx context.Context, env *envelope.Envelope, sim *soroban.SimulationResult, signerAddress string) (*envelope.Envelope, error) {
	required := envelope.ExtractRequiredAuth(sim)

	// An empty set means only the outer envelope needs signing; the
	// bridge is never prompted for entries that do not exist.
	signedAuth, err := s.signAuthEntries(ctx, required, signerAddress)
	if err != nil {
		return nil, err
	}

	final, err := env.Prepare(sim.ResourceFee, signedAuth)
	if err != nil {
		return nil, classify(StageBuild, err)
	}

	payload, err := final.SigningPayload()
	if err != nil {
		return nil, classify(StageBuild, err)
	}

	sig, err := s.signTransaction(ctx, payload, signerAddress)
	if err != nil {
		return nil, err
	}
	final.AttachSignature(sig)
	return final, nil
}

func (s *Service) signAuthEntries(ctx context.Context, entries []envelope.AuthorizationEntry, signerAddress string) ([]envelope.AuthorizationEntry, error) {
	signed, err := signer.SignAuthEntries(ctx, s.bridge, entries, signerAddress)
	if err != nil {
		return nil, classify(StageSign, err)
	}
	return signed, nil
}

func (s *Service) signTransaction(ctx context.Context, payload []byte, signerAddress string) ([]byte, error) {
	sig, err := s.bridge.SignTransaction(ctx, payload, signer.SignOpts{
		Address: signerAddress,
		Network: s.profile.Network,
	})
	if err != nil {
		return nil, classify(StageSign, err)
	}
	return sig, nil
}

func (s *Service) submitAndConfirm(ctx context.Context, final *envelope.Envelope, req Request) (*Result, error) {
	receipt, err := s.connector.Submit(ctx, final)
	if err != nil {
		return nil, classify(StageSubmit, err)
	}

	s.record(journal.Entry{
		Hash:     receipt.Hash,
		Method:   req.Method,
		Source:   req.SignerAddress,
		Sequence: final.Sequence,
		Status:   receipt.Status,
	})
	s.publish(ctx, events.Event{
		Kind:    events.KindSubmissionStarted,
		Hash:    receipt.Hash,
		Method:  req.Method,
		Address: req.SignerAddress,
	})

	if receipt.Status == soroban.StatusError {
		s.finishJournal(receipt, req, final.Sequence)
		s.publish(ctx, events.Event{
			Kind:    events.KindSubmissionFailed,
			Hash:    receipt.Hash,
			Method:  req.Method,
			Address: req.SignerAddress,
			Message: receipt.ErrorMessage,
		})
		return nil, executionFailure(receipt.Hash, receipt.ErrorMessage)
	}

	// Polling needs a hash to poll for. A pending receipt without one
	// is already unresolvable; burning the attempt budget on empty
	// status lookups would not change that.
	if receipt.Hash == "" {
		s.publish(ctx, events.Event{
			Kind:    events.KindSubmissionUnknown,
			Method:  req.Method,
			Address: req.SignerAddress,
		})
		return nil, classify(StageConfirm, ekerr.Wrap(ekerr.ErrUnknown,
			"submission accepted without a transaction hash; outcome cannot be confirmed"))
	}

	confirmed, confirmErr := Confirm(ctx, s.connector.GetStatus, receipt.Hash, s.confirm)
	s.finishJournal(confirmed, req, final.Sequence)

	switch confirmed.Status {
	case soroban.StatusSuccess:
		s.publish(ctx, events.Event{
			Kind:    events.KindSubmissionConfirmed,
			Hash:    confirmed.Hash,
			Method:  req.Method,
			Address: req.SignerAddress,
		})
		s.refreshBalance(ctx, req.SignerAddress)
		return &Result{
			Hash:     confirmed.Hash,
			Status:   confirmed.Status,
			Attempts: confirmed.Attempts,
			Receipt:  confirmed,
		}, nil

	case soroban.StatusError:
		s.publish(ctx, events.Event{
			Kind:    events.KindSubmissionFailed,
			Hash:    confirmed.Hash,
			Method:  req.Method,
			Address: req.SignerAddress,
			Message: confirmed.ErrorMessage,
		})
		return nil, executionFailure(confirmed.Hash, confirmed.ErrorMessage)

	case soroban.StatusPending, soroban.StatusUnknown:
		s.publish(ctx, events.Event{
			Kind:    events.KindSubmissionUnknown,
			Hash:    confirmed.Hash,
			Method:  req.Method,
			Address: req.SignerAddress,
		})
		return nil, classify(StageConfirm, confirmErr)
	}
	return nil, classify(StageConfirm, confirmErr)
}

// Read resolves a read-only method by simulation, without submitting
// anything. The source account only shapes the dry run.
func (s *Service) Read(ctx context.Context, method string, args []envelope.Val) (json.RawMessage, error) {
	m, err := escrow.LookupMethod(method)
	if err != nil {
		return nil, classify(StageValidate, err)
	}
	if !m.ReadOnly {
		return nil, classify(StageValidate, ekerr.WithDetails(
			ekerr.Wrap(ekerr.ErrInvalidMethod, "method mutates state; use a write invocation"),
			map[string]string{"method": method},
		))
	}

	env, err := envelope.Build(envelope.BuildParams{
		Source:     s.readSource(),
		Sequence:   0,
		Network:    s.profile.Network,
		ContractID: s.contractID,
		Method:     method,
		Args:       args,
		BaseFee:    s.profile.BaseFee,
		Timeout:    s.profile.Timeout,
	})
	if err != nil {
		return nil, classify(StageBuild, err)
	}

	sim, err := s.connector.Simulate(ctx, env)
	if err != nil {
		return nil, classify(StageSimulate, err)
	}
	if !sim.OK {
		return nil, simulationFailure(method, sim.ErrorMessage)
	}
	return sim.ReturnValue, nil
}

// Write runs a full invocation and returns its receipt. Together with
// Read this is the surface the typed escrow operations consume.
func (s *Service) Write(ctx context.Context, method string, args []envelope.Val, signerAddress string) (*soroban.SubmissionReceipt, error) {
	result, err := s.Invoke(ctx, Request{Method: method, Args: args, SignerAddress: signerAddress})
	if err != nil {
		return nil, err
	}
	return result.Receipt, nil
}

// readViewAccount is the neutral source used for read simulations.
const readViewAccount = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"

func (s *Service) readSource() string {
	return readViewAccount
}

func (s *Service) record(entry journal.Entry) {
	if s.recorder == nil {
		return
	}
	// Journal writes are best effort; an invocation never fails because
	// the local store did.
	_ = s.recorder.Record(entry)
}

func (s *Service) finishJournal(receipt *soroban.SubmissionReceipt, req Request, sequence uint64) {
	if receipt == nil {
		return
	}
	s.record(journal.Entry{
		Hash:     receipt.Hash,
		Method:   req.Method,
		Source:   req.SignerAddress,
		Sequence: sequence,
		Status:   receipt.Status,
		Error:    receipt.ErrorMessage,
		Attempts: receipt.Attempts,
	})
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	_ = s.sink.Publish(ctx, event)
}

// refreshBalance updates the cached balance after a confirmed
// invocation. Failure leaves the last-known-good value in place.
func (s *Service) refreshBalance(ctx context.Context, address string) {
	if _, err := s.connector.RefreshBalance(ctx, address); err == nil {
		s.publish(ctx, events.Event{Kind: events.KindBalanceRefreshed, Address: address})
	}
}
