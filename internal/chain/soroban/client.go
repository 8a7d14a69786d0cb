// Package soroban provides the RPC connector for the escrow network. It
// fetches account state, runs simulations, submits signed envelopes, and
// polls submission status against a single endpoint, returning uniform
// tagged results so no caller ever probes error shapes.
package soroban

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/decentpay/escrowkit/internal/envelope"
	"github.com/decentpay/escrowkit/internal/metrics"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// RPC method names exposed by the endpoint.
const (
	methodGetAccount  = "getAccount"
	methodSimulate    = "simulateTransaction"
	methodSend        = "sendTransaction"
	methodGetTx       = "getTransaction"
	methodGetContract = "getContractData"
)

// Client is the network connector. It is safe for concurrent use. The
// cached balance is last-known-good: a failed refresh never resets it.
type Client struct {
	profile    NetworkProfile
	httpClient *http.Client
	limiter    *RateLimiter
	idCounter  atomic.Uint64

	mu       sync.RWMutex
	balances map[string]*big.Int
}

// ClientOptions contains optional configuration for the connector.
type ClientOptions struct {
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	// Limiter overrides the default per-endpoint rate limiter.
	Limiter *RateLimiter
}

// NewClient creates a connector for the given network profile.
func NewClient(profile NetworkProfile, opts *ClientOptions) (*Client, error) {
	if profile.Endpoint == "" {
		return nil, ekerr.WithDetails(ekerr.ErrConfigInvalid, map[string]string{
			"reason": "network endpoint is required",
		})
	}

	c := &Client{
		profile:    profile,
		httpClient: &http.Client{Timeout: profile.Timeout},
		limiter:    DefaultRateLimiter(),
		balances:   make(map[string]*big.Int),
	}
	if opts != nil {
		if opts.HTTPClient != nil {
			c.httpClient = opts.HTTPClient
		}
		if opts.Limiter != nil {
			c.limiter = opts.Limiter
		}
	}
	return c, nil
}

// Profile returns the network profile the connector talks to.
func (c *Client) Profile() NetworkProfile {
	return c.profile
}

// request is a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      uint64 `json:"id"`
}

// response is a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError is a JSON-RPC error object.
type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// call performs a JSON-RPC call. Transport failures surface as
// NETWORK_UNAVAILABLE; RPC-level errors are returned as *rpcError.
func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx, c.profile.Endpoint); err != nil {
		return nil, ekerr.WithCause(ekerr.ErrNetworkUnavailable, err)
	}

	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.idCounter.Add(1),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.profile.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	metrics.Global.RecordRPCCall(time.Since(start), err)
	if err != nil {
		return nil, ekerr.WithCause(ekerr.ErrNetworkUnavailable, err)
	}
	// Body.Close error is intentionally ignored as it only fails if the
	// connection is already broken, and there's no recovery action.
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, ekerr.WithCause(ekerr.ErrNetworkUnavailable, err)
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, ekerr.WithCause(ekerr.ErrNetworkUnavailable,
			fmt.Errorf("unmarshaling response: %w", err))
	}

	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}

// accountResult is the wire shape of a getAccount result.
type accountResult struct {
	Address  string `json:"address"`
	Sequence string `json:"sequence"`
	Balance  string `json:"balance"`
}

// GetAccount fetches the current account state. The returned sequence
// number is only valid for the next build; callers must refetch before
// every envelope. A successful fetch refreshes the cached balance.
func (c *Client) GetAccount(ctx context.Context, address string) (*Account, error) {
	if !envelope.IsAddress(address) {
		return nil, ekerr.WithDetails(ekerr.ErrInvalidAddress, map[string]string{"address": address})
	}

	result, err := c.call(ctx, methodGetAccount, map[string]string{"address": address})
	if err != nil {
		var rpcErr *rpcError
		if ekerr.As(err, &rpcErr) && strings.Contains(strings.ToLower(rpcErr.Message), "not found") {
			return nil, ekerr.WithCause(ekerr.ErrAccountNotFound, rpcErr)
		}
		return nil, err
	}

	var decoded accountResult
	if err := json.Unmarshal(result, &decoded); err != nil {
		return nil, ekerr.WithCause(ekerr.ErrNetworkUnavailable,
			fmt.Errorf("parsing account: %w", err))
	}

	seq, err := strconv.ParseUint(decoded.Sequence, 10, 64)
	if err != nil {
		return nil, ekerr.WithCause(ekerr.ErrNetworkUnavailable,
			fmt.Errorf("parsing sequence %q: %w", decoded.Sequence, err))
	}

	account := &Account{Address: address, Sequence: seq}
	if decoded.Balance != "" {
		balance, ok := new(big.Int).SetString(decoded.Balance, 10)
		if ok {
			account.Balance = balance
			c.storeBalance(address, balance)
		}
	}
	return account, nil
}

// RefreshBalance re-fetches the balance for an address. On failure the
// previous cached value is left intact and returned alongside the error
// so callers can degrade to last-known-good.
func (c *Client) RefreshBalance(ctx context.Context, address string) (*big.Int, error) {
	account, err := c.GetAccount(ctx, address)
	metrics.Global.RecordBalanceRefresh(err)
	if err != nil {
		if cached, ok := c.CachedBalance(address); ok {
			return cached, err
		}
		return nil, err
	}
	return account.Balance, nil
}

// CachedBalance returns the last-known-good balance for an address.
func (c *Client) CachedBalance(address string) (*big.Int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	balance, ok := c.balances[address]
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(balance), true
}

func (c *Client) storeBalance(address string, balance *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances[address] = new(big.Int).Set(balance)
}

// simulateResult is the wire shape of a simulateTransaction result.
// Different call paths populate different fields; all are optional.
type simulateResult struct {
	Error          json.RawMessage               `json:"error,omitempty"`
	Auth           []envelope.AuthorizationEntry `json:"auth,omitempty"`
	Results        []OpResult                    `json:"results,omitempty"`
	ReturnValue    json.RawMessage               `json:"returnValue,omitempty"`
	MinResourceFee string                        `json:"minResourceFee,omitempty"`
	Events         []string                      `json:"events,omitempty"`
}

// Simulate dry-runs an envelope. The call never mutates ledger state.
// A failing simulation is not a transport error: it returns OK=false
// with the extracted message.
func (c *Client) Simulate(ctx context.Context, env *envelope.Envelope) (*SimulationResult, error) {
	result, err := c.call(ctx, methodSimulate, map[string]any{"transaction": env})
	if err != nil {
		var rpcErr *rpcError
		if ekerr.As(err, &rpcErr) {
			// The endpoint reported the simulation itself failed.
			sim := &SimulationResult{
				OK:           false,
				ErrorMessage: ExtractErrorMessage(rpcErr),
				ErrorPayload: rpcErr.Data,
			}
			metrics.Global.RecordSimulation(false)
			return sim, nil
		}
		return nil, err
	}

	var decoded simulateResult
	if err := json.Unmarshal(result, &decoded); err != nil {
		return nil, ekerr.WithCause(ekerr.ErrNetworkUnavailable,
			fmt.Errorf("parsing simulation: %w", err))
	}

	sim := &SimulationResult{
		RequiredAuth: decoded.Auth,
		Results:      decoded.Results,
		ReturnValue:  decoded.ReturnValue,
		Events:       decoded.Events,
	}

	if len(decoded.Error) > 0 && string(decoded.Error) != "null" {
		sim.OK = false
		sim.ErrorPayload = decoded.Error
		sim.ErrorMessage = ExtractFromRaw(decoded.Error)
		if sim.ErrorMessage == "" {
			sim.ErrorMessage = string(decoded.Error)
		}
		metrics.Global.RecordSimulation(false)
		return sim, nil
	}

	sim.OK = true
	if decoded.MinResourceFee != "" {
		fee, parseErr := strconv.ParseUint(decoded.MinResourceFee, 10, 64)
		if parseErr != nil {
			return nil, ekerr.WithCause(ekerr.ErrNetworkUnavailable,
				fmt.Errorf("parsing resource fee %q: %w", decoded.MinResourceFee, parseErr))
		}
		sim.ResourceFee = fee
	}
	metrics.Global.RecordSimulation(true)
	return sim, nil
}

// sendResult is the wire shape of a sendTransaction result.
type sendResult struct {
	Hash        string          `json:"hash"`
	Status      string          `json:"status"`
	ErrorResult json.RawMessage `json:"errorResult,omitempty"`
}

// Submit sends a signed envelope to the network.
func (c *Client) Submit(ctx context.Context, env *envelope.Envelope) (*SubmissionReceipt, error) {
	if len(env.Signatures) == 0 {
		return nil, ekerr.WithDetails(ekerr.ErrValidationFailed, map[string]string{
			"reason": "envelope is unsigned",
		})
	}

	payload := struct {
		*envelope.Envelope
		Signatures [][]byte `json:"signatures"`
	}{env, env.Signatures}

	result, err := c.call(ctx, methodSend, map[string]any{"transaction": payload})
	metrics.Global.RecordSubmission(err)
	if err != nil {
		return nil, err
	}

	var decoded sendResult
	if err := json.Unmarshal(result, &decoded); err != nil {
		return nil, ekerr.WithCause(ekerr.ErrNetworkUnavailable,
			fmt.Errorf("parsing submission: %w", err))
	}

	receipt := &SubmissionReceipt{
		Hash:         decoded.Hash,
		Status:       normalizeStatus(decoded.Status),
		ErrorPayload: decoded.ErrorResult,
	}
	if receipt.Status == StatusError {
		receipt.ErrorMessage = ExtractFromRaw(decoded.ErrorResult)
	}
	return receipt, nil
}

// getTxResult is the wire shape of a getTransaction result.
type getTxResult struct {
	Status      string          `json:"status"`
	ReturnValue json.RawMessage `json:"returnValue,omitempty"`
	ErrorResult json.RawMessage `json:"errorResult,omitempty"`
}

// GetStatus polls the status of a submitted transaction by hash.
// NOT_FOUND normalizes to Pending: the transaction may not have reached
// this node yet, and the ambiguity belongs to the poller's ceiling.
func (c *Client) GetStatus(ctx context.Context, hash string) (*SubmissionReceipt, error) {
	if hash == "" {
		return nil, ekerr.ErrTransactionNotFound
	}

	result, err := c.call(ctx, methodGetTx, map[string]string{"hash": hash})
	if err != nil {
		return nil, err
	}

	var decoded getTxResult
	if err := json.Unmarshal(result, &decoded); err != nil {
		return nil, ekerr.WithCause(ekerr.ErrNetworkUnavailable,
			fmt.Errorf("parsing status: %w", err))
	}

	receipt := &SubmissionReceipt{
		Hash:   hash,
		Status: normalizeStatus(decoded.Status),
	}
	if receipt.Status == StatusError {
		receipt.ErrorPayload = decoded.ErrorResult
		receipt.ErrorMessage = ExtractFromRaw(decoded.ErrorResult)
	}
	return receipt, nil
}

// ReadContractData fetches a contract storage entry. Read paths go
// through simulation or this call; neither mutates ledger state.
func (c *Client) ReadContractData(ctx context.Context, contractID, key string) (json.RawMessage, error) {
	result, err := c.call(ctx, methodGetContract, map[string]string{
		"contract": contractID,
		"key":      key,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// normalizeStatus maps heterogeneous wire statuses onto the small
// normalized set.
func normalizeStatus(s string) Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SUCCESS", "COMPLETED":
		return StatusSuccess
	case "PENDING", "NOT_FOUND", "TRY_AGAIN_LATER", "":
		return StatusPending
	case "ERROR", "FAILED", "DUPLICATE":
		return StatusError
	default:
		return StatusPending
	}
}
