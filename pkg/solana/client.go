package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/code-payments/code-token-cli/pkg/rate"
	"github.com/code-payments/code-token-cli/pkg/retry"
	"github.com/code-payments/code-token-cli/pkg/retry/backoff"
)

const (
	// Reference: https://github.com/solana-labs/solana/blob/71e9958e061493d7545bd28d4ac7a85aaed6ffbb/client/src/rpc_custom_error.rs#L11
	rpcNodeUnhealthyCode = -32005
)

type Commitment struct {
	Commitment string `json:"commitment"`
}

const (
	confirmationStatusProcessed = "processed"
	confirmationStatusConfirmed = "confirmed"
	confirmationStatusFinalized = "finalized"
)

var (
	CommitmentProcessed = Commitment{Commitment: confirmationStatusProcessed}
	CommitmentConfirmed = Commitment{Commitment: confirmationStatusConfirmed}
	CommitmentFinalized = Commitment{Commitment: confirmationStatusFinalized}
)

// CommitmentFromString parses a commitment level name.
func CommitmentFromString(level string) (Commitment, error) {
	switch level {
	case confirmationStatusProcessed:
		return CommitmentProcessed, nil
	case confirmationStatusConfirmed:
		return CommitmentConfirmed, nil
	case confirmationStatusFinalized:
		return CommitmentFinalized, nil
	default:
		return Commitment{}, errors.Errorf("unknown commitment level %q", level)
	}
}

var (
	ErrNoAccountInfo = errors.New("no account info")
	ErrRateLimited   = errors.New("rate limited")
	ErrServiceError  = errors.New("service error")
)

// AccountInfo is the raw state of an on-chain account.
type AccountInfo struct {
	Data       []byte
	Owner      ed25519.PublicKey
	Lamports   uint64
	Executable bool
}

// Client is the subset of the Solana JSON RPC API needed to build, submit
// and inspect token administration transactions.
//
// Reference: https://docs.solana.com/apps/jsonrpc-api
type Client interface {
	// GetAccountInfo returns ErrNoAccountInfo when the account does not exist.
	GetAccountInfo(ed25519.PublicKey, Commitment) (AccountInfo, error)

	// GetLatestBlockhash always queries the node. The result is a short-lived
	// freshness token and is never cached.
	GetLatestBlockhash(Commitment) (Blockhash, error)

	// SubmitTransaction sends a signed transaction with preflight disabled.
	// A *TransactionError is returned when the node reports one.
	SubmitTransaction(Transaction, Commitment) (Signature, error)
}

// Option configures a client.
type Option func(*clientOpts)

type clientOpts struct {
	timeout      time.Duration
	headers      map[string]string
	retryLimit   uint
	retryBackoff time.Duration
	limiter      rate.Limiter
}

// WithTimeout bounds every HTTP round trip.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOpts) {
		o.timeout = timeout
	}
}

// WithHeader adds a header to every request, typically for authenticated
// RPC providers.
func WithHeader(key, value string) Option {
	return func(o *clientOpts) {
		o.headers[key] = value
	}
}

// WithReadRetries sets how often read-only calls are attempted when the node
// is rate limiting or unhealthy. Submission is never retried.
func WithReadRetries(limit uint, base time.Duration) Option {
	return func(o *clientOpts) {
		o.retryLimit = limit
		o.retryBackoff = base
	}
}

// WithRateLimiter paces requests per RPC method, for providers that reject
// bursts.
func WithRateLimiter(limiter rate.Limiter) Option {
	return func(o *clientOpts) {
		o.limiter = limiter
	}
}

type client struct {
	log         *logrus.Entry
	client      jsonrpc.RPCClient
	limiter     rate.Limiter
	readRetrier retry.Retrier
}

// New returns a client using the specified endpoint.
func New(endpoint string, opts ...Option) Client {
	o := &clientOpts{
		headers:      make(map[string]string),
		retryLimit:   3,
		retryBackoff: time.Second,
		limiter:      &rate.NoLimiter{},
	}
	for _, opt := range opts {
		opt(o)
	}

	rpcOpts := &jsonrpc.RPCClientOpts{
		HTTPClient:    &http.Client{Timeout: o.timeout},
		CustomHeaders: o.headers,
	}

	return &client{
		log:     logrus.StandardLogger().WithField("type", "solana/client"),
		client:  jsonrpc.NewClientWithOpts(endpoint, rpcOpts),
		limiter: o.limiter,
		readRetrier: retry.NewRetrier(
			retry.RetriableErrors(ErrRateLimited, ErrServiceError),
			retry.Limit(o.retryLimit),
			retry.BackoffWithJitter(backoff.BinaryExponential(o.retryBackoff), 10*o.retryBackoff, 0.1),
		),
	}
}

// read performs a read-only call, retrying transient node failures.
func (c *client) read(out interface{}, method string, params ...interface{}) error {
	_, err := c.readRetrier.Retry(func() error {
		return c.once(out, method, params...)
	})

	return err
}

// once performs a call exactly one time.
func (c *client) once(out interface{}, method string, params ...interface{}) error {
	err := c.call(out, method, params...)
	if err == nil {
		return nil
	}
	return c.handleRpcError(method, err)
}

func (c *client) call(out interface{}, method string, params ...interface{}) error {
	if err := c.limiter.Wait(context.Background(), method); err != nil {
		return errors.Wrap(err, "rate limiter")
	}
	return c.client.CallFor(out, method, params...)
}

func (c *client) handleRpcError(method string, err error) error {
	switch typed := err.(type) {
	case *jsonrpc.RPCError:
		if typed.Code == http.StatusTooManyRequests {
			c.log.WithField("method", method).Warn("rate limited")
			return errors.Wrap(ErrRateLimited, typed.Message)
		}
		if typed.Code >= http.StatusInternalServerError || typed.Code == rpcNodeUnhealthyCode {
			return errors.Wrap(ErrServiceError, typed.Message)
		}
	case *jsonrpc.HTTPError:
		if typed.Code == http.StatusTooManyRequests {
			c.log.WithField("method", method).Warn("rate limited")
			return errors.Wrap(ErrRateLimited, typed.Error())
		}
		if typed.Code >= http.StatusInternalServerError {
			return errors.Wrap(ErrServiceError, typed.Error())
		}
	}

	return err
}

func (c *client) GetLatestBlockhash(commitment Commitment) (hash Blockhash, err error) {
	type response struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}

	// A lone struct parameter would be sent as a JSON object, which the
	// node rejects, so it is wrapped in an array.
	var resp response
	if err := c.once(&resp, "getLatestBlockhash", []interface{}{commitment}); err != nil {
		return hash, errors.Wrap(err, "getLatestBlockhash() failed to send request")
	}

	hashBytes, err := base58.Decode(resp.Value.Blockhash)
	if err != nil {
		return hash, errors.Wrap(err, "invalid base58 encoded hash in response")
	}
	if len(hashBytes) != len(hash) {
		return hash, errors.Errorf("invalid blockhash length %d", len(hashBytes))
	}

	copy(hash[:], hashBytes)
	return hash, nil
}

func (c *client) SubmitTransaction(txn Transaction, commitment Commitment) (Signature, error) {
	sig := txn.Signature()

	config := struct {
		SkipPreflight       bool   `json:"skipPreflight"`
		PreflightCommitment string `json:"preflightCommitment"`
		Encoding            string `json:"encoding"`
	}{
		SkipPreflight:       true,
		PreflightCommitment: commitment.Commitment,
		Encoding:            "base58",
	}

	var sigStr string
	err := c.call(&sigStr, "sendTransaction", base58.Encode(txn.Marshal()), config)
	if err == nil {
		c.log.WithField("signature", sigStr).Debug("transaction accepted")
		return sig, nil
	}

	jsonRPCErr, ok := err.(*jsonrpc.RPCError)
	if !ok {
		return sig, errors.Wrap(c.handleRpcError("sendTransaction", err), "sendTransaction() failed to send request")
	}

	txErr, parseErr := ParseRPCError(jsonRPCErr)
	if parseErr != nil || txErr == nil {
		return sig, errors.Wrap(c.handleRpcError("sendTransaction", jsonRPCErr), "sendTransaction() rejected")
	}

	return sig, txErr
}

func (c *client) GetAccountInfo(account ed25519.PublicKey, commitment Commitment) (accountInfo AccountInfo, err error) {
	type rpcResponse struct {
		Value *struct {
			Lamports   uint64   `json:"lamports"`
			Owner      string   `json:"owner"`
			Data       []string `json:"data"`
			Executable bool     `json:"executable"`
		} `json:"value"`
	}

	rpcConfig := struct {
		Commitment string `json:"commitment"`
		Encoding   string `json:"encoding"`
	}{
		Commitment: commitment.Commitment,
		Encoding:   "base64",
	}

	var resp rpcResponse
	if err := c.read(&resp, "getAccountInfo", base58.Encode(account), rpcConfig); err != nil {
		return accountInfo, errors.Wrap(err, "getAccountInfo() failed to send request")
	}

	if resp.Value == nil {
		return accountInfo, ErrNoAccountInfo
	}
	if len(resp.Value.Data) == 0 {
		return accountInfo, errors.New("missing account data in response")
	}

	accountInfo.Owner, err = base58.Decode(resp.Value.Owner)
	if err != nil {
		return accountInfo, errors.Wrap(err, "invalid base58 encoded owner")
	}

	accountInfo.Data, err = base64.StdEncoding.DecodeString(resp.Value.Data[0])
	if err != nil {
		return accountInfo, errors.Wrap(err, "invalid base64 encoded data")
	}

	accountInfo.Lamports = resp.Value.Lamports
	accountInfo.Executable = resp.Value.Executable

	return accountInfo, nil
}
