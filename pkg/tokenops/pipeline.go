package tokenops

import (
	"context"
	"crypto/ed25519"
	"math"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-token-cli/pkg/metrics"
	"github.com/code-payments/code-token-cli/pkg/solana"
	"github.com/code-payments/code-token-cli/pkg/solana/computebudget"
	"github.com/code-payments/code-token-cli/pkg/solana/memo"
	"github.com/code-payments/code-token-cli/pkg/solana/metadata"
	"github.com/code-payments/code-token-cli/pkg/solana/token"
)

const (
	metricsStructName = "tokenops.pipeline"

	submissionEventName = "TokenOperationSubmitted"
	attemptCountMetric  = "TokenOperationAttempt"
	failureCountMetric  = "TokenOperationFailure"
	submitLatencyMetric = "TokenOperationSubmitLatency"
)

// State is the progress of a transaction through the pipeline.
type State uint8

const (
	StateBuilt State = iota
	StateBlockhashFetched
	StateSigned
	StateSubmitted
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateBuilt:
		return "built"
	case StateBlockhashFetched:
		return "blockhash_fetched"
	case StateSigned:
		return "signed"
	case StateSubmitted:
		return "submitted"
	case StateRejected:
		return "rejected"
	}
	return "unknown"
}

// Pipeline turns operations into signed transactions and submits them. Each
// call fetches its own blockhash and sends the transaction once with preflight
// disabled. Acceptance by the node is not confirmation.
type Pipeline struct {
	log      *logrus.Entry
	conf     *conf
	sc       solana.Client
	metadata *metadata.Client
	token    *token.Client
}

func NewPipeline(sc solana.Client, configProvider ConfigProvider) *Pipeline {
	return &Pipeline{
		log:      logrus.StandardLogger().WithField("type", "tokenops/pipeline"),
		conf:     configProvider(),
		sc:       sc,
		metadata: metadata.NewClient(sc),
		token:    token.NewClient(sc),
	}
}

// Execute builds op and submits it, paid for by payer. extra must hold every
// other signer op requires.
func (p *Pipeline) Execute(ctx context.Context, op Operation, payer solana.Signer, extra ...solana.Signer) (solana.Signature, error) {
	instructions, err := p.Build(ctx, op, "")
	if err != nil {
		return solana.Signature{}, err
	}

	return p.submit(ctx, op.Kind(), instructions, payer, extra...)
}

// Submit assembles, signs and submits instructions as a single transaction
// and returns its signature.
func (p *Pipeline) Submit(ctx context.Context, instructions []solana.Instruction, payer solana.Signer, extra ...solana.Signer) (solana.Signature, error) {
	return p.submit(ctx, "custom", instructions, payer, extra...)
}

// Build returns the instructions for op. When memo is set, a memo signed by
// the authority of op follows the operation.
func (p *Pipeline) Build(ctx context.Context, op Operation, memoText string) ([]solana.Instruction, error) {
	ixn, err := BuildInstruction(op, WithMetadataValidation(p.conf.validateMetadataLengths.Get(ctx)))
	if err != nil {
		return nil, err
	}

	if len(memoText) == 0 {
		return []solana.Instruction{ixn}, nil
	}

	memoIxn, err := memo.Instruction(memoText, Authority(op))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidOperation, err.Error())
	}
	return []solana.Instruction{ixn, memoIxn}, nil
}

// Prepare builds op into a transaction signed against a fresh blockhash
// without submitting it.
func (p *Pipeline) Prepare(ctx context.Context, op Operation, payer solana.Signer, extra ...solana.Signer) (*solana.Transaction, error) {
	instructions, err := p.Build(ctx, op, "")
	if err != nil {
		return nil, err
	}

	return p.PrepareInstructions(ctx, instructions, payer, extra...)
}

// PrepareInstructions is Prepare for an arbitrary instruction set.
func (p *Pipeline) PrepareInstructions(ctx context.Context, instructions []solana.Instruction, payer solana.Signer, extra ...solana.Signer) (*solana.Transaction, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	commitment, err := p.commitment(ctx)
	if err != nil {
		return nil, err
	}

	log := p.log.WithField("method", "Prepare")
	return p.prepare(ctx, log, commitment, instructions, payer, extra...)
}

// CurrentMetadata reads the metadata record of mint, as needed to build an
// UpdateMetadata operation.
func (p *Pipeline) CurrentMetadata(ctx context.Context, mint ed25519.PublicKey) (*metadata.MetadataAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "CurrentMetadata")
	defer tracer.End()

	commitment, err := p.commitment(ctx)
	if err != nil {
		return nil, err
	}

	record, err := await(ctx, func() (*metadata.MetadataAccount, error) {
		record, _, err := p.metadata.GetMetadata(mint, commitment)
		return record, err
	})
	tracer.OnError(err)
	return record, err
}

// CurrentMint reads the state of mint.
func (p *Pipeline) CurrentMint(ctx context.Context, mint ed25519.PublicKey) (*token.Mint, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "CurrentMint")
	defer tracer.End()

	commitment, err := p.commitment(ctx)
	if err != nil {
		return nil, err
	}

	state, err := await(ctx, func() (*token.Mint, error) {
		return p.token.GetMint(mint, commitment)
	})
	tracer.OnError(err)
	return state, err
}

func (p *Pipeline) submit(ctx context.Context, name string, instructions []solana.Instruction, payer solana.Signer, extra ...solana.Signer) (sig solana.Signature, err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Submit")
	tracer.AddAttribute("operation", name)
	defer tracer.End()

	log := p.log.WithFields(logrus.Fields{
		"method":    "Submit",
		"operation": name,
	})

	start := time.Now()
	metrics.RecordCount(ctx, attemptCountMetric, 1)
	defer func() {
		if err != nil {
			tracer.OnError(err)
			metrics.RecordCount(ctx, failureCountMetric, 1)
		}
	}()

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	commitment, err := p.commitment(ctx)
	if err != nil {
		return sig, err
	}

	txn, err := p.prepare(ctx, log, commitment, instructions, payer, extra...)
	if err != nil {
		return sig, err
	}

	sig = txn.Signature()
	log = log.WithField("signature", sig.String())

	_, err = await(ctx, func() (solana.Signature, error) {
		return p.sc.SubmitTransaction(*txn, commitment)
	})
	if err != nil {
		submissionErr := &SubmissionError{Signature: sig, Err: err}
		errors.As(err, &submissionErr.Reason)

		log.WithError(err).WithField("state", StateRejected).Warn("transaction was not accepted")
		return sig, submissionErr
	}

	log.WithField("state", StateSubmitted).Debug("transaction submitted")
	metrics.RecordEvent(ctx, submissionEventName, map[string]interface{}{
		"operation": name,
		"signature": sig.String(),
		"payer":     base58.Encode(payer.PublicKey()),
	})
	metrics.RecordDuration(ctx, submitLatencyMetric, time.Since(start))

	return sig, nil
}

func (p *Pipeline) prepare(ctx context.Context, log *logrus.Entry, commitment solana.Commitment, instructions []solana.Instruction, payer solana.Signer, extra ...solana.Signer) (*solana.Transaction, error) {
	if payer == nil {
		return nil, errors.Wrap(solana.ErrMissingSigner, "no payer")
	}
	if len(instructions) == 0 {
		return nil, solana.ErrEmptyInstructionSet
	}

	budgeted, err := p.withComputeBudget(ctx, instructions)
	if err != nil {
		return nil, err
	}

	txn, err := solana.NewTransaction(payer.PublicKey(), budgeted...)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"state":        StateBuilt,
		"instructions": len(budgeted),
		"payer":        base58.Encode(payer.PublicKey()),
	}).Debug("transaction built")

	blockhash, err := await(ctx, func() (solana.Blockhash, error) {
		return p.sc.GetLatestBlockhash(commitment)
	})
	if err != nil {
		log.WithError(err).Warn("failure getting recent blockhash")
		return nil, &stageError{stage: ErrBlockhashFetch, cause: err}
	}
	txn.SetBlockhash(blockhash)
	log.WithFields(logrus.Fields{
		"state":     StateBlockhashFetched,
		"blockhash": blockhash.String(),
	}).Debug("blockhash fetched")

	signers := append([]solana.Signer{payer}, extra...)
	if err := txn.Sign(signers...); err != nil {
		log.WithError(err).Warn("failure signing transaction")
		return nil, err
	}
	log.WithField("state", StateSigned).Debug("transaction signed")

	return &txn, nil
}

func (p *Pipeline) withComputeBudget(ctx context.Context, instructions []solana.Instruction) ([]solana.Instruction, error) {
	limit := p.conf.computeUnitLimit.Get(ctx)
	if limit > math.MaxUint32 {
		return nil, errors.Errorf("compute unit limit %d exceeds %d", limit, uint32(math.MaxUint32))
	}

	return computebudget.Prepend(uint32(limit), p.conf.computeUnitPrice.Get(ctx), instructions...), nil
}

func (p *Pipeline) commitment(ctx context.Context) (solana.Commitment, error) {
	return solana.CommitmentFromString(p.conf.submitCommitment.Get(ctx))
}

func (p *Pipeline) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := p.conf.submitTimeout.Get(ctx)
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// await runs fn, which cannot be cancelled, and stops waiting for it when ctx
// is done. The call itself keeps running to completion in the background.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	type result struct {
		value T
		err   error
	}

	resultCh := make(chan result, 1)
	go func() {
		value, err := fn()
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-resultCh:
		return r.value, r.err
	}
}
