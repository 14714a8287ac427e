package tokenops

import (
	"github.com/pkg/errors"

	"github.com/code-payments/code-token-cli/pkg/solana"
)

var (
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrMetadataValidation = errors.New("metadata failed validation")
	ErrBlockhashFetch     = errors.New("failed to fetch recent blockhash")
	ErrSubmission         = errors.New("failed to submit transaction")
)

// stageError ties a pipeline stage sentinel to its underlying cause so that
// errors.Is matches both.
type stageError struct {
	stage error
	cause error
}

func (e *stageError) Error() string {
	return e.stage.Error() + ": " + e.cause.Error()
}

func (e *stageError) Unwrap() []error {
	return []error{e.stage, e.cause}
}

// SubmissionError is returned when the node could not be reached or refused
// the signed transaction. The transaction may still land when the failure was
// local, such as a cancelled context.
type SubmissionError struct {
	// Signature identifies the transaction that was sent.
	Signature solana.Signature

	// Reason is the node's rejection, if it reported one.
	Reason *solana.TransactionError

	Err error
}

func (e *SubmissionError) Error() string {
	return ErrSubmission.Error() + " " + e.Signature.String() + ": " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

func (e *SubmissionError) Is(target error) bool {
	return target == ErrSubmission
}
