package gateway

import (
	"errors"
	"fmt"

	"github.com/hyperledger/fabric-gateway/pkg/client"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind is a stable failure category for programmatic handling.
// Callers should branch on Kind via errors.As rather than matching
// error strings.
type Kind string

const (
	KindCredential      Kind = "Credential"
	KindConnectionSetup Kind = "ConnectionSetup"
	KindEvaluateTimeout Kind = "EvaluateTimeout"
	KindEndorseTimeout  Kind = "EndorseTimeout"
	KindSubmitTimeout   Kind = "SubmitTimeout"
	KindCommitTimeout   Kind = "CommitTimeout"
	KindRejected        Kind = "TransactionRejected"
	KindDecode          Kind = "Decode"
	KindInternal        Kind = "Internal"
)

// Error is the structured failure type for every gateway operation.
// Op names the contract function (or setup step) that failed;
// TransactionID is set when the platform had already assigned one.
type Error struct {
	Kind          Kind
	Op            string
	TransactionID string
	Cause         error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s failed [%s]", e.Op, e.Kind)
	if e.TransactionID != "" {
		msg += fmt.Sprintf(" txID=%s", e.TransactionID)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the failure was a phase deadline expiry.
func (e *Error) Timeout() bool {
	switch e.Kind {
	case KindEvaluateTimeout, KindEndorseTimeout, KindSubmitTimeout, KindCommitTimeout:
		return true
	}
	return false
}

// IsKind reports whether err carries the given failure category.
func IsKind(err error, kind Kind) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == kind
}

// IsRejected reports whether err is a contract-level rejection, such
// as a duplicate create refused by an endorsing peer.
func IsRejected(err error) bool {
	return IsKind(err, KindRejected)
}

func newError(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Cause: cause}
}

type phase int

const (
	phaseEvaluate phase = iota
	phaseSubmit
)

// classify maps the Gateway SDK's typed failures and raw gRPC status
// codes onto the client's taxonomy. The endorse/submit/commit-status
// sub-phases carry independent deadlines, so each maps to its own
// timeout kind; a non-deadline endorsement failure is the endorsing
// peers refusing the proposal.
func classify(op string, p phase, err error) error {
	if err == nil {
		return nil
	}

	var endorseErr *client.EndorseError
	var submitErr *client.SubmitError
	var commitStatusErr *client.CommitStatusError
	var commitErr *client.CommitError

	switch {
	case errors.As(err, &endorseErr):
		kind := KindRejected
		if endorseErr.GRPCStatus().Code() == codes.DeadlineExceeded {
			kind = KindEndorseTimeout
		}
		return &Error{Kind: kind, Op: op, TransactionID: endorseErr.TransactionID, Cause: err}
	case errors.As(err, &submitErr):
		kind := KindInternal
		if submitErr.GRPCStatus().Code() == codes.DeadlineExceeded {
			kind = KindSubmitTimeout
		}
		return &Error{Kind: kind, Op: op, TransactionID: submitErr.TransactionID, Cause: err}
	case errors.As(err, &commitStatusErr):
		kind := KindInternal
		if commitStatusErr.GRPCStatus().Code() == codes.DeadlineExceeded {
			kind = KindCommitTimeout
		}
		return &Error{Kind: kind, Op: op, TransactionID: commitStatusErr.TransactionID, Cause: err}
	case errors.As(err, &commitErr):
		// The transaction was ordered but failed validation, e.g. an
		// MVCC read conflict. The validation code is in the cause.
		return &Error{Kind: KindRejected, Op: op, TransactionID: commitErr.TransactionID, Cause: err}
	}

	if p == phaseEvaluate && status.Code(err) == codes.DeadlineExceeded {
		return &Error{Kind: KindEvaluateTimeout, Op: op, Cause: err}
	}
	return &Error{Kind: KindInternal, Op: op, Cause: err}
}
