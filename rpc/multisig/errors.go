package multisig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/multisig-contract/contracts/multisig/multisigconst"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
)

// Errors returned by the contract. Use [ParseError] or [ExecError] to map
// a failed invocation to one of them.
var (
	ErrInvalidConfiguration   = errors.New(multisigconst.ErrInvalidConfiguration)
	ErrUnauthorized           = errors.New(multisigconst.ErrUnauthorized)
	ErrProposalAlreadyPending = errors.New(multisigconst.ErrProposalAlreadyPending)
	ErrNoPendingProposal      = errors.New(multisigconst.ErrNoPendingProposal)
	ErrDuplicateEndorsement   = errors.New(multisigconst.ErrDuplicateEndorsement)
	ErrInvalidAmount          = errors.New(multisigconst.ErrInvalidAmount)
	ErrInvalidRecipient       = errors.New(multisigconst.ErrInvalidRecipient)
	ErrSequenceMismatch       = errors.New(multisigconst.ErrSequenceMismatch)
	ErrTransferFailed         = errors.New(multisigconst.ErrTransferFailed)
)

var contractErrors = []error{
	ErrInvalidConfiguration,
	ErrUnauthorized,
	ErrProposalAlreadyPending,
	ErrNoPendingProposal,
	ErrDuplicateEndorsement,
	ErrInvalidAmount,
	ErrInvalidRecipient,
	ErrSequenceMismatch,
	ErrTransferFailed,
}

// ParseError looks for a contract error name in the text of err (usually
// returned by an invocation or carrying a FAULT exception) and wraps err
// with the matching sentinel error. Errors not produced by the contract
// are returned as is.
func ParseError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	for _, known := range contractErrors {
		if strings.Contains(msg, known.Error()) {
			return fmt.Errorf("%w: %w", known, err)
		}
	}

	return err
}

// ExecError returns nil if the transaction was executed successfully,
// otherwise it returns an error describing the fault, see [ParseError].
func ExecError(res *state.AppExecResult) error {
	if res == nil {
		return errors.New("nil execution result")
	}
	if res.VMState == vmstate.Halt {
		return nil
	}
	return ParseError(fmt.Errorf("transaction %s failed: %s", res.Container.StringLE(), res.FaultException))
}
