package multisig

import (
	"github.com/nspcc-dev/multisig-contract/common"
	"github.com/nspcc-dev/multisig-contract/contracts/multisig/multisigconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Proposal is a pending transfer awaiting endorsements of all principals.
type Proposal struct {
	// Sequence number of the transfer cycle, one more than the last executed.
	Sequence int
	// Principal who submitted the proposal.
	Proposer interop.Hash160
	// Account to receive GAS.
	Recipient interop.Hash160
	// Amount of GAS fractions to transfer.
	Amount int
}

const (
	proposalKey     = "proposal"
	endorsementsKey = "endorsements"
	lastExecutedKey = "lastExecuted"
)

// Submit creates a new transfer proposal on behalf of the caller. It can be
// invoked only by a principal when no other proposal is pending. Submission
// counts as the caller's endorsement.
//
// It produces Proposed and Endorsed notifications and returns the sequence
// number assigned to the proposal.
func Submit(caller, recipient interop.Hash160, amount int) int {
	ctx := storage.GetContext()

	checkPrincipal(ctx, caller)

	if storage.Get(ctx, proposalKey) != nil {
		panic(multisigconst.ErrProposalAlreadyPending)
	}

	if amount <= 0 {
		panic(multisigconst.ErrInvalidAmount)
	}

	if len(recipient) != interop.Hash160Len {
		panic(multisigconst.ErrInvalidRecipient)
	}

	p := Proposal{
		Sequence:  lastExecuted(ctx) + 1,
		Proposer:  caller,
		Recipient: recipient,
		Amount:    amount,
	}

	common.SetSerialized(ctx, proposalKey, p)
	runtime.Notify("Proposed", p.Sequence, caller, recipient, amount)

	endorse(ctx, p, caller)

	return p.Sequence
}

// Endorse records caller's approval of the pending proposal. It can be
// invoked only by a principal who has not endorsed the proposal yet.
//
// It produces Endorsed notification. When the endorsement completes the
// quorum, the transfer is executed in the same invocation, Executed
// notification is produced and true is returned.
func Endorse(caller interop.Hash160) bool {
	ctx := storage.GetContext()

	checkPrincipal(ctx, caller)

	p := pendingProposal(ctx)

	return endorse(ctx, p, caller)
}

// EndorseSequence is the same as Endorse, but the endorsement is accepted only
// if the pending proposal has the given sequence number. A transaction signed
// for one transfer cycle can't be applied to another one.
func EndorseSequence(caller interop.Hash160, sequence int) bool {
	ctx := storage.GetContext()

	checkPrincipal(ctx, caller)

	p := pendingProposal(ctx)
	if p.Sequence != sequence {
		panic(multisigconst.ErrSequenceMismatch)
	}

	return endorse(ctx, p, caller)
}

// PendingProposal returns the live proposal or null when the contract is idle.
func PendingProposal() any {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, proposalKey)
	if data == nil {
		return nil
	}

	return std.Deserialize(data.([]byte)).(Proposal)
}

// Endorsements returns principals that have endorsed the live proposal in the
// order of endorsement. The list is empty when the contract is idle.
func Endorsements() []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getEndorsements(ctx)
}

// LastExecuted returns the sequence number of the last executed transfer.
func LastExecuted() int {
	ctx := storage.GetReadOnlyContext()
	return lastExecuted(ctx)
}

func endorse(ctx storage.Context, p Proposal, caller interop.Hash160) bool {
	endorsers := getEndorsements(ctx)
	if common.IndexOfAccount(endorsers, caller) >= 0 {
		panic(multisigconst.ErrDuplicateEndorsement)
	}

	endorsers = append(endorsers, caller)
	common.SetSerialized(ctx, endorsementsKey, endorsers)

	runtime.Notify("Endorsed", p.Sequence, caller, len(endorsers))

	return evaluateQuorum(ctx, p, endorsers)
}

func pendingProposal(ctx storage.Context) Proposal {
	data := storage.Get(ctx, proposalKey)
	if data == nil {
		panic(multisigconst.ErrNoPendingProposal)
	}

	return std.Deserialize(data.([]byte)).(Proposal)
}

func getEndorsements(ctx storage.Context) []interop.Hash160 {
	return common.GetAccounts(ctx, endorsementsKey)
}

func lastExecuted(ctx storage.Context) int {
	data := storage.Get(ctx, lastExecutedKey)
	if data == nil {
		return 0
	}

	return data.(int)
}

// clearProposal removes the live proposal along with its endorsements.
func clearProposal(ctx storage.Context) {
	storage.Delete(ctx, proposalKey)
	storage.Delete(ctx, endorsementsKey)
}
