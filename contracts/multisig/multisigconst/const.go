package multisigconst

const (
	// Threshold is the number of distinct principal endorsements required to
	// execute a transfer. It equals the size of the principal registry.
	Threshold = 3

	// ErrInvalidConfiguration is thrown on deployment with anything but three
	// distinct principal accounts.
	ErrInvalidConfiguration = "InvalidConfiguration"
	// ErrUnauthorized is thrown when the caller is not a registered principal
	// or the transaction lacks its witness.
	ErrUnauthorized = "Unauthorized"
	// ErrProposalAlreadyPending is thrown on submit while another proposal is
	// live.
	ErrProposalAlreadyPending = "ProposalAlreadyPending"
	// ErrNoPendingProposal is thrown on endorse when there is nothing to endorse.
	ErrNoPendingProposal = "NoPendingProposal"
	// ErrDuplicateEndorsement is thrown when the principal has already endorsed
	// the live proposal.
	ErrDuplicateEndorsement = "DuplicateEndorsement"
	// ErrInvalidAmount is thrown on submit with non-positive amount.
	ErrInvalidAmount = "InvalidAmount"
	// ErrInvalidRecipient is thrown on submit with malformed recipient account.
	ErrInvalidRecipient = "InvalidRecipient"
	// ErrSequenceMismatch is thrown when the endorsement is bound to a sequence
	// number other than the one of the live proposal.
	ErrSequenceMismatch = "SequenceMismatch"
	// ErrTransferFailed is thrown when the GAS transfer of an authorized
	// proposal fails.
	ErrTransferFailed = "TransferFailed"
)
