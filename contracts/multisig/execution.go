package multisig

import (
	"github.com/nspcc-dev/multisig-contract/contracts/multisig/multisigconst"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// execute transfers GAS of the authorized proposal and resets the contract
// to the idle state. State is reset before the transfer is made. Failed
// transfer panics and the whole transaction is reverted.
func execute(ctx storage.Context, p Proposal) {
	storage.Put(ctx, lastExecutedKey, p.Sequence)
	clearProposal(ctx)

	if !gas.Transfer(runtime.GetExecutingScriptHash(), p.Recipient, p.Amount, nil) {
		panic(multisigconst.ErrTransferFailed)
	}

	runtime.Notify("Executed", p.Sequence, p.Recipient, p.Amount)
}
