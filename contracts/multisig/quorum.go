package multisig

import (
	"github.com/nspcc-dev/multisig-contract/contracts/multisig/multisigconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// evaluateQuorum executes the proposal once every principal has endorsed it.
// Registry size equals the threshold, so there is no majority path.
func evaluateQuorum(ctx storage.Context, p Proposal, endorsers []interop.Hash160) bool {
	if len(endorsers) < multisigconst.Threshold {
		return false
	}

	execute(ctx, p)

	return true
}
