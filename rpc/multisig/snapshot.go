package multisig

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/emit"
	"github.com/nspcc-dev/neo-go/pkg/vm/opcode"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Snapshot is a consistent view of the authorization state: all of its
// fields are read by a single script within the same block.
type Snapshot struct {
	// Proposal is nil when the contract is idle.
	Proposal     *MultisigProposal
	Endorsements []util.Uint160
	LastExecuted *big.Int
}

// Pending checks whether there is a proposal awaiting endorsements.
func (s *Snapshot) Pending() bool {
	return s.Proposal != nil
}

// Missing returns principals from the given list that have not endorsed
// the pending proposal yet. It returns nil when the contract is idle.
func (s *Snapshot) Missing(principals []util.Uint160) []util.Uint160 {
	if !s.Pending() {
		return nil
	}

	var res []util.Uint160
loop:
	for i := range principals {
		for j := range s.Endorsements {
			if principals[i].Equals(s.Endorsements[j]) {
				continue loop
			}
		}
		res = append(res, principals[i])
	}

	return res
}

// snapshotScript builds a script calling lastExecuted, endorsements and
// pendingProposal and packing their results into a single array. PACK takes
// the topmost item first, so the resulting order is reversed.
func snapshotScript(hash util.Uint160) ([]byte, error) {
	w := io.NewBufBinWriter()
	emit.AppCall(w.BinWriter, hash, "lastExecuted", callflag.ReadStates)
	emit.AppCall(w.BinWriter, hash, "endorsements", callflag.ReadStates)
	emit.AppCall(w.BinWriter, hash, "pendingProposal", callflag.ReadStates)
	emit.Int(w.BinWriter, 3)
	emit.Opcodes(w.BinWriter, opcode.PACK)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// Snapshot reads pending proposal, its endorsements and last executed
// sequence number in one invocation.
func (c *ContractReader) Snapshot() (*Snapshot, error) {
	script, err := snapshotScript(c.hash)
	if err != nil {
		return nil, fmt.Errorf("can't build snapshot script: %w", err)
	}

	arr, err := unwrap.Array(c.invoker.Run(script))
	if err != nil {
		return nil, err
	}
	return snapshotFromItems(arr)
}

func snapshotFromItems(arr []stackitem.Item) (*Snapshot, error) {
	if len(arr) != 3 {
		return nil, errors.New("wrong number of snapshot elements")
	}

	var (
		s   = new(Snapshot)
		err error
	)

	s.Proposal, err = itemToMultisigProposal(arr[0], nil)
	if err != nil {
		return nil, fmt.Errorf("pending proposal: %w", err)
	}

	endorsements, ok := arr[1].Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("endorsements: not an array")
	}
	s.Endorsements, err = itemsToUint160s(endorsements, nil)
	if err != nil {
		return nil, fmt.Errorf("endorsements: %w", err)
	}

	s.LastExecuted, err = arr[2].TryInteger()
	if err != nil {
		return nil, fmt.Errorf("last executed: %w", err)
	}

	return s, nil
}
