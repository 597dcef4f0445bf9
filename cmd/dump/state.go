package main

import (
	"encoding/hex"

	"github.com/nspcc-dev/multisig-contract/rpc/multisig"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

type proposalDump struct {
	Sequence  string `json:"sequence"`
	Proposer  string `json:"proposer"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type storageItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// stateDump is a JSON view of the contract state. Accounts are encoded as
// Neo addresses.
type stateDump struct {
	Contract     string        `json:"contract"`
	Block        uint32        `json:"block"`
	Version      string        `json:"version,omitempty"`
	Balance      string        `json:"balance,omitempty"`
	Principals   []string      `json:"principals"`
	LastExecuted string        `json:"lastExecuted"`
	Proposal     *proposalDump `json:"proposal,omitempty"`
	Endorsements []string      `json:"endorsements"`
	Missing      []string      `json:"missing,omitempty"`
	Storage      []storageItem `json:"storage,omitempty"`
}

func newStateDump(contract util.Uint160, block uint32, principals []util.Uint160, s *multisig.Snapshot) *stateDump {
	res := &stateDump{
		Contract:     address.Uint160ToString(contract),
		Block:        block,
		Principals:   addresses(principals),
		LastExecuted: s.LastExecuted.String(),
		Endorsements: addresses(s.Endorsements),
		Missing:      addresses(s.Missing(principals)),
	}

	if s.Pending() {
		res.Proposal = &proposalDump{
			Sequence:  s.Proposal.Sequence.String(),
			Proposer:  address.Uint160ToString(s.Proposal.Proposer),
			Recipient: address.Uint160ToString(s.Proposal.Recipient),
			Amount:    s.Proposal.Amount.String(),
		}
	}

	return res
}

func (x *stateDump) addStorageItem(key, value []byte) error {
	x.Storage = append(x.Storage, storageItem{
		Key:   string(key),
		Value: hex.EncodeToString(value),
	})
	return nil
}

func addresses(hs []util.Uint160) []string {
	if hs == nil {
		return nil
	}

	res := make([]string, len(hs))
	for i := range hs {
		res[i] = address.Uint160ToString(hs[i])
	}

	return res
}
