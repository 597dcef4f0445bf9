// Package deploy provides deployment of the Multisig contract to a Neo network.
package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nspcc-dev/multisig-contract/rpc/multisig"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// PrincipalsNumber is the exact number of principals the contract is
// initialized with.
const PrincipalsNumber = 3

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the contract deployment.
type Blockchain interface {
	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Actor groups functions needed to send the deploying transaction and await
// its execution. [actor.Actor] satisfies it.
//
// [actor.Actor]: https://pkg.go.dev/github.com/nspcc-dev/neo-go/pkg/rpcclient/actor#Actor
type Actor interface {
	// Sender returns account the transactions are sent from. Contract address
	// depends on it.
	Sender() util.Uint160
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// Prm groups all parameters of the Multisig contract deployment procedure.
type Prm struct {
	// Writes progress into the log. Optional.
	Logger *zap.Logger

	// Particular Neo blockchain instance the contract is deployed to.
	Blockchain Blockchain

	// Sender of the deploying transaction (must be able to sign it).
	Actor Actor

	NEF      nef.File
	Manifest manifest.Manifest

	// Accounts authorized to propose and endorse transfers, exactly
	// PrincipalsNumber distinct ones.
	Principals []util.Uint160
}

// ValidatePrincipals checks that the given list can be used to initialize
// the contract. The same checks are made by the contract itself, ValidatePrincipals
// allows to fail before sending a transaction.
func ValidatePrincipals(principals []util.Uint160) error {
	if len(principals) != PrincipalsNumber {
		return fmt.Errorf("%w: %d principals instead of %d",
			multisig.ErrInvalidConfiguration, len(principals), PrincipalsNumber)
	}

	for i := range principals {
		for j := i + 1; j < len(principals); j++ {
			if principals[i].Equals(principals[j]) {
				return fmt.Errorf("%w: duplicated principal %s",
					multisig.ErrInvalidConfiguration, principals[i].StringLE())
			}
		}
	}

	return nil
}

// Deploy deploys the contract initialized with Prm.Principals and returns
// its address. If the contract has already been deployed by the same sender
// (the address is a function of the sender, NEF checksum and contract name),
// Deploy does nothing and returns its address.
//
// Deploy aborts by context. Failed execution of the deploying transaction is
// returned as one of the [multisig] errors when possible.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	log := prm.Logger
	if log == nil {
		log = zap.NewNop()
	}

	err := ValidatePrincipals(prm.Principals)
	if err != nil {
		return util.Uint160{}, err
	}

	address := state.CreateContractHash(prm.Actor.Sender(), prm.NEF.Checksum, prm.Manifest.Name)
	log = log.With(zap.String("contract", prm.Manifest.Name), zap.Stringer("address", address))

	_, err = prm.Blockchain.GetContractStateByHash(address)
	if err == nil {
		log.Info("contract is already deployed, skip")
		return address, nil
	} else if !isErrContractNotFound(err) {
		return util.Uint160{}, fmt.Errorf("get contract state by address %s: %w", address.StringLE(), err)
	}

	nefBytes, err := prm.NEF.Bytes()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode NEF: %w", err)
	}

	manifestJSON, err := json.Marshal(prm.Manifest)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode manifest into JSON: %w", err)
	}

	data := make([]any, len(prm.Principals))
	for i := range prm.Principals {
		data[i] = prm.Principals[i]
	}

	log.Info("contract is missing on the chain, sending deploy transaction...")

	txHash, vub, err := prm.Actor.SendCall(management.Hash, "deploy", nefBytes, manifestJSON, data)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send deploy transaction: %w", err)
	}

	log.Info("deploy transaction sent, waiting for it to be accepted...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	res, err := await(ctx, prm.Actor, txHash, vub)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deploy transaction %s: %w", txHash.StringLE(), err)
	}

	err = multisig.ExecError(res)
	if err != nil {
		return util.Uint160{}, err
	}

	log.Info("contract successfully deployed", zap.Stringer("tx", txHash))

	return address, nil
}

type waitResult struct {
	res *state.AppExecResult
	err error
}

// await waits for the transaction execution honoring the context. Waiting
// routine keeps running in background until transaction's VUB if the context
// is done earlier.
func await(ctx context.Context, a Actor, txHash util.Uint256, vub uint32) (*state.AppExecResult, error) {
	ch := make(chan waitResult, 1)

	go func() {
		res, err := a.Wait(txHash, vub, nil)
		ch <- waitResult{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.res, r.err
	}
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}
