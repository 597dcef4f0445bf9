// Package multisig contains RPC wrappers for the three-principal Multisig contract.
package multisig

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// MultisigProposal is a contract-specific multisig.Proposal type used by its methods.
type MultisigProposal struct {
	Sequence  *big.Int
	Proposer  util.Uint160
	Recipient util.Uint160
	Amount    *big.Int
}

// ProposedEvent represents "Proposed" event emitted by the contract.
type ProposedEvent struct {
	Sequence  *big.Int
	Proposer  util.Uint160
	Recipient util.Uint160
	Amount    *big.Int
}

// EndorsedEvent represents "Endorsed" event emitted by the contract.
type EndorsedEvent struct {
	Sequence  *big.Int
	Principal util.Uint160
	Count     *big.Int
}

// ExecutedEvent represents "Executed" event emitted by the contract.
type ExecutedEvent struct {
	Sequence  *big.Int
	Recipient util.Uint160
	Amount    *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	Run(script []byte) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Balance invokes `balance` method of contract.
func (c *ContractReader) Balance() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "balance"))
}

// Endorsements invokes `endorsements` method of contract.
func (c *ContractReader) Endorsements() ([]util.Uint160, error) {
	return itemsToUint160s(unwrap.Array(c.invoker.Call(c.hash, "endorsements")))
}

// IsPrincipal invokes `isPrincipal` method of contract.
func (c *ContractReader) IsPrincipal(account util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isPrincipal", account))
}

// LastExecuted invokes `lastExecuted` method of contract.
func (c *ContractReader) LastExecuted() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "lastExecuted"))
}

// PendingProposal invokes `pendingProposal` method of contract. It returns
// nil proposal when the contract is idle.
func (c *ContractReader) PendingProposal() (*MultisigProposal, error) {
	return itemToMultisigProposal(unwrap.Item(c.invoker.Call(c.hash, "pendingProposal")))
}

// Principals invokes `principals` method of contract.
func (c *ContractReader) Principals() ([]util.Uint160, error) {
	return itemsToUint160s(unwrap.Array(c.invoker.Call(c.hash, "principals")))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Endorse creates a transaction invoking `endorse` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Endorse(caller util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "endorse", caller)
}

// EndorseTransaction creates a transaction invoking `endorse` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) EndorseTransaction(caller util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "endorse", caller)
}

// EndorseUnsigned creates a transaction invoking `endorse` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) EndorseUnsigned(caller util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "endorse", nil, caller)
}

// EndorseSequence creates a transaction invoking `endorseSequence` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) EndorseSequence(caller util.Uint160, sequence *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "endorseSequence", caller, sequence)
}

// EndorseSequenceTransaction creates a transaction invoking `endorseSequence` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) EndorseSequenceTransaction(caller util.Uint160, sequence *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "endorseSequence", caller, sequence)
}

// EndorseSequenceUnsigned creates a transaction invoking `endorseSequence` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) EndorseSequenceUnsigned(caller util.Uint160, sequence *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "endorseSequence", nil, caller, sequence)
}

// Submit creates a transaction invoking `submit` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Submit(caller util.Uint160, recipient util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submit", caller, recipient, amount)
}

// SubmitTransaction creates a transaction invoking `submit` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitTransaction(caller util.Uint160, recipient util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submit", caller, recipient, amount)
}

// SubmitUnsigned creates a transaction invoking `submit` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SubmitUnsigned(caller util.Uint160, recipient util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "submit", nil, caller, recipient, amount)
}

// itemToMultisigProposal converts stack item into *MultisigProposal.
// Null item is converted to nil proposal.
func itemToMultisigProposal(item stackitem.Item, err error) (*MultisigProposal, error) {
	if err != nil {
		return nil, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	var res = new(MultisigProposal)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of MultisigProposal from the given
// [stackitem.Item] or returns an error if it's not possible to do to.
func (res *MultisigProposal) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Sequence, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Sequence: %w", err)
	}

	index++
	res.Proposer, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Proposer: %w", err)
	}

	index++
	res.Recipient, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Recipient: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// ProposedEventsFromApplicationLog retrieves a set of all emitted events
// with "Proposed" name from the provided [result.ApplicationLog].
func ProposedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ProposedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ProposedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Proposed" {
				continue
			}
			event := new(ProposedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ProposedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ProposedEvent or
// returns an error if it's not possible to do to.
func (e *ProposedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Sequence, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Sequence: %w", err)
	}

	index++
	e.Proposer, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Proposer: %w", err)
	}

	index++
	e.Recipient, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Recipient: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// EndorsedEventsFromApplicationLog retrieves a set of all emitted events
// with "Endorsed" name from the provided [result.ApplicationLog].
func EndorsedEventsFromApplicationLog(log *result.ApplicationLog) ([]*EndorsedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*EndorsedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Endorsed" {
				continue
			}
			event := new(EndorsedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize EndorsedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to EndorsedEvent or
// returns an error if it's not possible to do to.
func (e *EndorsedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Sequence, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Sequence: %w", err)
	}

	index++
	e.Principal, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Principal: %w", err)
	}

	index++
	e.Count, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Count: %w", err)
	}

	return nil
}

// ExecutedEventsFromApplicationLog retrieves a set of all emitted events
// with "Executed" name from the provided [result.ApplicationLog].
func ExecutedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ExecutedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ExecutedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Executed" {
				continue
			}
			event := new(ExecutedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ExecutedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ExecutedEvent or
// returns an error if it's not possible to do to.
func (e *ExecutedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Sequence, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Sequence: %w", err)
	}

	index++
	e.Recipient, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Recipient: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}

func itemsToUint160s(arr []stackitem.Item, err error) ([]util.Uint160, error) {
	if err != nil {
		return nil, err
	}

	res := make([]util.Uint160, len(arr))
	for i := range arr {
		res[i], err = itemToUint160(arr[i])
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	return res, nil
}
