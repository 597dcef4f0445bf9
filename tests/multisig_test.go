package tests

import (
	"encoding/json"
	"math/rand"
	"path"
	"testing"

	"github.com/nspcc-dev/multisig-contract/common"
	"github.com/nspcc-dev/multisig-contract/contracts/multisig/multisigconst"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	multisigPath  = "../contracts/multisig"
	nep17recvPath = "../internal/testcontracts/nep17recv"
)

type multisigEnv struct {
	e          *neotest.Executor
	c          *neotest.ContractInvoker
	principals []neotest.Signer
}

func compileMultisig(t *testing.T, e *neotest.Executor) *neotest.Contract {
	return neotest.CompileFile(t, e.CommitteeHash, multisigPath, path.Join(multisigPath, "config.yml"))
}

func newMultisigEnv(t *testing.T) *multisigEnv {
	e := newExecutor(t)

	principals := []neotest.Signer{e.NewAccount(t), e.NewAccount(t), e.NewAccount(t)}

	c := compileMultisig(t, e)
	e.DeployContract(t, c, []any{
		principals[0].ScriptHash(),
		principals[1].ScriptHash(),
		principals[2].ScriptHash(),
	})

	return &multisigEnv{
		e:          e,
		c:          e.CommitteeInvoker(c.Hash),
		principals: principals,
	}
}

// as returns invoker signed by i-th principal.
func (env *multisigEnv) as(i int) *neotest.ContractInvoker {
	return env.c.WithSigners(env.principals[i])
}

func (env *multisigEnv) principal(i int) util.Uint160 {
	return env.principals[i].ScriptHash()
}

func (env *multisigEnv) fund(t *testing.T, amount int64) {
	transferGAS(t, env.e, env.c.Hash, amount)
}

func (env *multisigEnv) checkEndorsements(t *testing.T, expected ...util.Uint160) {
	actual := testInvokeHashes(t, env.c, "endorsements")
	if len(expected) == 0 {
		require.Empty(t, actual)
		return
	}
	require.Equal(t, expected, actual)
}

func (env *multisigEnv) checkIdle(t *testing.T, lastExecuted int64) {
	res, err := env.c.TestInvoke(t, "pendingProposal")
	require.NoError(t, err)
	require.Equal(t, stackitem.Null{}, res.Top().Item())

	env.checkEndorsements(t)
	require.EqualValues(t, lastExecuted, testInvokeInt(t, env.c, "lastExecuted"))
}

type proposal struct {
	sequence  int64
	proposer  util.Uint160
	recipient util.Uint160
	amount    int64
}

func (env *multisigEnv) pendingProposal(t *testing.T) proposal {
	res, err := env.c.TestInvoke(t, "pendingProposal")
	require.NoError(t, err)

	fields, ok := res.Top().Item().Value().([]stackitem.Item)
	require.True(t, ok, "proposal is not a structure")
	require.Len(t, fields, 4)

	seq, err := fields[0].TryInteger()
	require.NoError(t, err)
	amount, err := fields[3].TryInteger()
	require.NoError(t, err)

	return proposal{
		sequence:  seq.Int64(),
		proposer:  hashFromItem(t, fields[1]),
		recipient: hashFromItem(t, fields[2]),
		amount:    amount.Int64(),
	}
}

func hashFromItem(t *testing.T, item stackitem.Item) util.Uint160 {
	b, err := item.TryBytes()
	require.NoError(t, err)
	h, err := util.Uint160DecodeBytesBE(b)
	require.NoError(t, err)
	return h
}

func TestMultisig_Deploy(t *testing.T) {
	e := newExecutor(t)
	c := compileMultisig(t, e)

	a, b, d := randomAccount(t), randomAccount(t), randomAccount(t)

	t.Run("missing data", func(t *testing.T) {
		e.DeployContractCheckFAULT(t, c, nil, multisigconst.ErrInvalidConfiguration)
	})
	t.Run("two principals", func(t *testing.T) {
		e.DeployContractCheckFAULT(t, c, []any{a, b}, multisigconst.ErrInvalidConfiguration)
	})
	t.Run("four principals", func(t *testing.T) {
		e.DeployContractCheckFAULT(t, c, []any{a, b, d, randomAccount(t)}, multisigconst.ErrInvalidConfiguration)
	})
	t.Run("duplicated principal", func(t *testing.T) {
		e.DeployContractCheckFAULT(t, c, []any{a, b, a}, multisigconst.ErrInvalidConfiguration)
	})
	t.Run("malformed principal", func(t *testing.T) {
		e.DeployContractCheckFAULT(t, c, []any{a, b, []byte{1, 2, 3}}, multisigconst.ErrInvalidConfiguration)
	})

	e.DeployContract(t, c, []any{a, b, d})
	inv := e.CommitteeInvoker(c.Hash)

	require.Equal(t, []util.Uint160{a, b, d}, testInvokeHashes(t, inv, "principals"))
	inv.Invoke(t, stackitem.NewBool(true), "isPrincipal", b)
	inv.Invoke(t, stackitem.NewBool(false), "isPrincipal", randomAccount(t))
	inv.Invoke(t, common.Version, "version")

	env := &multisigEnv{e: e, c: inv}
	env.checkIdle(t, 0)
}

func TestMultisig_Scenario(t *testing.T) {
	env := newMultisigEnv(t)
	env.fund(t, 1000)

	recipient := randomAccount(t)

	env.as(0).Invoke(t, 1, "submit", env.principal(0), recipient, 100)
	require.Equal(t, proposal{
		sequence:  1,
		proposer:  env.principal(0),
		recipient: recipient,
		amount:    100,
	}, env.pendingProposal(t))
	env.checkEndorsements(t, env.principal(0))

	env.as(1).Invoke(t, stackitem.NewBool(false), "endorse", env.principal(1))
	env.checkEndorsements(t, env.principal(0), env.principal(1))
	require.Zero(t, gasBalance(t, env.e, recipient), "two endorsements must not release funds")

	h := env.as(2).Invoke(t, stackitem.NewBool(true), "endorse", env.principal(2))

	require.EqualValues(t, 100, gasBalance(t, env.e, recipient))
	require.EqualValues(t, 900, testInvokeInt(t, env.c, "balance"))
	env.checkIdle(t, 1)

	var names []string
	aer := env.e.GetTxExecResult(t, h)
	for _, ev := range aer.Events {
		if ev.ScriptHash.Equals(env.c.Hash) {
			names = append(names, ev.Name)
		}
	}
	require.Equal(t, []string{"Endorsed", "Executed"}, names)

	executed := aer.Events[len(aer.Events)-1]
	require.Equal(t, "Executed", executed.Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(1),
		stackitem.NewByteArray(recipient.BytesBE()),
		stackitem.Make(100),
	}), executed.Item)
}

func TestMultisig_Submit(t *testing.T) {
	env := newMultisigEnv(t)
	recipient := randomAccount(t)

	t.Run("not a principal", func(t *testing.T) {
		outsider := env.e.NewAccount(t)
		env.c.WithSigners(outsider).InvokeFail(t, multisigconst.ErrUnauthorized,
			"submit", outsider.ScriptHash(), recipient, 100)
	})
	t.Run("missing witness", func(t *testing.T) {
		env.as(1).InvokeFail(t, multisigconst.ErrUnauthorized,
			"submit", env.principal(0), recipient, 100)
	})
	t.Run("invalid amount", func(t *testing.T) {
		env.as(0).InvokeFail(t, multisigconst.ErrInvalidAmount, "submit", env.principal(0), recipient, 0)
		env.as(0).InvokeFail(t, multisigconst.ErrInvalidAmount, "submit", env.principal(0), recipient, -5)
	})
	t.Run("invalid recipient", func(t *testing.T) {
		env.as(0).InvokeFail(t, multisigconst.ErrInvalidRecipient, "submit", env.principal(0), []byte{1, 2, 3}, 100)
	})

	env.checkIdle(t, 0)

	env.as(0).Invoke(t, 1, "submit", env.principal(0), recipient, 100)

	t.Run("already pending", func(t *testing.T) {
		env.as(0).InvokeFail(t, multisigconst.ErrProposalAlreadyPending, "submit", env.principal(0), recipient, 100)
		env.as(1).InvokeFail(t, multisigconst.ErrProposalAlreadyPending, "submit", env.principal(1), randomAccount(t), 1)
		env.as(2).InvokeFail(t, multisigconst.ErrProposalAlreadyPending, "submit", env.principal(2), recipient, 0)
	})

	require.Equal(t, recipient, env.pendingProposal(t).recipient)
	env.checkEndorsements(t, env.principal(0))
}

func TestMultisig_Endorse(t *testing.T) {
	env := newMultisigEnv(t)
	recipient := randomAccount(t)

	t.Run("no pending proposal", func(t *testing.T) {
		env.as(1).InvokeFail(t, multisigconst.ErrNoPendingProposal, "endorse", env.principal(1))
	})

	env.as(0).Invoke(t, 1, "submit", env.principal(0), recipient, 100)

	t.Run("not a principal", func(t *testing.T) {
		outsider := env.e.NewAccount(t)
		env.c.WithSigners(outsider).InvokeFail(t, multisigconst.ErrUnauthorized, "endorse", outsider.ScriptHash())
	})
	t.Run("missing witness", func(t *testing.T) {
		env.as(2).InvokeFail(t, multisigconst.ErrUnauthorized, "endorse", env.principal(1))
	})
	t.Run("duplicate by proposer", func(t *testing.T) {
		env.as(0).InvokeFail(t, multisigconst.ErrDuplicateEndorsement, "endorse", env.principal(0))
		env.checkEndorsements(t, env.principal(0))
	})

	env.as(1).Invoke(t, stackitem.NewBool(false), "endorse", env.principal(1))

	t.Run("duplicate", func(t *testing.T) {
		env.as(1).InvokeFail(t, multisigconst.ErrDuplicateEndorsement, "endorse", env.principal(1))
		env.as(1).InvokeFail(t, multisigconst.ErrDuplicateEndorsement, "endorseSequence", env.principal(1), 1)
		env.checkEndorsements(t, env.principal(0), env.principal(1))
	})
}

func TestMultisig_Replay(t *testing.T) {
	env := newMultisigEnv(t)
	env.fund(t, 1000)

	recipient := randomAccount(t)

	env.as(0).Invoke(t, 1, "submit", env.principal(0), recipient, 100)
	env.as(1).Invoke(t, stackitem.NewBool(false), "endorseSequence", env.principal(1), 1)
	env.as(2).Invoke(t, stackitem.NewBool(true), "endorseSequence", env.principal(2), 1)

	t.Run("completed cycle", func(t *testing.T) {
		env.as(2).InvokeFail(t, multisigconst.ErrNoPendingProposal, "endorse", env.principal(2))
		env.as(2).InvokeFail(t, multisigconst.ErrNoPendingProposal, "endorseSequence", env.principal(2), 1)
		require.EqualValues(t, 100, gasBalance(t, env.e, recipient))
		env.checkIdle(t, 1)
	})

	env.as(1).Invoke(t, 2, "submit", env.principal(1), recipient, 100)

	t.Run("endorsement of another cycle", func(t *testing.T) {
		env.as(2).InvokeFail(t, multisigconst.ErrSequenceMismatch, "endorseSequence", env.principal(2), 1)
		env.as(2).InvokeFail(t, multisigconst.ErrSequenceMismatch, "endorseSequence", env.principal(2), 3)
		env.checkEndorsements(t, env.principal(1))
	})

	env.as(2).Invoke(t, stackitem.NewBool(false), "endorseSequence", env.principal(2), 2)
	env.as(0).Invoke(t, stackitem.NewBool(true), "endorse", env.principal(0))

	require.EqualValues(t, 200, gasBalance(t, env.e, recipient), "repeated transfer is a separate cycle")
	env.checkIdle(t, 2)
}

func TestMultisig_SameBlock(t *testing.T) {
	env := newMultisigEnv(t)
	env.fund(t, 1000)

	recipient := randomAccount(t)

	env.as(0).Invoke(t, 1, "submit", env.principal(0), recipient, 100)

	// dry run against the previous state does not reach quorum and underestimates the fee
	endorseTx := func(i int) *transaction.Transaction {
		tx := env.e.NewUnsignedTx(t, env.c.Hash, "endorse", env.principal(i))
		env.e.SignTx(t, tx, 1_0000_0000, env.principals[i])
		return tx
	}

	tx1 := endorseTx(1)
	tx2 := endorseTx(1)
	tx3 := endorseTx(2)
	tx4 := endorseTx(2)
	env.e.AddNewBlock(t, tx1, tx2, tx3, tx4)

	env.e.CheckHalt(t, tx1.Hash(), stackitem.NewBool(false))
	env.e.CheckFault(t, tx2.Hash(), multisigconst.ErrDuplicateEndorsement)
	env.e.CheckHalt(t, tx3.Hash(), stackitem.NewBool(true))
	env.e.CheckFault(t, tx4.Hash(), multisigconst.ErrNoPendingProposal)

	require.EqualValues(t, 100, gasBalance(t, env.e, recipient))
	env.checkIdle(t, 1)
}

func TestMultisig_TransferFailed(t *testing.T) {
	env := newMultisigEnv(t)
	env.fund(t, 50)

	recipient := randomAccount(t)

	env.as(0).Invoke(t, 1, "submit", env.principal(0), recipient, 100)
	env.as(1).Invoke(t, stackitem.NewBool(false), "endorse", env.principal(1))
	env.as(2).InvokeFail(t, multisigconst.ErrTransferFailed, "endorse", env.principal(2))

	require.Zero(t, gasBalance(t, env.e, recipient))
	require.EqualValues(t, 50, testInvokeInt(t, env.c, "balance"))
	require.EqualValues(t, 0, testInvokeInt(t, env.c, "lastExecuted"))
	require.EqualValues(t, 1, env.pendingProposal(t).sequence)
	// third endorsement is reverted along with the failed transaction
	env.checkEndorsements(t, env.principal(0), env.principal(1))

	env.fund(t, 50)
	env.as(2).Invoke(t, stackitem.NewBool(true), "endorse", env.principal(2))

	require.EqualValues(t, 100, gasBalance(t, env.e, recipient))
	require.Zero(t, testInvokeInt(t, env.c, "balance"))
	env.checkIdle(t, 1)
}

func TestMultisig_ContractRecipient(t *testing.T) {
	env := newMultisigEnv(t)
	env.fund(t, 1000)

	ctrRecv := neotest.CompileFile(t, env.e.CommitteeHash, nep17recvPath, path.Join(nep17recvPath, "config.yml"))
	env.e.DeployContract(t, ctrRecv, nil)
	recv := env.e.CommitteeInvoker(ctrRecv.Hash)

	env.as(0).Invoke(t, 1, "submit", env.principal(0), ctrRecv.Hash, 100)
	env.as(1).Invoke(t, stackitem.NewBool(false), "endorse", env.principal(1))
	env.as(2).Invoke(t, stackitem.NewBool(true), "endorse", env.principal(2))

	recv.Invoke(t, stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray(env.c.Hash.BytesBE()),
		stackitem.Make(100),
		stackitem.Null{},
	}), "get")

	t.Run("rejected payment", func(t *testing.T) {
		recv.Invoke(t, stackitem.Null{}, "setReject", true)

		env.as(2).Invoke(t, 2, "submit", env.principal(2), ctrRecv.Hash, 300)
		env.as(0).Invoke(t, stackitem.NewBool(false), "endorse", env.principal(0))
		env.as(1).InvokeFail(t, "payment rejected", "endorse", env.principal(1))

		require.EqualValues(t, 100, gasBalance(t, env.e, ctrRecv.Hash))
		require.EqualValues(t, 1, testInvokeInt(t, env.c, "lastExecuted"))
		env.checkEndorsements(t, env.principal(2), env.principal(0))
	})
}

func TestMultisig_Payment(t *testing.T) {
	env := newMultisigEnv(t)

	env.fund(t, 123)
	require.EqualValues(t, 123, testInvokeInt(t, env.c, "balance"))

	neoInvoker := env.e.CommitteeInvoker(env.e.NativeHash(t, nativenames.Neo))
	neoInvoker.InvokeFail(t, "ABORT", "transfer", env.e.CommitteeHash, env.c.Hash, 1, nil)
}

func TestMultisig_Update(t *testing.T) {
	e := newExecutor(t)
	principals := []any{randomAccount(t), randomAccount(t), randomAccount(t)}

	c := compileMultisig(t, e)
	e.DeployContract(t, c, principals)

	rawNEF, err := c.NEF.Bytes()
	require.NoError(t, err)
	rawManifest, err := json.Marshal(c.Manifest)
	require.NoError(t, err)

	inv := e.CommitteeInvoker(c.Hash)
	inv.WithSigners(e.NewAccount(t)).InvokeFail(t, common.ErrUpdateAccessDenied, "update", rawNEF, rawManifest, nil)
	inv.InvokeFail(t, common.ErrAlreadyUpdated, "update", rawNEF, rawManifest, nil)
}

// TestMultisig_RandomOperations applies random submissions and endorsements
// from principals and an outsider and compares contract state with a simple
// model after every step.
func TestMultisig_RandomOperations(t *testing.T) {
	const steps = 60

	env := newMultisigEnv(t)
	env.fund(t, 1_0000_0000)

	signers := append([]neotest.Signer{}, env.principals...)
	signers = append(signers, env.e.NewAccount(t))
	const outsider = 3

	var (
		rng       = rand.New(rand.NewSource(42))
		recipient = randomAccount(t)
		pending   bool
		endorsers []int
		lastSeq   int64
		received  int64
		amount    int64
	)

	isEndorser := func(i int) bool {
		for _, j := range endorsers {
			if i == j {
				return true
			}
		}
		return false
	}

	for step := 0; step < steps; step++ {
		actor := rng.Intn(len(signers))
		inv := env.c.WithSigners(signers[actor])
		caller := signers[actor].ScriptHash()

		if rng.Intn(3) == 0 {
			a := rng.Int63n(1000) + 1
			switch {
			case actor == outsider:
				inv.InvokeFail(t, multisigconst.ErrUnauthorized, "submit", caller, recipient, a)
			case pending:
				inv.InvokeFail(t, multisigconst.ErrProposalAlreadyPending, "submit", caller, recipient, a)
			default:
				inv.Invoke(t, lastSeq+1, "submit", caller, recipient, a)
				pending, endorsers, amount = true, []int{actor}, a
			}
		} else {
			switch {
			case actor == outsider:
				inv.InvokeFail(t, multisigconst.ErrUnauthorized, "endorse", caller)
			case !pending:
				inv.InvokeFail(t, multisigconst.ErrNoPendingProposal, "endorse", caller)
			case isEndorser(actor):
				inv.InvokeFail(t, multisigconst.ErrDuplicateEndorsement, "endorse", caller)
			default:
				endorsers = append(endorsers, actor)
				executed := len(endorsers) == multisigconst.Threshold
				inv.Invoke(t, stackitem.NewBool(executed), "endorse", caller)
				if executed {
					pending, endorsers = false, nil
					lastSeq++
					received += amount
				}
			}
		}

		onChain := testInvokeHashes(t, env.c, "endorsements")
		require.LessOrEqual(t, len(onChain), multisigconst.Threshold)
		require.Len(t, onChain, len(endorsers))
		for i := range endorsers {
			require.Equal(t, env.principal(endorsers[i]), onChain[i])
		}

		require.Equal(t, lastSeq, testInvokeInt(t, env.c, "lastExecuted"))
		require.Equal(t, received, gasBalance(t, env.e, recipient))
	}
}
