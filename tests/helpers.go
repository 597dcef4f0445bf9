package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

// randomAccount returns script hash of a fresh key which has no GAS.
func randomAccount(t testing.TB) util.Uint160 {
	p, err := keys.NewPrivateKey()
	require.NoError(t, err)
	return p.GetScriptHash()
}

// transferGAS sends GAS from the committee account.
func transferGAS(t testing.TB, e *neotest.Executor, to util.Uint160, amount int64) {
	gasInvoker := e.CommitteeInvoker(e.NativeHash(t, nativenames.Gas))
	gasInvoker.Invoke(t, stackitem.NewBool(true), "transfer", e.CommitteeHash, to, amount, nil)
}

func gasBalance(t testing.TB, e *neotest.Executor, acc util.Uint160) int64 {
	gasInvoker := e.CommitteeInvoker(e.NativeHash(t, nativenames.Gas))
	res, err := gasInvoker.TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)
	return res.Top().BigInt().Int64()
}

// testInvokeInt calls read-only method and returns resulting integer.
func testInvokeInt(t testing.TB, c *neotest.ContractInvoker, method string, args ...any) int64 {
	res, err := c.TestInvoke(t, method, args...)
	require.NoError(t, err)
	return res.Top().BigInt().Int64()
}

// testInvokeHashes calls read-only method and decodes resulting array of
// account script hashes.
func testInvokeHashes(t testing.TB, c *neotest.ContractInvoker, method string, args ...any) []util.Uint160 {
	res, err := c.TestInvoke(t, method, args...)
	require.NoError(t, err)

	arr, ok := res.Top().Item().Value().([]stackitem.Item)
	require.True(t, ok, "not an array")

	hs := make([]util.Uint160, 0, len(arr))
	for i := range arr {
		b, err := arr[i].TryBytes()
		require.NoError(t, err)

		h, err := util.Uint160DecodeBytesBE(b)
		require.NoError(t, err)

		hs = append(hs, h)
	}

	return hs
}
