package multisig

import (
	"github.com/nspcc-dev/multisig-contract/common"
	"github.com/nspcc-dev/multisig-contract/contracts/multisig/multisigconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const principalsKey = "principals"

// initRegistry stores the principal set passed to the deployment. It is never
// written again.
func initRegistry(ctx storage.Context, data any) {
	if data == nil {
		panic(multisigconst.ErrInvalidConfiguration)
	}

	args := data.([]any)
	if len(args) != multisigconst.Threshold {
		panic(multisigconst.ErrInvalidConfiguration)
	}

	principals := []interop.Hash160{}
	for i := range args {
		p := args[i].(interop.Hash160)
		if len(p) != interop.Hash160Len {
			panic(multisigconst.ErrInvalidConfiguration)
		}
		if common.IndexOfAccount(principals, p) >= 0 {
			panic(multisigconst.ErrInvalidConfiguration)
		}

		principals = append(principals, p)
	}

	common.SetSerialized(ctx, principalsKey, principals)
}

func getPrincipals(ctx storage.Context) []interop.Hash160 {
	return common.GetAccounts(ctx, principalsKey)
}

func isPrincipal(ctx storage.Context, account interop.Hash160) bool {
	return common.IndexOfAccount(getPrincipals(ctx), account) >= 0
}

// checkPrincipal panics with ErrUnauthorized unless caller is a registered
// principal that has signed the transaction.
func checkPrincipal(ctx storage.Context, caller interop.Hash160) {
	if len(caller) != interop.Hash160Len || !isPrincipal(ctx, caller) {
		panic(multisigconst.ErrUnauthorized)
	}

	common.CheckWitness(caller, multisigconst.ErrUnauthorized)
}
