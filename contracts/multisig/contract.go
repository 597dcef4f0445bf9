package multisig

import (
	"github.com/nspcc-dev/multisig-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// Transfers to the contract fund future proposals.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		common.AbortWithMessage("multisig contract accepts GAS only")
	}
}

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	initRegistry(ctx, data)
	storage.Put(ctx, lastExecutedKey, 0)

	runtime.Log("multisig contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic(common.ErrUpdateAccessDenied)
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("multisig contract updated")
}

// Principals returns accounts allowed to submit and endorse proposals.
func Principals() []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getPrincipals(ctx)
}

// IsPrincipal checks whether the account belongs to the principal registry.
func IsPrincipal(account interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return isPrincipal(ctx, account)
}

// Balance returns the amount of GAS stored in the contract account.
func Balance() int {
	return gas.BalanceOf(runtime.GetExecutingScriptHash())
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}
