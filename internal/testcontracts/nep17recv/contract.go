package nep17recv

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type Call struct {
	From   interop.Hash160
	Amount int
	Data   any
}

const (
	callKey   = "call"
	rejectKey = "reject"
)

func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()
	if storage.Get(ctx, rejectKey) != nil {
		panic("payment rejected")
	}
	storage.Put(ctx, callKey, std.Serialize(Call{
		From:   from,
		Amount: amount,
		Data:   data,
	}))
}

func SetReject(reject bool) {
	ctx := storage.GetContext()
	if reject {
		storage.Put(ctx, rejectKey, true)
	} else {
		storage.Delete(ctx, rejectKey)
	}
}

func Get() Call {
	val := storage.Get(storage.GetReadOnlyContext(), callKey)
	if val == nil {
		return Call{}
	}
	return std.Deserialize(val.([]byte)).(Call)
}
