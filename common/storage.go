package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

// GetAccounts returns deserialized list of account script hashes stored by
// the key. Missing value is treated as an empty list.
func GetAccounts(ctx storage.Context, key any) []interop.Hash160 {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).([]interop.Hash160)
	}

	return []interop.Hash160{}
}

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// IndexOfAccount returns position of the account in the list or -1 if the
// list does not contain it.
func IndexOfAccount(list []interop.Hash160, account interop.Hash160) int {
	for i := range list {
		if BytesEqual(list[i], account) {
			return i
		}
	}

	return -1
}

// BytesEqual compares two slice of bytes by wrapping them into strings,
// which is necessary with new util.Equal interop behaviour, see neo-go#1176.
func BytesEqual(a []byte, b []byte) bool {
	return util.Equals(string(a), string(b))
}
