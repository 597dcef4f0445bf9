package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// CheckWitness checks witness of the passed account.
// It panics with panicMsg on fail so that callers can report their own
// error code.
func CheckWitness(account interop.Hash160, panicMsg string) {
	if !runtime.CheckWitness(account) {
		panic(panicMsg)
	}
}
