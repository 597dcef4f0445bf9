package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// ErrUpdateAccessDenied is thrown by Update methods invoked without the
// committee witness.
const ErrUpdateAccessDenied = "only committee can update contract"

// HasUpdateAccess returns true if contract can be updated.
func HasUpdateAccess() bool {
	return runtime.CheckWitness(CommitteeAddress())
}
