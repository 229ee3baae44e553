package table

import (
	"runtime"

	"github.com/hyp3rd/hypertable/internal/constants"
)

// DefaultShardCount returns the number of logical CPUs usable by the process,
// or constants.DefaultShardCount (16) when the runtime reports none.
func DefaultShardCount() int {
	return shardCountOr(runtime.NumCPU())
}

func shardCountOr(nproc int) int {
	if nproc > 0 {
		return nproc
	}

	return constants.DefaultShardCount
}
