package renderer

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

// DefaultWorkerCount returns the number of logical CPUs, or runtime.NumCPU
// when the host cannot be queried.
func DefaultWorkerCount() int {
	count, err := cpu.Counts(true)
	if err != nil || count < 1 {
		return runtime.NumCPU()
	}
	return count
}
