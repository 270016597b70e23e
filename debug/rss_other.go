//go:build !windows

package debug

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/elastic/gosigar"
)

// processRSS returns the resident set size of the current process.
// Platforms gosigar does not support report an error.
func processRSS() (uint64, error) {
	mem := gosigar.ProcMem{}
	if err := mem.Get(os.Getpid()); err != nil {
		return 0, errors.Wrap(err, "read process memory")
	}
	return mem.Resident, nil
}
