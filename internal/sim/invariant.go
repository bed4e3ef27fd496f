package sim

import (
	"fmt"
	"log"
	"os"
)

var strictInvariants = os.Getenv("STRICT_INVARIANTS") == "1"

// invariantf reports a programmer error such as a double release or an
// unclamped lane index. Development runs should set STRICT_INVARIANTS=1 so
// violations halt immediately instead of scrolling past in the log.
func invariantf(format string, args ...any) {
	if strictInvariants {
		panic("invariant violation: " + fmt.Sprintf(format, args...))
	}
	log.Printf("invariant violation: "+format, args...)
}
