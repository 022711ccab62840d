package window

import (
	"iter"
	"slices"

	"github.com/1broseidon/wmctrl/internal/platform"
	"github.com/1broseidon/wmctrl/internal/process"
)

// Enumerate yields the top-level windows of every thread of rec, thread by
// thread in rec.ThreadIDs order. The sequence is lazy: the OS enumeration
// stops as soon as the consumer stops ranging. It may be ranged over again,
// which re-reads the window table. A handle reported for several threads
// is yielded once per thread.
func Enumerate(sys OS, rec process.Record) iter.Seq[platform.Handle] {
	return func(yield func(platform.Handle) bool) {
		for _, tid := range rec.ThreadIDs {
			stopped := false
			sys.ThreadWindows(tid, func(h platform.Handle) bool {
				if !yield(h) {
					stopped = true
					return false
				}
				return true
			})
			if stopped {
				return
			}
		}
	}
}

// Windows collects Enumerate into a slice. A process without threads or
// windows yields an empty, non-nil slice.
func Windows(sys OS, rec process.Record) []platform.Handle {
	handles := slices.Collect(Enumerate(sys, rec))
	if handles == nil {
		return []platform.Handle{}
	}
	return handles
}
