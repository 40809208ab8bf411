// Package ktb turns ktlint into a family of incremental build tasks.
//
// A consuming project describes its ktlint version, source roots, and filter
// rules in a Config, then registers the task family with tasks.New. The
// package owns version and capability resolution, source enumeration, change
// filtering, and the execution records that let unchanged tasks skip work.
// The ktlint binary itself is an external collaborator, driven through the
// Engine interface.
package ktb

import "fmt"

// Must panics if err is not nil.
func Must(err error) {
	if err != nil {
		panic(fmt.Sprintf("ktb: %v", err))
	}
}
