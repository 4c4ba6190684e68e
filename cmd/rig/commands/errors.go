package commands

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// FormatError renders err for the terminal: its category, its message and
// the metadata collected along the error chain.
func FormatError(err error) string {
	meta := make(map[string]any)
	for e := err; e != nil; e = errors.Unwrap(e) {
		if z, ok := e.(*zerr.Error); ok {
			for k, v := range z.Metadata() {
				if _, seen := meta[k]; !seen {
					meta[k] = v
				}
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s: %s\n", domain.Classify(err), err)
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		fmt.Fprintf(&b, "  %s: %v\n", k, meta[k])
	}
	return b.String()
}
