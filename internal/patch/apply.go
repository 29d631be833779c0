// Package patch applies text-range replacements to source files and renders
// the resulting changes as unified diffs.
package patch

import (
	"bytes"
	"sort"

	"github.com/phobologic/noelse/internal/model"
)

// Apply splices fixes into source and returns the new text together with
// the number of fixes applied. Fixes are taken in order of their start
// offset; a fix overlapping an already accepted one, or lying outside
// source, is skipped and left for a later pass.
func Apply(source []byte, fixes []model.Fix) ([]byte, int) {
	if len(fixes) == 0 {
		return source, 0
	}

	sorted := make([]model.Fix, len(fixes))
	copy(sorted, fixes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var out bytes.Buffer
	out.Grow(len(source))

	last, applied := 0, 0
	for _, fix := range sorted {
		if fix.Start < last || fix.Start > fix.End || fix.End > len(source) {
			continue
		}
		out.Write(source[last:fix.Start])
		out.WriteString(fix.Text)
		last = fix.End
		applied++
	}
	if applied == 0 {
		return source, 0
	}
	out.Write(source[last:])
	return out.Bytes(), applied
}

// Fixes collects the fixes carried by diags.
func Fixes(diags []model.Diagnostic) []model.Fix {
	var fixes []model.Fix
	for i := range diags {
		if diags[i].Fix != nil {
			fixes = append(fixes, *diags[i].Fix)
		}
	}
	return fixes
}
