package engine

import "strings"

// Vector name utilities.
// Consolidates the name handling used by the engine and runtime layers.

const branchSuffix = "#branch"

// NormalizeVectorName rewrites the engine's branch-current naming into
// conventional probe syntax. The marker only counts when it ends the
// name; anything trailing it means the name is not a branch current.
// Examples:
//   - "vdd#branch"       -> "i(vdd)"
//   - "tran1.l1#branch"  -> "tran1.i(l1)"
//   - "v(out)"           -> "v(out)" (no change)
func NormalizeVectorName(name string) string {
	if !strings.HasSuffix(name, branchSuffix) {
		return name
	}

	// Wrap the word run immediately before the marker.
	idx := len(name) - len(branchSuffix)
	start := idx
	for start > 0 && isWordByte(name[start-1]) {
		start--
	}
	if start == idx {
		return name
	}
	return name[:start] + "i(" + name[start:idx] + ")"
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}

// QualifyVector prefixes a vector name with its plot,
// e.g. ("tran1", "v(out)") -> "tran1.v(out)". An empty plot leaves the
// name untouched.
func QualifyVector(plot, vec string) string {
	if plot == "" {
		return vec
	}
	return plot + "." + vec
}

// SplitVector separates a qualified vector name into its plot and
// vector parts. Plot names never contain dots, so the first dot is the
// qualifier boundary; an unqualified name comes back with an empty
// plot.
func SplitVector(name string) (plot, vec string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// IsBranchName reports whether the raw name denotes a branch current.
func IsBranchName(name string) bool {
	return strings.HasSuffix(name, branchSuffix)
}
