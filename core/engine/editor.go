package engine

import (
	"strings"

	"github.com/driftsound/retag/core"
	"github.com/driftsound/retag/core/store"
)

// ApplyOperations stages a batch of generic edits on f. All operations
// work on one snapshot of the property view, so later operations in
// the batch observe the effect of earlier ones, and the view is
// written back exactly once.
func ApplyOperations(f store.File, ops []core.TagOperation) int {
	if len(ops) == 0 {
		return 0
	}
	props := f.Properties()
	for _, op := range ops {
		applyOperation(props, op)
	}
	f.SetProperties(props)
	return len(ops)
}

// resolveKey picks the property key an operation targets: the
// uppercased name when present, the exact name when present, else the
// uppercased name for a fresh field.
func resolveKey(props core.Tag, requested string) string {
	upper := strings.ToUpper(requested)
	if _, ok := props[upper]; ok {
		return upper
	}
	if _, ok := props[requested]; ok {
		return requested
	}
	return upper
}

func applyOperation(props core.Tag, op core.TagOperation) {
	key := resolveKey(props, op.Key)
	vals := props[key]
	switch op.Mode {
	case core.OpAppend:
		if len(vals) > 0 {
			vals[len(vals)-1] += op.Value
			return
		}
	case core.OpPrepend:
		if len(vals) > 0 {
			vals[0] = op.Value + vals[0]
			return
		}
	}
	// SET, or APPEND/PREPEND onto an absent field.
	props[key] = []string{op.Value}
}
