package cart

import (
	"maps"

	"gemkart/internal/model"
)

// Action is the outcome of an add-to-cart decision.
type Action string

const (
	// ActionInsert means no line for the product exists yet.
	ActionInsert Action = "insert"

	// ActionMerge means an existing line has the same option selection;
	// quantities are summed.
	ActionMerge Action = "merge"

	// ActionConflict means a line exists with a different option
	// selection. The caller must obtain an explicit user choice between
	// replacing the line and adding a separate one.
	ActionConflict Action = "conflict"
)

// Decision is the result of DecideAdd. Target is the merge candidate or the
// conflicting line; MergedQuantity is set only for ActionMerge.
type Decision struct {
	Action         Action
	Target         *model.CartLine
	MergedQuantity int
}

// DecideAdd decides how a proposed addition combines with the lines already
// holding the same product. It is a pure function with no side effects; the
// cart service consults it before mutating anything.
//
// A proposal merges with the first line whose option selection is
// deep-equal to the proposed one (key by key, value by value; a missing key
// is absent, not a default). When lines exist but none match, the result is
// a conflict carrying the primary line so the caller can present both sides.
func DecideAdd(existing []model.CartLine, quantity int, options model.Options) Decision {
	if len(existing) == 0 {
		return Decision{Action: ActionInsert}
	}

	for i := range existing {
		if OptionsEqual(existing[i].Options, options) {
			return Decision{
				Action:         ActionMerge,
				Target:         &existing[i],
				MergedQuantity: existing[i].Quantity + quantity,
			}
		}
	}

	// The primary line (empty variant hash) is what the user sees as "the"
	// cart entry; fall back to the first line when only variants remain.
	primary := &existing[0]
	for i := range existing {
		if existing[i].VariantHash == "" {
			primary = &existing[i]
			break
		}
	}

	return Decision{Action: ActionConflict, Target: primary}
}

// OptionsEqual reports whether two option selections are deep-equal. Nil
// and empty selections compare equal.
func OptionsEqual(a, b model.Options) bool {
	return maps.Equal(a, b)
}
