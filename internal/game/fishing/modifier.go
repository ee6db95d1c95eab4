package fishing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownModifier is returned for a chance modifier operation or mode that
// is not recognised.
var ErrUnknownModifier = errors.New("fishing: unknown chance modifier")

// ErrInvalidModifier is returned for a recognised modifier that cannot be
// applied, such as a division by zero.
var ErrInvalidModifier = errors.New("fishing: invalid chance modifier")

// ModifierOp is the arithmetic a ChanceModifier applies.
type ModifierOp string

// Modifier operations.
const (
	OpAdd      ModifierOp = "add"
	OpSubtract ModifierOp = "subtract"
	OpMultiply ModifierOp = "multiply"
	OpDivide   ModifierOp = "divide"
	OpSet      ModifierOp = "set"
)

// ModifierMode combines the running chance with each modifier's result.
type ModifierMode string

// Modifier modes. ModeStack is the default.
const (
	ModeMinimum ModifierMode = "minimum"
	ModeMaximum ModifierMode = "maximum"
	ModeStack   ModifierMode = "stack"
)

// ChanceModifier is one step applied to a candidate's average chance.
type ChanceModifier struct {
	Amount float64
	Op     ModifierOp
}

// ValidateModifiers reports the first unknown operation or mode.
func ValidateModifiers(mods []ChanceModifier, mode ModifierMode) error {
	if _, err := parseMode(mode); err != nil {
		return err
	}
	for _, m := range mods {
		if _, err := parseOp(m.Op); err != nil {
			return err
		}
	}
	return nil
}

// ApplyModifiers applies mods to chance in order. Each step computes a new
// value from the running chance; mode then keeps the lesser (minimum), the
// greater (maximum), or the new value (stack). Operation and mode names are
// case-insensitive and an empty mode means stack.
//
// Postcondition: returns an error wrapping ErrUnknownModifier for an
// unrecognised op or mode, and ErrInvalidModifier for a division by zero.
func ApplyModifiers(chance float64, mods []ChanceModifier, mode ModifierMode) (float64, error) {
	if len(mods) == 0 {
		return chance, nil
	}
	m, err := parseMode(mode)
	if err != nil {
		return 0, err
	}
	for _, mod := range mods {
		op, err := parseOp(mod.Op)
		if err != nil {
			return 0, err
		}
		next := chance
		switch op {
		case OpAdd:
			next += mod.Amount
		case OpSubtract:
			next -= mod.Amount
		case OpMultiply:
			next *= mod.Amount
		case OpDivide:
			if mod.Amount == 0 {
				return 0, fmt.Errorf("%w: divide by zero", ErrInvalidModifier)
			}
			next /= mod.Amount
		case OpSet:
			next = mod.Amount
		}
		switch m {
		case ModeMinimum:
			chance = min(chance, next)
		case ModeMaximum:
			chance = max(chance, next)
		case ModeStack:
			chance = next
		}
	}
	return chance, nil
}

func parseOp(op ModifierOp) (ModifierOp, error) {
	switch o := ModifierOp(strings.ToLower(string(op))); o {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpSet:
		return o, nil
	default:
		return "", fmt.Errorf("%w: operation %q", ErrUnknownModifier, op)
	}
}

func parseMode(mode ModifierMode) (ModifierMode, error) {
	switch m := ModifierMode(strings.ToLower(string(mode))); m {
	case "":
		return ModeStack, nil
	case ModeMinimum, ModeMaximum, ModeStack:
		return m, nil
	default:
		return "", fmt.Errorf("%w: mode %q", ErrUnknownModifier, mode)
	}
}
