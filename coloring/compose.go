package coloring

import (
	"fmt"
	"strings"
)

// groupTargetsByColor splits targets into uncolored ones and one group per
// color, in order of first appearance. Colored targets must belong to scheme.
func groupTargetsByColor(targets []*ColorTarget, scheme string) ([]*ColorTarget, [][]*ColorTarget, error) {
	if len(targets) == 0 {
		return nil, nil, fmt.Errorf("%w: no targets", ErrInvalidTarget)
	}
	var uncolored []*ColorTarget
	var groups [][]*ColorTarget
	index := make(map[int64]int)
	for _, t := range targets {
		if t == nil || t.ColorValue == nil {
			return nil, nil, fmt.Errorf("%w: target without value", ErrInvalidTarget)
		}
		if t.Value() <= 0 {
			return nil, nil, fmt.Errorf("%w: non-positive target %s", ErrInvalidTarget, t)
		}
		switch id := t.ColorID(); id {
		case UncoloredColorID:
			uncolored = append(uncolored, t)
		case GenesisColorID:
			return nil, nil, fmt.Errorf("%w: genesis target in a transfer", ErrInvalidTarget)
		default:
			if t.ColorDef().Scheme() != scheme {
				return nil, nil, fmt.Errorf("%w: %s target composed as %s",
					ErrIncompatibleColor, t.ColorDef().Scheme(), scheme)
			}
			i, ok := index[id]
			if !ok {
				i = len(groups)
				index[id] = i
				groups = append(groups, nil)
			}
			groups[i] = append(groups[i], t)
		}
	}
	return uncolored, groups, nil
}

// genesisTarget validates that targets is exactly one genesis target.
func genesisTarget(targets []*ColorTarget) (*ColorTarget, error) {
	if len(targets) != 1 {
		return nil, fmt.Errorf("%w: genesis needs exactly one target, got %d", ErrInvalidTarget, len(targets))
	}
	target := targets[0]
	if target == nil || target.ColorValue == nil || target.ColorID() != GenesisColorID {
		return nil, fmt.Errorf("%w: genesis target must use the genesis marker", ErrInvalidTarget)
	}
	if target.Value() <= 0 {
		return nil, fmt.Errorf("%w: non-positive genesis target %s", ErrInvalidTarget, target)
	}
	return target, nil
}

// composeUncolored adds the uncolored targets, selects uncolored coins for
// them plus extra and the fee, and returns uncolored change above the dust
// threshold.
func composeUncolored(op OperationalTxSpec, spec *ComposedTxSpec, targets []*ColorTarget, extra int64) error {
	needed := extra
	for _, t := range targets {
		needed += t.Value()
		spec.AddOutput(t.Address, t.Value())
	}
	coins, total, err := op.SelectCoins(NewColorValue(UncoloredMarker, needed), spec)
	if err != nil {
		return err
	}
	spec.AddInputs(coins...)

	change := total.Value() - needed - spec.EstimateRequiredFee(0, 1)
	if change > op.DustThreshold() {
		addr, err := op.ChangeAddr(UncoloredMarker)
		if err != nil {
			return err
		}
		spec.AddOutput(addr, change)
	}
	return nil
}

func formatValues(values []*ColorValue) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			parts[i] = "-"
			continue
		}
		parts[i] = fmt.Sprint(v.Value())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
