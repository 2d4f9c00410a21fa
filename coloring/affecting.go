package coloring

import (
	"fmt"
	"sort"
)

// overlappingInputs returns the inputs whose value segment overlaps the
// output segment [outStart, outEnd). Segments that merely touch do not
// overlap. Inputs with a non-positive value have no segment and are skipped.
func overlappingInputs(inValues []int64, outStart, outEnd int64) []int {
	var affecting []int
	inEnd := int64(0)
	for i, value := range inValues {
		if value <= 0 {
			continue
		}
		inStart := inEnd
		inEnd = inStart + value
		if outStart < inEnd && inStart < outEnd {
			affecting = append(affecting, i)
		}
	}
	return affecting
}

// outputSegment returns the prefix-sum segment of output index.
func outputSegment(outValues []int64, index int) (start, end int64) {
	for i := 0; i < index; i++ {
		start += outValues[i]
	}
	return start, start + outValues[index]
}

func checkOutputIndices(tx *Tx, outputs []int) error {
	for _, o := range outputs {
		if o < 0 || o >= len(tx.Outputs) {
			return fmt.Errorf("%w: output %d of %s", ErrInvalidValue, o, tx.Hash)
		}
	}
	return nil
}

func checkInputValues(def ColorDefinition, tx *Tx, inputs []*ColorValue) error {
	if len(inputs) != len(tx.Inputs) {
		return fmt.Errorf("%w: %d input values for %d inputs of %s",
			ErrInvalidValue, len(inputs), len(tx.Inputs), tx.Hash)
	}
	for _, in := range inputs {
		if in != nil && in.ColorID() != def.ColorID() {
			return fmt.Errorf("%w: input of %s passed to kernel of %s", ErrIncompatibleColor, in.ColorDef(), def)
		}
	}
	return nil
}

// indexSet collects input indices and returns them sorted.
type indexSet map[int]struct{}

func (s indexSet) add(indices ...int) {
	for _, i := range indices {
		s[i] = struct{}{}
	}
}

func (s indexSet) sorted() []int {
	list := make([]int, 0, len(s))
	for i := range s {
		list = append(list, i)
	}
	sort.Ints(list)
	return list
}
