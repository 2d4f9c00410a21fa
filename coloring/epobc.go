package coloring

import (
	"github.com/inscription-c/ccoin/constants"
	"github.com/inscription-c/ccoin/log"
)

// EPOBCKernel implements enhanced padded order-based coloring. Every
// colored output carries a padding announced by the tag in the first
// input's sequence number; only the value above the padding is colored.
type EPOBCKernel struct {
	def ColorDefinition
}

func NewEPOBCKernel(def ColorDefinition) Kernel {
	return &EPOBCKernel{def: def}
}

func (k *EPOBCKernel) ColorDef() ColorDefinition {
	return k.def
}

func (k *EPOBCKernel) IsSpecialTx(tx *Tx) bool {
	return !k.def.IsSentinel() && tx.Hash == k.def.Genesis().TxHash
}

func (k *EPOBCKernel) RunKernel(tx *Tx, inputs []*ColorValue) ([]*ColorValue, error) {
	if err := checkInputValues(k.def, tx, inputs); err != nil {
		return nil, err
	}
	outputs := make([]*ColorValue, len(tx.Outputs))
	tag := TxTag(tx.Raw)
	if tag == nil {
		return outputs, nil
	}

	padding := tag.Padding()
	if tag.IsGenesis {
		if k.IsSpecialTx(tx) && len(tx.Outputs) > 0 {
			if value := tx.Outputs[0].Value - padding; value > 0 {
				outputs[0] = NewColorValue(k.def, value)
			}
		}
		return outputs, nil
	}

	if err := tx.EnsureInputValues(); err != nil {
		return nil, err
	}
	inValues := xferInputValues(tx)
	for outIndex, out := range tx.Outputs {
		valueWop := out.Value - padding
		if valueWop <= 0 {
			continue
		}
		affecting := xferAffectingInputs(tx, inValues, padding, outIndex)
		if len(affecting) == 0 {
			continue
		}
		sum := int64(0)
		allColored := true
		for _, i := range affecting {
			if inputs[i] == nil {
				allColored = false
				break
			}
			sum += inputs[i].Value()
		}
		if allColored && sum >= valueWop {
			outputs[outIndex] = NewColorValue(k.def, valueWop)
		}
	}
	log.Kern.Tracef("epobc %s over %s (padding %d): %v", k.def, tx.Hash, padding,
		log.NewClosure(func() string {
			return formatValues(outputs)
		}))
	return outputs, nil
}

// xferInputValues returns input values without the padding of the transfer
// that created them.
func xferInputValues(tx *Tx) []int64 {
	values := make([]int64, len(tx.Inputs))
	for i, in := range tx.Inputs {
		values[i] = in.Value
		if prevTag := TxTag(in.PrevTx); prevTag != nil && !prevTag.IsGenesis {
			values[i] -= prevTag.Padding()
		}
	}
	return values
}

// xferAffectingInputs returns the inputs backing outIndex of a transfer.
// If the output or any output before it does not exceed the padding, the
// segment is undefined and no input affects it.
func xferAffectingInputs(tx *Tx, inValues []int64, padding int64, outIndex int) []int {
	outValues := make([]int64, outIndex+1)
	for i := 0; i <= outIndex; i++ {
		outValues[i] = tx.Outputs[i].Value - padding
		if outValues[i] <= 0 {
			return nil
		}
	}
	start, end := outputSegment(outValues, outIndex)
	return overlappingInputs(inValues, start, end)
}

func (k *EPOBCKernel) GetAffectingInputs(tx *Tx, outputs []int) ([]int, error) {
	if err := checkOutputIndices(tx, outputs); err != nil {
		return nil, err
	}
	tag := TxTag(tx.Raw)
	if tag == nil || tag.IsGenesis {
		return []int{}, nil
	}
	if err := tx.EnsureInputValues(); err != nil {
		return nil, err
	}
	inValues := xferInputValues(tx)
	set := make(indexSet)
	for _, o := range outputs {
		set.add(xferAffectingInputs(tx, inValues, tag.Padding(), o)...)
	}
	return set.sorted(), nil
}

// ComposeTxSpec selects coins per color with change of any positive value,
// pads every colored output to the dust threshold with one shared padding,
// then funds the padding, the uncolored targets and the fee.
func (k *EPOBCKernel) ComposeTxSpec(op OperationalTxSpec) (*ComposedTxSpec, error) {
	uncolored, groups, err := groupTargetsByColor(op.Targets(), constants.SchemeEPOBC)
	if err != nil {
		return nil, err
	}
	dust := op.DustThreshold()

	var coins []*Utxo
	var colored []*ColorTarget
	minPadding := int64(0)
	for _, targets := range groups {
		needed, err := SumTargets(targets)
		if err != nil {
			return nil, err
		}
		selected, total, err := op.SelectCoins(needed, nil)
		if err != nil {
			return nil, err
		}
		coins = append(coins, selected...)
		colored = append(colored, targets...)
		if change := total.Value() - needed.Value(); change > 0 {
			addr, err := op.ChangeAddr(needed.ColorDef())
			if err != nil {
				return nil, err
			}
			colored = append(colored, NewColorTarget(addr, NewColorValue(needed.ColorDef(), change)))
		}
	}
	for _, t := range colored {
		if shortfall := dust - t.Value(); shortfall > minPadding {
			minPadding = shortfall
		}
	}
	tag := Tag{PaddingCode: ClosestPaddingCode(minPadding)}
	padding := tag.Padding()

	spec := NewComposedTxSpec(op.RequiredFee)
	spec.AddInputs(coins...)
	extra := int64(0)
	for _, t := range colored {
		spec.AddOutput(t.Address, t.Value()+padding)
		extra += padding
	}
	// satoshis of colored inputs above their color value are already
	// available to pay for padding
	for _, c := range coins {
		extra -= c.Value - c.ColorValue.Value()
	}
	if err := composeUncolored(op, spec, uncolored, extra); err != nil {
		return nil, err
	}
	if err := spec.setTag(tag); err != nil {
		return nil, err
	}
	log.Kern.Debugf("epobc transfer composed with padding code %d, %d inputs, %d outputs",
		tag.PaddingCode, len(spec.Inputs), len(spec.Outputs))
	return spec, nil
}

// ComposeGenesisTxSpec issues the genesis target on output 0, padded up to
// the dust threshold, and tags the transaction as genesis.
func (k *EPOBCKernel) ComposeGenesisTxSpec(op OperationalTxSpec) (*ComposedTxSpec, error) {
	target, err := genesisTarget(op.Targets())
	if err != nil {
		return nil, err
	}
	tag := Tag{
		PaddingCode: ClosestPaddingCode(op.DustThreshold() - target.Value()),
		IsGenesis:   true,
	}
	value := target.Value() + tag.Padding()
	spec := NewComposedTxSpec(op.RequiredFee)
	spec.AddOutput(target.Address, value)
	if err := composeUncolored(op, spec, nil, value); err != nil {
		return nil, err
	}
	if err := spec.setTag(tag); err != nil {
		return nil, err
	}
	return spec, nil
}
