package coloring

import (
	"github.com/inscription-c/ccoin/constants"
	"github.com/inscription-c/ccoin/log"
)

// OBCKernel implements order-based coloring: color follows satoshis in
// input and output order, and an output is colored only when every input
// backing it is colored.
type OBCKernel struct {
	def ColorDefinition
}

func NewOBCKernel(def ColorDefinition) Kernel {
	return &OBCKernel{def: def}
}

func (k *OBCKernel) ColorDef() ColorDefinition {
	return k.def
}

func (k *OBCKernel) IsSpecialTx(tx *Tx) bool {
	return !k.def.IsSentinel() && tx.Hash == k.def.Genesis().TxHash
}

func (k *OBCKernel) RunKernel(tx *Tx, inputs []*ColorValue) ([]*ColorValue, error) {
	if err := checkInputValues(k.def, tx, inputs); err != nil {
		return nil, err
	}
	if err := tx.EnsureInputValues(); err != nil {
		return nil, err
	}

	isGenesis := k.IsSpecialTx(tx)
	outputs := make([]*ColorValue, len(tx.Outputs))
	inIndex := 0
	curValue := int64(0)
	colored := false
	for outIndex, out := range tx.Outputs {
		if curValue == 0 {
			colored = true
		}
		for curValue < out.Value {
			if inIndex >= len(tx.Inputs) {
				// inputs exhausted, everything from here on is uncolored
				return outputs, nil
			}
			curValue += tx.Inputs[inIndex].Value
			colored = colored && inputs[inIndex] != nil
			inIndex++
		}
		// the genesis output is colored without coloring what follows it
		if colored || (isGenesis && uint32(outIndex) == k.def.Genesis().OutIndex) {
			outputs[outIndex] = NewColorValue(k.def, out.Value)
		}
		curValue -= out.Value
	}
	log.Kern.Tracef("obc %s over %s: %v", k.def, tx.Hash, log.NewClosure(func() string {
		return formatValues(outputs)
	}))
	return outputs, nil
}

func (k *OBCKernel) GetAffectingInputs(tx *Tx, outputs []int) ([]int, error) {
	if err := checkOutputIndices(tx, outputs); err != nil {
		return nil, err
	}
	if k.IsSpecialTx(tx) {
		return []int{}, nil
	}
	if err := tx.EnsureInputValues(); err != nil {
		return nil, err
	}
	inValues := make([]int64, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inValues[i] = in.Value
	}
	outValues := make([]int64, len(tx.Outputs))
	for i, out := range tx.Outputs {
		outValues[i] = out.Value
	}
	set := make(indexSet)
	for _, o := range outputs {
		start, end := outputSegment(outValues, o)
		set.add(overlappingInputs(inValues, start, end)...)
	}
	return set.sorted(), nil
}

// ComposeTxSpec selects coins for every colored target, adds same-color
// change of any positive value right after the group, then funds uncolored
// targets and the fee.
func (k *OBCKernel) ComposeTxSpec(op OperationalTxSpec) (*ComposedTxSpec, error) {
	uncolored, groups, err := groupTargetsByColor(op.Targets(), constants.SchemeOBC)
	if err != nil {
		return nil, err
	}
	spec := NewComposedTxSpec(op.RequiredFee)
	for _, targets := range groups {
		needed, err := SumTargets(targets)
		if err != nil {
			return nil, err
		}
		coins, total, err := op.SelectCoins(needed, nil)
		if err != nil {
			return nil, err
		}
		spec.AddInputs(coins...)
		for _, t := range targets {
			spec.AddOutput(t.Address, t.Value())
		}
		// colored satoshis must stay in the group's segment, whatever their value
		if change := total.Value() - needed.Value(); change > 0 {
			addr, err := op.ChangeAddr(needed.ColorDef())
			if err != nil {
				return nil, err
			}
			spec.AddOutput(addr, change)
		}
	}
	if err := composeUncolored(op, spec, uncolored, 0); err != nil {
		return nil, err
	}
	return spec, nil
}

// ComposeGenesisTxSpec pays the single genesis target from uncolored coins.
func (k *OBCKernel) ComposeGenesisTxSpec(op OperationalTxSpec) (*ComposedTxSpec, error) {
	target, err := genesisTarget(op.Targets())
	if err != nil {
		return nil, err
	}
	spec := NewComposedTxSpec(op.RequiredFee)
	spec.AddOutput(target.Address, target.Value())
	if err := composeUncolored(op, spec, nil, target.Value()); err != nil {
		return nil, err
	}
	return spec, nil
}
