package coloring

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/constants"
)

// ColorTarget is a payment of a color value to an address.
type ColorTarget struct {
	Address    string
	ColorValue *ColorValue
}

func NewColorTarget(address string, value *ColorValue) *ColorTarget {
	return &ColorTarget{Address: address, ColorValue: value}
}

func (t *ColorTarget) ColorID() int64 {
	return t.ColorValue.ColorID()
}

func (t *ColorTarget) ColorDef() ColorDefinition {
	return t.ColorValue.ColorDef()
}

func (t *ColorTarget) Value() int64 {
	return t.ColorValue.Value()
}

func (t *ColorTarget) String() string {
	return fmt.Sprintf("%s -> %s", t.ColorValue, t.Address)
}

// SumTargets adds up the values of targets sharing one color.
func SumTargets(targets []*ColorTarget) (*ColorValue, error) {
	values := make([]*ColorValue, 0, len(targets))
	for _, t := range targets {
		values = append(values, t.ColorValue)
	}
	return SumColorValues(values)
}

// Utxo is a spendable output together with the color it carries.
// ColorValue is uncolored for plain coins.
type Utxo struct {
	OutPoint   wire.OutPoint
	Value      int64
	PkScript   []byte
	ColorValue *ColorValue
}

// FeeEstimator prices a transaction that grows by extra inputs and outputs.
type FeeEstimator interface {
	EstimateRequiredFee(extraInputs, extraOutputs int) int64
}

// OperationalTxSpec is what a wallet offers to a kernel composing a
// transaction.
type OperationalTxSpec interface {
	Targets() []*ColorTarget
	// SelectCoins returns coins of value's color totalling at least value.
	// With a non-nil fee estimator the total must also cover the fee of
	// the transaction grown by the selected inputs and one change output.
	// A zero value without a fee estimator is ErrZeroSelect.
	SelectCoins(value *ColorValue, fee FeeEstimator) ([]*Utxo, *ColorValue, error)
	ChangeAddr(def ColorDefinition) (string, error)
	RequiredFee(size int) int64
	DustThreshold() int64
}

// ComposedTxIn is an input of a composed transaction.
type ComposedTxIn struct {
	Utxo     *Utxo
	Sequence uint32
}

// ComposedTxOut is an output of a composed transaction.
type ComposedTxOut struct {
	Address string
	Value   int64
}

// ComposedTxSpec accumulates the inputs and outputs chosen by a kernel.
type ComposedTxSpec struct {
	Inputs  []*ComposedTxIn
	Outputs []*ComposedTxOut

	requiredFee func(size int) int64
}

// NewComposedTxSpec returns an empty spec priced by requiredFee, or by
// DefaultRequiredFee when requiredFee is nil.
func NewComposedTxSpec(requiredFee func(size int) int64) *ComposedTxSpec {
	if requiredFee == nil {
		requiredFee = DefaultRequiredFee
	}
	return &ComposedTxSpec{requiredFee: requiredFee}
}

// RequiredFee is ceil(size * feePerKb / 1000).
func RequiredFee(size int, feePerKb int64) int64 {
	return (int64(size)*feePerKb + 999) / 1000
}

// DefaultRequiredFee prices size bytes at the default relay fee rate.
func DefaultRequiredFee(size int) int64 {
	return RequiredFee(size, constants.DefaultFeePerKb)
}

func (s *ComposedTxSpec) AddInputs(utxos ...*Utxo) {
	for _, u := range utxos {
		s.Inputs = append(s.Inputs, &ComposedTxIn{
			Utxo:     u,
			Sequence: wire.MaxTxInSequenceNum,
		})
	}
}

func (s *ComposedTxSpec) AddOutput(address string, value int64) {
	s.Outputs = append(s.Outputs, &ComposedTxOut{Address: address, Value: value})
}

// EstimateSize is 181 bytes per input, 34 per output plus 10.
func (s *ComposedTxSpec) EstimateSize(extraInputs, extraOutputs int) int {
	return constants.TxInputSize*(len(s.Inputs)+extraInputs) +
		constants.TxOutputSize*(len(s.Outputs)+extraOutputs) +
		constants.TxBaseSize
}

func (s *ComposedTxSpec) EstimateRequiredFee(extraInputs, extraOutputs int) int64 {
	return s.requiredFee(s.EstimateSize(extraInputs, extraOutputs))
}

// setTag writes tag into the sequence number of the first input.
func (s *ComposedTxSpec) setTag(tag Tag) error {
	if len(s.Inputs) == 0 {
		return fmt.Errorf("%w: no input to carry the tag", ErrInsufficientFunds)
	}
	s.Inputs[0].Sequence = tag.Sequence()
	return nil
}

// InputValue is the satoshi total of all inputs.
func (s *ComposedTxSpec) InputValue() int64 {
	total := int64(0)
	for _, in := range s.Inputs {
		total += in.Utxo.Value
	}
	return total
}

// OutputValue is the satoshi total of all outputs.
func (s *ComposedTxSpec) OutputValue() int64 {
	total := int64(0)
	for _, out := range s.Outputs {
		total += out.Value
	}
	return total
}

// Fee is what the composed transaction leaves to miners.
func (s *ComposedTxSpec) Fee() int64 {
	return s.InputValue() - s.OutputValue()
}

// MsgTx assembles the unsigned transaction.
func (s *ComposedTxSpec) MsgTx(params *chaincfg.Params) (*wire.MsgTx, error) {
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	for _, in := range s.Inputs {
		outpoint := in.Utxo.OutPoint
		txIn := wire.NewTxIn(&outpoint, nil, nil)
		txIn.Sequence = in.Sequence
		tx.AddTxIn(txIn)
	}
	for _, out := range s.Outputs {
		addr, err := btcutil.DecodeAddress(out.Address, params)
		if err != nil {
			return nil, fmt.Errorf("%w: address %q: %v", ErrInvalidTarget, out.Address, err)
		}
		pkScript, err := txscript.PayToAddrScript(addr)
		if err != nil {
			return nil, err
		}
		tx.AddTxOut(wire.NewTxOut(out.Value, pkScript))
	}
	return tx, nil
}
