package coloring

import (
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/constants"
	"github.com/stretchr/testify/require"
)

// taggedSpend spends outputs created by transfers tagged with prevCode.
func taggedSpend(chain *testChain, code uint8, prevCode uint8, inValues, outValues []int64) *Tx {
	raw := wire.NewMsgTx(wire.TxVersion)
	for i, v := range inValues {
		prev := chain.fund(Tag{PaddingCode: prevCode}.Sequence(), v)
		in := wire.NewTxIn(&prev, nil, nil)
		if i == 0 {
			in.Sequence = Tag{PaddingCode: code}.Sequence()
		}
		raw.AddTxIn(in)
	}
	for _, v := range outValues {
		raw.AddTxOut(wire.NewTxOut(v, nil))
	}
	chain.txs[raw.TxHash()] = raw
	return NewTx(raw, chain, nil)
}

func TestEPOBCTransfer(t *testing.T) {
	chain := newTestChain()
	// padding 8 on both sides
	tx := taggedSpend(chain, 3, 3, []int64{9}, []int64{9})
	def := testDef(1, constants.SchemeEPOBC, otherGenesis())
	k := NewEPOBCKernel(def)

	out, err := k.RunKernel(tx, values(def, 1))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, int64(1), out[0].Value())

	affecting, err := k.GetAffectingInputs(tx, []int{0})
	require.NoError(t, err)
	require.Equal(t, []int{0}, affecting)
}

func TestEPOBCSkipsInputsWithinPadding(t *testing.T) {
	chain := newTestChain()
	// input 0 holds 5 satoshis of a transfer padded by 8, so it carries no segment
	small := chain.fund(Tag{PaddingCode: 3}.Sequence(), 5)
	colored := chain.fund(wire.MaxTxInSequenceNum, 10)
	raw := wire.NewMsgTx(wire.TxVersion)
	first := wire.NewTxIn(&small, nil, nil)
	first.Sequence = Tag{PaddingCode: 3}.Sequence()
	raw.AddTxIn(first)
	raw.AddTxIn(wire.NewTxIn(&colored, nil, nil))
	raw.AddTxOut(wire.NewTxOut(18, nil))
	chain.txs[raw.TxHash()] = raw
	tx := NewTx(raw, chain, nil)

	def := testDef(1, constants.SchemeEPOBC, otherGenesis())
	k := NewEPOBCKernel(def)

	affecting, err := k.GetAffectingInputs(tx, []int{0})
	require.NoError(t, err)
	require.Equal(t, []int{1}, affecting)

	out, err := k.RunKernel(tx, values(def, -1, 10))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, int64(10), out[0].Value())
}

func TestEPOBCTransferFromUntaggedInputs(t *testing.T) {
	chain := newTestChain()
	tx := chain.spend(Tag{PaddingCode: 3}.Sequence(), []int64{9}, []int64{9})
	def := testDef(1, constants.SchemeEPOBC, otherGenesis())

	out, err := NewEPOBCKernel(def).RunKernel(tx, values(def, 1))
	require.NoError(t, err)
	require.Equal(t, int64(1), out[0].Value())
}

func TestEPOBCRequiresAllAffectingInputsColored(t *testing.T) {
	chain := newTestChain()
	// padding 2: outputs carry 4 and 8, inputs carry 6 and 6
	tx := taggedSpend(chain, 1, 1, []int64{8, 8}, []int64{6, 10})
	def := testDef(1, constants.SchemeEPOBC, otherGenesis())
	k := NewEPOBCKernel(def)

	out, err := k.RunKernel(tx, values(def, 6, -1))
	require.NoError(t, err)
	require.Equal(t, int64(4), out[0].Value())
	require.Nil(t, out[1])

	out, err = k.RunKernel(tx, values(def, 6, 6))
	require.NoError(t, err)
	require.Equal(t, int64(4), out[0].Value())
	require.Equal(t, int64(8), out[1].Value())

	// the inputs together do not carry enough color
	out, err = k.RunKernel(tx, values(def, 3, 2))
	require.NoError(t, err)
	require.Nil(t, out[0])
	require.Nil(t, out[1])
}

func TestEPOBCOutputBelowPadding(t *testing.T) {
	chain := newTestChain()
	// padding 8: output 0 carries nothing, which voids every later output
	tx := taggedSpend(chain, 3, 0, []int64{20}, []int64{8, 12})
	def := testDef(1, constants.SchemeEPOBC, otherGenesis())
	k := NewEPOBCKernel(def)

	out, err := k.RunKernel(tx, values(def, 20))
	require.NoError(t, err)
	require.Equal(t, []*ColorValue{nil, nil}, out)

	affecting, err := k.GetAffectingInputs(tx, []int{0, 1})
	require.NoError(t, err)
	require.Empty(t, affecting)
}

func TestEPOBCUntagged(t *testing.T) {
	chain := newTestChain()
	tx := chain.spend(wire.MaxTxInSequenceNum, []int64{9}, []int64{9})
	def := testDef(1, constants.SchemeEPOBC, otherGenesis())
	k := NewEPOBCKernel(def)

	out, err := k.RunKernel(tx, values(def, 9))
	require.NoError(t, err)
	require.Equal(t, []*ColorValue{nil}, out)

	affecting, err := k.GetAffectingInputs(tx, []int{0})
	require.NoError(t, err)
	require.Empty(t, affecting)
}

func TestEPOBCGenesis(t *testing.T) {
	chain := newTestChain()
	tx := chain.spend(Tag{PaddingCode: 13, IsGenesis: true}.Sequence(), []int64{20000}, []int64{9192, 5000})
	def := testDef(1, constants.SchemeEPOBC, tx.Hash)
	k := NewEPOBCKernel(def)
	require.True(t, k.IsSpecialTx(tx))

	out, err := k.RunKernel(tx, values(def, -1))
	require.NoError(t, err)
	require.Equal(t, int64(1000), out[0].Value())
	require.Nil(t, out[1])

	// a genesis tag on another transaction colors nothing
	other := NewEPOBCKernel(testDef(2, constants.SchemeEPOBC, otherGenesis()))
	out, err = other.RunKernel(tx, values(def, -1))
	require.NoError(t, err)
	require.Equal(t, []*ColorValue{nil, nil}, out)
}
