package coloring

import (
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

func TestSortByDependency(t *testing.T) {
	chain := newTestChain()
	a := chain.spend(wire.MaxTxInSequenceNum, []int64{10}, []int64{5, 5})
	c := chain.spend(wire.MaxTxInSequenceNum, []int64{10}, []int64{10})

	spendB := wire.NewMsgTx(wire.TxVersion)
	spendB.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: a.Hash, Index: 0}, nil, nil))
	spendB.AddTxOut(wire.NewTxOut(5, nil))
	b := NewTx(spendB, chain, nil)

	spendD := wire.NewMsgTx(wire.TxVersion)
	spendD.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: b.Hash, Index: 0}, nil, nil))
	spendD.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: a.Hash, Index: 1}, nil, nil))
	spendD.AddTxOut(wire.NewTxOut(10, nil))
	d := NewTx(spendD, chain, nil)

	require.Equal(t, []*Tx{a, b, c, d}, SortByDependency([]*Tx{a, b, c, d}))
	require.Equal(t, []*Tx{a, b, d, c}, SortByDependency([]*Tx{d, c, b, a}))
	require.Equal(t, []*Tx{c, a, b}, SortByDependency([]*Tx{c, b, a}))

	raw := SortMsgTxsByDependency([]*wire.MsgTx{spendD, spendB, a.Raw})
	require.Equal(t, []*wire.MsgTx{a.Raw, spendB, spendD}, raw)
}

func TestTopoSortBreaksCycles(t *testing.T) {
	deps := map[int][]int{1: {2}, 2: {1}, 3: {}}
	sorted := TopoSort([]int{1, 2, 3},
		func(i int) int { return i },
		func(i int) []int { return deps[i] },
	)
	require.Equal(t, []int{2, 1, 3}, sorted)
}
