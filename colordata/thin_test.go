package colordata

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// countingBuilder records every ScanTx call and delegates to a basic
// builder.
type countingBuilder struct {
	mock.Mock
	basic *BasicColorDataBuilder
}

func (b *countingBuilder) ColorID() int64 {
	return b.basic.ColorID()
}

func (b *countingBuilder) ScanTx(st Store, tx *coloring.Tx, outputs []int) error {
	args := b.Called(tx.Hash, outputs)
	if err := b.basic.ScanTx(st, tx, outputs); err != nil {
		return err
	}
	return args.Error(0)
}

func (b *countingBuilder) EnsureScannedUpto(ctx context.Context, blockHash *chainhash.Hash) error {
	b.Called(blockHash)
	return nil
}

func newThinManager(t *testing.T, cc *coloredChain) (*ColorDataBuilderManager, *countingBuilder, *coloring.ColorSet) {
	builder := &countingBuilder{}
	builder.On("ScanTx", mock.Anything, mock.Anything).Return(nil)
	manager, _, set := newTestManager(t, cc,
		WithBuilderFactory(func(kernel coloring.Kernel) (ColorDataBuilder, error) {
			builder.basic = NewBasicColorDataBuilder(kernel)
			return builder, nil
		}),
	)
	return manager, builder, set
}

func scansOf(b *countingBuilder, hash chainhash.Hash) int {
	n := 0
	for _, call := range b.Calls {
		if call.Method == "ScanTx" && call.Arguments.Get(0).(chainhash.Hash) == hash {
			n++
		}
	}
	return n
}

func TestThinMemoization(t *testing.T) {
	cc := newColoredChain()
	manager, builder, set := newThinManager(t, cc)
	thin := NewThinColorData(manager)

	hash := cc.c.TxHash()
	values, err := thin.GetColorValues(context.Background(), set, &hash, 0)
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.Equal(t, int64(1000), values[0].Value())

	// g:0 is reached through both a:0 and a:1 but evaluated once
	require.Equal(t, 1, scansOf(builder, cc.g.TxHash()))
	require.Equal(t, 2, scansOf(builder, cc.a.TxHash()))
	require.Equal(t, 1, scansOf(builder, cc.b.TxHash()))
	require.Equal(t, 1, scansOf(builder, cc.c.TxHash()))
	builder.AssertNumberOfCalls(t, "ScanTx", 5)
	builder.AssertCalled(t, "ScanTx", cc.a.TxHash(), []int{1})
	builder.AssertNotCalled(t, "ScanTx", cc.u.TxHash(), mock.Anything)
	builder.AssertNotCalled(t, "EnsureScannedUpto", mock.Anything)

	// the second query is answered from the store
	values, err = thin.GetColorValues(context.Background(), set, &hash, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1000), values[0].Value())
	builder.AssertNumberOfCalls(t, "ScanTx", 5)
}

func TestThinUncoloredOutput(t *testing.T) {
	cc := newColoredChain()
	manager, _, set := newThinManager(t, cc)
	thin := NewThinColorData(manager)

	hash := cc.g.TxHash()
	values, err := thin.GetColorValues(context.Background(), set, &hash, 1)
	require.NoError(t, err)
	require.Empty(t, values)

	def, err := manager.ColorMap().GetColorDef(set.ColorIDs()[0])
	require.NoError(t, err)
	hash = cc.a.TxHash()
	value, err := thin.GetColorValue(context.Background(), def, &hash, 0)
	require.NoError(t, err)
	require.Equal(t, int64(600), value.Value())
}

func TestThinNotFound(t *testing.T) {
	cc := newColoredChain()
	manager, _, set := newThinManager(t, cc)
	hash := chainhash.DoubleHashH([]byte("nowhere"))
	_, err := NewThinColorData(manager).GetColorValues(context.Background(), set, &hash, 0)
	require.ErrorIs(t, err, coloring.ErrTxNotFound)
}
