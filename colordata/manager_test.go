package colordata

import (
	"context"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/stretchr/testify/require"
)

type failingBuilder struct {
	colorID int64
}

var errBuilderFailed = errors.New("builder failed")

func (b *failingBuilder) ColorID() int64 {
	return b.colorID
}

func (b *failingBuilder) ScanTx(st Store, tx *coloring.Tx, outputs []int) error {
	return errBuilderFailed
}

func (b *failingBuilder) EnsureScannedUpto(ctx context.Context, blockHash *chainhash.Hash) error {
	return errBuilderFailed
}

func TestManagerOptions(t *testing.T) {
	cc := newColoredChain()
	_, err := NewColorDataBuilderManager(WithStore(NewMemStore()))
	require.Error(t, err)

	_, err = NewColorDataBuilderManager(WithStore(NewMemStore()), WithBlockchainState(cc.chain),
		WithStrategy("partial"))
	require.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = NewColorDataBuilderManager(WithStore(NewMemStore()), WithBlockchainState(cc.chain),
		WithStrategy(StrategyAided))
	require.ErrorIs(t, err, ErrNoExplorer)
}

func TestManagerBuilderCache(t *testing.T) {
	cc := newColoredChain()
	manager, _, set := newTestManager(t, cc)
	id := set.ColorIDs()[0]

	b, err := manager.GetBuilder(id)
	require.NoError(t, err)
	again, err := manager.GetBuilder(id)
	require.NoError(t, err)
	require.Same(t, b, again)
	require.Equal(t, id, b.ColorID())

	_, err = manager.GetBuilder(99)
	require.ErrorIs(t, err, coloring.ErrColorNotFound)
}

func TestManagerScanTxIsAtomic(t *testing.T) {
	cc := newColoredChain()
	other := "epobc:" + cc.u.TxHash().String() + ":0:2"
	store := NewMemStore()
	manager, err := NewColorDataBuilderManager(
		WithStore(store),
		WithBlockchainState(cc.chain),
		WithBuilderFactory(func(kernel coloring.Kernel) (ColorDataBuilder, error) {
			if kernel.ColorDef().ColorDesc() == other {
				return &failingBuilder{colorID: kernel.ColorDef().ColorID()}, nil
			}
			return newBasicAdapter(kernel), nil
		}),
	)
	require.NoError(t, err)
	set, err := coloring.NewColorSet(manager.ColorMap(), []string{cc.desc, other})
	require.NoError(t, err)
	id := set.ColorIDs()[0]

	require.NoError(t, store.Add(&StoreRow{ColorID: id, TxHash: cc.g.TxHash(), OutIndex: 0, Value: 1000}))
	err = manager.ScanTx(set, manager.NewTx(cc.a), nil)
	require.ErrorIs(t, err, errBuilderFailed)
	requireValue(t, store, id, cc.a, 0, -1)

	single, err := coloring.NewColorSet(manager.ColorMap(), []string{cc.desc})
	require.NoError(t, err)
	require.NoError(t, manager.ScanTx(single, manager.NewTx(cc.a), nil))
	requireValue(t, store, id, cc.a, 0, 600)
}

// basicAdapter gives a BasicColorDataBuilder a no-op EnsureScannedUpto.
type basicAdapter struct {
	*BasicColorDataBuilder
}

func newBasicAdapter(kernel coloring.Kernel) ColorDataBuilder {
	return &basicAdapter{NewBasicColorDataBuilder(kernel)}
}

func (b *basicAdapter) EnsureScannedUpto(ctx context.Context, blockHash *chainhash.Hash) error {
	return nil
}
