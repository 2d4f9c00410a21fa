package colordata

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/stretchr/testify/require"
)

func TestThickConfirmed(t *testing.T) {
	cc := newColoredChain()
	manager, _, set := newTestManager(t, cc)
	thick := NewThickColorData(manager)
	ctx := context.Background()

	hash := cc.b.TxHash()
	values, err := thick.GetColorValues(ctx, set, &hash, 0)
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.Equal(t, int64(1000), values[0].Value())
	require.Equal(t, set.ColorIDs()[0], values[0].ColorID())

	hash = cc.u.TxHash()
	values, err = thick.GetColorValues(ctx, set, &hash, 0)
	require.NoError(t, err)
	require.Empty(t, values)

	def, err := manager.ColorMap().GetColorDef(set.ColorIDs()[0])
	require.NoError(t, err)
	hash = cc.a.TxHash()
	value, err := thick.GetColorValue(ctx, def, &hash, 1)
	require.NoError(t, err)
	require.Equal(t, int64(400), value.Value())
}

func TestThickMempoolRetry(t *testing.T) {
	cc := newColoredChain()
	manager, store, set := newTestManager(t, cc)
	thick := NewThickColorData(manager)

	d := newMsgTx([]wire.OutPoint{outpoint(cc.c, 0)}, 250, 750)
	e := newMsgTx([]wire.OutPoint{outpoint(d, 1)}, 750)
	cc.chain.addMempool(e)
	cc.chain.addMempool(d)
	// a block arrives between the first two reads of the best block
	cc.chain.bestSeq = []chainhash.Hash{*cc.chain.blockHash(2)}

	hash := e.TxHash()
	values, err := thick.GetColorValues(context.Background(), set, &hash, 0)
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.Equal(t, int64(750), values[0].Value())
	require.Equal(t, 4, cc.chain.bestHits)

	requireValue(t, store, set.ColorIDs()[0], d, 0, 250)
	scanned, err := store.DidScan(set.ColorIDs()[0], cc.chain.tip())
	require.NoError(t, err)
	require.True(t, scanned)
}

func TestThickNotFound(t *testing.T) {
	cc := newColoredChain()
	manager, _, set := newTestManager(t, cc)
	hash := chainhash.DoubleHashH([]byte("nowhere"))
	_, err := NewThickColorData(manager).GetColorValues(context.Background(), set, &hash, 0)
	require.ErrorIs(t, err, coloring.ErrTxNotFound)
}
