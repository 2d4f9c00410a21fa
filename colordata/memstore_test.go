package colordata

import (
	"errors"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func TestMemStoreRows(t *testing.T) {
	st := NewMemStore()
	hash := chainhash.DoubleHashH([]byte("tx"))

	require.NoError(t, st.Add(&StoreRow{ColorID: 1, TxHash: hash, OutIndex: 0, Value: 10}))
	require.NoError(t, st.Add(&StoreRow{ColorID: 2, TxHash: hash, OutIndex: 0, Value: 20}))
	require.NoError(t, st.Add(&StoreRow{ColorID: 1, TxHash: hash, OutIndex: 0, Value: 11}))

	row, err := st.Get(1, &hash, 0)
	require.NoError(t, err)
	require.Equal(t, int64(11), row.Value)

	rows, err := st.GetAny(&hash, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NoError(t, st.Remove(1, &hash, 0))
	row, err = st.Get(1, &hash, 0)
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestMemStoreColorDescs(t *testing.T) {
	st := NewMemStore()
	id, err := st.ResolveColorDesc("obc:aa:0:1", false)
	require.NoError(t, err)
	require.Zero(t, id)

	id, err = st.ResolveColorDesc("obc:aa:0:1", true)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	again, err := st.ResolveColorDesc("obc:aa:0:1", true)
	require.NoError(t, err)
	require.Equal(t, id, again)

	desc, err := st.FindColorDesc(id)
	require.NoError(t, err)
	require.Equal(t, "obc:aa:0:1", desc)
	desc, err = st.FindColorDesc(7)
	require.NoError(t, err)
	require.Empty(t, desc)
}

func TestMemStoreTransactionRollback(t *testing.T) {
	st := NewMemStore()
	hash := chainhash.DoubleHashH([]byte("tx"))
	block := chainhash.DoubleHashH([]byte("block"))
	require.NoError(t, st.Add(&StoreRow{ColorID: 1, TxHash: hash, Value: 5}))

	boom := errors.New("boom")
	err := st.Transaction(func(tx Store) error {
		require.NoError(t, tx.Add(&StoreRow{ColorID: 1, TxHash: hash, Value: 6}))
		require.NoError(t, tx.SetAsScanned(1, &block))
		return boom
	})
	require.ErrorIs(t, err, boom)

	row, err := st.Get(1, &hash, 0)
	require.NoError(t, err)
	require.Equal(t, int64(5), row.Value)
	scanned, err := st.DidScan(1, &block)
	require.NoError(t, err)
	require.False(t, scanned)

	require.NoError(t, st.Transaction(func(tx Store) error {
		return tx.SetAsScanned(1, &block)
	}))
	scanned, err = st.DidScan(1, &block)
	require.NoError(t, err)
	require.True(t, scanned)
}
