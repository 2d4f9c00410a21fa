package coloring

import (
	"math"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/internal/util"
	"github.com/stretchr/testify/require"
)

func TestTagRoundTrip(t *testing.T) {
	for code := uint8(0); code <= MaxPaddingCode; code++ {
		for _, genesis := range []bool{false, true} {
			tag := Tag{PaddingCode: code, IsGenesis: genesis}
			seq := tag.Sequence()
			require.Zero(t, seq>>12, "code %d", code)
			decoded := TagFromSequence(seq)
			require.NotNil(t, decoded)
			require.Equal(t, tag, *decoded)
		}
	}
}

func TestTagBits(t *testing.T) {
	// bit 0 first: transfer 110011, genesis 100101
	require.Equal(t, uint32(0x33), Tag{}.Sequence())
	require.Equal(t, uint32(0x25), Tag{IsGenesis: true}.Sequence())
	require.Equal(t, uint32(0x33|3<<6), Tag{PaddingCode: 3}.Sequence())

	require.Nil(t, TagFromSequence(wire.MaxTxInSequenceNum))
	require.Nil(t, TagFromSequence(0))
	// the high bits are ignored when decoding
	require.Equal(t, &Tag{PaddingCode: 5}, TagFromSequence(0xfff000|0x33|5<<6))
}

func TestTagPadding(t *testing.T) {
	require.Equal(t, int64(0), Tag{}.Padding())
	require.Equal(t, int64(2), Tag{PaddingCode: 1}.Padding())
	require.Equal(t, int64(8), Tag{PaddingCode: 3}.Padding())
	require.Equal(t, int64(8192), Tag{PaddingCode: 13}.Padding())
	require.Equal(t, int64(math.MaxInt64), Tag{PaddingCode: MaxPaddingCode}.Padding())
}

func TestClosestPaddingCode(t *testing.T) {
	cases := []struct {
		min  int64
		code uint8
	}{
		{-10, 0},
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 2},
		{8, 3},
		{9, 4},
		{5440, 13},
		{8192, 13},
		{8193, 14},
		{math.MaxInt64, MaxPaddingCode},
	}
	for _, c := range cases {
		code := ClosestPaddingCode(c.min)
		require.Equal(t, c.code, code, "min %d", c.min)
		require.GreaterOrEqual(t, Tag{PaddingCode: code}.Padding(), c.min)
	}
}

func TestTxTag(t *testing.T) {
	coinbase := wire.NewMsgTx(wire.TxVersion)
	coinbase.AddTxIn(wire.NewTxIn(util.NullOutpoint(), nil, nil))
	coinbase.TxIn[0].Sequence = Tag{PaddingCode: 2}.Sequence()
	require.Nil(t, TxTag(coinbase))

	chain := newTestChain()
	tx := chain.spend(Tag{PaddingCode: 2}.Sequence(), []int64{1, 1}, []int64{1})
	require.Equal(t, &Tag{PaddingCode: 2}, TxTag(tx.Raw))
	require.Nil(t, TxTag(nil))
}
