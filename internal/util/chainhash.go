package util

import (
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// IsNullOutpoint reports whether point is the previous outpoint of a
// coinbase input.
func IsNullOutpoint(point wire.OutPoint) bool {
	return point.Index == math.MaxUint32 && point.Hash == chainhash.Hash{}
}

// IsCoinbase reports whether tx is a coinbase transaction.
func IsCoinbase(tx *wire.MsgTx) bool {
	return len(tx.TxIn) == 1 && IsNullOutpoint(tx.TxIn[0].PreviousOutPoint)
}

func NullOutpoint() *wire.OutPoint {
	return &wire.OutPoint{
		Index: math.MaxUint32,
	}
}
