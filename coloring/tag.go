package coloring

import (
	"math"

	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/internal/util"
)

// EPOBC tags live in the low 12 bits of the first input's sequence number.
// Bits 0-5 hold the tag pattern (bit 0 first): transfer 110011, genesis
// 100101. Bits 6-11 hold the padding code.
const (
	xferTagBits    uint32 = 0x33
	genesisTagBits uint32 = 0x25

	tagMask         uint32 = 0x3f
	paddingCodeMask uint32 = 0x3f
	paddingShift           = 6

	// MaxPaddingCode is the largest code that fits the 6 bit field.
	MaxPaddingCode = 63
)

// Tag is the decoded EPOBC marker of a transaction.
type Tag struct {
	PaddingCode uint8
	IsGenesis   bool
}

// TagFromSequence decodes a sequence number. It returns nil when the low
// bits carry neither the transfer nor the genesis pattern.
func TagFromSequence(sequence uint32) *Tag {
	bits := sequence & tagMask
	if bits != xferTagBits && bits != genesisTagBits {
		return nil
	}
	return &Tag{
		PaddingCode: uint8((sequence >> paddingShift) & paddingCodeMask),
		IsGenesis:   bits == genesisTagBits,
	}
}

// Sequence encodes the tag; bits 12-31 are zero.
func (t Tag) Sequence() uint32 {
	bits := xferTagBits
	if t.IsGenesis {
		bits = genesisTagBits
	}
	return bits | (uint32(t.PaddingCode)&paddingCodeMask)<<paddingShift
}

// Padding is 2^PaddingCode, or 0 for code 0.
func (t Tag) Padding() int64 {
	if t.PaddingCode == 0 {
		return 0
	}
	if t.PaddingCode >= MaxPaddingCode {
		return math.MaxInt64
	}
	return int64(1) << t.PaddingCode
}

// ClosestPaddingCode returns the smallest code whose padding covers
// minPadding. Code 63 covers every int64.
func ClosestPaddingCode(minPadding int64) uint8 {
	if minPadding <= 0 {
		return 0
	}
	code := uint8(1)
	for code < MaxPaddingCode && int64(1)<<code < minPadding {
		code++
	}
	return code
}

// TxTag returns the EPOBC tag of raw, or nil for coinbase and untagged
// transactions.
func TxTag(raw *wire.MsgTx) *Tag {
	if raw == nil || len(raw.TxIn) == 0 || util.IsNullOutpoint(raw.TxIn[0].PreviousOutPoint) {
		return nil
	}
	return TagFromSequence(raw.TxIn[0].Sequence)
}
