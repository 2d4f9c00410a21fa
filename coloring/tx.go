package coloring

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/internal/util"
)

// TxSource fetches raw transactions by hash.
type TxSource interface {
	GetTx(hash *chainhash.Hash) (*wire.MsgTx, error)
}

// TxIn is the kernel's view of a transaction input. Value and PrevTx are
// only populated after Tx.EnsureInputValues.
type TxIn struct {
	PrevOut  wire.OutPoint
	Sequence uint32
	Value    int64
	PrevTx   *wire.MsgTx
}

// TxOut is the kernel's view of a transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
	Address  string
}

// Tx is a transaction together with the values of the outputs it spends.
type Tx struct {
	Hash    chainhash.Hash
	Raw     *wire.MsgTx
	Inputs  []*TxIn
	Outputs []*TxOut

	src      TxSource
	resolved bool
}

// NewTx wraps raw. src is used to resolve input values on demand and may be
// nil when the caller resolves them itself with SetInputValues.
func NewTx(raw *wire.MsgTx, src TxSource, params *chaincfg.Params) *Tx {
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	tx := &Tx{
		Hash:    raw.TxHash(),
		Raw:     raw,
		Inputs:  make([]*TxIn, 0, len(raw.TxIn)),
		Outputs: make([]*TxOut, 0, len(raw.TxOut)),
		src:     src,
	}
	for _, in := range raw.TxIn {
		tx.Inputs = append(tx.Inputs, &TxIn{
			PrevOut:  in.PreviousOutPoint,
			Sequence: in.Sequence,
		})
	}
	for _, out := range raw.TxOut {
		o := &TxOut{
			Value:    out.Value,
			PkScript: out.PkScript,
		}
		_, addrs, _, err := txscript.ExtractPkScriptAddrs(out.PkScript, params)
		if err == nil && len(addrs) > 0 {
			o.Address = addrs[0].EncodeAddress()
		}
		tx.Outputs = append(tx.Outputs, o)
	}
	return tx
}

// IsCoinbase reports whether the transaction creates new coins.
func (t *Tx) IsCoinbase() bool {
	return util.IsCoinbase(t.Raw)
}

// EnsureInputValues resolves the value and previous transaction of every
// input. Lookups happen at most once per Tx.
func (t *Tx) EnsureInputValues() error {
	if t.resolved {
		return nil
	}
	if t.IsCoinbase() {
		t.resolved = true
		return nil
	}
	if t.src == nil {
		return fmt.Errorf("%w: no source to resolve inputs of %s", ErrTxNotFound, t.Hash)
	}
	prevTxs := make(map[chainhash.Hash]*wire.MsgTx)
	for i, in := range t.Inputs {
		prev, ok := prevTxs[in.PrevOut.Hash]
		if !ok {
			var err error
			prev, err = t.src.GetTx(&in.PrevOut.Hash)
			if err != nil || prev == nil {
				return fmt.Errorf("%w: input %d of %s spends %s: %v", ErrTxNotFound, i, t.Hash, in.PrevOut.Hash, err)
			}
			prevTxs[in.PrevOut.Hash] = prev
		}
		if int(in.PrevOut.Index) >= len(prev.TxOut) {
			return fmt.Errorf("%w: %s has no output %d", ErrTxNotFound, in.PrevOut.Hash, in.PrevOut.Index)
		}
		in.Value = prev.TxOut[in.PrevOut.Index].Value
		in.PrevTx = prev
	}
	t.resolved = true
	return nil
}

// SetInputValues fills input values from already known previous
// transactions, indexed like Inputs.
func (t *Tx) SetInputValues(prevTxs []*wire.MsgTx) error {
	if len(prevTxs) != len(t.Inputs) {
		return fmt.Errorf("%w: %d previous transactions for %d inputs", ErrInvalidValue, len(prevTxs), len(t.Inputs))
	}
	for i, in := range t.Inputs {
		prev := prevTxs[i]
		if prev == nil || int(in.PrevOut.Index) >= len(prev.TxOut) {
			return fmt.Errorf("%w: previous output of input %d", ErrTxNotFound, i)
		}
		in.Value = prev.TxOut[in.PrevOut.Index].Value
		in.PrevTx = prev
	}
	t.resolved = true
	return nil
}

// SpentHashes returns the distinct transaction hashes spent by t.
func (t *Tx) SpentHashes() []chainhash.Hash {
	seen := make(map[chainhash.Hash]struct{}, len(t.Inputs))
	hashes := make([]chainhash.Hash, 0, len(t.Inputs))
	for _, in := range t.Inputs {
		if util.IsNullOutpoint(in.PrevOut) {
			continue
		}
		if _, ok := seen[in.PrevOut.Hash]; ok {
			continue
		}
		seen[in.PrevOut.Hash] = struct{}{}
		hashes = append(hashes, in.PrevOut.Hash)
	}
	return hashes
}
