package coloring

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/constants"
)

const (
	addrA      = "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"
	addrB      = "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy"
	addrChange = "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"
)

// testChain is an in-memory TxSource.
type testChain struct {
	txs   map[chainhash.Hash]*wire.MsgTx
	nonce uint32
}

func newTestChain() *testChain {
	return &testChain{txs: make(map[chainhash.Hash]*wire.MsgTx)}
}

func (c *testChain) GetTx(hash *chainhash.Hash) (*wire.MsgTx, error) {
	tx, ok := c.txs[*hash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTxNotFound, hash)
	}
	return tx, nil
}

// fund creates a transaction with a single output of value whose first
// input carries sequence, and returns that output.
func (c *testChain) fund(sequence uint32, value int64) wire.OutPoint {
	c.nonce++
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Hash: chainhash.Hash{0xff, byte(c.nonce), byte(c.nonce >> 8)}},
		Sequence:         sequence,
	})
	tx.AddTxOut(wire.NewTxOut(value, nil))
	c.txs[tx.TxHash()] = tx
	return wire.OutPoint{Hash: tx.TxHash(), Index: 0}
}

// spend builds a transaction with one freshly funded input per value in
// inValues. The first input carries sequence.
func (c *testChain) spend(sequence uint32, inValues []int64, outValues []int64) *Tx {
	raw := wire.NewMsgTx(wire.TxVersion)
	for i, v := range inValues {
		prev := c.fund(wire.MaxTxInSequenceNum, v)
		in := wire.NewTxIn(&prev, nil, nil)
		if i == 0 {
			in.Sequence = sequence
		}
		raw.AddTxIn(in)
	}
	for _, v := range outValues {
		raw.AddTxOut(wire.NewTxOut(v, nil))
	}
	c.txs[raw.TxHash()] = raw
	return NewTx(raw, c, nil)
}

func testDef(colorID int64, scheme string, genesisTx chainhash.Hash) ColorDefinition {
	return NewColorDefinition(colorID, scheme, Genesis{TxHash: genesisTx, OutIndex: 0, Height: 100})
}

func otherGenesis() chainhash.Hash {
	return chainhash.DoubleHashH([]byte("elsewhere"))
}

func values(def ColorDefinition, list ...int64) []*ColorValue {
	out := make([]*ColorValue, len(list))
	for i, v := range list {
		if v >= 0 {
			out[i] = NewColorValue(def, v)
		}
	}
	return out
}

// memDescStore numbers descriptors from 1 in registration order.
type memDescStore struct {
	descs []string
}

func (s *memDescStore) ResolveColorDesc(desc string, autoAdd bool) (int64, error) {
	for i, d := range s.descs {
		if d == desc {
			return int64(i + 1), nil
		}
	}
	if !autoAdd {
		return 0, nil
	}
	s.descs = append(s.descs, desc)
	return int64(len(s.descs)), nil
}

func (s *memDescStore) FindColorDesc(colorID int64) (string, error) {
	if colorID < 1 || colorID > int64(len(s.descs)) {
		return "", nil
	}
	return s.descs[colorID-1], nil
}

// fakeOp is an OperationalTxSpec over a fixed coin list per color id.
type fakeOp struct {
	targets []*ColorTarget
	coins   map[int64][]*Utxo
	dust    int64
}

func (f *fakeOp) Targets() []*ColorTarget {
	return f.targets
}

func (f *fakeOp) SelectCoins(value *ColorValue, fee FeeEstimator) ([]*Utxo, *ColorValue, error) {
	if value.Value() == 0 && fee == nil {
		return nil, nil, ErrZeroSelect
	}
	var selected []*Utxo
	total := int64(0)
	need := func() int64 {
		n := value.Value()
		if fee != nil {
			n += fee.EstimateRequiredFee(len(selected), 1)
		}
		return n
	}
	for _, u := range f.coins[value.ColorID()] {
		if total >= need() {
			break
		}
		selected = append(selected, u)
		total += u.ColorValue.Value()
	}
	if total < need() {
		return nil, nil, fmt.Errorf("%w: %d < %d", ErrInsufficientFunds, total, need())
	}
	return selected, NewColorValue(value.ColorDef(), total), nil
}

func (f *fakeOp) ChangeAddr(def ColorDefinition) (string, error) {
	return addrChange, nil
}

func (f *fakeOp) RequiredFee(size int) int64 {
	return RequiredFee(size, constants.DefaultFeePerKb)
}

func (f *fakeOp) DustThreshold() int64 {
	if f.dust == 0 {
		return constants.DefaultDustThreshold
	}
	return f.dust
}

func uncoloredUtxo(outpoint wire.OutPoint, value int64) *Utxo {
	return &Utxo{OutPoint: outpoint, Value: value, ColorValue: NewColorValue(UncoloredMarker, value)}
}
