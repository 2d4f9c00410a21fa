package colordata

import (
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/constants"
)

// fakeChain is an in-memory BlockchainState. Block i sits at height i.
type fakeChain struct {
	mu       sync.Mutex
	blocks   []*wire.MsgBlock
	txs      map[chainhash.Hash]*wire.MsgTx
	txBlock  map[chainhash.Hash]chainhash.Hash
	mempool  []*wire.MsgTx
	bestSeq  []chainhash.Hash
	bestHits int
	nonce    uint32
}

func newFakeChain() *fakeChain {
	c := &fakeChain{
		txs:     make(map[chainhash.Hash]*wire.MsgTx),
		txBlock: make(map[chainhash.Hash]chainhash.Hash),
	}
	c.addBlock()
	return c
}

func (c *fakeChain) tip() *chainhash.Hash {
	hash := c.blocks[len(c.blocks)-1].BlockHash()
	return &hash
}

func (c *fakeChain) blockHash(height int) *chainhash.Hash {
	hash := c.blocks[height].BlockHash()
	return &hash
}

// fund registers a transaction outside any block paying value.
func (c *fakeChain) fund(value int64) wire.OutPoint {
	c.nonce++
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: chainhash.Hash{0xee, byte(c.nonce)}}, nil, nil))
	tx.AddTxOut(wire.NewTxOut(value, nil))
	c.txs[tx.TxHash()] = tx
	return wire.OutPoint{Hash: tx.TxHash(), Index: 0}
}

// addBlock appends a block holding a coinbase followed by txs.
func (c *fakeChain) addBlock(txs ...*wire.MsgTx) *chainhash.Hash {
	height := len(c.blocks)
	coinbase := wire.NewMsgTx(wire.TxVersion)
	coinbase.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: wire.MaxPrevOutIndex},
		SignatureScript:  []byte{byte(height), byte(height >> 8), 0x51},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	coinbase.AddTxOut(wire.NewTxOut(50*constants.OneBtc, nil))

	header := wire.BlockHeader{Nonce: uint32(height)}
	if height > 0 {
		header.PrevBlock = *c.tip()
	}
	block := wire.NewMsgBlock(&header)
	_ = block.AddTransaction(coinbase)
	for _, tx := range txs {
		_ = block.AddTransaction(tx)
	}
	c.blocks = append(c.blocks, block)
	hash := block.BlockHash()
	for _, tx := range block.Transactions {
		c.txs[tx.TxHash()] = tx
		c.txBlock[tx.TxHash()] = hash
	}
	return &hash
}

func (c *fakeChain) addMempool(tx *wire.MsgTx) {
	c.mempool = append(c.mempool, tx)
	c.txs[tx.TxHash()] = tx
}

func (c *fakeChain) height(hash *chainhash.Hash) (int, bool) {
	for i, b := range c.blocks {
		if b.BlockHash() == *hash {
			return i, true
		}
	}
	return 0, false
}

func (c *fakeChain) ChainParams() *chaincfg.Params {
	return &chaincfg.RegressionNetParams
}

func (c *fakeChain) GetTx(hash *chainhash.Hash) (*wire.MsgTx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tx, ok := c.txs[*hash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", coloring.ErrTxNotFound, hash)
	}
	return tx, nil
}

func (c *fakeChain) GetBlock(hash *chainhash.Hash) (*wire.MsgBlock, error) {
	h, ok := c.height(hash)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, hash)
	}
	return c.blocks[h], nil
}

func (c *fakeChain) GetBlockHash(height int32) (*chainhash.Hash, error) {
	if int(height) >= len(c.blocks) || height < 0 {
		return nil, fmt.Errorf("%w: height %d", ErrBlockNotFound, height)
	}
	return c.blockHash(int(height)), nil
}

func (c *fakeChain) GetBlockHeight(hash *chainhash.Hash) (int32, error) {
	h, ok := c.height(hash)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrBlockNotFound, hash)
	}
	return int32(h), nil
}

func (c *fakeChain) GetPreviousBlockInfo(hash *chainhash.Hash) (*chainhash.Hash, int32, error) {
	h, ok := c.height(hash)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrBlockNotFound, hash)
	}
	if h == 0 {
		return nil, 0, nil
	}
	return c.blockHash(h - 1), int32(h), nil
}

func (c *fakeChain) GetTxBlockhash(hash *chainhash.Hash) (*chainhash.Hash, bool, error) {
	if block, ok := c.txBlock[*hash]; ok {
		return &block, false, nil
	}
	for _, tx := range c.mempool {
		if tx.TxHash() == *hash {
			return nil, true, nil
		}
	}
	return nil, false, nil
}

// GetBestBlockhash serves bestSeq first to simulate blocks arriving.
func (c *fakeChain) GetBestBlockhash() (*chainhash.Hash, error) {
	c.bestHits++
	if len(c.bestSeq) > 0 {
		hash := c.bestSeq[0]
		c.bestSeq = c.bestSeq[1:]
		return &hash, nil
	}
	return c.tip(), nil
}

func (c *fakeChain) GetMempoolTxs() ([]*wire.MsgTx, error) {
	return c.mempool, nil
}

func (c *fakeChain) IterBlockTxs(hash *chainhash.Hash) ([]*wire.MsgTx, error) {
	block, err := c.GetBlock(hash)
	if err != nil {
		return nil, err
	}
	return block.Transactions, nil
}

// fakeExplorer derives spends from the blocks of a fakeChain.
type fakeExplorer struct {
	chain   *fakeChain
	queried []chainhash.Hash
}

func (e *fakeExplorer) GetSpends(txHash *chainhash.Hash) ([]*Spend, error) {
	e.queried = append(e.queried, *txHash)
	var spends []*Spend
	for _, block := range e.chain.blocks {
		blockHash := block.BlockHash()
		for _, tx := range block.Transactions {
			for _, in := range tx.TxIn {
				if in.PreviousOutPoint.Hash == *txHash {
					spends = append(spends, &Spend{
						TxHash:    tx.TxHash(),
						OutIndex:  in.PreviousOutPoint.Index,
						BlockHash: &blockHash,
					})
				}
			}
		}
	}
	return spends, nil
}

func newMsgTx(prevs []wire.OutPoint, outs ...int64) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	for i := range prevs {
		tx.AddTxIn(wire.NewTxIn(&prevs[i], nil, nil))
	}
	for _, v := range outs {
		tx.AddTxOut(wire.NewTxOut(v, nil))
	}
	return tx
}

func outpoint(tx *wire.MsgTx, index uint32) wire.OutPoint {
	return wire.OutPoint{Hash: tx.TxHash(), Index: index}
}

// coloredChain builds an OBC color issued in block 1:
//
//	block 1: g issues 1000 on output 0
//	block 2: a splits g:0 into 600 and 400, u is unrelated
//	block 3: c spends b:0 and is listed before b, b joins a:0 and a:1
type coloredChain struct {
	chain         *fakeChain
	g, a, u, b, c *wire.MsgTx
	desc          string
}

func newColoredChain() *coloredChain {
	cc := &coloredChain{chain: newFakeChain()}
	cc.g = newMsgTx([]wire.OutPoint{cc.chain.fund(10000)}, 1000, 8000)
	cc.chain.addBlock(cc.g)
	cc.a = newMsgTx([]wire.OutPoint{outpoint(cc.g, 0)}, 600, 400)
	cc.u = newMsgTx([]wire.OutPoint{cc.chain.fund(5000)}, 4000)
	cc.chain.addBlock(cc.a, cc.u)
	cc.b = newMsgTx([]wire.OutPoint{outpoint(cc.a, 0), outpoint(cc.a, 1)}, 1000)
	cc.c = newMsgTx([]wire.OutPoint{outpoint(cc.b, 0)}, 1000)
	cc.chain.addBlock(cc.c, cc.b)
	cc.desc = fmt.Sprintf("%s:%s:0:1", constants.SchemeOBC, cc.g.TxHash())
	return cc
}
