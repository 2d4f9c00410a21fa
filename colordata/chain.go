package colordata

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// BlockchainState is the view of the chain the builders and readers scan.
// Failed transaction lookups must wrap coloring.ErrTxNotFound.
type BlockchainState interface {
	ChainParams() *chaincfg.Params
	GetTx(hash *chainhash.Hash) (*wire.MsgTx, error)
	GetBlock(hash *chainhash.Hash) (*wire.MsgBlock, error)
	GetBlockHash(height int32) (*chainhash.Hash, error)
	GetBlockHeight(hash *chainhash.Hash) (int32, error)
	// GetPreviousBlockInfo returns the parent of hash and the height of hash.
	GetPreviousBlockInfo(hash *chainhash.Hash) (*chainhash.Hash, int32, error)
	// GetTxBlockhash returns the block containing the transaction, or nil
	// with inMempool set for unconfirmed ones. Unknown transactions return
	// nil and false.
	GetTxBlockhash(hash *chainhash.Hash) (blockHash *chainhash.Hash, inMempool bool, err error)
	GetBestBlockhash() (*chainhash.Hash, error)
	// GetMempoolTxs returns the mempool in dependency order.
	GetMempoolTxs() ([]*wire.MsgTx, error)
	IterBlockTxs(hash *chainhash.Hash) ([]*wire.MsgTx, error)
}

// Spend is a transaction spending an output of another one.
type Spend struct {
	TxHash   chainhash.Hash
	OutIndex uint32
	// BlockHash is nil while the spending transaction is unconfirmed.
	BlockHash *chainhash.Hash
}

// Explorer reports who spends the outputs of a transaction.
type Explorer interface {
	GetSpends(txHash *chainhash.Hash) ([]*Spend, error)
}
