package colordata

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/log"
)

const StrategyAided = "aided"

// AidedColorDataBuilder only scans the transactions reachable from the
// genesis of its color through spends reported by an explorer.
type AidedColorDataBuilder struct {
	*FullScanColorDataBuilder
	explorer Explorer
}

func NewAidedColorDataBuilder(kernel coloring.Kernel, store Store, chain BlockchainState,
	explorer Explorer, flushBlocks int) *AidedColorDataBuilder {

	full := NewFullScanColorDataBuilder(kernel, store, chain, flushBlocks)
	full.strategy = StrategyAided
	return &AidedColorDataBuilder{
		FullScanColorDataBuilder: full,
		explorer:                 explorer,
	}
}

func (b *AidedColorDataBuilder) EnsureScannedUpto(ctx context.Context, blockHash *chainhash.Hash) error {
	scanned, err := b.store.DidScan(b.ColorID(), blockHash)
	if err != nil || scanned {
		return err
	}
	// discovery has to start from the genesis, so scanned blocks are
	// walked too and only their scan is skipped
	blocks, err := b.blockList(blockHash, false)
	if err != nil {
		return err
	}

	genesis := b.kernel.ColorDef().Genesis()
	genesisBlock, _, err := b.chain.GetTxBlockhash(&genesis.TxHash)
	if err != nil {
		return err
	}
	if genesisBlock == nil {
		return fmt.Errorf("%w: genesis %s is not confirmed", coloring.ErrTxNotFound, genesis.TxHash)
	}
	pending := map[chainhash.Hash][]chainhash.Hash{
		*genesisBlock: {genesis.TxHash},
	}
	return b.scanBlocks(ctx, blocks, func(st Store, hash *chainhash.Hash) error {
		return b.scanAidedBlock(st, hash, pending)
	})
}

// scanAidedBlock follows spends inside the block starting from the
// transactions pending for it, queues spends confirmed in later blocks,
// then scans what it found in dependency order.
func (b *AidedColorDataBuilder) scanAidedBlock(st Store, blockHash *chainhash.Hash,
	pending map[chainhash.Hash][]chainhash.Hash) error {

	queue := pending[*blockHash]
	delete(pending, *blockHash)

	seen := make(map[chainhash.Hash]struct{})
	var found []chainhash.Hash
	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}
		found = append(found, hash)

		spends, err := b.explorer.GetSpends(&hash)
		if err != nil {
			return err
		}
		for _, spend := range spends {
			switch {
			case spend.BlockHash == nil:
			case *spend.BlockHash == *blockHash:
				queue = append(queue, spend.TxHash)
			default:
				pending[*spend.BlockHash] = append(pending[*spend.BlockHash], spend.TxHash)
			}
		}
	}

	scanned, err := st.DidScan(b.ColorID(), blockHash)
	if err != nil || scanned {
		return err
	}
	txs := make([]*coloring.Tx, 0, len(found))
	for i := range found {
		raw, err := b.chain.GetTx(&found[i])
		if err != nil {
			return err
		}
		txs = append(txs, coloring.NewTx(raw, b.chain, b.chain.ChainParams()))
	}
	for _, tx := range coloring.SortByDependency(txs) {
		if err := b.ScanTx(st, tx, nil); err != nil {
			return err
		}
	}
	if len(found) > 0 {
		log.Scan.Debugf("color %d: %d transactions in block %s", b.ColorID(), len(found), blockHash)
	}
	return st.SetAsScanned(b.ColorID(), blockHash)
}
