package colordata

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/constants"
	"github.com/inscription-c/ccoin/log"
)

const StrategyFull = "full"

// FullScanColorDataBuilder scans every transaction of every block between
// the genesis of its color and the requested block.
type FullScanColorDataBuilder struct {
	*BasicColorDataBuilder
	store       Store
	chain       BlockchainState
	flushBlocks int
	strategy    string
}

func NewFullScanColorDataBuilder(kernel coloring.Kernel, store Store, chain BlockchainState, flushBlocks int) *FullScanColorDataBuilder {
	if flushBlocks <= 0 {
		flushBlocks = constants.DefaultFlushBlocks
	}
	return &FullScanColorDataBuilder{
		BasicColorDataBuilder: NewBasicColorDataBuilder(kernel),
		store:                 store,
		chain:                 chain,
		flushBlocks:           flushBlocks,
		strategy:              StrategyFull,
	}
}

func (b *FullScanColorDataBuilder) EnsureScannedUpto(ctx context.Context, blockHash *chainhash.Hash) error {
	scanned, err := b.store.DidScan(b.ColorID(), blockHash)
	if err != nil || scanned {
		return err
	}
	blocks, err := b.blockList(blockHash, true)
	if err != nil {
		return err
	}
	return b.scanBlocks(ctx, blocks, b.scanBlock)
}

// blockList walks back from blockHash to the genesis block of the color
// and returns the blocks in chain order. With stopAtScanned the walk also
// ends at the first block already scanned.
func (b *FullScanColorDataBuilder) blockList(blockHash *chainhash.Hash, stopAtScanned bool) ([]chainhash.Hash, error) {
	genesisHeight := b.kernel.ColorDef().Genesis().Height
	var reversed []chainhash.Hash
	hash := blockHash
	for {
		if stopAtScanned {
			scanned, err := b.store.DidScan(b.ColorID(), hash)
			if err != nil {
				return nil, err
			}
			if scanned {
				break
			}
		}
		prev, height, err := b.chain.GetPreviousBlockInfo(hash)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBlockNotFound, hash, err)
		}
		if height < genesisHeight {
			break
		}
		reversed = append(reversed, *hash)
		if height == genesisHeight || prev == nil {
			break
		}
		hash = prev
	}

	blocks := make([]chainhash.Hash, len(reversed))
	for i, h := range reversed {
		blocks[len(reversed)-1-i] = h
	}
	return blocks, nil
}

// scanBlocks feeds blocks to scan in chunks of flushBlocks, each chunk in
// one store transaction followed by a flush. Cancellation is honoured
// between blocks; the blocks finished so far are kept.
func (b *FullScanColorDataBuilder) scanBlocks(ctx context.Context, blocks []chainhash.Hash,
	scan func(st Store, blockHash *chainhash.Hash) error) error {

	done := 0
	for start := 0; start < len(blocks); start += b.flushBlocks {
		end := start + b.flushBlocks
		if end > len(blocks) {
			end = len(blocks)
		}
		var cancelled error
		err := b.store.Transaction(func(st Store) error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					cancelled = err
					return nil
				}
				if err := scan(st, &blocks[i]); err != nil {
					return err
				}
				blocksScanned.WithLabelValues(b.strategy).Inc()
				done++
			}
			return nil
		})
		if err != nil {
			return err
		}
		if err := b.store.Sync(); err != nil {
			return err
		}
		if cancelled != nil {
			log.Scan.Infof("color %d: scan interrupted after %d of %d blocks", b.ColorID(), done, len(blocks))
			return cancelled
		}
		log.Scan.Debugf("color %d: scanned %d/%d blocks, at %s", b.ColorID(), end, len(blocks), blocks[end-1])
	}
	return nil
}

// scanBlock runs every transaction of the block through the kernel in
// dependency order, then marks the block.
func (b *FullScanColorDataBuilder) scanBlock(st Store, blockHash *chainhash.Hash) error {
	scanned, err := st.DidScan(b.ColorID(), blockHash)
	if err != nil || scanned {
		return err
	}
	raws, err := b.chain.IterBlockTxs(blockHash)
	if err != nil {
		return err
	}
	txs := make([]*coloring.Tx, 0, len(raws))
	for _, raw := range raws {
		txs = append(txs, coloring.NewTx(raw, b.chain, b.chain.ChainParams()))
	}
	for _, tx := range coloring.SortByDependency(txs) {
		if err := b.ScanTx(st, tx, nil); err != nil {
			return err
		}
	}
	return st.SetAsScanned(b.ColorID(), blockHash)
}
