package colordata

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/log"
)

// ThickColorData answers color queries by scanning the chain up to the
// transaction, and the whole mempool for unconfirmed ones.
type ThickColorData struct {
	manager *ColorDataBuilderManager
}

func NewThickColorData(manager *ColorDataBuilderManager) *ThickColorData {
	return &ThickColorData{manager: manager}
}

// GetColorValues returns the values of the colors of set held by the
// output. Uncolored outputs give an empty list.
func (c *ThickColorData) GetColorValues(ctx context.Context, set *coloring.ColorSet,
	txHash *chainhash.Hash, outIndex uint32) ([]*coloring.ColorValue, error) {

	chain := c.manager.Chain()
	blockHash, inMempool, err := chain.GetTxBlockhash(txHash)
	if err != nil {
		return nil, err
	}
	switch {
	case blockHash != nil:
		if err := c.manager.EnsureScannedUpto(ctx, set, blockHash); err != nil {
			return nil, err
		}
	case inMempool:
		if err := c.scanMempool(ctx, set); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", coloring.ErrTxNotFound, txHash)
	}
	return colorValues(c.manager.Store(), c.manager.ColorMap(), set, txHash, outIndex)
}

// scanMempool brings the colors up to the best block and then scans a
// mempool snapshot taken while that block stayed the tip.
func (c *ThickColorData) scanMempool(ctx context.Context, set *coloring.ColorSet) error {
	chain := c.manager.Chain()
	var mempool []*wire.MsgTx
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		best, err := chain.GetBestBlockhash()
		if err != nil {
			return err
		}
		if err := c.manager.EnsureScannedUpto(ctx, set, best); err != nil {
			return err
		}
		if mempool, err = chain.GetMempoolTxs(); err != nil {
			return err
		}
		final, err := chain.GetBestBlockhash()
		if err != nil {
			return err
		}
		if *best == *final {
			break
		}
		log.Scan.Debugf("best block moved from %s to %s while reading the mempool", best, final)
	}

	txs := make([]*coloring.Tx, 0, len(mempool))
	for _, raw := range mempool {
		txs = append(txs, c.manager.NewTx(raw))
	}
	for _, tx := range coloring.SortByDependency(txs) {
		if err := c.manager.ScanTx(set, tx, nil); err != nil {
			return err
		}
	}
	return nil
}

// GetColorValue returns the value of def held by the output, or nil.
func (c *ThickColorData) GetColorValue(ctx context.Context, def coloring.ColorDefinition,
	txHash *chainhash.Hash, outIndex uint32) (*coloring.ColorValue, error) {

	set, err := coloring.NewColorSetFromIDs(c.manager.ColorMap(), []int64{def.ColorID()})
	if err != nil {
		return nil, err
	}
	values, err := c.GetColorValues(ctx, set, txHash, outIndex)
	if err != nil || len(values) == 0 {
		return nil, err
	}
	return values[0], nil
}
