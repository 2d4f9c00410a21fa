package colordata

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/inscription-c/ccoin/coloring"
)

// StoreRow is the color value of one output.
type StoreRow struct {
	ColorID  int64
	TxHash   chainhash.Hash
	OutIndex uint32
	Value    int64
	Label    string
}

func (r *StoreRow) String() string {
	return fmt.Sprintf("%d@%s:%d=%d", r.ColorID, r.TxHash, r.OutIndex, r.Value)
}

// Store caches computed color values and scanned-block markers. Rows are
// keyed by (color id, txhash, outindex); adding a row again replaces it.
type Store interface {
	coloring.ColorDescStore

	Add(row *StoreRow) error
	// Get returns nil when the output has no value of colorID.
	Get(colorID int64, txHash *chainhash.Hash, outIndex uint32) (*StoreRow, error)
	// GetAny returns the values of every color held by the output.
	GetAny(txHash *chainhash.Hash, outIndex uint32) ([]*StoreRow, error)
	GetAll(colorID int64) ([]*StoreRow, error)
	Remove(colorID int64, txHash *chainhash.Hash, outIndex uint32) error

	DidScan(colorID int64, blockHash *chainhash.Hash) (bool, error)
	SetAsScanned(colorID int64, blockHash *chainhash.Hash) error

	// Transaction runs fn against a store whose writes become visible
	// together, or not at all when fn fails.
	Transaction(fn func(st Store) error) error
	// Sync flushes everything written so far.
	Sync() error
}

// colorValues reads the values of every color of set held by an output.
func colorValues(st Store, cmap *coloring.ColorMap, set *coloring.ColorSet,
	txHash *chainhash.Hash, outIndex uint32) ([]*coloring.ColorValue, error) {

	var values []*coloring.ColorValue
	for _, id := range set.ColorIDs() {
		if id == coloring.UncoloredColorID {
			continue
		}
		row, err := st.Get(id, txHash, outIndex)
		if err != nil {
			return nil, err
		}
		if row == nil {
			continue
		}
		def, err := cmap.GetColorDef(id)
		if err != nil {
			return nil, err
		}
		values = append(values, coloring.NewLabeledColorValue(def, row.Value, row.Label))
	}
	return values, nil
}
