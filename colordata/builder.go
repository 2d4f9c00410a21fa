package colordata

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/internal/util"
	"github.com/inscription-c/ccoin/log"
)

// ColorDataBuilder computes and stores the color values of one color.
type ColorDataBuilder interface {
	ColorID() int64
	// ScanTx runs the kernel over tx and writes the requested outputs to
	// st. A nil outputs slice means every output.
	ScanTx(st Store, tx *coloring.Tx, outputs []int) error
	// EnsureScannedUpto makes sure every block up to blockHash was scanned.
	EnsureScannedUpto(ctx context.Context, blockHash *chainhash.Hash) error
}

// BasicColorDataBuilder runs the kernel of one color over single
// transactions.
type BasicColorDataBuilder struct {
	kernel coloring.Kernel
}

func NewBasicColorDataBuilder(kernel coloring.Kernel) *BasicColorDataBuilder {
	return &BasicColorDataBuilder{kernel: kernel}
}

func (b *BasicColorDataBuilder) ColorID() int64 {
	return b.kernel.ColorDef().ColorID()
}

func (b *BasicColorDataBuilder) Kernel() coloring.Kernel {
	return b.kernel
}

func (b *BasicColorDataBuilder) ScanTx(st Store, tx *coloring.Tx, outputs []int) error {
	def := b.kernel.ColorDef()
	colorID := def.ColorID()
	txsScanned.Inc()

	inputs := make([]*coloring.ColorValue, len(tx.Inputs))
	anyColored := false
	for i, in := range tx.Inputs {
		if util.IsNullOutpoint(in.PrevOut) {
			continue
		}
		row, err := st.Get(colorID, &in.PrevOut.Hash, in.PrevOut.Index)
		if err != nil {
			return err
		}
		if row != nil {
			inputs[i] = coloring.NewLabeledColorValue(def, row.Value, row.Label)
			anyColored = true
		}
	}
	if !anyColored && !b.kernel.IsSpecialTx(tx) {
		return nil
	}

	values, err := b.kernel.RunKernel(tx, inputs)
	if err != nil {
		return fmt.Errorf("color %d over %s: %w", colorID, tx.Hash, err)
	}
	kernelRuns.WithLabelValues(def.Scheme()).Inc()

	if outputs == nil {
		outputs = make([]int, len(values))
		for i := range values {
			outputs[i] = i
		}
	}
	for _, o := range outputs {
		if o < 0 || o >= len(values) {
			return fmt.Errorf("%w: output %d of %s", coloring.ErrInvalidValue, o, tx.Hash)
		}
		v := values[o]
		if v == nil {
			continue
		}
		row := &StoreRow{
			ColorID:  colorID,
			TxHash:   tx.Hash,
			OutIndex: uint32(o),
			Value:    v.Value(),
			Label:    v.Label(),
		}
		if err := st.Add(row); err != nil {
			return err
		}
		log.Scan.Tracef("colored %s", row)
	}
	return nil
}
