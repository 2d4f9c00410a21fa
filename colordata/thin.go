package colordata

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/internal/util"
	"github.com/inscription-c/ccoin/log"
)

// ThinColorData answers color queries by resolving only the outputs the
// queried output depends on, walking backwards through affecting inputs.
type ThinColorData struct {
	manager *ColorDataBuilderManager
}

func NewThinColorData(manager *ColorDataBuilderManager) *ThinColorData {
	return &ThinColorData{manager: manager}
}

// thinFrame is one output on the worklist. An expanded frame has pushed
// its dependencies and is scanned when popped again.
type thinFrame struct {
	outpoint wire.OutPoint
	tx       *coloring.Tx
	expanded bool
}

// GetColorValues returns the values of the colors of set held by the
// output. Every output is derived at most once per call.
func (c *ThinColorData) GetColorValues(ctx context.Context, set *coloring.ColorSet,
	txHash *chainhash.Hash, outIndex uint32) ([]*coloring.ColorValue, error) {

	st := c.manager.Store()
	cmap := c.manager.ColorMap()
	kernels, err := c.kernels(set)
	if err != nil {
		return nil, err
	}

	visited := make(map[wire.OutPoint]struct{})
	stack := []*thinFrame{{outpoint: wire.OutPoint{Hash: *txHash, Index: outIndex}}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if frame.expanded {
			if err := c.manager.ScanTx(set, frame.tx, []int{int(frame.outpoint.Index)}); err != nil {
				return nil, err
			}
			continue
		}

		if _, ok := visited[frame.outpoint]; ok {
			continue
		}
		visited[frame.outpoint] = struct{}{}

		cached, err := colorValues(st, cmap, set, &frame.outpoint.Hash, frame.outpoint.Index)
		if err != nil {
			return nil, err
		}
		if len(cached) > 0 {
			continue
		}

		raw, err := c.manager.Chain().GetTx(&frame.outpoint.Hash)
		if err != nil {
			return nil, err
		}
		tx := c.manager.NewTx(raw)
		affecting := make(map[int]struct{})
		for _, k := range kernels {
			inputs, err := k.GetAffectingInputs(tx, []int{int(frame.outpoint.Index)})
			if err != nil {
				return nil, err
			}
			for _, i := range inputs {
				affecting[i] = struct{}{}
			}
		}

		frame.tx = tx
		frame.expanded = true
		stack = append(stack, frame)
		// pushed in reverse so the first input resolves first
		for i := len(tx.Inputs) - 1; i >= 0; i-- {
			if _, ok := affecting[i]; !ok {
				continue
			}
			prev := tx.Inputs[i].PrevOut
			if util.IsNullOutpoint(prev) {
				continue
			}
			if _, ok := visited[prev]; ok {
				continue
			}
			stack = append(stack, &thinFrame{outpoint: prev})
		}
		log.Scan.Tracef("thin: %s needs %d inputs", frame.outpoint, len(affecting))
	}
	return colorValues(st, cmap, set, txHash, outIndex)
}

func (c *ThinColorData) kernels(set *coloring.ColorSet) ([]coloring.Kernel, error) {
	var kernels []coloring.Kernel
	for _, id := range set.ColorIDs() {
		if id == coloring.UncoloredColorID {
			continue
		}
		k, err := c.manager.ColorMap().GetKernel(id)
		if err != nil {
			return nil, err
		}
		kernels = append(kernels, k)
	}
	return kernels, nil
}

// GetColorValue returns the value of def held by the output, or nil.
func (c *ThinColorData) GetColorValue(ctx context.Context, def coloring.ColorDefinition,
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
