package colordata

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/constants"
)

// BuilderFactory creates the builder of one color.
type BuilderFactory func(kernel coloring.Kernel) (ColorDataBuilder, error)

type ManagerOptions struct {
	store       Store
	chain       BlockchainState
	explorer    Explorer
	cmap        *coloring.ColorMap
	strategy    string
	flushBlocks int
	factory     BuilderFactory
}

type ManagerOption func(*ManagerOptions)

// WithStore sets where color values and scan markers are kept.
func WithStore(store Store) ManagerOption {
	return func(options *ManagerOptions) {
		options.store = store
	}
}

// WithBlockchainState sets the chain the builders read from.
func WithBlockchainState(chain BlockchainState) ManagerOption {
	return func(options *ManagerOptions) {
		options.chain = chain
	}
}

// WithExplorer sets the spends source of the aided strategy.
func WithExplorer(explorer Explorer) ManagerOption {
	return func(options *ManagerOptions) {
		options.explorer = explorer
	}
}

// WithColorMap sets the color map; by default one is built over the store.
func WithColorMap(cmap *coloring.ColorMap) ManagerOption {
	return func(options *ManagerOptions) {
		options.cmap = cmap
	}
}

// WithStrategy selects StrategyFull (default) or StrategyAided.
func WithStrategy(strategy string) ManagerOption {
	return func(options *ManagerOptions) {
		options.strategy = strategy
	}
}

// WithFlushBlocks sets how many blocks a full scan processes between flushes.
func WithFlushBlocks(n int) ManagerOption {
	return func(options *ManagerOptions) {
		options.flushBlocks = n
	}
}

// WithBuilderFactory overrides how builders are created.
func WithBuilderFactory(factory BuilderFactory) ManagerOption {
	return func(options *ManagerOptions) {
		options.factory = factory
	}
}

// ColorDataBuilderManager owns one lazily created builder per color.
type ColorDataBuilderManager struct {
	store   Store
	chain   BlockchainState
	cmap    *coloring.ColorMap
	factory BuilderFactory

	mu       sync.Mutex
	builders map[int64]ColorDataBuilder
}

func NewColorDataBuilderManager(opts ...ManagerOption) (*ColorDataBuilderManager, error) {
	options := &ManagerOptions{
		strategy:    StrategyFull,
		flushBlocks: constants.DefaultFlushBlocks,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.store == nil || options.chain == nil {
		return nil, errors.New("color data manager needs a store and a blockchain state")
	}
	if options.cmap == nil {
		options.cmap = coloring.NewColorMap(options.store, nil)
	}
	if options.factory == nil {
		switch options.strategy {
		case StrategyFull:
			options.factory = func(kernel coloring.Kernel) (ColorDataBuilder, error) {
				return NewFullScanColorDataBuilder(kernel, options.store, options.chain, options.flushBlocks), nil
			}
		case StrategyAided:
			if options.explorer == nil {
				return nil, ErrNoExplorer
			}
			options.factory = func(kernel coloring.Kernel) (ColorDataBuilder, error) {
				return NewAidedColorDataBuilder(kernel, options.store, options.chain,
					options.explorer, options.flushBlocks), nil
			}
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, options.strategy)
		}
	}
	return &ColorDataBuilderManager{
		store:    options.store,
		chain:    options.chain,
		cmap:     options.cmap,
		factory:  options.factory,
		builders: make(map[int64]ColorDataBuilder),
	}, nil
}

func (m *ColorDataBuilderManager) Store() Store {
	return m.store
}

func (m *ColorDataBuilderManager) Chain() BlockchainState {
	return m.chain
}

func (m *ColorDataBuilderManager) ColorMap() *coloring.ColorMap {
	return m.cmap
}

// NewTx wraps raw so that its inputs resolve through the chain.
func (m *ColorDataBuilderManager) NewTx(raw *wire.MsgTx) *coloring.Tx {
	return coloring.NewTx(raw, m.chain, m.chain.ChainParams())
}

// GetBuilder returns the builder of colorID, creating it on first use.
func (m *ColorDataBuilderManager) GetBuilder(colorID int64) (ColorDataBuilder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.builders[colorID]; ok {
		return b, nil
	}
	kernel, err := m.cmap.GetKernel(colorID)
	if err != nil {
		return nil, err
	}
	b, err := m.factory(kernel)
	if err != nil {
		return nil, err
	}
	m.builders[colorID] = b
	return b, nil
}

// EnsureScannedUpto scans every color of set up to blockHash.
func (m *ColorDataBuilderManager) EnsureScannedUpto(ctx context.Context, set *coloring.ColorSet, blockHash *chainhash.Hash) error {
	for _, id := range set.ColorIDs() {
		if id == coloring.UncoloredColorID {
			continue
		}
		b, err := m.GetBuilder(id)
		if err != nil {
			return err
		}
		if err := b.EnsureScannedUpto(ctx, blockHash); err != nil {
			return err
		}
	}
	return nil
}

// ScanTx scans tx for every color of set in a single store transaction.
func (m *ColorDataBuilderManager) ScanTx(set *coloring.ColorSet, tx *coloring.Tx, outputs []int) error {
	builders := make([]ColorDataBuilder, 0, len(set.ColorIDs()))
	for _, id := range set.ColorIDs() {
		if id == coloring.UncoloredColorID {
			continue
		}
		b, err := m.GetBuilder(id)
		if err != nil {
			return err
		}
		builders = append(builders, b)
	}
	return m.store.Transaction(func(st Store) error {
		for _, b := range builders {
			if err := b.ScanTx(st, tx, outputs); err != nil {
				return err
			}
		}
		return nil
	})
}
