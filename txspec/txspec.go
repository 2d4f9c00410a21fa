package txspec

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/constants"
	"github.com/inscription-c/ccoin/log"
)

// UtxoSource lists the outputs a wallet can spend.
type UtxoSource interface {
	ListUnspent() ([]*coloring.Utxo, error)
}

// ChangeAddrSource hands out change addresses per color.
type ChangeAddrSource interface {
	ChangeAddr(def coloring.ColorDefinition) (string, error)
}

// ColorReader reports the color values held by an output. Both the thick
// and the thin color data readers implement it.
type ColorReader interface {
	GetColorValues(ctx context.Context, set *coloring.ColorSet,
		txHash *chainhash.Hash, outIndex uint32) ([]*coloring.ColorValue, error)
}

type Options struct {
	feePerKb int64
	dust     int64
	colorSet *coloring.ColorSet
}

type Option func(*Options)

// WithFeePerKb sets the fee rate in satoshi per 1000 bytes.
func WithFeePerKb(feePerKb int64) Option {
	return func(o *Options) {
		o.feePerKb = feePerKb
	}
}

// WithDustThreshold sets the dust threshold uncolored change and EPOBC padding are held to.
func WithDustThreshold(dust int64) Option {
	return func(o *Options) {
		o.dust = dust
	}
}

// WithColorSet sets the colors a coin is checked against before it is
// spent as uncolored. It defaults to the colors of the targets.
func WithColorSet(set *coloring.ColorSet) Option {
	return func(o *Options) {
		o.colorSet = set
	}
}

// BasicTxSpec is the OperationalTxSpec of a wallet: it colors the wallet
// outputs through a color reader and selects them greedily in the order
// the wallet lists them. A coin is selected at most once.
type BasicTxSpec struct {
	ctx     context.Context
	targets []*coloring.ColorTarget
	utxos   UtxoSource
	reader  ColorReader
	change  ChangeAddrSource
	cmap    *coloring.ColorMap
	options *Options

	coins []*coloring.Utxo
	used  map[wire.OutPoint]struct{}
}

var _ coloring.OperationalTxSpec = (*BasicTxSpec)(nil)

func NewBasicTxSpec(ctx context.Context, targets []*coloring.ColorTarget, utxos UtxoSource,
	reader ColorReader, change ChangeAddrSource, cmap *coloring.ColorMap, opts ...Option) *BasicTxSpec {

	options := &Options{
		feePerKb: constants.DefaultFeePerKb,
		dust:     constants.DefaultDustThreshold,
	}
	for _, opt := range opts {
		opt(options)
	}
	return &BasicTxSpec{
		ctx:     ctx,
		targets: targets,
		utxos:   utxos,
		reader:  reader,
		change:  change,
		cmap:    cmap,
		options: options,
		used:    make(map[wire.OutPoint]struct{}),
	}
}

func (s *BasicTxSpec) Targets() []*coloring.ColorTarget {
	return s.targets
}

func (s *BasicTxSpec) ChangeAddr(def coloring.ColorDefinition) (string, error) {
	return s.change.ChangeAddr(def)
}

func (s *BasicTxSpec) RequiredFee(size int) int64 {
	return coloring.RequiredFee(size, s.options.feePerKb)
}

func (s *BasicTxSpec) DustThreshold() int64 {
	return s.options.dust
}

// SelectCoins picks unused coins of value's color until they cover value,
// plus the fee of the grown transaction when fee is set.
func (s *BasicTxSpec) SelectCoins(value *coloring.ColorValue, fee coloring.FeeEstimator) ([]*coloring.Utxo, *coloring.ColorValue, error) {
	if value.Value() == 0 && fee == nil {
		return nil, nil, coloring.ErrZeroSelect
	}
	coins, err := s.coloredCoins()
	if err != nil {
		return nil, nil, err
	}

	var selected []*coloring.Utxo
	total := int64(0)
	need := func() int64 {
		n := value.Value()
		if fee != nil {
			n += fee.EstimateRequiredFee(len(selected), 1)
		}
		return n
	}
	for _, coin := range coins {
		if total >= need() {
			break
		}
		if coin.ColorValue.ColorID() != value.ColorID() {
			continue
		}
		if _, ok := s.used[coin.OutPoint]; ok {
			continue
		}
		selected = append(selected, coin)
		total += coin.ColorValue.Value()
	}
	if total < need() {
		return nil, nil, fmt.Errorf("%w: %s needs %d, wallet has %d",
			coloring.ErrInsufficientFunds, value.ColorDef(), need(), total)
	}
	for _, coin := range selected {
		s.used[coin.OutPoint] = struct{}{}
	}
	log.Kern.Debugf("selected %d coins worth %d of %s", len(selected), total, value.ColorDef())
	return selected, coloring.NewColorValue(value.ColorDef(), total), nil
}

// coloredCoins lists the wallet outputs once and attaches their color.
// Outputs holding none of the checked colors are uncolored.
func (s *BasicTxSpec) coloredCoins() ([]*coloring.Utxo, error) {
	if s.coins != nil {
		return s.coins, nil
	}
	set, err := s.colorSet()
	if err != nil {
		return nil, err
	}
	utxos, err := s.utxos.ListUnspent()
	if err != nil {
		return nil, err
	}
	coins := make([]*coloring.Utxo, 0, len(utxos))
	for _, u := range utxos {
		coin := *u
		coin.ColorValue = coloring.NewColorValue(coloring.UncoloredMarker, u.Value)
		if len(set.ColorIDs()) > 0 {
			values, err := s.reader.GetColorValues(s.ctx, set, &u.OutPoint.Hash, u.OutPoint.Index)
			if err != nil {
				return nil, err
			}
			if len(values) > 1 {
				return nil, fmt.Errorf("%w: %s holds %d colors", coloring.ErrInvalidColor, u.OutPoint, len(values))
			}
			if len(values) == 1 {
				coin.ColorValue = values[0]
			}
		}
		coins = append(coins, &coin)
	}
	s.coins = coins
	return coins, nil
}

func (s *BasicTxSpec) colorSet() (*coloring.ColorSet, error) {
	if s.options.colorSet != nil {
		return s.options.colorSet, nil
	}
	var ids []int64
	for _, t := range s.targets {
		if t == nil || t.ColorDef().IsSentinel() {
			continue
		}
		ids = append(ids, t.ColorID())
	}
	return coloring.NewColorSetFromIDs(s.cmap, ids)
}

// ComposeTransfer composes a transfer of the colored targets of op with
// the kernel of their color. Uncolored targets ride along.
func ComposeTransfer(cmap *coloring.ColorMap, op coloring.OperationalTxSpec) (*coloring.ComposedTxSpec, error) {
	for _, t := range op.Targets() {
		if t == nil || t.ColorDef().IsSentinel() {
			continue
		}
		kernel, err := cmap.GetKernel(t.ColorID())
		if err != nil {
			return nil, err
		}
		return kernel.ComposeTxSpec(op)
	}
	return nil, fmt.Errorf("%w: no colored target", coloring.ErrInvalidTarget)
}

// ComposeIssue composes the genesis transaction of a new color of scheme.
func ComposeIssue(registry *coloring.Registry, scheme string, op coloring.OperationalTxSpec) (*coloring.ComposedTxSpec, error) {
	if registry == nil {
		registry = coloring.DefaultRegistry
	}
	if !registry.HasScheme(scheme) {
		return nil, fmt.Errorf("%w: unknown scheme %q", coloring.ErrInvalidColor, scheme)
	}
	return registry.ComposeGenesisTxSpec(scheme, op)
}

// IsFundsError reports whether err means the wallet cannot pay for the
// transaction.
func IsFundsError(err error) bool {
	return errors.Is(err, coloring.ErrInsufficientFunds) || errors.Is(err, coloring.ErrZeroSelect)
}
