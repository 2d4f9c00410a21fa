package coloring

import (
	"fmt"

	"github.com/inscription-c/ccoin/constants"
)

// Kernel computes how one color flows through transactions and composes
// transactions that move it.
type Kernel interface {
	ColorDef() ColorDefinition
	// IsSpecialTx reports whether tx is the genesis transaction of the color.
	IsSpecialTx(tx *Tx) bool
	// RunKernel returns one value per output of tx; nil means uncolored.
	// inputs holds the color value of every input, nil for uncolored.
	RunKernel(tx *Tx, inputs []*ColorValue) ([]*ColorValue, error)
	// GetAffectingInputs returns the sorted indices of the inputs whose
	// color the given outputs depend on.
	GetAffectingInputs(tx *Tx, outputs []int) ([]int, error)
	ComposeTxSpec(op OperationalTxSpec) (*ComposedTxSpec, error)
	ComposeGenesisTxSpec(op OperationalTxSpec) (*ComposedTxSpec, error)
}

// KernelFactory builds the kernel of a scheme for one color.
type KernelFactory func(def ColorDefinition) Kernel

type RegistryOptions struct {
	factories map[string]KernelFactory
}

type RegistryOption func(*RegistryOptions)

// WithScheme registers an additional scheme code, or replaces a built-in one.
func WithScheme(scheme string, factory KernelFactory) RegistryOption {
	return func(options *RegistryOptions) {
		options.factories[scheme] = factory
	}
}

// Registry maps scheme codes to kernel factories. It is built once and
// never mutated afterwards.
type Registry struct {
	factories map[string]KernelFactory
}

// NewRegistry returns a registry holding obc and epobc plus the schemes
// given as options.
func NewRegistry(opts ...RegistryOption) *Registry {
	options := &RegistryOptions{
		factories: map[string]KernelFactory{
			constants.SchemeOBC:   NewOBCKernel,
			constants.SchemeEPOBC: NewEPOBCKernel,
		},
	}
	for _, opt := range opts {
		opt(options)
	}
	return &Registry{factories: options.factories}
}

// DefaultRegistry knows the built-in schemes only.
var DefaultRegistry = NewRegistry()

func (r *Registry) factory(scheme string) (KernelFactory, error) {
	f, ok := r.factories[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: unknown scheme %q", ErrInvalidColor, scheme)
	}
	return f, nil
}

// HasScheme reports whether scheme is registered.
func (r *Registry) HasScheme(scheme string) bool {
	_, ok := r.factories[scheme]
	return ok
}

// NewKernel builds the kernel of def.
func (r *Registry) NewKernel(def ColorDefinition) (Kernel, error) {
	f, err := r.factory(def.Scheme())
	if err != nil {
		return nil, err
	}
	return f(def), nil
}

// KernelFromDesc parses desc and builds the kernel of color colorID.
func (r *Registry) KernelFromDesc(colorID int64, desc string) (Kernel, error) {
	scheme, genesis, err := ParseColorDesc(desc)
	if err != nil {
		return nil, err
	}
	return r.NewKernel(NewColorDefinition(colorID, scheme, genesis))
}

// ComposeGenesisTxSpec composes the issuance of a new color of scheme.
func (r *Registry) ComposeGenesisTxSpec(scheme string, op OperationalTxSpec) (*ComposedTxSpec, error) {
	f, err := r.factory(scheme)
	if err != nil {
		return nil, err
	}
	return f(GenesisOutputMarker).ComposeGenesisTxSpec(op)
}

// ComposeGenesisTxSpec composes an issuance with the default registry.
func ComposeGenesisTxSpec(scheme string, op OperationalTxSpec) (*ComposedTxSpec, error) {
	return DefaultRegistry.ComposeGenesisTxSpec(scheme, op)
}
