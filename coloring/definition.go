package coloring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/inscription-c/ccoin/constants"
)

const (
	// UncoloredColorID identifies plain bitcoin value.
	UncoloredColorID int64 = 0
	// GenesisColorID marks the target of an issuance before the new color
	// has an id.
	GenesisColorID int64 = -1
)

var (
	// UncoloredMarker is the definition of uncolored value.
	UncoloredMarker = ColorDefinition{colorID: UncoloredColorID}
	// GenesisOutputMarker is the definition used by genesis targets.
	GenesisOutputMarker = ColorDefinition{colorID: GenesisColorID}
)

// Genesis locates the output that originates a color.
type Genesis struct {
	TxHash   chainhash.Hash
	OutIndex uint32
	Height   int32
}

// ColorDefinition is the immutable identity of a color: its local id, the
// coloring scheme and the genesis output.
type ColorDefinition struct {
	colorID int64
	scheme  string
	genesis Genesis
}

// NewColorDefinition returns a definition for a colored asset.
func NewColorDefinition(colorID int64, scheme string, genesis Genesis) ColorDefinition {
	return ColorDefinition{
		colorID: colorID,
		scheme:  scheme,
		genesis: genesis,
	}
}

func (d ColorDefinition) ColorID() int64 {
	return d.colorID
}

func (d ColorDefinition) Scheme() string {
	return d.scheme
}

func (d ColorDefinition) Genesis() Genesis {
	return d.genesis
}

// IsSentinel reports whether d is the uncolored or the genesis marker.
func (d ColorDefinition) IsSentinel() bool {
	return d.colorID == UncoloredColorID || d.colorID == GenesisColorID
}

// ColorDesc formats the descriptor "<scheme>:<txhash>:<outindex>:<height>".
// Sentinels have an empty descriptor.
func (d ColorDefinition) ColorDesc() string {
	if d.IsSentinel() {
		return ""
	}
	return strings.Join([]string{
		d.scheme,
		d.genesis.TxHash.String(),
		strconv.FormatUint(uint64(d.genesis.OutIndex), 10),
		strconv.FormatInt(int64(d.genesis.Height), 10),
	}, constants.ColorDescDelimiter)
}

func (d ColorDefinition) String() string {
	switch d.colorID {
	case UncoloredColorID:
		return "uncolored"
	case GenesisColorID:
		return "genesis"
	}
	return fmt.Sprintf("%d(%s)", d.colorID, d.ColorDesc())
}

// ParseColorDesc splits a descriptor into its scheme code and genesis.
// It does not check that the scheme is registered.
func ParseColorDesc(desc string) (scheme string, genesis Genesis, err error) {
	parts := strings.Split(desc, constants.ColorDescDelimiter)
	if len(parts) != 4 {
		err = fmt.Errorf("%w: descriptor %q needs 4 fields", ErrInvalidColor, desc)
		return
	}
	scheme = parts[0]
	if scheme == "" {
		err = fmt.Errorf("%w: descriptor %q has no scheme", ErrInvalidColor, desc)
		return
	}
	if len(parts[1]) != chainhash.MaxHashStringSize || strings.ToLower(parts[1]) != parts[1] {
		err = fmt.Errorf("%w: bad genesis txhash %q", ErrInvalidColor, parts[1])
		return
	}
	hash, err := chainhash.NewHashFromStr(parts[1])
	if err != nil {
		err = fmt.Errorf("%w: bad genesis txhash %q: %v", ErrInvalidColor, parts[1], err)
		return
	}
	outIndex, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		err = fmt.Errorf("%w: bad genesis outindex %q", ErrInvalidColor, parts[2])
		return
	}
	height, err := strconv.ParseInt(parts[3], 10, 32)
	if err != nil {
		err = fmt.Errorf("%w: bad genesis height %q", ErrInvalidColor, parts[3])
		return
	}
	genesis = Genesis{
		TxHash:   *hash,
		OutIndex: uint32(outIndex),
		Height:   int32(height),
	}
	return
}
