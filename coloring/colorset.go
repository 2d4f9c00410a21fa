package coloring

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// ColorSet is the identity of an asset: an ordered, deduplicated list of
// color descriptors together with their resolved ids.
type ColorSet struct {
	descs []string
	ids   []int64
}

// NewColorSet resolves descs through cmap, registering unknown descriptors.
func NewColorSet(cmap *ColorMap, descs []string) (*ColorSet, error) {
	set := &ColorSet{}
	seen := make(map[string]struct{}, len(descs))
	for _, desc := range descs {
		if _, ok := seen[desc]; ok {
			continue
		}
		seen[desc] = struct{}{}
		id, err := cmap.ResolveColorDesc(desc, true)
		if err != nil {
			return nil, err
		}
		set.descs = append(set.descs, desc)
		set.ids = append(set.ids, id)
	}
	return set, nil
}

// NewColorSetFromIDs builds a set from already registered ids.
func NewColorSetFromIDs(cmap *ColorMap, ids []int64) (*ColorSet, error) {
	set := &ColorSet{}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		desc, err := cmap.FindColorDesc(id)
		if err != nil {
			return nil, err
		}
		set.descs = append(set.descs, desc)
		set.ids = append(set.ids, id)
	}
	return set, nil
}

func (s *ColorSet) ColorDescs() []string {
	return append([]string(nil), s.descs...)
}

func (s *ColorSet) ColorIDs() []int64 {
	return append([]int64(nil), s.ids...)
}

// IsUncolored reports whether the set holds only the uncolored color.
func (s *ColorSet) IsUncolored() bool {
	return len(s.ids) == 1 && s.ids[0] == UncoloredColorID
}

func (s *ColorSet) Has(desc string) bool {
	for _, d := range s.descs {
		if d == desc {
			return true
		}
	}
	return false
}

func (s *ColorSet) HasColorID(id int64) bool {
	for _, i := range s.ids {
		if i == id {
			return true
		}
	}
	return false
}

// Intersects reports whether s and o share a color.
func (s *ColorSet) Intersects(o *ColorSet) bool {
	for _, id := range o.ids {
		if s.HasColorID(id) {
			return true
		}
	}
	return false
}

// Equals reports whether s and o hold the same colors in any order.
func (s *ColorSet) Equals(o *ColorSet) bool {
	if len(s.ids) != len(o.ids) {
		return false
	}
	for _, id := range o.ids {
		if !s.HasColorID(id) {
			return false
		}
	}
	return true
}

// Earliest returns the descriptor with the lowest genesis height; ties go
// to the lexicographically smaller genesis txhash. Sentinel and
// unparsable descriptors are ignored, and "" is returned when none is left.
func (s *ColorSet) Earliest() string {
	var (
		best    string
		bestGen Genesis
		found   bool
	)
	for _, desc := range s.descs {
		_, genesis, err := ParseColorDesc(desc)
		if err != nil {
			continue
		}
		if !found || genesis.Height < bestGen.Height ||
			(genesis.Height == bestGen.Height && genesis.TxHash.String() < bestGen.TxHash.String()) {
			best, bestGen, found = desc, genesis, true
		}
	}
	return best
}

// canonicalJSON is the compact JSON array of the sorted descriptors.
func (s *ColorSet) canonicalJSON() []byte {
	sorted := append([]string{}, s.descs...)
	sort.Strings(sorted)
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// a []string always encodes
	_ = enc.Encode(sorted)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

// HashString is the hex sha256 of the canonical descriptor list.
func (s *ColorSet) HashString() string {
	sum := sha256.Sum256(s.canonicalJSON())
	return hex.EncodeToString(sum[:])
}

// ColorHash is the short display identifier of the set: the first 10
// bytes of the canonical hash, base58 encoded.
func (s *ColorSet) ColorHash() string {
	sum := sha256.Sum256(s.canonicalJSON())
	return base58.Encode(sum[:10])
}
