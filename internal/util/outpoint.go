package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/constants"
)

// StringToOutpoint parses "<txhash>:<index>".
func StringToOutpoint(s string) (*wire.OutPoint, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !constants.OutpointRegexp.MatchString(s) {
		return nil, fmt.Errorf("invalid outpoint %q", s)
	}
	parts := strings.Split(s, constants.OutpointDelimiter)
	h, err := chainhash.NewHashFromStr(parts[0])
	if err != nil {
		return nil, err
	}
	index, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid outpoint index %q: %v", parts[1], err)
	}
	return wire.NewOutPoint(h, uint32(index)), nil
}
