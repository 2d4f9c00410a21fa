package constants

import (
	"fmt"
	"regexp"
)

const (
	AppName = "ccoin"

	// SchemeOBC is the descriptor code of order-based coloring.
	SchemeOBC = "obc"
	// SchemeEPOBC is the descriptor code of enhanced padded order-based coloring.
	SchemeEPOBC = "epobc"

	ColorDescDelimiter = ":"
	OutpointDelimiter  = ":"
	IdRegexpContent    = `^[a-f0-9]{64}%s\d+$`

	OneBtc = 100_000_000

	// DefaultFeePerKb is the relay fee rate in satoshi per 1000 bytes.
	DefaultFeePerKb = 10_000
	// DefaultDustThreshold is the smallest output value composition will emit.
	DefaultDustThreshold = 5_500

	// TxBaseSize, TxInputSize and TxOutputSize are the byte estimates used
	// for fee computation.
	TxBaseSize   = 10
	TxInputSize  = 181
	TxOutputSize = 34
)

var (
	OutpointRegexp = regexp.MustCompile(fmt.Sprintf(IdRegexpContent, OutpointDelimiter))
)
