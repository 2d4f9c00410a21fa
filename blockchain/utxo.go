package blockchain

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/constants"
	"github.com/shopspring/decimal"
)

// WalletClient is the part of the wallet RPC interface RPCUtxoSource
// uses. *rpcclient.Client implements it.
type WalletClient interface {
	ListUnspent() ([]btcjson.ListUnspentResult, error)
	GetRawChangeAddress(account string) (btcutil.Address, error)
}

// RPCUtxoSource lists the unspent outputs of the node wallet.
type RPCUtxoSource struct {
	client  WalletClient
	minConf int64
}

// NewRPCUtxoSource lists outputs with at least minConf confirmations.
func NewRPCUtxoSource(client WalletClient, minConf int64) *RPCUtxoSource {
	return &RPCUtxoSource{client: client, minConf: minConf}
}

// ListUnspent returns the wallet outputs in the order the wallet reports
// them. Their color values are left unset.
func (s *RPCUtxoSource) ListUnspent() ([]*coloring.Utxo, error) {
	list, err := s.client.ListUnspent()
	if err != nil {
		return nil, err
	}
	utxos := make([]*coloring.Utxo, 0, len(list))
	for _, v := range list {
		if v.Confirmations < s.minConf {
			continue
		}
		hash, err := chainhash.NewHashFromStr(v.TxID)
		if err != nil {
			return nil, fmt.Errorf("unspent %s:%d: %w", v.TxID, v.Vout, err)
		}
		pkScript, err := hex.DecodeString(v.ScriptPubKey)
		if err != nil {
			return nil, fmt.Errorf("unspent %s:%d: %w", v.TxID, v.Vout, err)
		}
		utxos = append(utxos, &coloring.Utxo{
			OutPoint: *wire.NewOutPoint(hash, v.Vout),
			Value:    Amount(v.Amount),
			PkScript: pkScript,
		})
	}
	return utxos, nil
}

// ChangeAddr returns a fresh wallet change address. Every color gets its
// own address.
func (s *RPCUtxoSource) ChangeAddr(def coloring.ColorDefinition) (string, error) {
	addr, err := s.client.GetRawChangeAddress("")
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// Amount converts a BTC amount reported over RPC to satoshi.
func Amount(btc float64) int64 {
	return decimal.NewFromFloat(btc).
		Mul(decimal.NewFromInt(constants.OneBtc)).Round(0).IntPart()
}
