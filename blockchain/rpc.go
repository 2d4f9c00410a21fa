package blockchain

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"
	"github.com/decred/dcrd/lru"
	"github.com/go-playground/validator/v10"
	"github.com/inscription-c/ccoin/colordata"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/constants"
	"github.com/inscription-c/ccoin/log"
)

// ChainClient is the part of the node RPC interface RPCState reads from.
// *rpcclient.Client implements it.
type ChainClient interface {
	GetRawTransaction(txHash *chainhash.Hash) (*btcutil.Tx, error)
	GetRawTransactionVerbose(txHash *chainhash.Hash) (*btcjson.TxRawResult, error)
	GetBlock(blockHash *chainhash.Hash) (*wire.MsgBlock, error)
	GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
	GetBlockHeaderVerbose(blockHash *chainhash.Hash) (*btcjson.GetBlockHeaderVerboseResult, error)
	GetBestBlockHash() (*chainhash.Hash, error)
	GetRawMempool() ([]*chainhash.Hash, error)
}

type rpcOptions struct {
	Host      string `validate:"required,hostname_port"`
	User      string
	Password  string
	Params    *chaincfg.Params `validate:"-"`
	CacheSize uint

	client ChainClient
}

type RPCOption func(*rpcOptions)

// WithHost sets the host:port of the node RPC server.
func WithHost(host string) RPCOption {
	return func(o *rpcOptions) {
		o.Host = host
	}
}

// WithUser sets the node RPC username.
func WithUser(user string) RPCOption {
	return func(o *rpcOptions) {
		o.User = user
	}
}

// WithPassword sets the node RPC password.
func WithPassword(password string) RPCOption {
	return func(o *rpcOptions) {
		o.Password = password
	}
}

// WithParams sets the network the node runs on.
func WithParams(params *chaincfg.Params) RPCOption {
	return func(o *rpcOptions) {
		o.Params = params
	}
}

// WithCacheSize bounds how many transactions are kept in memory.
func WithCacheSize(size uint) RPCOption {
	return func(o *rpcOptions) {
		o.CacheSize = size
	}
}

// WithChainClient reads through client instead of dialing Host.
func WithChainClient(client ChainClient) RPCOption {
	return func(o *rpcOptions) {
		o.client = client
	}
}

// NewClient dials the node RPC server in HTTP POST mode. Addresses
// returned by the wallet are decoded for params.
func NewClient(host, user, password string, params *chaincfg.Params) (*rpcclient.Client, error) {
	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         host,
		User:         user,
		Pass:         password,
		Params:       params.Name,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}

// RPCState is the colordata.BlockchainState of a full node reached over
// JSON-RPC. Fetched transactions are cached.
type RPCState struct {
	client ChainClient
	params *chaincfg.Params
	cache  lru.KVCache
}

var _ colordata.BlockchainState = (*RPCState)(nil)

func NewRPCState(opts ...RPCOption) (*RPCState, error) {
	options := &rpcOptions{
		Params:    &chaincfg.MainNetParams,
		CacheSize: constants.DefaultTxCacheSize,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.Params == nil {
		return nil, errors.New("rpc state needs chain params")
	}
	client := options.client
	if client == nil {
		if err := validator.New().Struct(options); err != nil {
			return nil, err
		}
		c, err := NewClient(options.Host, options.User, options.Password, options.Params)
		if err != nil {
			return nil, err
		}
		client = c
	}
	return &RPCState{
		client: client,
		params: options.Params,
		cache:  lru.NewKVCache(options.CacheSize),
	}, nil
}

func (s *RPCState) ChainParams() *chaincfg.Params {
	return s.params
}

func (s *RPCState) GetTx(txHash *chainhash.Hash) (*wire.MsgTx, error) {
	if cached, ok := s.cache.Lookup(*txHash); ok {
		return cached.(*wire.MsgTx), nil
	}

	tx, err := s.client.GetRawTransaction(txHash)
	if err != nil {
		if isRPCCode(err, btcjson.ErrRPCNoTxInfo) {
			return nil, fmt.Errorf("%w: %s", coloring.ErrTxNotFound, txHash)
		}
		return nil, err
	}
	msgTx := tx.MsgTx()
	log.Chain.Tracef("fetched tx %s: %v", txHash, log.NewClosure(func() string {
		return spew.Sdump(msgTx)
	}))

	s.cache.Add(*txHash, msgTx)
	return msgTx, nil
}

func (s *RPCState) GetBlock(blockHash *chainhash.Hash) (*wire.MsgBlock, error) {
	block, err := s.client.GetBlock(blockHash)
	if err != nil {
		return nil, s.blockErr(blockHash, err)
	}
	return block, nil
}

func (s *RPCState) GetBlockHash(height int32) (*chainhash.Hash, error) {
	hash, err := s.client.GetBlockHash(int64(height))
	if err != nil {
		if isRPCCode(err, btcjson.ErrRPCOutOfRange) {
			return nil, fmt.Errorf("%w: height %d", colordata.ErrBlockNotFound, height)
		}
		return nil, err
	}
	return hash, nil
}

func (s *RPCState) GetBlockHeight(blockHash *chainhash.Hash) (int32, error) {
	header, err := s.client.GetBlockHeaderVerbose(blockHash)
	if err != nil {
		return 0, s.blockErr(blockHash, err)
	}
	return header.Height, nil
}

// GetPreviousBlockInfo returns the parent of blockHash and the height of
// blockHash. The parent of the genesis block is nil.
func (s *RPCState) GetPreviousBlockInfo(blockHash *chainhash.Hash) (*chainhash.Hash, int32, error) {
	header, err := s.client.GetBlockHeaderVerbose(blockHash)
	if err != nil {
		return nil, 0, s.blockErr(blockHash, err)
	}
	if header.PreviousHash == "" {
		return nil, header.Height, nil
	}
	prev, err := chainhash.NewHashFromStr(header.PreviousHash)
	if err != nil {
		return nil, 0, err
	}
	return prev, header.Height, nil
}

// GetTxBlockhash returns the block holding txHash. A nil block with
// inMempool unset means the node does not know the transaction.
func (s *RPCState) GetTxBlockhash(txHash *chainhash.Hash) (*chainhash.Hash, bool, error) {
	tx, err := s.client.GetRawTransactionVerbose(txHash)
	if err != nil {
		if isRPCCode(err, btcjson.ErrRPCNoTxInfo) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if tx.BlockHash == "" {
		return nil, true, nil
	}
	blockHash, err := chainhash.NewHashFromStr(tx.BlockHash)
	if err != nil {
		return nil, false, err
	}
	return blockHash, false, nil
}

func (s *RPCState) GetBestBlockhash() (*chainhash.Hash, error) {
	return s.client.GetBestBlockHash()
}

// GetMempoolTxs returns the mempool in dependency order. Transactions
// leaving the mempool while it is read are skipped.
func (s *RPCState) GetMempoolTxs() ([]*wire.MsgTx, error) {
	hashes, err := s.client.GetRawMempool()
	if err != nil {
		return nil, err
	}
	txs := make([]*wire.MsgTx, 0, len(hashes))
	for _, hash := range hashes {
		tx, err := s.GetTx(hash)
		if errors.Is(err, coloring.ErrTxNotFound) {
			log.Chain.Debugf("mempool tx %s is gone", hash)
			continue
		}
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return coloring.SortMsgTxsByDependency(txs), nil
}

func (s *RPCState) IterBlockTxs(blockHash *chainhash.Hash) ([]*wire.MsgTx, error) {
	block, err := s.GetBlock(blockHash)
	if err != nil {
		return nil, err
	}
	return block.Transactions, nil
}

func (s *RPCState) blockErr(blockHash *chainhash.Hash, err error) error {
	if isRPCCode(err, btcjson.ErrRPCBlockNotFound) {
		return fmt.Errorf("%w: %s", colordata.ErrBlockNotFound, blockHash)
	}
	return err
}

func isRPCCode(err error, code btcjson.RPCErrorCode) bool {
	var rpcErr *btcjson.RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}
