package blockchain

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gogf/gf/v2/util/gconv"
	"github.com/inscription-c/ccoin/colordata"
	"github.com/inscription-c/ccoin/log"
)

// SpendResp is one spend as returned by the explorer. Numeric fields may
// be encoded as strings.
type SpendResp struct {
	TxId      string      `json:"txid"`
	Vout      interface{} `json:"vout"`
	BlockHash string      `json:"blockhash"`
}

type SpendsResp struct {
	Spends []*SpendResp `json:"spends"`
}

// Explorer reads the spends of a transaction from an HTTP block explorer
// serving GET {url}/spends/{txid}.
type Explorer struct {
	explorerUrl string
	client      *http.Client
	retries     int
	retryDelay  time.Duration
}

var _ colordata.Explorer = (*Explorer)(nil)

type ExplorerOption func(*Explorer)

// WithHTTPClient sets the client requests are sent with.
func WithHTTPClient(client *http.Client) ExplorerOption {
	return func(e *Explorer) {
		e.client = client
	}
}

// WithRetry sets how many times a request is tried and the pause between
// tries.
func WithRetry(retries int, delay time.Duration) ExplorerOption {
	return func(e *Explorer) {
		e.retries = retries
		e.retryDelay = delay
	}
}

func NewExplorer(explorerUrl string, opts ...ExplorerOption) *Explorer {
	e := &Explorer{
		explorerUrl: strings.TrimRight(explorerUrl, "/"),
		client:      http.DefaultClient,
		retries:     3,
		retryDelay:  time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetSpends returns the transactions spending outputs of txHash. Spends
// still in the mempool have a nil BlockHash.
func (e *Explorer) GetSpends(txHash *chainhash.Hash) ([]*colordata.Spend, error) {
	url := fmt.Sprintf("%s/spends/%s", e.explorerUrl, txHash)
	request, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp := &SpendsResp{}
	if err := e.doRetry(request, resp); err != nil {
		return nil, fmt.Errorf("get spends of %s: %w", txHash, err)
	}

	spends := make([]*colordata.Spend, 0, len(resp.Spends))
	for _, v := range resp.Spends {
		hash, err := chainhash.NewHashFromStr(v.TxId)
		if err != nil {
			return nil, fmt.Errorf("spend of %s: %w", txHash, err)
		}
		spend := &colordata.Spend{
			TxHash:   *hash,
			OutIndex: gconv.Uint32(v.Vout),
		}
		if v.BlockHash != "" {
			if spend.BlockHash, err = chainhash.NewHashFromStr(v.BlockHash); err != nil {
				return nil, fmt.Errorf("spend of %s: %w", txHash, err)
			}
		}
		spends = append(spends, spend)
	}
	log.Chain.Debugf("explorer: %s has %d spends", txHash, len(spends))
	return spends, nil
}

func (e *Explorer) doRetry(request *http.Request, result interface{}) error {
	var lastErr error
	for idx := 0; idx < e.retries; idx++ {
		if idx > 0 {
			time.Sleep(e.retryDelay)
		}
		resp, err := e.client.Do(request)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("status %s", resp.Status)
			continue
		}
		err = json.NewDecoder(resp.Body).Decode(result)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("retry %d times: %v", e.retries, lastErr)
}
