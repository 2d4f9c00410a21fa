package colordata

import (
	"sort"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

type rowKey struct {
	colorID  int64
	txHash   chainhash.Hash
	outIndex uint32
}

type markerKey struct {
	colorID   int64
	blockHash chainhash.Hash
}

type memState struct {
	rows    map[rowKey]StoreRow
	scanned map[markerKey]struct{}
	descs   []string
}

func (s *memState) clone() *memState {
	c := &memState{
		rows:    make(map[rowKey]StoreRow, len(s.rows)),
		scanned: make(map[markerKey]struct{}, len(s.scanned)),
		descs:   append([]string(nil), s.descs...),
	}
	for k, v := range s.rows {
		c.rows[k] = v
	}
	for k := range s.scanned {
		c.scanned[k] = struct{}{}
	}
	return c
}

// MemStore is a Store kept in memory, used for dry runs and tests.
// Transactions snapshot the whole state and restore it on failure.
type MemStore struct {
	mu    sync.Mutex
	state *memState
	syncs int
}

func NewMemStore() *MemStore {
	return &MemStore{
		state: &memState{
			rows:    make(map[rowKey]StoreRow),
			scanned: make(map[markerKey]struct{}),
		},
	}
}

func (m *MemStore) Add(row *StoreRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.rows[rowKey{row.ColorID, row.TxHash, row.OutIndex}] = *row
	return nil
}

func (m *MemStore) Get(colorID int64, txHash *chainhash.Hash, outIndex uint32) (*StoreRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.state.rows[rowKey{colorID, *txHash, outIndex}]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *MemStore) GetAny(txHash *chainhash.Hash, outIndex uint32) ([]*StoreRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []*StoreRow
	for k, v := range m.state.rows {
		if k.txHash == *txHash && k.outIndex == outIndex {
			row := v
			rows = append(rows, &row)
		}
	}
	sortRows(rows)
	return rows, nil
}

func (m *MemStore) GetAll(colorID int64) ([]*StoreRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []*StoreRow
	for k, v := range m.state.rows {
		if k.colorID == colorID {
			row := v
			rows = append(rows, &row)
		}
	}
	sortRows(rows)
	return rows, nil
}

func (m *MemStore) Remove(colorID int64, txHash *chainhash.Hash, outIndex uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state.rows, rowKey{colorID, *txHash, outIndex})
	return nil
}

func (m *MemStore) DidScan(colorID int64, blockHash *chainhash.Hash) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.state.scanned[markerKey{colorID, *blockHash}]
	return ok, nil
}

func (m *MemStore) SetAsScanned(colorID int64, blockHash *chainhash.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.scanned[markerKey{colorID, *blockHash}] = struct{}{}
	return nil
}

func (m *MemStore) ResolveColorDesc(desc string, autoAdd bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.state.descs {
		if d == desc {
			return int64(i + 1), nil
		}
	}
	if !autoAdd {
		return 0, nil
	}
	m.state.descs = append(m.state.descs, desc)
	return int64(len(m.state.descs)), nil
}

func (m *MemStore) FindColorDesc(colorID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if colorID < 1 || colorID > int64(len(m.state.descs)) {
		return "", nil
	}
	return m.state.descs[colorID-1], nil
}

// Transaction restores the state seen on entry when fn fails.
func (m *MemStore) Transaction(fn func(st Store) error) error {
	m.mu.Lock()
	snapshot := m.state.clone()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.state = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *MemStore) Sync() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncs++
	return nil
}

// Syncs returns how many times Sync was called.
func (m *MemStore) Syncs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncs
}

func sortRows(rows []*StoreRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ColorID != b.ColorID {
			return a.ColorID < b.ColorID
		}
		if a.TxHash != b.TxHash {
			return a.TxHash.String() < b.TxHash.String()
		}
		return a.OutIndex < b.OutIndex
	})
}
