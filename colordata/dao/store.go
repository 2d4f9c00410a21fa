package dao

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/inscription-c/ccoin/colordata"
	"github.com/inscription-c/ccoin/colordata/tables"
)

// Store is the colordata.Store kept in the database.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *DB {
	return s.db
}

func (s *Store) Add(row *colordata.StoreRow) error {
	return s.db.SaveColorValue(&tables.ColorValue{
		ColorId:  row.ColorID,
		TxHash:   row.TxHash.String(),
		OutIndex: row.OutIndex,
		Value:    row.Value,
		Label:    row.Label,
	})
}

func (s *Store) Get(colorID int64, txHash *chainhash.Hash, outIndex uint32) (*colordata.StoreRow, error) {
	value, err := s.db.GetColorValue(colorID, txHash.String(), outIndex)
	if err != nil || value == nil {
		return nil, err
	}
	return toStoreRow(value)
}

func (s *Store) GetAny(txHash *chainhash.Hash, outIndex uint32) ([]*colordata.StoreRow, error) {
	list, err := s.db.ColorValuesByOutpoint(txHash.String(), outIndex)
	if err != nil {
		return nil, err
	}
	return toStoreRows(list)
}

func (s *Store) GetAll(colorID int64) ([]*colordata.StoreRow, error) {
	list, err := s.db.ColorValuesByColor(colorID)
	if err != nil {
		return nil, err
	}
	return toStoreRows(list)
}

func (s *Store) Remove(colorID int64, txHash *chainhash.Hash, outIndex uint32) error {
	return s.db.DeleteColorValue(colorID, txHash.String(), outIndex)
}

func (s *Store) DidScan(colorID int64, blockHash *chainhash.Hash) (bool, error) {
	return s.db.IsBlockScanned(colorID, blockHash.String())
}

func (s *Store) SetAsScanned(colorID int64, blockHash *chainhash.Hash) error {
	return s.db.SetBlockScanned(colorID, blockHash.String())
}

func (s *Store) ResolveColorDesc(desc string, autoAdd bool) (int64, error) {
	id, err := s.db.ColorIdByDesc(desc)
	if err != nil || id != 0 || !autoAdd {
		return id, err
	}
	return s.db.AddColorDesc(desc)
}

func (s *Store) FindColorDesc(colorID int64) (string, error) {
	return s.db.ColorDescById(colorID)
}

// Transaction runs fn against a store bound to one database transaction.
func (s *Store) Transaction(fn func(st colordata.Store) error) error {
	return s.db.Transaction(func(tx *DB) error {
		return fn(&Store{db: tx})
	})
}

// Sync is a no-op, every write outside a transaction commits on its own.
func (s *Store) Sync() error {
	return nil
}

func toStoreRow(value *tables.ColorValue) (*colordata.StoreRow, error) {
	hash, err := chainhash.NewHashFromStr(value.TxHash)
	if err != nil {
		return nil, err
	}
	return &colordata.StoreRow{
		ColorID:  value.ColorId,
		TxHash:   *hash,
		OutIndex: value.OutIndex,
		Value:    value.Value,
		Label:    value.Label,
	}, nil
}

func toStoreRows(list []*tables.ColorValue) ([]*colordata.StoreRow, error) {
	rows := make([]*colordata.StoreRow, 0, len(list))
	for _, value := range list {
		row, err := toStoreRow(value)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
