package dao

import (
	"errors"

	"github.com/inscription-c/ccoin/colordata/tables"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveColorValue inserts the value of an output, replacing the value and
// label of an existing row with the same color and outpoint.
func (d *DB) SaveColorValue(value *tables.ColorValue) error {
	return d.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "color_id"}, {Name: "tx_hash"}, {Name: "out_index"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "label", "updated_at"}),
	}).Create(value).Error
}

// GetColorValue returns the row of the outpoint for colorId, or nil.
func (d *DB) GetColorValue(colorId int64, txHash string, outIndex uint32) (*tables.ColorValue, error) {
	value := &tables.ColorValue{}
	err := d.Where("color_id = ? AND tx_hash = ? AND out_index = ?", colorId, txHash, outIndex).First(value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// ColorValuesByOutpoint returns the rows of every color held by the outpoint.
func (d *DB) ColorValuesByOutpoint(txHash string, outIndex uint32) (list []*tables.ColorValue, err error) {
	err = d.Where("tx_hash = ? AND out_index = ?", txHash, outIndex).
		Order("color_id asc").Find(&list).Error
	return
}

// ColorValuesByColor returns every row of colorId.
func (d *DB) ColorValuesByColor(colorId int64) (list []*tables.ColorValue, err error) {
	err = d.Where("color_id = ?", colorId).
		Order("tx_hash asc, out_index asc").Find(&list).Error
	return
}

func (d *DB) DeleteColorValue(colorId int64, txHash string, outIndex uint32) error {
	return d.Where("color_id = ? AND tx_hash = ? AND out_index = ?", colorId, txHash, outIndex).
		Delete(&tables.ColorValue{}).Error
}
