package dao

import (
	"github.com/inscription-c/ccoin/colordata/tables"
	"gorm.io/gorm/clause"
)

// IsBlockScanned reports whether blockHash was scanned for colorId.
func (d *DB) IsBlockScanned(colorId int64, blockHash string) (bool, error) {
	var count int64
	err := d.Model(&tables.ScannedBlock{}).
		Where("color_id = ? AND block_hash = ?", colorId, blockHash).Count(&count).Error
	return count > 0, err
}

// SetBlockScanned marks blockHash as scanned for colorId.
func (d *DB) SetBlockScanned(colorId int64, blockHash string) error {
	return d.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "color_id"}, {Name: "block_hash"}},
		DoNothing: true,
	}).Create(&tables.ScannedBlock{ColorId: colorId, BlockHash: blockHash}).Error
}
