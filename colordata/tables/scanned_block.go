package tables

import (
	"time"
)

// ScannedBlock marks a block whose transactions were scanned for a color.
type ScannedBlock struct {
	Id        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ColorId   int64     `gorm:"column:color_id;type:bigint;uniqueIndex:uk_scanned_block,priority:1;default:0;NOT NULL"`
	BlockHash string    `gorm:"column:block_hash;type:varchar(64);uniqueIndex:uk_scanned_block,priority:2;default:'';NOT NULL"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (s *ScannedBlock) TableName() string {
	return "scanned_block"
}
