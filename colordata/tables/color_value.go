package tables

import (
	"time"
)

// ColorValue is the value of one color held by an output.
type ColorValue struct {
	Id        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ColorId   int64     `gorm:"column:color_id;type:bigint;uniqueIndex:uk_color_value_outpoint,priority:1;default:0;NOT NULL"`
	TxHash    string    `gorm:"column:tx_hash;type:varchar(64);uniqueIndex:uk_color_value_outpoint,priority:2;index:idx_color_value_tx_hash;default:'';NOT NULL"`
	OutIndex  uint32    `gorm:"column:out_index;type:int;uniqueIndex:uk_color_value_outpoint,priority:3;default:0;NOT NULL"`
	Value     int64     `gorm:"column:value;type:bigint;default:0;NOT NULL"`
	Label     string    `gorm:"column:label;type:varchar(255);default:'';NOT NULL"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (c *ColorValue) TableName() string {
	return "color_value"
}
