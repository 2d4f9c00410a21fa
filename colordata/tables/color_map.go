package tables

import (
	"time"
)

// ColorMap assigns the local color id to a color descriptor. Ids start at 1.
type ColorMap struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ColorDesc string    `gorm:"column:color_desc;type:varchar(255);uniqueIndex:uk_color_desc;default:'';NOT NULL"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (c *ColorMap) TableName() string {
	return "color_map"
}

// All lists every table of the color data store, for auto migration.
func All() []interface{} {
	return []interface{}{
		&ColorValue{},
		&ScannedBlock{},
		&ColorMap{},
	}
}
