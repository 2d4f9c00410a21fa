package dao

import (
	"errors"

	"github.com/inscription-c/ccoin/colordata/tables"
	"gorm.io/gorm"
)

// ColorIdByDesc returns the id of desc, or 0 when it is unknown.
func (d *DB) ColorIdByDesc(desc string) (int64, error) {
	row := &tables.ColorMap{}
	err := d.Where("color_desc = ?", desc).First(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Id, nil
}

// AddColorDesc registers desc and returns its new id.
func (d *DB) AddColorDesc(desc string) (int64, error) {
	row := &tables.ColorMap{ColorDesc: desc}
	if err := d.Create(row).Error; err != nil {
		return 0, err
	}
	return row.Id, nil
}

// ColorDescById returns the descriptor of id, or "" when it is unknown.
func (d *DB) ColorDescById(id int64) (string, error) {
	row := &tables.ColorMap{}
	err := d.Where("id = ?", id).First(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.ColorDesc, nil
}

// ColorDescs lists every registered descriptor in id order.
func (d *DB) ColorDescs() (list []*tables.ColorMap, err error) {
	err = d.Order("id asc").Find(&list).Error
	return
}
