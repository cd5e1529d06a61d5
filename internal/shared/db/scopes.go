package db

import (
	"gorm.io/gorm"
)

// BySchool narrows a query to one school. An empty schoolID leaves the
// query unscoped, which is how cross-school reports are read.
//
//	db.Model(&Model{}).Scopes(db.BySchool(schoolID)).Count(&count)
func BySchool(schoolID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if schoolID == "" {
			return db
		}
		return db.Where("school_id = ?", schoolID)
	}
}

// Paginate applies an offset/limit window.
func Paginate(offset, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}
