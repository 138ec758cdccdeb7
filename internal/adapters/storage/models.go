package storage

import "time"

// EntryModel is the GORM model for the storage_entries key/value table
type EntryModel struct {
	CreatedAt time.Time
	Key       string `gorm:"column:storage_key;primaryKey"`
	UpdatedAt time.Time
	Value     string `gorm:"not null;default:''"`
}

// TableName specifies the table name for GORM
func (EntryModel) TableName() string { return "storage_entries" }
