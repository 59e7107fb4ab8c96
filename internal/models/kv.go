package models

import "time"

// KVEntry is one row of the SQL-backed key-value store.
type KVEntry struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName pins the table name regardless of naming strategy.
func (KVEntry) TableName() string {
	return "kv_entries"
}
