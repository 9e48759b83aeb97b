package model

import "time"

// Record is one key-value row of the SQL storage backend
type Record struct {
	Key       string    `gorm:"primaryKey;type:varchar(191)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the table name regardless of the naming strategy
func (Record) TableName() string { return "kv_records" }
