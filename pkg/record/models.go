package record

import (
	"time"

	"gorm.io/datatypes"
)

// RecordModel is the single GORM model behind every collection: a
// composite-keyed row holding the schemaless payload as JSONB. The
// index_key column mirrors the collection's secondary-index field so
// QueryByIndex stays a plain indexed lookup.
type RecordModel struct {
	Collection string            `gorm:"primaryKey;size:32"`
	Key        string            `gorm:"primaryKey;size:128"`
	IndexKey   string            `gorm:"index"`
	Data       datatypes.JSONMap `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time         `gorm:"not null;index"`
	UpdatedAt  time.Time         `gorm:"not null"`
}

// TableName pins the table name independent of gorm pluralization.
func (RecordModel) TableName() string { return "records" }
