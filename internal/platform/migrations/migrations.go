package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the cart snapshot store. Adapters never automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&cartSnapshotRecord{},
	)
}

// Cart snapshot schema mirrors the cart Postgres adapter.
type cartSnapshotRecord struct {
	Key        string        `gorm:"primaryKey;column:key;size:255"`
	Payload    []byte        `gorm:"column:payload;type:bytea;not null"`
	ProductIDs pq.Int64Array `gorm:"column:product_ids;type:bigint[]"`
	LineCount  int           `gorm:"column:line_count"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;index"`
}

func (cartSnapshotRecord) TableName() string { return "cart_snapshots" }
