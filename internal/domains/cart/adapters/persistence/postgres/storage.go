package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

var _ ports.CartStorage = (*Storage)(nil)

// Storage persists cart snapshots in PostgreSQL using GORM, one row per storage key.
type Storage struct {
	db  *gorm.DB
	key string
	now func() time.Time
}

// NewStorage wires a PostgreSQL-backed snapshot store. Caller manages DB lifecycle.
func NewStorage(db *gorm.DB, key string) *Storage {
	if key == "" {
		key = ports.DefaultStorageKey
	}
	return &Storage{db: db, key: key, now: time.Now}
}

// snapshotRecord stores the encoded cart plus denormalized columns for ad-hoc queries.
type snapshotRecord struct {
	Key        string        `gorm:"primaryKey;column:key;size:255"`
	Payload    []byte        `gorm:"column:payload;type:bytea;not null"`
	ProductIDs pq.Int64Array `gorm:"column:product_ids;type:bigint[]"`
	LineCount  int           `gorm:"column:line_count"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;index"`
}

func (snapshotRecord) TableName() string { return "cart_snapshots" }

func (s *Storage) Load(ctx context.Context) (domain.Cart, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record snapshotRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", s.key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrSnapshotNotFound
		}
		return nil, err
	}
	return domain.DecodeSnapshot(record.Payload)
}

// Save upserts the snapshot row for the configured key.
func (s *Storage) Save(ctx context.Context, cart domain.Cart) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	payload, err := domain.EncodeSnapshot(cart)
	if err != nil {
		return err
	}
	record := snapshotRecord{
		Key:        s.key,
		Payload:    payload,
		ProductIDs: productIDs(cart),
		LineCount:  len(cart),
		UpdatedAt:  s.now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"payload":     record.Payload,
				"product_ids": record.ProductIDs,
				"line_count":  record.LineCount,
				"updated_at":  record.UpdatedAt,
			}),
		}).Create(&record).Error
}

func (s *Storage) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres cart storage not configured")
	}
	return nil
}

func productIDs(cart domain.Cart) pq.Int64Array {
	ids := make(pq.Int64Array, 0, len(cart))
	for _, line := range cart {
		ids = append(ids, int64(line.ID))
	}
	return ids
}
