package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// slotKey is the key the whole snapshot lives under. It is the same key the
// original browser version used in localStorage, kept for recognisability in
// the data file.
const slotKey = "datosGestionObras"

// SnapshotRecord is the single-row key-value table backing the slot.
type SnapshotRecord struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (SnapshotRecord) TableName() string { return "snapshots" }

// SQLiteSlot persists the snapshot blob into a local sqlite file through
// GORM. There is no relational schema: one table, one row.
type SQLiteSlot struct {
	db *gorm.DB
}

// OpenSlot opens (or creates) the slot database at path. DSNs such as
// "file:name?mode=memory&cache=shared" work as well, which tests use.
func OpenSlot(path string) (*SQLiteSlot, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open slot %s: %w", path, err)
	}
	if err := db.AutoMigrate(&SnapshotRecord{}); err != nil {
		return nil, fmt.Errorf("migrate slot: %w", err)
	}
	return &SQLiteSlot{db: db}, nil
}

func (s *SQLiteSlot) Load() ([]byte, bool, error) {
	var rec SnapshotRecord
	err := s.db.First(&rec, "key = ?", slotKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(rec.Value), true, nil
}

func (s *SQLiteSlot) Save(raw []byte) error {
	rec := SnapshotRecord{Key: slotKey, Value: string(raw)}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
}
