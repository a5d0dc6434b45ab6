package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordModel is the gorm-mapped row for one BlockRecord, grounded on the
// teacher pack's sqlite-backed model pattern (termfx-morfx/db/sqlite.go,
// models/*.go): a plain struct with gorm tags, migrated with AutoMigrate,
// detected libraries flattened to a comma-joined column since sqlite has
// no native array type.
type recordModel struct {
	gorm.Model
	BlockID           string `gorm:"uniqueIndex"`
	Name              string
	Language          string
	Source            string
	Category          string
	ValidationStatus  string
	TokenCount        int
	DetectedLibraries string
}

func (recordModel) TableName() string { return "block_records" }

func (m recordModel) toRecord() *BlockRecord {
	var libs []string
	if m.DetectedLibraries != "" {
		libs = strings.Split(m.DetectedLibraries, ",")
	}
	return &BlockRecord{
		ID:                m.BlockID,
		Name:              m.Name,
		Language:          m.Language,
		Source:            m.Source,
		Category:          m.Category,
		ValidationStatus:  m.ValidationStatus,
		TokenCount:        m.TokenCount,
		DetectedLibraries: libs,
	}
}

func fromRecord(r *BlockRecord) recordModel {
	return recordModel{
		BlockID:           r.ID,
		Name:              r.Name,
		Language:          r.Language,
		Source:            r.Source,
		Category:          r.Category,
		ValidationStatus:  r.ValidationStatus,
		TokenCount:        r.TokenCount,
		DetectedLibraries: strings.Join(r.DetectedLibraries, ","),
	}
}

// SQLiteStore is the reference Store implementation: a pure-Go (cgo-free)
// sqlite file, opened through glebarez/sqlite's gorm dialector rather than
// the mattn/go-sqlite3-backed gorm.io/driver/sqlite, consistent with the
// rest of the runtime never shelling out to cgo (purego fills the same
// role for the C++ executor's dlopen).
type SQLiteStore struct {
	db *gorm.DB
}

// Open connects to (and migrates) a sqlite-backed block store at path.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("registry: creating store directory: %w", err)
		}
	}

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("registry: opening store: %w", err)
	}
	if err := db.AutoMigrate(&recordModel{}); err != nil {
		return nil, fmt.Errorf("registry: migrating store: %w", err)
	}
	logrus.WithField("path", path).Debug("registry: sqlite store ready")
	return &SQLiteStore{db: db}, nil
}

// Lookup implements Store.
func (s *SQLiteStore) Lookup(ctx context.Context, id string) (*BlockRecord, error) {
	var m recordModel
	err := s.db.WithContext(ctx).Where("block_id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ErrNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("registry: looking up %q: %w", id, err)
	}
	return m.toRecord(), nil
}

// IterateAll implements Store's optional bulk listing (§6).
func (s *SQLiteStore) IterateAll(ctx context.Context) ([]*BlockRecord, error) {
	var rows []recordModel
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("registry: listing blocks: %w", err)
	}
	out := make([]*BlockRecord, len(rows))
	for i, m := range rows {
		out[i] = m.toRecord()
	}
	return out, nil
}

// Register upserts a record, used by ingestion tooling and by tests to
// seed a store without hand-writing SQL.
func (s *SQLiteStore) Register(ctx context.Context, r *BlockRecord) error {
	m := fromRecord(r)
	return s.db.WithContext(ctx).
		Where("block_id = ?", r.ID).
		Assign(m).
		FirstOrCreate(&recordModel{}, recordModel{BlockID: r.ID}).Error
}

// Close releases the underlying sql.DB connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
