// Package store caches encoded meshes in a SQLite database so repeated requests for the
// same parameters skip generation.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"geodome/internal/geodesic"
)

// DefaultPath is the cache database used by the server when the config names none.
const DefaultPath = "cache/geodome.db"

// Entry is one cached encoding of a mesh.
type Entry struct {
	ID          uint   `gorm:"primaryKey"`
	CacheKey    string `gorm:"uniqueIndex;not null"`
	Format      string `gorm:"not null"`
	ContentType string `gorm:"not null"`
	Data        []byte `gorm:"type:BLOB"`
	Hits        int    `gorm:"not null;default:0"`
	CreatedAt   int64  `gorm:"autoCreateTime"`
	UpdatedAt   int64  `gorm:"autoUpdateTime"`
}

// Cache is a mesh cache backed by one SQLite file. Safe for concurrent use.
type Cache struct {
	db *gorm.DB
}

// Open opens (creating if needed) the cache database at path and migrates its schema.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Cache{db: db}, nil
}

// Key identifies a mesh encoding: every option that changes the output plus the format.
func Key(opts geodesic.Options, format string) string {
	return fmt.Sprintf("r=%g f=%d merge=%T%+v orient=%t format=%s",
		opts.Radius, opts.Frequency, opts.Merger, opts.Merger, opts.Orient, format)
}

// Get returns the cached data for key. found is false on a miss.
func (c *Cache) Get(key string) (data []byte, contentType string, found bool, err error) {
	var e Entry
	if err := c.db.Where("cache_key = ?", key).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", false, nil
		}
		return nil, "", false, err
	}
	if err := c.db.Model(&Entry{}).Where("id = ?", e.ID).UpdateColumn("hits", gorm.Expr("hits + 1")).Error; err != nil {
		return nil, "", false, fmt.Errorf("store: count hit: %w", err)
	}
	return e.Data, e.ContentType, true, nil
}

// Put stores data under key, replacing any earlier entry.
func (c *Cache) Put(key, format, contentType string, data []byte) error {
	e := Entry{CacheKey: key, Format: format, ContentType: contentType, Data: data}
	return c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"format", "content_type", "data", "updated_at"}),
	}).Create(&e).Error
}

// Stats summarises the cache contents.
type Stats struct {
	Entries int64 `json:"entries"`
	Bytes   int64 `json:"bytes"`
	Hits    int64 `json:"hits"`
}

// Stats counts entries, stored bytes and hits.
func (c *Cache) Stats() (Stats, error) {
	var s Stats
	err := c.db.Model(&Entry{}).
		Select("COUNT(*) AS entries, COALESCE(SUM(LENGTH(data)), 0) AS bytes, COALESCE(SUM(hits), 0) AS hits").
		Scan(&s).Error
	return s, err
}

// Clear deletes every entry.
func (c *Cache) Clear() error {
	return c.db.Where("1 = 1").Delete(&Entry{}).Error
}

// Close releases the database.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
