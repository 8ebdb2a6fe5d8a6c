package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cvBuilder/internal/database"
	"cvBuilder/internal/resume"
)

// Database keeps the snapshot in one row of the documents table and the
// export history in export_records.
type Database struct {
	db  *gorm.DB
	key string
}

// NewDatabase returns a store over an already migrated db.
func NewDatabase(db *gorm.DB, key string) *Database {
	if key == "" {
		key = DefaultKey
	}
	return &Database{db: db, key: key}
}

func (d *Database) Load(ctx context.Context) (resume.Snapshot, error) {
	var doc database.Document
	err := d.db.WithContext(ctx).Where(&database.Document{Key: d.key}).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return resume.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return resume.Snapshot{}, fmt.Errorf("query document %s: %w", d.key, err)
	}
	return decode(doc.Content)
}

func (d *Database) Save(ctx context.Context, snap resume.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	doc := database.Document{
		Key:      d.key,
		Content:  datatypes.JSON(data),
		Template: string(snap.Template),
	}
	err = d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "template", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("save document %s: %w", d.key, err)
	}
	return nil
}

// Clear hard-deletes the row so the unique key can be reused.
func (d *Database) Clear(ctx context.Context) error {
	err := d.db.WithContext(ctx).Unscoped().Where(&database.Document{Key: d.key}).Delete(&database.Document{}).Error
	if err != nil {
		return fmt.Errorf("delete document %s: %w", d.key, err)
	}
	return nil
}

func (d *Database) RecordExports(ctx context.Context, entries []ExportEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]database.ExportRecord, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, database.ExportRecord{
			RunID:    e.RunID,
			Format:   e.Format,
			Name:     e.Name,
			Location: e.Location,
			Pages:    e.Pages,
			Bytes:    e.Bytes,
		})
	}
	if err := d.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert export records: %w", err)
	}
	return nil
}

// Exports returns the most recent entries first.
func (d *Database) Exports(ctx context.Context, limit int) ([]ExportEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []database.ExportRecord
	err := d.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query export records: %w", err)
	}
	out := make([]ExportEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExportEntry{
			RunID:     r.RunID,
			Format:    r.Format,
			Name:      r.Name,
			Location:  r.Location,
			Pages:     r.Pages,
			Bytes:     r.Bytes,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

var (
	_ Store     = (*Database)(nil)
	_ ExportLog = (*Database)(nil)
)
