// Package gormstore implements storage.Storage on top of GORM with the
// SQLite dialect. It shares the students table layout with package sqlite,
// so either backend can open a database file created by the other.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aanand-mishra/students-web/internal/config"
	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/types"
)

// studentRecord is the GORM model behind the students table.
// Text columns are pointers so NULLs in older rows scan cleanly.
type studentRecord struct {
	ID     int64   `gorm:"primaryKey;autoIncrement"`
	Name   *string `gorm:"column:name;type:text"`
	Email  *string `gorm:"column:email;type:text"`
	Course *string `gorm:"column:course;type:text"`
	Phone  *string `gorm:"column:phone;type:text"`
}

func (studentRecord) TableName() string { return "students" }

func (r studentRecord) toStudent() types.Student {
	return types.Student{
		ID:     r.ID,
		Name:   text(r.Name),
		Email:  text(r.Email),
		Course: text(r.Course),
		Phone:  text(r.Phone),
	}
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Store is the GORM-backed Record Store.
type Store struct {
	DB *gorm.DB
}

var _ storage.Storage = (*Store)(nil)

// New opens the database at cfg.StoragePath and migrates the students table.
func New(cfg *config.Config) (*Store, error) {
	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("gormstore.New: create storage dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.StoragePath), &gorm.Config{
		Logger: newLogger(cfg.Env),
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore.New: open db: %w", err)
	}

	return setup(db)
}

// setup migrates the students table, closing db if that fails.
func setup(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&studentRecord{}); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("gormstore.New: migrate: %w", err)
	}

	return &Store{DB: db}, nil
}

// slogWriter hands gorm's formatted log lines to the default slog logger.
type slogWriter struct {
	level slog.Level
}

func (w slogWriter) Printf(format string, args ...any) {
	slog.Log(context.Background(), w.level, fmt.Sprintf(format, args...))
}

// newLogger traces every statement in dev and only reports slow queries
// and errors elsewhere.
func newLogger(env string) logger.Interface {
	level, out := logger.Warn, slogWriter{level: slog.LevelWarn}
	if env == "dev" {
		level, out = logger.Info, slogWriter{level: slog.LevelDebug}
	}

	return logger.New(out, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Close closes the pool underneath the GORM handle.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("Close: %w", err)
	}
	return sqlDB.Close()
}

func (s *Store) CreateStudent(ctx context.Context, fields types.StudentFields) (types.Student, error) {
	record := studentRecord{
		Name:   &fields.Name,
		Email:  &fields.Email,
		Course: &fields.Course,
		Phone:  &fields.Phone,
	}

	if err := s.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: %w", err)
	}

	return record.toStudent(), nil
}

func (s *Store) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	var record studentRecord

	err := s.DB.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.Student{}, fmt.Errorf("GetStudentByID: id %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: %w", err)
	}

	return record.toStudent(), nil
}

func (s *Store) GetStudents(ctx context.Context) ([]types.Student, error) {
	var records []studentRecord

	if err := s.DB.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("GetStudents: %w", err)
	}

	students := make([]types.Student, 0, len(records))
	for _, r := range records {
		students = append(students, r.toStudent())
	}

	return students, nil
}

// UpdateStudentByID writes all four columns through a map, since Updates
// with a struct would skip the empty strings.
func (s *Store) UpdateStudentByID(ctx context.Context, id int64, fields types.StudentFields) (types.Student, error) {
	result := s.DB.WithContext(ctx).
		Model(&studentRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":   fields.Name,
			"email":  fields.Email,
			"course": fields.Course,
			"phone":  fields.Phone,
		})
	if result.Error != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: id %d: %w", id, storage.ErrNotFound)
	}

	return s.GetStudentByID(ctx, id)
}

func (s *Store) DeleteStudentByID(ctx context.Context, id int64) error {
	result := s.DB.WithContext(ctx).Delete(&studentRecord{}, id)
	if result.Error != nil {
		return fmt.Errorf("DeleteStudentByID: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("DeleteStudentByID: id %d: %w", id, storage.ErrNotFound)
	}

	return nil
}
