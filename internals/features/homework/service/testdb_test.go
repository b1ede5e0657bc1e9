// file: internals/features/homework/service/testdb_test.go
package service

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	hwModel "bimbelku_backend/internals/features/homework/model"
)

// newTestDB: sqlite in-memory, satu koneksi (':memory:' per koneksi = DB beda).
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&hwModel.ClassSessionModel{},
		&hwModel.SessionStudentModel{},
		&hwModel.HomeworkItemModel{},
		&hwModel.HomeworkFileModel{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type sessionSeed struct {
	TutorID    *uuid.UUID
	BranchID   *uuid.UUID
	TutorName  string
	BranchName string
	StartsAt   time.Time
	IsCanceled bool
}

func createSession(t *testing.T, db *gorm.DB, bimbelID uuid.UUID, s sessionSeed) uuid.UUID {
	t.Helper()
	if s.StartsAt.IsZero() {
		s.StartsAt = time.Now().Add(-24 * time.Hour)
	}
	m := hwModel.ClassSessionModel{
		ClassSessionBimbelID:   bimbelID,
		ClassSessionTutorID:    s.TutorID,
		ClassSessionBranchID:   s.BranchID,
		ClassSessionStartsAt:   s.StartsAt,
		ClassSessionIsCanceled: s.IsCanceled,
	}
	if s.TutorName != "" {
		m.ClassSessionTutorNameSnapshot = &s.TutorName
	}
	if s.BranchName != "" {
		m.ClassSessionBranchNameSnapshot = &s.BranchName
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return m.ClassSessionID
}

func addRoster(t *testing.T, db *gorm.DB, bimbelID, sessionID, studentID uuid.UUID) {
	t.Helper()
	m := hwModel.SessionStudentModel{
		SessionStudentBimbelID:  bimbelID,
		SessionStudentSessionID: sessionID,
		SessionStudentStudentID: studentID,
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed roster: %v", err)
	}
}

func createItem(t *testing.T, db *gorm.DB, bimbelID, sessionID, studentID uuid.UUID, status hwModel.HomeworkItemStatus, assignedAt, submittedAt, reviewedAt *time.Time) hwModel.HomeworkItemModel {
	t.Helper()
	m := hwModel.HomeworkItemModel{
		HomeworkItemBimbelID:    bimbelID,
		HomeworkItemSessionID:   sessionID,
		HomeworkItemStudentID:   studentID,
		HomeworkItemStatus:      status,
		HomeworkItemAssignedAt:  assignedAt,
		HomeworkItemSubmittedAt: submittedAt,
		HomeworkItemReviewedAt:  reviewedAt,
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return m
}

func reloadItem(t *testing.T, db *gorm.DB, id uuid.UUID) hwModel.HomeworkItemModel {
	t.Helper()
	var m hwModel.HomeworkItemModel
	if err := db.Where("homework_item_id = ?", id).First(&m).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	return m
}

func countFiles(t *testing.T, db *gorm.DB, itemID uuid.UUID) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&hwModel.HomeworkFileModel{}).
		Where("homework_file_item_id = ?", itemID).
		Count(&n).Error; err != nil {
		t.Fatalf("count files: %v", err)
	}
	return n
}

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *fiber.Error, got %T: %v", err, err)
	}
	return fe.Code
}

func tptr(tm time.Time) *time.Time { return &tm }
