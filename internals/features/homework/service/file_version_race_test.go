// file: internals/features/homework/service/file_version_race_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	hwModel "bimbelku_backend/internals/features/homework/model"
	ossHelper "bimbelku_backend/internals/helpers/oss"
)

// failFileCreates memasang callback yang bikin N insert pertama ke
// homework_files gagal dengan unique violation, persis seperti uploader lain
// yang keburu commit versi yang sama di antara baca MAX dan insert kita.
func failFileCreates(t *testing.T, db *gorm.DB, n int) *int {
	t.Helper()
	fired := 0
	err := db.Callback().Create().Before("gorm:create").Register("homework_version_race", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*hwModel.HomeworkFileModel); !ok {
			return
		}
		if fired < n {
			fired++
			tx.AddError(errors.New("UNIQUE constraint failed: homework_files.homework_file_version"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Callback().Create().Remove("homework_version_race")
	})
	return &fired
}

func TestCreateFileVersion_RetriesVersionRace(t *testing.T) {
	db := newTestDB(t)
	svc := NewFileVersionService(db, ossHelper.NewMemoryBlobService())
	bimbel := uuid.New()
	sess := createSession(t, db, bimbel, sessionSeed{})
	item := createItem(t, db, bimbel, sess, uuid.New(), hwModel.HomeworkItemStatusAssigned, tptr(time.Now()), nil, nil)

	// satu kali kalah race: attempt pertama rollback, attempt kedua hitung
	// ulang versi dan commit
	fired := failFileCreates(t, db, 1)

	res, err := svc.CreateFileVersion(context.Background(), baseUploadInput(bimbel, item.HomeworkItemID, hwModel.HomeworkFileSlotSubmission))
	if err != nil {
		t.Fatalf("upload setelah race: %v", err)
	}
	if *fired != 1 {
		t.Fatalf("jalur race terpicu %d kali, want 1", *fired)
	}
	if res.File.HomeworkFileVersion != 1 {
		t.Fatalf("versi = %d, want 1 (attempt gagal ke-rollback utuh)", res.File.HomeworkFileVersion)
	}
	if n := countFiles(t, db, item.HomeworkItemID); n != 1 {
		t.Fatalf("row file = %d, want tepat 1", n)
	}

	// upload berikutnya lanjut normal dari versi berikutnya
	res2, err := svc.CreateFileVersion(context.Background(), baseUploadInput(bimbel, item.HomeworkItemID, hwModel.HomeworkFileSlotSubmission))
	if err != nil {
		t.Fatalf("upload kedua: %v", err)
	}
	if res2.File.HomeworkFileVersion != 2 {
		t.Fatalf("versi kedua = %d, want 2", res2.File.HomeworkFileVersion)
	}
}

func TestCreateFileVersion_ConflictWhenRetriesExhausted(t *testing.T) {
	db := newTestDB(t)
	svc := NewFileVersionService(db, ossHelper.NewMemoryBlobService())
	bimbel := uuid.New()
	sess := createSession(t, db, bimbel, sessionSeed{})
	item := createItem(t, db, bimbel, sess, uuid.New(), hwModel.HomeworkItemStatusAssigned, tptr(time.Now()), nil, nil)

	// kalah race terus-menerus melebihi maxVersionRetries → 409, bukan 500
	fired := failFileCreates(t, db, maxVersionRetries+1)

	_, err := svc.CreateFileVersion(context.Background(), baseUploadInput(bimbel, item.HomeworkItemID, hwModel.HomeworkFileSlotSubmission))
	if err == nil {
		t.Fatal("expected error setelah retry habis")
	}
	if fiberCode(t, err) != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", fiberCode(t, err))
	}
	if *fired != maxVersionRetries {
		t.Fatalf("attempt = %d, want %d", *fired, maxVersionRetries)
	}

	// tidak ada sampah metadata yang lolos
	if n := countFiles(t, db, item.HomeworkItemID); n != 0 {
		t.Fatalf("row file = %d, want 0", n)
	}
	got := reloadItem(t, db, item.HomeworkItemID)
	if got.HomeworkItemStatus != hwModel.HomeworkItemStatusAssigned {
		t.Fatalf("status = %s, harusnya tetap assigned", got.HomeworkItemStatus)
	}
}
