// file: internals/features/homework/service/model_timestamp_test.go
package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	hwModel "bimbelku_backend/internals/features/homework/model"
)

// Kolom timestamp tidak boleh pakai tipe yang cuma dikenal satu dialect:
// nilai *time.Time harus bisa dibaca balik utuh dari store mana pun yang
// dipakai AutoMigrate (Postgres di produksi, sqlite di test).
func TestItemTimestampsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	bimbel := uuid.New()
	sess := createSession(t, db, bimbel, sessionSeed{})

	now := time.Now()
	item := createItem(t, db, bimbel, sess, uuid.New(), hwModel.HomeworkItemStatusSubmitted,
		tptr(now.Add(-2*time.Hour)), &now, nil)

	got := reloadItem(t, db, item.HomeworkItemID)
	if got.HomeworkItemAssignedAt == nil || got.HomeworkItemAssignedAt.Unix() != now.Add(-2*time.Hour).Unix() {
		t.Fatalf("assigned_at tidak utuh setelah round trip: %v", got.HomeworkItemAssignedAt)
	}
	if got.HomeworkItemSubmittedAt == nil || got.HomeworkItemSubmittedAt.Unix() != now.Unix() {
		t.Fatalf("submitted_at tidak utuh setelah round trip: %v", got.HomeworkItemSubmittedAt)
	}
	if got.HomeworkItemReviewedAt != nil {
		t.Fatal("reviewed_at harusnya tetap NULL")
	}
	if got.HomeworkItemCreatedAt.IsZero() || got.HomeworkItemUpdatedAt.IsZero() {
		t.Fatal("created_at/updated_at harusnya terisi autoCreateTime/autoUpdateTime")
	}
}

func TestFileTimestampsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	bimbel := uuid.New()
	sess := createSession(t, db, bimbel, sessionSeed{})
	item := createItem(t, db, bimbel, sess, uuid.New(), hwModel.HomeworkItemStatusAssigned, tptr(time.Now()), nil, nil)

	f := hwModel.HomeworkFileModel{
		HomeworkFileBimbelID:     bimbel,
		HomeworkFileItemID:       item.HomeworkItemID,
		HomeworkFileSlot:         hwModel.HomeworkFileSlotSubmission,
		HomeworkFileVersion:      1,
		HomeworkFileFilename:     "jawaban.pdf",
		HomeworkFileMimeType:     "application/pdf",
		HomeworkFileUploaderRole: "student",
	}
	if err := db.Create(&f).Error; err != nil {
		t.Fatalf("create file: %v", err)
	}

	var got hwModel.HomeworkFileModel
	if err := db.Where("homework_file_id = ?", f.HomeworkFileID).First(&got).Error; err != nil {
		t.Fatalf("reload file: %v", err)
	}
	if got.HomeworkFileUploadedAt.IsZero() {
		t.Fatal("uploaded_at harusnya terisi autoCreateTime")
	}
}
