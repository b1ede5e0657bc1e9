// file: internals/features/homework/service/homework_flow_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	hwModel "bimbelku_backend/internals/features/homework/model"
	ossHelper "bimbelku_backend/internals/helpers/oss"
)

// Alur lengkap satu PR: ensure → upload submission (tanpa flag) →
// upload submission (mark_submitted) → bulk review → re-review.
func TestHomeworkFlow_EndToEnd(t *testing.T) {
	db := newTestDB(t)
	blob := ossHelper.NewMemoryBlobService()
	ensure := NewItemEnsureService(db)
	files := NewFileVersionService(db, blob)
	review := NewBulkReviewService(db)

	ctx := context.Background()
	bimbel := uuid.New()
	tutor := uuid.New()
	student := uuid.New()

	sess := createSession(t, db, bimbel, sessionSeed{TutorID: &tutor, StartsAt: time.Now().Add(-48 * time.Hour)})
	addRoster(t, db, bimbel, sess, student)

	// 1) materialisasi item
	er, err := ensure.EnsureItems(ctx, bimbel, EnsureItemsFilter{}, 0)
	if err != nil || er.CreatedCount != 1 {
		t.Fatalf("ensure: created=%d err=%v", er.CreatedCount, err)
	}
	var item hwModel.HomeworkItemModel
	if err := db.Where("homework_item_bimbel_id = ?", bimbel).First(&item).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if item.HomeworkItemStatus != hwModel.HomeworkItemStatusAssigned {
		t.Fatalf("status awal = %s", item.HomeworkItemStatus)
	}

	// 2) siswa upload draft tanpa flag → status tidak bergerak
	in := baseUploadInput(bimbel, item.HomeworkItemID, hwModel.HomeworkFileSlotSubmission)
	in.UploaderID = &student
	if _, err := files.CreateFileVersion(ctx, in); err != nil {
		t.Fatalf("upload draft: %v", err)
	}
	if got := reloadItem(t, db, item.HomeworkItemID); got.HomeworkItemStatus != hwModel.HomeworkItemStatusAssigned {
		t.Fatalf("upload draft menggeser status ke %s", got.HomeworkItemStatus)
	}

	// 3) upload final dengan mark_submitted → submitted, versi 2
	in.MarkSubmittedOnUpload = true
	res, err := files.CreateFileVersion(ctx, in)
	if err != nil {
		t.Fatalf("upload final: %v", err)
	}
	if res.File.HomeworkFileVersion != 2 {
		t.Fatalf("versi final = %d, want 2", res.File.HomeworkFileVersion)
	}
	if res.StatusTo != hwModel.HomeworkItemStatusSubmitted {
		t.Fatalf("status setelah final = %s", res.StatusTo)
	}

	// 4) tutor review massal (tanpa kebijakan feedback)
	rr, err := review.MarkItemsReviewed(ctx, MarkReviewedInput{
		BimbelID:  bimbel,
		ItemIDs:   []uuid.UUID{item.HomeworkItemID},
		TutorID:   &tutor,
		ActorRole: "tutor",
		ActorID:   &tutor,
	})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if rr.ReviewedCount != 1 {
		t.Fatalf("reviewed=%d, want 1", rr.ReviewedCount)
	}
	final := reloadItem(t, db, item.HomeworkItemID)
	if final.HomeworkItemStatus != hwModel.HomeworkItemStatusReviewed {
		t.Fatalf("status akhir = %s", final.HomeworkItemStatus)
	}
	if final.HomeworkItemAssignedAt == nil || final.HomeworkItemSubmittedAt == nil || final.HomeworkItemReviewedAt == nil {
		t.Fatal("ketiga timestamp status harusnya terisi")
	}

	// 5) review ulang: bukan error, tapi nol perubahan
	rr2, err := review.MarkItemsReviewed(ctx, MarkReviewedInput{
		BimbelID: bimbel,
		ItemIDs:  []uuid.UUID{item.HomeworkItemID},
	})
	if err != nil {
		t.Fatalf("re-review: %v", err)
	}
	if rr2.ReviewedCount != 0 || rr2.SkippedNotSubmittedCount != 1 {
		t.Fatalf("re-review: reviewed=%d skipped=%d, want 0/1", rr2.ReviewedCount, rr2.SkippedNotSubmittedCount)
	}

	// 6) item terkunci untuk upload baru
	locked := baseUploadInput(bimbel, item.HomeworkItemID, hwModel.HomeworkFileSlotSubmission)
	if _, err := files.CreateFileVersion(ctx, locked); err == nil {
		t.Fatal("upload ke item reviewed harusnya ditolak")
	}
}
