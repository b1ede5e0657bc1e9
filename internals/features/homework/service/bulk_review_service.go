// file: internals/features/homework/service/bulk_review_service.go
package service

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	hwModel "bimbelku_backend/internals/features/homework/model"
)

/*
BulkReviewService: transisi massal submitted → reviewed.

Item yang tidak eligible di-skip dan dihitung, bukan di-error-kan; exception
disimpan untuk masalah struktural (input kosong, tidak ada item yang visible
sama sekali di scope tenant).
*/
type BulkReviewService struct {
	DB       *gorm.DB
	Notifier Notifier
	Audit    AuditWriter
}

func NewBulkReviewService(db *gorm.DB) *BulkReviewService {
	return &BulkReviewService{DB: db, Notifier: LogNotifier{}, Audit: LogAuditWriter{}}
}

type MarkReviewedInput struct {
	BimbelID uuid.UUID
	ItemIDs  []uuid.UUID

	// TutorID membatasi ke item yang sesinya dimiliki tutor tsb (scope tutor).
	TutorID *uuid.UUID

	// Kebijakan: wajib minimal satu file slot feedback sebelum reviewed.
	RequireFeedbackFile bool

	ActorID   *uuid.UUID
	ActorRole string
}

type ChangedItem struct {
	ID         uuid.UUID                  `json:"id"`
	FromStatus hwModel.HomeworkItemStatus `json:"from_status"`
	ToStatus   hwModel.HomeworkItemStatus `json:"to_status"`
	SessionID  uuid.UUID                  `json:"session_id"`
	StudentID  uuid.UUID                  `json:"student_id"`
}

type MarkReviewedResult struct {
	SelectedCount            int           `json:"selected_count"`
	ReviewedCount            int           `json:"reviewed_count"`
	SkippedNotSubmittedCount int           `json:"skipped_not_submitted_count"`
	ChangedItems             []ChangedItem `json:"changed_items"`
}

func (s *BulkReviewService) MarkItemsReviewed(ctx context.Context, in MarkReviewedInput) (MarkReviewedResult, error) {
	if in.BimbelID == uuid.Nil {
		return MarkReviewedResult{}, fiber.NewError(fiber.StatusUnprocessableEntity, "bimbel_id wajib diisi")
	}

	// dedupe + buang uuid kosong
	seen := make(map[uuid.UUID]struct{}, len(in.ItemIDs))
	ids := make([]uuid.UUID, 0, len(in.ItemIDs))
	for _, id := range in.ItemIDs {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return MarkReviewedResult{}, fiber.NewError(fiber.StatusUnprocessableEntity, "Daftar item kosong")
	}

	var res MarkReviewedResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) load item visible di scope tenant (+scope tutor bila ada)
		q := tx.Model(&hwModel.HomeworkItemModel{}).
			Where("homework_item_bimbel_id = ? AND homework_item_id IN ?", in.BimbelID, ids)
		if in.TutorID != nil {
			q = q.Where(`homework_item_session_id IN (
				SELECT class_session_id FROM class_sessions
				WHERE class_session_bimbel_id = ? AND class_session_tutor_id = ?
			)`, in.BimbelID, *in.TutorID)
		}

		var items []hwModel.HomeworkItemModel
		if err := q.Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat homework items: "+err.Error())
		}
		if len(items) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Tidak ada homework item yang bisa diakses di scope ini")
		}
		res.SelectedCount = len(items)

		// 2) partisi: hanya submitted yang kandidat; sisanya di-skip (dihitung)
		candidates := make([]hwModel.HomeworkItemModel, 0, len(items))
		for _, it := range items {
			if it.HomeworkItemStatus == hwModel.HomeworkItemStatusSubmitted {
				candidates = append(candidates, it)
			} else {
				res.SkippedNotSubmittedCount++
			}
		}

		// 3) kebijakan feedback-file: cukup cek keberadaan, bukan jumlah
		if in.RequireFeedbackFile && len(candidates) > 0 {
			candIDs := make([]uuid.UUID, len(candidates))
			for i, it := range candidates {
				candIDs[i] = it.HomeworkItemID
			}
			var withFeedback []uuid.UUID
			if err := tx.Model(&hwModel.HomeworkFileModel{}).
				Where("homework_file_bimbel_id = ? AND homework_file_item_id IN ? AND homework_file_slot = ?",
					in.BimbelID, candIDs, hwModel.HomeworkFileSlotFeedback).
				Distinct().
				Pluck("homework_file_item_id", &withFeedback).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek file feedback: "+err.Error())
			}
			has := make(map[uuid.UUID]struct{}, len(withFeedback))
			for _, id := range withFeedback {
				has[id] = struct{}{}
			}
			kept := candidates[:0]
			for _, it := range candidates {
				if _, ok := has[it.HomeworkItemID]; ok {
					kept = append(kept, it)
				}
			}
			candidates = kept
		}

		if len(candidates) == 0 {
			return nil // semua di-skip; bukan error
		}

		// 4) guard defensif persis sebelum nulis
		eligible := make([]uuid.UUID, 0, len(candidates))
		byID := make(map[uuid.UUID]hwModel.HomeworkItemModel, len(candidates))
		for _, it := range candidates {
			if err := CanTransitionToReviewed(it.HomeworkItemStatus); err != nil {
				return err
			}
			eligible = append(eligible, it.HomeworkItemID)
			byID[it.HomeworkItemID] = it
		}

		// 5) bulk update bersyarat: guard status di WHERE wajib ada; tanpa itu,
		//    item yang keburu maju/mundur sejak step 1 bisa ke-clobber
		now := time.Now()
		upd := tx.Model(&hwModel.HomeworkItemModel{}).
			Where("homework_item_bimbel_id = ? AND homework_item_id IN ? AND homework_item_status = ?",
				in.BimbelID, eligible, hwModel.HomeworkItemStatusSubmitted).
			Updates(map[string]any{
				"homework_item_status":      hwModel.HomeworkItemStatusReviewed,
				"homework_item_reviewed_at": now,
			})
		if upd.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal update status reviewed: "+upd.Error.Error())
		}
		if upd.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Semua item keburu berubah status, tidak ada yang di-review")
		}
		res.ReviewedCount = int(upd.RowsAffected)

		// 6) before/after buat notifikasi & audit: baca ulang yang benar-benar berubah
		var reviewedIDs []uuid.UUID
		if err := tx.Model(&hwModel.HomeworkItemModel{}).
			Where("homework_item_bimbel_id = ? AND homework_item_id IN ? AND homework_item_status = ? AND homework_item_reviewed_at = ?",
				in.BimbelID, eligible, hwModel.HomeworkItemStatusReviewed, now).
			Pluck("homework_item_id", &reviewedIDs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat hasil review: "+err.Error())
		}
		for _, id := range reviewedIDs {
			it := byID[id]
			res.ChangedItems = append(res.ChangedItems, ChangedItem{
				ID:         id,
				FromStatus: hwModel.HomeworkItemStatusSubmitted,
				ToStatus:   hwModel.HomeworkItemStatusReviewed,
				SessionID:  it.HomeworkItemSessionID,
				StudentID:  it.HomeworkItemStudentID,
			})
		}
		return nil
	})
	if err != nil {
		return MarkReviewedResult{}, err
	}

	if s.Notifier != nil && len(res.ChangedItems) > 0 {
		ns := make([]ReviewedNotification, len(res.ChangedItems))
		for i, ch := range res.ChangedItems {
			ns[i] = ReviewedNotification{HomeworkItemID: ch.ID, StudentID: ch.StudentID}
		}
		s.Notifier.NotifyReviewed(ctx, ns)
	}
	if s.Audit != nil {
		for _, ch := range res.ChangedItems {
			s.Audit.Write(ctx, AuditEntry{
				ActorID:   in.ActorID,
				ActorRole: in.ActorRole,
				Action:    "homework_item.mark_reviewed",
				EntityID:  ch.ID,
				Metadata: datatypes.JSONMap{
					"status_from": string(ch.FromStatus),
					"status_to":   string(ch.ToStatus),
				},
			})
		}
	}
	return res, nil
}
