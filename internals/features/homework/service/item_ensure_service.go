// file: internals/features/homework/service/item_ensure_service.go
package service

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	hwModel "bimbelku_backend/internals/features/homework/model"
)

const maxEnsureRows = 500

/*
ItemEnsureService: materialisasi lazy homework item per pasangan (sesi, siswa).

Idempoten: pasangan yang sudah punya item di-skip diam-diam lewat
ON CONFLICT DO NOTHING pada unique (bimbel, sesi, siswa): gak pernah error,
gak pernah dobel row.
*/
type ItemEnsureService struct {
	DB *gorm.DB
}

func NewItemEnsureService(db *gorm.DB) *ItemEnsureService {
	return &ItemEnsureService{DB: db}
}

type EnsureItemsFilter struct {
	StudentIDs  []uuid.UUID
	TutorID     *uuid.UUID
	BranchID    *uuid.UUID
	From        *time.Time
	ToExclusive *time.Time
}

type EnsureItemsResult struct {
	CreatedCount int `json:"created_count"`
	ScannedCount int `json:"scanned_count"`
}

type rosterPair struct {
	SessionID uuid.UUID `gorm:"column:session_id"`
	StudentID uuid.UUID `gorm:"column:student_id"`
}

func (s *ItemEnsureService) EnsureItems(ctx context.Context, bimbelID uuid.UUID, f EnsureItemsFilter, maxRows int) (EnsureItemsResult, error) {
	if bimbelID == uuid.Nil {
		return EnsureItemsResult{}, fiber.NewError(fiber.StatusUnprocessableEntity, "bimbel_id wajib diisi")
	}
	if maxRows <= 0 || maxRows > maxEnsureRows {
		maxRows = maxEnsureRows
	}

	// Roster pairs dari sesi non-batal, terbaru dulu, di-cap maxRows.
	q := s.DB.WithContext(ctx).
		Table("class_session_students AS css").
		Select("css.session_student_session_id AS session_id, css.session_student_student_id AS student_id").
		Joins("JOIN class_sessions AS cs ON cs.class_session_id = css.session_student_session_id").
		Where("css.session_student_bimbel_id = ?", bimbelID).
		Where("cs.class_session_bimbel_id = ?", bimbelID).
		Where("cs.class_session_is_canceled = ?", false).
		Where("cs.class_session_deleted_at IS NULL")

	if len(f.StudentIDs) > 0 {
		q = q.Where("css.session_student_student_id IN ?", f.StudentIDs)
	}
	if f.TutorID != nil {
		q = q.Where("cs.class_session_tutor_id = ?", *f.TutorID)
	}
	if f.BranchID != nil {
		q = q.Where("cs.class_session_branch_id = ?", *f.BranchID)
	}
	if f.From != nil {
		q = q.Where("cs.class_session_starts_at >= ?", *f.From)
	}
	if f.ToExclusive != nil {
		q = q.Where("cs.class_session_starts_at < ?", *f.ToExclusive)
	}

	var pairs []rosterPair
	if err := q.Order("cs.class_session_starts_at DESC").Limit(maxRows).Scan(&pairs).Error; err != nil {
		return EnsureItemsResult{}, fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat roster: "+err.Error())
	}

	res := EnsureItemsResult{ScannedCount: len(pairs)}
	if len(pairs) == 0 {
		return res, nil
	}

	now := time.Now()
	for _, p := range pairs {
		item := hwModel.HomeworkItemModel{
			HomeworkItemBimbelID:   bimbelID,
			HomeworkItemSessionID:  p.SessionID,
			HomeworkItemStudentID:  p.StudentID,
			HomeworkItemStatus:     hwModel.HomeworkItemStatusAssigned,
			HomeworkItemAssignedAt: &now,
		}
		tx := s.DB.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&item)
		if tx.Error != nil {
			// unique race dengan uploader pertama → tetap idempoten, bukan error
			if isUniqueViolation(tx.Error) {
				continue
			}
			return res, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat homework item: "+tx.Error.Error())
		}
		res.CreatedCount += int(tx.RowsAffected)
	}
	return res, nil
}
