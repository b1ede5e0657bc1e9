// file: internals/features/homework/service/sla_service.go
package service

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	hwModel "bimbelku_backend/internals/features/homework/model"
)

// SlaService: rollup read-only durasi review PR per bimbel. Tidak pernah mutasi.
type SlaService struct {
	DB *gorm.DB
}

func NewSlaService(db *gorm.DB) *SlaService {
	return &SlaService{DB: db}
}

type SlaFilter struct {
	StudentIDs  []uuid.UUID
	TutorID     *uuid.UUID
	BranchID    *uuid.UUID
	From        *time.Time
	ToExclusive *time.Time
}

type SlaBreakdownRow struct {
	BranchID   *uuid.UUID       `json:"branch_id,omitempty"`
	TutorID    *uuid.UUID       `json:"tutor_id,omitempty"`
	BranchName string           `json:"branch_name"`
	TutorName  string           `json:"tutor_name"`
	Counts     map[string]int64 `json:"counts_by_status"`

	AvgReviewHours        *float64 `json:"avg_review_hours,omitempty"`
	ReviewedDurationCount int64    `json:"reviewed_duration_count"`
}

type SlaSummary struct {
	TotalItems            int64            `json:"total_items"`
	CountsByStatus        map[string]int64 `json:"counts_by_status"`
	AvgReviewHours        *float64         `json:"avg_review_hours,omitempty"`
	ReviewedDurationCount int64            `json:"reviewed_duration_count"`

	BreakdownRows []SlaBreakdownRow `json:"breakdown_rows"`
}

type slaRow struct {
	Status      hwModel.HomeworkItemStatus `gorm:"column:status"`
	SubmittedAt *time.Time                 `gorm:"column:submitted_at"`
	ReviewedAt  *time.Time                 `gorm:"column:reviewed_at"`
	BranchID    *uuid.UUID                 `gorm:"column:branch_id"`
	TutorID     *uuid.UUID                 `gorm:"column:tutor_id"`
	BranchName  *string                    `gorm:"column:branch_name"`
	TutorName   *string                    `gorm:"column:tutor_name"`
}

func (s *SlaService) ComputeSlaSummary(ctx context.Context, bimbelID uuid.UUID, f SlaFilter) (SlaSummary, error) {
	if bimbelID == uuid.Nil {
		return SlaSummary{}, fiber.NewError(fiber.StatusUnprocessableEntity, "bimbel_id wajib diisi")
	}

	q := s.DB.WithContext(ctx).
		Table("homework_items AS hi").
		Select(`hi.homework_item_status AS status,
			hi.homework_item_submitted_at AS submitted_at,
			hi.homework_item_reviewed_at AS reviewed_at,
			cs.class_session_branch_id AS branch_id,
			cs.class_session_tutor_id AS tutor_id,
			cs.class_session_branch_name_snapshot AS branch_name,
			cs.class_session_tutor_name_snapshot AS tutor_name`).
		Joins("JOIN class_sessions AS cs ON cs.class_session_id = hi.homework_item_session_id").
		Where("hi.homework_item_bimbel_id = ?", bimbelID)

	if len(f.StudentIDs) > 0 {
		q = q.Where("hi.homework_item_student_id IN ?", f.StudentIDs)
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

	var rows []slaRow
	if err := q.Scan(&rows).Error; err != nil {
		return SlaSummary{}, fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat data SLA: "+err.Error())
	}

	sum := SlaSummary{
		TotalItems:     int64(len(rows)),
		CountsByStatus: emptyStatusCounts(),
		BreakdownRows:  []SlaBreakdownRow{},
	}

	type pairKey struct {
		BranchID uuid.UUID
		TutorID  uuid.UUID
	}
	type pairAgg struct {
		row        SlaBreakdownRow
		totalHours float64
	}
	pairs := make(map[pairKey]*pairAgg)

	var totalHours float64
	for _, r := range rows {
		sum.CountsByStatus[string(r.Status)]++

		key := pairKey{}
		if r.BranchID != nil {
			key.BranchID = *r.BranchID
		}
		if r.TutorID != nil {
			key.TutorID = *r.TutorID
		}
		agg, ok := pairs[key]
		if !ok {
			agg = &pairAgg{row: SlaBreakdownRow{
				BranchID:   r.BranchID,
				TutorID:    r.TutorID,
				BranchName: strOrEmpty(r.BranchName),
				TutorName:  strOrEmpty(r.TutorName),
				Counts:     emptyStatusCounts(),
			}}
			pairs[key] = agg
		}
		agg.row.Counts[string(r.Status)]++

		// durasi review hanya dihitung kalau dua timestamp ada dan durasinya
		// non-negatif (jaga-jaga timestamp yang dikoreksi manual / out-of-order)
		if h, ok := reviewDurationHours(r.SubmittedAt, r.ReviewedAt); ok {
			totalHours += h
			sum.ReviewedDurationCount++
			agg.totalHours += h
			agg.row.ReviewedDurationCount++
		}
	}

	if sum.ReviewedDurationCount > 0 {
		avg := totalHours / float64(sum.ReviewedDurationCount)
		sum.AvgReviewHours = &avg
	}

	for _, agg := range pairs {
		if agg.row.ReviewedDurationCount > 0 {
			avg := agg.totalHours / float64(agg.row.ReviewedDurationCount)
			agg.row.AvgReviewHours = &avg
		}
		sum.BreakdownRows = append(sum.BreakdownRows, agg.row)
	}
	sort.Slice(sum.BreakdownRows, func(i, j int) bool {
		a, b := sum.BreakdownRows[i], sum.BreakdownRows[j]
		if a.BranchName != b.BranchName {
			return a.BranchName < b.BranchName
		}
		return a.TutorName < b.TutorName
	})

	return sum, nil
}

func emptyStatusCounts() map[string]int64 {
	return map[string]int64{
		string(hwModel.HomeworkItemStatusAssigned):  0,
		string(hwModel.HomeworkItemStatusSubmitted): 0,
		string(hwModel.HomeworkItemStatusReviewed):  0,
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func reviewDurationHours(submittedAt, reviewedAt *time.Time) (float64, bool) {
	if submittedAt == nil || reviewedAt == nil {
		return 0, false
	}
	d := reviewedAt.Sub(*submittedAt)
	if d < 0 {
		return 0, false
	}
	return d.Hours(), true
}
