// file: internals/features/homework/model/homework_item_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sesuaikan dengan CHECK: 'assigned','submitted','reviewed'
// State machine maju-terus: assigned → submitted → reviewed (terminal).
type HomeworkItemStatus string

const (
	HomeworkItemStatusAssigned  HomeworkItemStatus = "assigned"
	HomeworkItemStatusSubmitted HomeworkItemStatus = "submitted"
	HomeworkItemStatusReviewed  HomeworkItemStatus = "reviewed"
)

// HomeworkItemModel: satu unit PR per (bimbel, sesi, siswa).
// Timestamps per-status diisi sekali saat transisi masuk state ybs, tidak pernah mundur.
// Engine tidak pernah menghapus row ini.
type HomeworkItemModel struct {
	HomeworkItemID       uuid.UUID `gorm:"type:uuid;primaryKey;column:homework_item_id" json:"homework_item_id"`
	HomeworkItemBimbelID uuid.UUID `gorm:"type:uuid;not null;column:homework_item_bimbel_id;uniqueIndex:uq_homework_item_pair,priority:1" json:"homework_item_bimbel_id"`

	HomeworkItemSessionID uuid.UUID `gorm:"type:uuid;not null;column:homework_item_session_id;uniqueIndex:uq_homework_item_pair,priority:2" json:"homework_item_session_id"`
	HomeworkItemStudentID uuid.UUID `gorm:"type:uuid;not null;column:homework_item_student_id;uniqueIndex:uq_homework_item_pair,priority:3" json:"homework_item_student_id"`

	HomeworkItemStatus HomeworkItemStatus `gorm:"type:varchar(16);not null;default:'assigned';column:homework_item_status" json:"homework_item_status"`

	HomeworkItemAssignedAt  *time.Time `gorm:"column:homework_item_assigned_at" json:"homework_item_assigned_at,omitempty"`
	HomeworkItemSubmittedAt *time.Time `gorm:"column:homework_item_submitted_at" json:"homework_item_submitted_at,omitempty"`
	HomeworkItemReviewedAt  *time.Time `gorm:"column:homework_item_reviewed_at" json:"homework_item_reviewed_at,omitempty"`

	HomeworkItemCreatedAt time.Time `gorm:"not null;autoCreateTime;column:homework_item_created_at" json:"homework_item_created_at"`
	HomeworkItemUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:homework_item_updated_at" json:"homework_item_updated_at"`
}

func (HomeworkItemModel) TableName() string { return "homework_items" }

func (m *HomeworkItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.HomeworkItemID == uuid.Nil {
		m.HomeworkItemID = uuid.New()
	}
	return nil
}
