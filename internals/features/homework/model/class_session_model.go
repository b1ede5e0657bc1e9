// file: internals/features/homework/model/class_session_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassSessionModel: sesi les. Engine homework cuma baca tabel ini (roster &
// rollup SLA); penjadwalan ada di feature lain.
// Snapshot nama cabang/tutor disimpan di row biar rollup gak perlu join ke
// tabel master (idiom snapshot yang sama dipakai di submissions).
type ClassSessionModel struct {
	ClassSessionID       uuid.UUID `gorm:"type:uuid;primaryKey;column:class_session_id" json:"class_session_id"`
	ClassSessionBimbelID uuid.UUID `gorm:"type:uuid;not null;index;column:class_session_bimbel_id" json:"class_session_bimbel_id"`

	ClassSessionBranchID *uuid.UUID `gorm:"type:uuid;column:class_session_branch_id" json:"class_session_branch_id,omitempty"`
	ClassSessionTutorID  *uuid.UUID `gorm:"type:uuid;column:class_session_tutor_id" json:"class_session_tutor_id,omitempty"`

	ClassSessionBranchNameSnapshot *string `gorm:"type:varchar(120);column:class_session_branch_name_snapshot" json:"class_session_branch_name_snapshot,omitempty"`
	ClassSessionTutorNameSnapshot  *string `gorm:"type:varchar(120);column:class_session_tutor_name_snapshot" json:"class_session_tutor_name_snapshot,omitempty"`

	ClassSessionStartsAt   time.Time `gorm:"not null;column:class_session_starts_at" json:"class_session_starts_at"`
	ClassSessionIsCanceled bool      `gorm:"not null;default:false;column:class_session_is_canceled" json:"class_session_is_canceled"`

	ClassSessionCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:class_session_created_at" json:"class_session_created_at"`
	ClassSessionUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:class_session_updated_at" json:"class_session_updated_at"`
	ClassSessionDeletedAt gorm.DeletedAt `gorm:"column:class_session_deleted_at;index" json:"class_session_deleted_at,omitempty"`
}

func (ClassSessionModel) TableName() string { return "class_sessions" }

func (m *ClassSessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassSessionID == uuid.Nil {
		m.ClassSessionID = uuid.New()
	}
	return nil
}

// SessionStudentModel: roster siswa per sesi.
type SessionStudentModel struct {
	SessionStudentID       uuid.UUID `gorm:"type:uuid;primaryKey;column:session_student_id" json:"session_student_id"`
	SessionStudentBimbelID uuid.UUID `gorm:"type:uuid;not null;column:session_student_bimbel_id;uniqueIndex:uq_session_student_pair,priority:1" json:"session_student_bimbel_id"`

	SessionStudentSessionID uuid.UUID `gorm:"type:uuid;not null;column:session_student_session_id;uniqueIndex:uq_session_student_pair,priority:2" json:"session_student_session_id"`
	SessionStudentStudentID uuid.UUID `gorm:"type:uuid;not null;column:session_student_student_id;uniqueIndex:uq_session_student_pair,priority:3" json:"session_student_student_id"`

	SessionStudentCreatedAt time.Time `gorm:"not null;autoCreateTime;column:session_student_created_at" json:"session_student_created_at"`
}

func (SessionStudentModel) TableName() string { return "class_session_students" }

func (m *SessionStudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.SessionStudentID == uuid.Nil {
		m.SessionStudentID = uuid.New()
	}
	return nil
}
