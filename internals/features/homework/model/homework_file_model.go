// file: internals/features/homework/model/homework_file_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sesuaikan dengan CHECK: 'assignment','submission','feedback'
type HomeworkFileSlot string

const (
	HomeworkFileSlotAssignment HomeworkFileSlot = "assignment"
	HomeworkFileSlotSubmission HomeworkFileSlot = "submission"
	HomeworkFileSlotFeedback   HomeworkFileSlot = "feedback"
)

func (s HomeworkFileSlot) Valid() bool {
	switch s {
	case HomeworkFileSlotAssignment, HomeworkFileSlotSubmission, HomeworkFileSlotFeedback:
		return true
	}
	return false
}

// HomeworkFileModel: satu artefak ber-versi milik HomeworkItem.
// Version = integer positif terkecil > semua versi sebelumnya untuk (item, slot);
// dijaga unique index uq_homework_file_version + retry loop di service.
// Row hanya dibuat oleh FileVersionService dan hanya dihapus oleh jalur kompensasinya.
type HomeworkFileModel struct {
	HomeworkFileID       uuid.UUID `gorm:"type:uuid;primaryKey;column:homework_file_id" json:"homework_file_id"`
	HomeworkFileBimbelID uuid.UUID `gorm:"type:uuid;not null;column:homework_file_bimbel_id;uniqueIndex:uq_homework_file_version,priority:1" json:"homework_file_bimbel_id"`

	HomeworkFileItemID uuid.UUID        `gorm:"type:uuid;not null;column:homework_file_item_id;uniqueIndex:uq_homework_file_version,priority:2" json:"homework_file_item_id"`
	HomeworkFileSlot   HomeworkFileSlot `gorm:"type:varchar(16);not null;column:homework_file_slot;uniqueIndex:uq_homework_file_version,priority:3" json:"homework_file_slot"`

	HomeworkFileVersion int `gorm:"not null;column:homework_file_version;uniqueIndex:uq_homework_file_version,priority:4" json:"homework_file_version"`

	HomeworkFileFilename  string `gorm:"type:varchar(255);not null;column:homework_file_filename" json:"homework_file_filename"`
	HomeworkFileMimeType  string `gorm:"type:varchar(127);not null;column:homework_file_mime_type" json:"homework_file_mime_type"`
	HomeworkFileSizeBytes int64  `gorm:"not null;default:0;column:homework_file_size_bytes" json:"homework_file_size_bytes"`
	HomeworkFileChecksum  string `gorm:"type:varchar(128);not null;default:'';column:homework_file_checksum" json:"homework_file_checksum"`

	HomeworkFileUploaderRole string     `gorm:"type:varchar(16);not null;column:homework_file_uploader_role" json:"homework_file_uploader_role"`
	HomeworkFileUploaderID   *uuid.UUID `gorm:"type:uuid;column:homework_file_uploader_id" json:"homework_file_uploader_id,omitempty"`

	HomeworkFileUploadedAt time.Time `gorm:"not null;autoCreateTime;column:homework_file_uploaded_at" json:"homework_file_uploaded_at"`
}

func (HomeworkFileModel) TableName() string { return "homework_files" }

func (m *HomeworkFileModel) BeforeCreate(tx *gorm.DB) error {
	if m.HomeworkFileID == uuid.Nil {
		m.HomeworkFileID = uuid.New()
	}
	return nil
}
