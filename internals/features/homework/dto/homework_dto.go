// file: internals/features/homework/dto/homework_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	hwModel "bimbelku_backend/internals/features/homework/model"
	"bimbelku_backend/internals/features/homework/service"
)

//
// =========================================================
// REQUEST DTO
// =========================================================
//

type EnsureHomeworkItemsRequest struct {
	StudentIDs  []uuid.UUID `json:"student_ids,omitempty"`
	TutorID     *uuid.UUID  `json:"tutor_id,omitempty"`
	BranchID    *uuid.UUID  `json:"branch_id,omitempty"`
	From        *time.Time  `json:"from,omitempty"`
	ToExclusive *time.Time  `json:"to_exclusive,omitempty"`

	// 0 = pakai default (500). Di-clamp service, tapi tolak nilai aneh di sini.
	MaxRows int `json:"max_rows,omitempty" validate:"omitempty,min=1,max=500"`
}

func (r EnsureHomeworkItemsRequest) ToFilter() service.EnsureItemsFilter {
	return service.EnsureItemsFilter{
		StudentIDs:  r.StudentIDs,
		TutorID:     r.TutorID,
		BranchID:    r.BranchID,
		From:        r.From,
		ToExclusive: r.ToExclusive,
	}
}

type MarkReviewedRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids" validate:"required,min=1"`
}

type ListHomeworkItemsQuery struct {
	Status    *hwModel.HomeworkItemStatus
	StudentID *uuid.UUID
	SessionID *uuid.UUID
}

//
// =========================================================
// RESPONSE DTO
// =========================================================
//

type HomeworkItemResponse struct {
	HomeworkItemID uuid.UUID `json:"homework_item_id"`
	SessionID      uuid.UUID `json:"session_id"`
	StudentID      uuid.UUID `json:"student_id"`

	Status hwModel.HomeworkItemStatus `json:"status"`

	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func ItemFromModel(m *hwModel.HomeworkItemModel) HomeworkItemResponse {
	return HomeworkItemResponse{
		HomeworkItemID: m.HomeworkItemID,
		SessionID:      m.HomeworkItemSessionID,
		StudentID:      m.HomeworkItemStudentID,
		Status:         m.HomeworkItemStatus,
		AssignedAt:     m.HomeworkItemAssignedAt,
		SubmittedAt:    m.HomeworkItemSubmittedAt,
		ReviewedAt:     m.HomeworkItemReviewedAt,
		CreatedAt:      m.HomeworkItemCreatedAt,
	}
}

type HomeworkFileResponse struct {
	HomeworkFileID uuid.UUID `json:"homework_file_id"`
	ItemID         uuid.UUID `json:"item_id"`

	Slot    hwModel.HomeworkFileSlot `json:"slot"`
	Version int                      `json:"version"`

	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`

	UploaderRole string     `json:"uploader_role"`
	UploaderID   *uuid.UUID `json:"uploader_id,omitempty"`

	UploadedAt time.Time `json:"uploaded_at"`
}

func FileFromModel(m *hwModel.HomeworkFileModel) HomeworkFileResponse {
	return HomeworkFileResponse{
		HomeworkFileID: m.HomeworkFileID,
		ItemID:         m.HomeworkFileItemID,
		Slot:           m.HomeworkFileSlot,
		Version:        m.HomeworkFileVersion,
		Filename:       m.HomeworkFileFilename,
		MimeType:       m.HomeworkFileMimeType,
		SizeBytes:      m.HomeworkFileSizeBytes,
		Checksum:       m.HomeworkFileChecksum,
		UploaderRole:   m.HomeworkFileUploaderRole,
		UploaderID:     m.HomeworkFileUploaderID,
		UploadedAt:     m.HomeworkFileUploadedAt,
	}
}

// UploadFileResponse: descriptor + delta status buat konsumen downstream
// (notifikasi, audit); dipakai juga sebagai body response upload.
type UploadFileResponse struct {
	File       HomeworkFileResponse       `json:"file"`
	StatusFrom hwModel.HomeworkItemStatus `json:"status_from"`
	StatusTo   hwModel.HomeworkItemStatus `json:"status_to"`
	SessionID  uuid.UUID                  `json:"session_id"`
	StudentID  uuid.UUID                  `json:"student_id"`
}

func UploadFromResult(r *service.CreateFileVersionResult) UploadFileResponse {
	return UploadFileResponse{
		File:       FileFromModel(&r.File),
		StatusFrom: r.StatusFrom,
		StatusTo:   r.StatusTo,
		SessionID:  r.SessionID,
		StudentID:  r.StudentID,
	}
}
