// file: internals/features/homework/service/file_version_service.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	hwModel "bimbelku_backend/internals/features/homework/model"
	ossHelper "bimbelku_backend/internals/helpers/oss"
)

// Metadata (Postgres) dan bytes (OSS) gak bisa satu transaksi; urutannya:
// commit metadata dulu, tulis blob, kalau blob gagal jalankan transaksi
// kompensasi inline (hapus row file + pulihkan snapshot item) lalu lempar
// InternalError. Pembaca tidak pernah melihat state setengah jadi yang bertahan
// melewati request ini.
type FileVersionService struct {
	DB       *gorm.DB
	Blob     ossHelper.BlobService
	Notifier Notifier
	Audit    AuditWriter
}

func NewFileVersionService(db *gorm.DB, blob ossHelper.BlobService) *FileVersionService {
	return &FileVersionService{DB: db, Blob: blob, Notifier: LogNotifier{}, Audit: LogAuditWriter{}}
}

// Race "baca MAX(version), insert MAX+1" diselesaikan pakai unique index
// (bimbel, item, slot, version) + retry; dua uploader serentak ke slot yang
// sama gak mungkin dua-duanya commit versi kembar.
const maxVersionRetries = 3

type CreateFileVersionInput struct {
	BimbelID uuid.UUID
	ItemID   uuid.UUID
	Slot     hwModel.HomeworkFileSlot

	UploaderRole string
	UploaderID   *uuid.UUID

	Filename  string
	MimeType  string
	SizeBytes int64
	Checksum  string
	Bytes     []byte

	MarkSubmittedOnUpload bool
	LockWhenReviewed      bool
}

type CreateFileVersionResult struct {
	File       hwModel.HomeworkFileModel `json:"file"`
	StatusFrom hwModel.HomeworkItemStatus `json:"status_from"`
	StatusTo   hwModel.HomeworkItemStatus `json:"status_to"`
	SessionID  uuid.UUID                  `json:"session_id"`
	StudentID  uuid.UUID                  `json:"student_id"`
}

// snapshot pra-tulis buat restore verbatim saat kompensasi
type itemSnapshot struct {
	Status      hwModel.HomeworkItemStatus
	AssignedAt  *time.Time
	SubmittedAt *time.Time
}

func (s *FileVersionService) CreateFileVersion(ctx context.Context, in CreateFileVersionInput) (CreateFileVersionResult, error) {
	// validasi struktural: fail fast sebelum sentuh store
	if in.BimbelID == uuid.Nil || in.ItemID == uuid.Nil {
		return CreateFileVersionResult{}, fiber.NewError(fiber.StatusUnprocessableEntity, "bimbel_id/item_id wajib diisi")
	}
	if !in.Slot.Valid() {
		return CreateFileVersionResult{}, fiber.NewError(fiber.StatusUnprocessableEntity, "Slot file tidak dikenal: "+string(in.Slot))
	}
	if strings.TrimSpace(in.Filename) == "" {
		return CreateFileVersionResult{}, fiber.NewError(fiber.StatusUnprocessableEntity, "Nama file wajib diisi")
	}
	if len(in.Bytes) == 0 {
		return CreateFileVersionResult{}, fiber.NewError(fiber.StatusUnprocessableEntity, "File kosong")
	}

	var (
		res CreateFileVersionResult
		err error
	)
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		res, err = s.createOnce(ctx, in)
		if err != nil && isUniqueViolation(err) {
			continue // versi keburu dipakai uploader lain, hitung ulang
		}
		break
	}
	if err != nil {
		if isUniqueViolation(err) {
			return CreateFileVersionResult{}, fiber.NewError(fiber.StatusConflict, "Upload bersamaan ke slot yang sama, coba lagi")
		}
		return CreateFileVersionResult{}, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyUpload(ctx, UploadNotification{
			HomeworkItemID: in.ItemID,
			SessionID:      res.SessionID,
			StudentID:      res.StudentID,
			StatusFrom:     string(res.StatusFrom),
			StatusTo:       string(res.StatusTo),
		})
	}
	if s.Audit != nil {
		s.Audit.Write(ctx, AuditEntry{
			ActorID:   in.UploaderID,
			ActorRole: in.UploaderRole,
			Action:    "homework_file.create_version",
			EntityID:  res.File.HomeworkFileID,
			Metadata: datatypes.JSONMap{
				"slot":        string(in.Slot),
				"version":     res.File.HomeworkFileVersion,
				"size_bytes":  res.File.HomeworkFileSizeBytes,
				"mime_type":   res.File.HomeworkFileMimeType,
				"status_from": string(res.StatusFrom),
				"status_to":   string(res.StatusTo),
			},
		})
	}
	return res, nil
}

func (s *FileVersionService) createOnce(ctx context.Context, in CreateFileVersionInput) (CreateFileVersionResult, error) {
	var (
		res  CreateFileVersionResult
		snap itemSnapshot
		file hwModel.HomeworkFileModel
	)

	// ---- fase 1: transaksi metadata ----
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item hwModel.HomeworkItemModel
		if err := tx.
			Where("homework_item_id = ? AND homework_item_bimbel_id = ?", in.ItemID, in.BimbelID).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Homework item tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat homework item: "+err.Error())
		}

		if in.LockWhenReviewed && item.HomeworkItemStatus == hwModel.HomeworkItemStatusReviewed {
			return fiber.NewError(fiber.StatusConflict, "Item sudah reviewed dan terkunci untuk upload")
		}

		snap = itemSnapshot{
			Status:      item.HomeworkItemStatus,
			AssignedAt:  item.HomeworkItemAssignedAt,
			SubmittedAt: item.HomeworkItemSubmittedAt,
		}

		// versi berikutnya = MAX + 1 (default 1); race ditangkap unique index
		var maxVersion int
		if err := tx.Model(&hwModel.HomeworkFileModel{}).
			Where("homework_file_bimbel_id = ? AND homework_file_item_id = ? AND homework_file_slot = ?",
				in.BimbelID, in.ItemID, in.Slot).
			Select("COALESCE(MAX(homework_file_version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung versi file: "+err.Error())
		}

		file = hwModel.HomeworkFileModel{
			HomeworkFileBimbelID:     in.BimbelID,
			HomeworkFileItemID:       in.ItemID,
			HomeworkFileSlot:         in.Slot,
			HomeworkFileVersion:      maxVersion + 1,
			HomeworkFileFilename:     strings.TrimSpace(in.Filename),
			HomeworkFileMimeType:     in.MimeType,
			HomeworkFileSizeBytes:    in.SizeBytes,
			HomeworkFileChecksum:     in.Checksum,
			HomeworkFileUploaderRole: in.UploaderRole,
			HomeworkFileUploaderID:   in.UploaderID,
		}
		if err := tx.Create(&file).Error; err != nil {
			return err // biarkan mentah: retry loop perlu lihat unique violation
		}

		// tepat satu efek samping status, dari decision table
		now := time.Now()
		statusFrom := item.HomeworkItemStatus
		switch ResolveUploadEffect(in.Slot, in.MarkSubmittedOnUpload, item.HomeworkItemAssignedAt != nil) {
		case UploadEffectMarkSubmitted:
			if err := CanTransitionToSubmitted(item.HomeworkItemStatus); err != nil {
				return err
			}
			item.HomeworkItemStatus = hwModel.HomeworkItemStatusSubmitted
			item.HomeworkItemSubmittedAt = &now
			if item.HomeworkItemAssignedAt == nil {
				item.HomeworkItemAssignedAt = &now
			}
		case UploadEffectSetAssignedAt:
			item.HomeworkItemAssignedAt = &now
		case UploadEffectNone:
			// no-op
		}

		if err := tx.Model(&hwModel.HomeworkItemModel{}).
			Where("homework_item_id = ? AND homework_item_bimbel_id = ?", in.ItemID, in.BimbelID).
			Updates(map[string]any{
				"homework_item_status":       item.HomeworkItemStatus,
				"homework_item_assigned_at":  item.HomeworkItemAssignedAt,
				"homework_item_submitted_at": item.HomeworkItemSubmittedAt,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal update status item: "+err.Error())
		}

		res = CreateFileVersionResult{
			File:       file,
			StatusFrom: statusFrom,
			StatusTo:   item.HomeworkItemStatus,
			SessionID:  item.HomeworkItemSessionID,
			StudentID:  item.HomeworkItemStudentID,
		}
		return nil
	})
	if err != nil {
		return CreateFileVersionResult{}, err
	}

	// ---- fase 2: tulis bytes ke blob store (di luar transaksi metadata) ----
	putErr := s.Blob.Put(ctx, in.BimbelID, file.HomeworkFileID, ossHelper.BlobPayload{
		Bytes:       in.Bytes,
		ContentType: in.MimeType,
		SizeBytes:   in.SizeBytes,
		Checksum:    in.Checksum,
	})
	if putErr == nil {
		return res, nil
	}

	// ---- kompensasi: hapus row file + pulihkan snapshot item verbatim ----
	if cerr := s.compensate(ctx, in, file.HomeworkFileID, snap); cerr != nil {
		// kompensasi gagal = orphan metadata; minimal tercatat jelas di log
		log.Printf("[ERROR] kompensasi upload gagal (file=%s item=%s): %v", file.HomeworkFileID, in.ItemID, cerr)
	}
	return CreateFileVersionResult{}, fiber.NewError(fiber.StatusInternalServerError,
		"Gagal menyimpan file ke storage; perubahan metadata dibatalkan")
}

func (s *FileVersionService) compensate(ctx context.Context, in CreateFileVersionInput, fileID uuid.UUID, snap itemSnapshot) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("homework_file_id = ? AND homework_file_bimbel_id = ?", fileID, in.BimbelID).
			Delete(&hwModel.HomeworkFileModel{}).Error; err != nil {
			return err
		}
		return tx.Model(&hwModel.HomeworkItemModel{}).
			Where("homework_item_id = ? AND homework_item_bimbel_id = ?", in.ItemID, in.BimbelID).
			Updates(map[string]any{
				"homework_item_status":       snap.Status,
				"homework_item_assigned_at":  snap.AssignedAt,
				"homework_item_submitted_at": snap.SubmittedAt,
			}).Error
	})
}

// DownloadFile: metadata + bytes untuk boundary download.
func (s *FileVersionService) DownloadFile(ctx context.Context, bimbelID, fileID uuid.UUID) (hwModel.HomeworkFileModel, ossHelper.Blob, error) {
	var file hwModel.HomeworkFileModel
	if err := s.DB.WithContext(ctx).
		Where("homework_file_id = ? AND homework_file_bimbel_id = ?", fileID, bimbelID).
		First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return file, ossHelper.Blob{}, fiber.NewError(fiber.StatusNotFound, "File tidak ditemukan")
		}
		return file, ossHelper.Blob{}, fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat metadata file: "+err.Error())
	}
	blob, err := s.Blob.Get(ctx, bimbelID, fileID)
	if err != nil {
		return file, ossHelper.Blob{}, err
	}
	return file, blob, nil
}
