// file: internals/features/homework/controller/homework_file_controller.go
package controller

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "bimbelku_backend/internals/features/homework/dto"
	hwModel "bimbelku_backend/internals/features/homework/model"
	"bimbelku_backend/internals/features/homework/service"
	helper "bimbelku_backend/internals/helpers"
	helperAuth "bimbelku_backend/internals/helpers/auth"
	ossHelper "bimbelku_backend/internals/helpers/oss"
)

type HomeworkFileController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Files     *service.FileVersionService
}

func NewHomeworkFileController(db *gorm.DB, blob ossHelper.BlobService) *HomeworkFileController {
	return &HomeworkFileController{
		DB:        db,
		Validator: validator.New(),
		Files:     service.NewFileVersionService(db, blob),
	}
}

/* =========================
   Handlers
========================= */

// POST /api/u/homework-items/:id/files (multipart/form-data)
// Form: file, slot (assignment|submission|feedback),
//
//	mark_submitted_on_upload (bool), lock_when_reviewed (bool, default true)
func (ctrl *HomeworkFileController) Upload(c *fiber.Ctx) error {
	bimbelID, err := helperAuth.GetBimbelIDFromToken(c)
	if err != nil {
		return err
	}
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	role, err := helperAuth.GetRoleFromToken(c)
	if err != nil {
		return err
	}

	itemID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID item tidak valid")
	}

	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File tidak ditemukan di form")
	}
	if fh.Size > ossHelper.MaxUploadSize() {
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, "File terlalu besar")
	}

	src, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Gagal membaca file")
	}
	defer src.Close()
	raw, err := io.ReadAll(src)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Gagal membaca file")
	}

	mime := fh.Header.Get(fiber.HeaderContentType)
	if strings.TrimSpace(mime) == "" {
		head := raw
		if len(head) > 512 {
			head = head[:512]
		}
		mime = http.DetectContentType(head)
	}

	sum := sha256.Sum256(raw)

	slot := hwModel.HomeworkFileSlot(strings.ToLower(strings.TrimSpace(c.FormValue("slot"))))
	markSubmitted := parseFormBool(c.FormValue("mark_submitted_on_upload"), false)
	lockWhenReviewed := parseFormBool(c.FormValue("lock_when_reviewed"), true)

	in := service.CreateFileVersionInput{
		BimbelID:              bimbelID,
		ItemID:                itemID,
		Slot:                  slot,
		UploaderRole:          role,
		UploaderID:            &userID,
		Filename:              fh.Filename,
		MimeType:              mime,
		SizeBytes:             int64(len(raw)),
		Checksum:              hex.EncodeToString(sum[:]),
		Bytes:                 raw,
		MarkSubmittedOnUpload: markSubmitted,
		LockWhenReviewed:      lockWhenReviewed,
	}

	res, err := ctrl.Files.CreateFileVersion(c.UserContext(), in)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "File berhasil diupload", dto.UploadFromResult(&res))
}

// GET /api/u/homework-files/:id/download
func (ctrl *HomeworkFileController) Download(c *fiber.Ctx) error {
	bimbelID, err := helperAuth.GetBimbelIDFromToken(c)
	if err != nil {
		return err
	}
	fileID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID file tidak valid")
	}

	file, blob, err := ctrl.Files.DownloadFile(c.UserContext(), bimbelID, fileID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	c.Set(fiber.HeaderContentType, file.HomeworkFileMimeType)
	c.Set(fiber.HeaderContentDisposition, helper.ContentDispositionAttachment(file.HomeworkFileFilename))
	return c.Send(blob.Bytes)
}

// GET /api/u/homework-items/:id/files, daftar versi file milik satu item
func (ctrl *HomeworkFileController) ListByItem(c *fiber.Ctx) error {
	bimbelID, err := helperAuth.GetBimbelIDFromToken(c)
	if err != nil {
		return err
	}
	itemID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID item tidak valid")
	}

	var files []hwModel.HomeworkFileModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("homework_file_bimbel_id = ? AND homework_file_item_id = ?", bimbelID, itemID).
		Order("homework_file_slot ASC, homework_file_version ASC").
		Find(&files).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.HomeworkFileResponse, len(files))
	for i := range files {
		out[i] = dto.FileFromModel(&files[i])
	}
	return helper.JsonList(c, "Daftar file homework", out, nil)
}

func parseFormBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
