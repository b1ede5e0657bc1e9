// file: internals/features/homework/controller/homework_item_controller.go
package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"bimbelku_backend/internals/configs"
	dto "bimbelku_backend/internals/features/homework/dto"
	hwModel "bimbelku_backend/internals/features/homework/model"
	"bimbelku_backend/internals/features/homework/service"
	helper "bimbelku_backend/internals/helpers"
	helperAuth "bimbelku_backend/internals/helpers/auth"
	"bimbelku_backend/internals/helpers/dbtime"
)

type HomeworkItemController struct {
	DB        *gorm.DB
	Validator *validator.Validate

	Ensure *service.ItemEnsureService
	Review *service.BulkReviewService
	Sla    *service.SlaService
}

func NewHomeworkItemController(db *gorm.DB) *HomeworkItemController {
	return &HomeworkItemController{
		DB:        db,
		Validator: validator.New(),
		Ensure:    service.NewItemEnsureService(db),
		Review:    service.NewBulkReviewService(db),
		Sla:       service.NewSlaService(db),
	}
}

func applyItemFilters(q *gorm.DB, f *dto.ListHomeworkItemsQuery) *gorm.DB {
	if f == nil {
		return q
	}
	if f.Status != nil {
		q = q.Where("homework_item_status = ?", *f.Status)
	}
	if f.StudentID != nil {
		q = q.Where("homework_item_student_id = ?", *f.StudentID)
	}
	if f.SessionID != nil {
		q = q.Where("homework_item_session_id = ?", *f.SessionID)
	}
	return q
}

/* =========================
   Handlers
========================= */

// POST /api/a/homework-items/ensure (ADMIN/TUTOR)
func (ctrl *HomeworkItemController) EnsureItems(c *fiber.Ctx) error {
	bimbelID, err := helperAuth.GetBimbelIDFromToken(c)
	if err != nil {
		return err
	}

	var body dto.EnsureHomeworkItemsRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validator.Struct(&body); err != nil {
		return helper.JsonValidationError(c, helper.FieldErrors(err))
	}

	res, err := ctrl.Ensure.EnsureItems(c.UserContext(), bimbelID, body.ToFilter(), body.MaxRows)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Homework items dipastikan ada", res)
}

// POST /api/a/homework-items/mark-reviewed (ADMIN/TUTOR)
func (ctrl *HomeworkItemController) MarkReviewed(c *fiber.Ctx) error {
	bimbelID, err := helperAuth.GetBimbelIDFromToken(c)
	if err != nil {
		return err
	}
	actorID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	role, err := helperAuth.GetRoleFromToken(c)
	if err != nil {
		return err
	}

	var body dto.MarkReviewedRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validator.Struct(&body); err != nil {
		return helper.JsonValidationError(c, helper.FieldErrors(err))
	}

	in := service.MarkReviewedInput{
		BimbelID:            bimbelID,
		ItemIDs:             body.ItemIDs,
		RequireFeedbackFile: configs.RequireFeedbackFileToMarkReviewed,
		ActorID:             &actorID,
		ActorRole:           role,
	}
	// tutor cuma boleh me-review item di sesi miliknya; admin bebas se-tenant
	if role == "tutor" {
		in.TutorID = &actorID
	}

	res, err := ctrl.Review.MarkItemsReviewed(c.UserContext(), in)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Bulk review selesai", res)
}

// GET /api/a/homework-items/sla-summary (ADMIN)
func (ctrl *HomeworkItemController) SlaSummary(c *fiber.Ctx) error {
	bimbelID, err := helperAuth.GetBimbelIDFromToken(c)
	if err != nil {
		return err
	}

	var f service.SlaFilter
	if s := strings.TrimSpace(c.Query("tutor_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "tutor_id tidak valid")
		}
		f.TutorID = &id
	}
	if s := strings.TrimSpace(c.Query("branch_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "branch_id tidak valid")
		}
		f.BranchID = &id
	}
	if s := strings.TrimSpace(c.Query("from")); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "from tidak valid (RFC3339)")
		}
		f.From = &t
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "to tidak valid (RFC3339)")
		}
		f.ToExclusive = &t
	}

	res, err := ctrl.Sla.ComputeSlaSummary(c.UserContext(), bimbelID, f)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "SLA summary", res)
}

// GET /api/u/homework-items/list
func (ctrl *HomeworkItemController) List(c *fiber.Ctx) error {
	bimbelID, err := helperAuth.GetBimbelIDFromToken(c)
	if err != nil {
		return err
	}

	var f dto.ListHomeworkItemsQuery
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		st := hwModel.HomeworkItemStatus(strings.ToLower(s))
		switch st {
		case hwModel.HomeworkItemStatusAssigned, hwModel.HomeworkItemStatusSubmitted, hwModel.HomeworkItemStatusReviewed:
			f.Status = &st
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, "status tidak valid")
		}
	}
	if s := strings.TrimSpace(c.Query("student_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id tidak valid")
		}
		f.StudentID = &id
	}
	if s := strings.TrimSpace(c.Query("session_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "session_id tidak valid")
		}
		f.SessionID = &id
	}

	paging := helper.ResolvePaging(c, 20, 200)

	base := ctrl.DB.WithContext(c.UserContext()).
		Model(&hwModel.HomeworkItemModel{}).
		Where("homework_item_bimbel_id = ?", bimbelID)
	base = applyItemFilters(base, &f)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var items []hwModel.HomeworkItemModel
	if err := base.
		Order("homework_item_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&items).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// timestamps ditampilkan di timezone bimbel (kolom DB tetap UTC)
	out := make([]dto.HomeworkItemResponse, len(items))
	for i := range items {
		items[i].HomeworkItemAssignedAt = dbtime.ToBimbelTimePtr(c, items[i].HomeworkItemAssignedAt)
		items[i].HomeworkItemSubmittedAt = dbtime.ToBimbelTimePtr(c, items[i].HomeworkItemSubmittedAt)
		items[i].HomeworkItemReviewedAt = dbtime.ToBimbelTimePtr(c, items[i].HomeworkItemReviewedAt)
		items[i].HomeworkItemCreatedAt = dbtime.ToBimbelTime(c, items[i].HomeworkItemCreatedAt)
		out[i] = dto.ItemFromModel(&items[i])
	}
	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "Daftar homework items", out, &p)
}
