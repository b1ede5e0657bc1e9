// file: internals/features/homework/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	hwController "bimbelku_backend/internals/features/homework/controller"
)

/*
Catatan:
- Pastikan group /api/a sudah dipasangi AuthJWT + guard role admin/tutor;
  controller di sini percaya locals hasil middleware.
*/

// Base: /api/a/homework-items
func HomeworkAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := hwController.NewHomeworkItemController(db)

	g := r.Group("/homework-items")
	g.Post("/ensure", ctrl.EnsureItems)        // materialisasi item per roster
	g.Post("/mark-reviewed", ctrl.MarkReviewed) // bulk submitted → reviewed
	g.Get("/sla-summary", ctrl.SlaSummary)      // rollup durasi review
}
