// file: internals/features/homework/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	hwController "bimbelku_backend/internals/features/homework/controller"
	ossHelper "bimbelku_backend/internals/helpers/oss"
)

// Base: /api/u/homework-items & /api/u/homework-files
func HomeworkUserRoutes(r fiber.Router, db *gorm.DB, blob ossHelper.BlobService) {
	itemCtrl := hwController.NewHomeworkItemController(db)
	fileCtrl := hwController.NewHomeworkFileController(db, blob)

	items := r.Group("/homework-items")
	items.Get("/list", itemCtrl.List)
	items.Post("/:id/files", fileCtrl.Upload)  // upload versi baru ke satu slot
	items.Get("/:id/files", fileCtrl.ListByItem)

	files := r.Group("/homework-files")
	files.Get("/:id/download", fileCtrl.Download)
}
