// file: internals/route/routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bimbelku_backend/internals/configs"
	hwRoute "bimbelku_backend/internals/features/homework/route"
	ossHelper "bimbelku_backend/internals/helpers/oss"
	"bimbelku_backend/internals/middlewares"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, blob ossHelper.BlobService) {
	api := app.Group("/api", middlewares.AuthJWT(middlewares.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	}))

	// /api/a → admin & tutor (role di-enforce per-handler lewat token helper)
	admin := api.Group("/a")
	hwRoute.HomeworkAdminRoutes(admin, db)

	// /api/u → semua user login (siswa, tutor, admin)
	user := api.Group("/u")
	hwRoute.HomeworkUserRoutes(user, db, blob)
}
