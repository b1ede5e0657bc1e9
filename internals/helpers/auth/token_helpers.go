// file: internals/helpers/auth/token_helpers.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Nama locals yang di-set middleware AuthJWT
const (
	LocUserID         = "user_id"
	LocRole           = "role"
	LocActiveBimbelID = "active_bimbel_id"
	LocBimbelAdminIDs = "bimbel_admin_ids"
	LocBimbelTutorIDs = "bimbel_tutor_ids"
)

// --- util kecil biar gak duplikasi parsing ---
func firstUUIDFromLocals(c *fiber.Ctx, key string) (uuid.UUID, error) {
	v := c.Locals(key)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" tidak ditemukan di token")
	}

	switch t := v.(type) {
	case []string:
		if len(t) == 0 || strings.TrimSpace(t[0]) == "" {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" kosong di token")
		}
		return uuid.Parse(strings.TrimSpace(t[0]))
	case []interface{}:
		if len(t) == 0 {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" kosong di token")
		}
		if s, ok := t[0].(string); ok {
			return uuid.Parse(strings.TrimSpace(s))
		}
	case interface{}:
		if s, ok := t.(string); ok {
			if strings.TrimSpace(s) == "" {
				return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" kosong di token")
			}
			return uuid.Parse(strings.TrimSpace(s))
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Format "+key+" tidak valid di token")
}

// === Tenant (bimbel) ===

// GetBimbelIDFromToken: tenant aktif milik caller (admin atau tutor).
// Prioritas: active_bimbel_id → bimbel_admin_ids → bimbel_tutor_ids.
func GetBimbelIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	if id, err := firstUUIDFromLocals(c, LocActiveBimbelID); err == nil {
		return id, nil
	}
	if id, err := firstUUIDFromLocals(c, LocBimbelAdminIDs); err == nil {
		return id, nil
	}
	return firstUUIDFromLocals(c, LocBimbelTutorIDs)
}

// GetTutorBimbelIDFromToken: khusus scope tutor.
func GetTutorBimbelIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return firstUUIDFromLocals(c, LocBimbelTutorIDs)
}

// === User ===

// Ambil user_id dari c.Locals("user_id").
// Return 401 kalau belum login, 400 kalau formatnya tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
	}

	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
		}
		return id, nil
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
	}
}

// GetRoleFromToken: role caller (student/tutor/admin). Kosong = 401.
func GetRoleFromToken(c *fiber.Ctx) (string, error) {
	if s, ok := c.Locals(LocRole).(string); ok {
		if r := strings.ToLower(strings.TrimSpace(s)); r != "" {
			return r, nil
		}
	}
	return "", fiber.NewError(fiber.StatusUnauthorized, "Role tidak ditemukan di token")
}
