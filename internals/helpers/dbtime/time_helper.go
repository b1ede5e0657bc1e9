// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Nama locals mengikuti yg di-set di middleware AuthJWT
const (
	LocBimbelTimezone = "bimbel_timezone" // string, misal "Asia/Jakarta"
	LocBimbelLoc      = "bimbel_loc"      // *time.Location
)

// Ambil *time.Location berdasarkan token:
// 1) Prioritas: c.Locals("bimbel_loc") yang diisi middleware
// 2) Kalau belum ada: coba baca "bimbel_timezone" (string) lalu LoadLocation
// 3) Fallback: Asia/Jakarta
// 4) Fallback terakhir: time.UTC
func GetBimbelLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return time.UTC
	}

	if v := c.Locals(LocBimbelLoc); v != nil {
		if loc, ok := v.(*time.Location); ok && loc != nil {
			return loc
		}
	}

	if v := c.Locals(LocBimbelTimezone); v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			s = strings.TrimSpace(s)
			if loc, err := time.LoadLocation(s); err == nil {
				// cache ke locals biar next call lebih murah
				c.Locals(LocBimbelLoc, loc)
				return loc
			}
		}
	}

	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		c.Locals(LocBimbelLoc, loc)
		return loc
	}

	return time.UTC
}

// ToBimbelTime mengonversi waktu (biasanya dari DB = UTC) ke timezone bimbel.
// Kalau t.IsZero() → dikembalikan apa adanya.
func ToBimbelTime(c *fiber.Ctx, t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	loc := GetBimbelLocation(c)
	if loc == nil {
		return t
	}
	return t.In(loc)
}

// Versi pointer, biar gampang dipakai di DTO yg pakai *time.Time
func ToBimbelTimePtr(c *fiber.Ctx, t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := ToBimbelTime(c, *t)
	return &v
}
