// file: internals/features/homework/service/status_guard.go
package service

import (
	"github.com/gofiber/fiber/v2"

	hwModel "bimbelku_backend/internals/features/homework/model"
)

/*
Guard transisi status homework item. Pure function, tanpa I/O.

	assigned → submitted → reviewed (terminal)

Re-submit saat masih submitted itu legal (tutor minta redo).
Guard dipanggil dua kali: optimis (sebelum nulis) dan defensif (persis sebelum
bulk update) supaya race gak bisa diam-diam ngerusak state machine.
*/

// CanTransitionToSubmitted: legal dari assigned atau submitted.
func CanTransitionToSubmitted(s hwModel.HomeworkItemStatus) error {
	switch s {
	case hwModel.HomeworkItemStatusAssigned, hwModel.HomeworkItemStatusSubmitted:
		return nil
	}
	return fiber.NewError(fiber.StatusConflict,
		"Transisi status tidak diizinkan: "+string(s)+" → submitted")
}

// CanTransitionToReviewed: legal hanya dari submitted.
func CanTransitionToReviewed(s hwModel.HomeworkItemStatus) error {
	if s == hwModel.HomeworkItemStatusSubmitted {
		return nil
	}
	return fiber.NewError(fiber.StatusConflict,
		"Transisi status tidak diizinkan: "+string(s)+" → reviewed")
}

/*
Decision table efek samping status saat upload file.

Tiga perilaku yang saling eksklusif, di-resolve dari
(slot, mark_submitted_on_upload, assigned_at sudah terisi?).
Sengaja tabel eksplisit, bukan if bertingkat, biar gampang diaudit & dites
terpisah dari storage.
*/

type UploadEffect int

const (
	UploadEffectNone UploadEffect = iota
	UploadEffectSetAssignedAt
	UploadEffectMarkSubmitted
)

type uploadEffectRule struct {
	Slot          *hwModel.HomeworkFileSlot // nil = slot apa saja
	MarkSubmitted bool
	AssignedAtSet *bool // nil = tidak peduli
	Effect        UploadEffect
}

var slotAssignment = hwModel.HomeworkFileSlotAssignment
var boolFalse = false

var uploadEffectRules = []uploadEffectRule{
	// mark_submitted_on_upload menang atas segalanya
	{Slot: nil, MarkSubmitted: true, AssignedAtSet: nil, Effect: UploadEffectMarkSubmitted},
	// upload materi pertama (slot assignment, assigned_at belum ada) → stempel assigned_at
	{Slot: &slotAssignment, MarkSubmitted: false, AssignedAtSet: &boolFalse, Effect: UploadEffectSetAssignedAt},
}

// ResolveUploadEffect: baris pertama yang match menang; tanpa match = no-op.
func ResolveUploadEffect(slot hwModel.HomeworkFileSlot, markSubmitted, assignedAtSet bool) UploadEffect {
	for _, r := range uploadEffectRules {
		if r.MarkSubmitted != markSubmitted {
			continue
		}
		if r.Slot != nil && *r.Slot != slot {
			continue
		}
		if r.AssignedAtSet != nil && *r.AssignedAtSet != assignedAtSet {
			continue
		}
		return r.Effect
	}
	return UploadEffectNone
}
