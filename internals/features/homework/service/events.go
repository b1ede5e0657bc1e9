// file: internals/features/homework/service/events.go
package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/*
Kolaborator eksternal engine: notifikasi & audit log.
Engine cuma ngirim data polos; fan-out WA/email dan penulisan audit
sesungguhnya ada di luar (worker notifikasi & audit writer).
*/

// ReviewedNotification: dikirim tiap item yang sukses jadi reviewed.
type ReviewedNotification struct {
	HomeworkItemID uuid.UUID `json:"homework_item_id"`
	StudentID      uuid.UUID `json:"student_id"`
}

// UploadNotification: dikirim tiap upload file sukses (dua store konsisten).
type UploadNotification struct {
	HomeworkItemID uuid.UUID `json:"homework_item_id"`
	SessionID      uuid.UUID `json:"session_id"`
	StudentID      uuid.UUID `json:"student_id"`
	StatusFrom     string    `json:"status_from"`
	StatusTo       string    `json:"status_to"`
}

type Notifier interface {
	NotifyUpload(ctx context.Context, n UploadNotification)
	NotifyReviewed(ctx context.Context, ns []ReviewedNotification)
}

// AuditEntry: identitas aktor + aksi + entity + metadata bag bebas (JSONB).
type AuditEntry struct {
	ActorID   *uuid.UUID        `json:"actor_id,omitempty"`
	ActorRole string            `json:"actor_role"`
	Action    string            `json:"action"`
	EntityID  uuid.UUID         `json:"entity_id"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
}

type AuditWriter interface {
	Write(ctx context.Context, e AuditEntry)
}

// --------------------------------------------------
// Default impl: log saja (buat dev / sampai worker siap)
// --------------------------------------------------

type LogNotifier struct{}

func (LogNotifier) NotifyUpload(ctx context.Context, n UploadNotification) {
	log.Printf("[NOTIF] upload item=%s session=%s student=%s %s→%s",
		n.HomeworkItemID, n.SessionID, n.StudentID, n.StatusFrom, n.StatusTo)
}

func (LogNotifier) NotifyReviewed(ctx context.Context, ns []ReviewedNotification) {
	for _, n := range ns {
		log.Printf("[NOTIF] reviewed item=%s student=%s", n.HomeworkItemID, n.StudentID)
	}
}

type LogAuditWriter struct{}

func (LogAuditWriter) Write(ctx context.Context, e AuditEntry) {
	log.Printf("[AUDIT] actor=%v role=%s action=%s entity=%s meta=%v",
		e.ActorID, e.ActorRole, e.Action, e.EntityID, e.Metadata)
}
