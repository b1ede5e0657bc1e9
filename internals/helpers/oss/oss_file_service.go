// file: internals/helpers/oss/oss_file_service.go
package helper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/*
BlobService adalah facade byte-store yang seragam untuk engine homework.

Kontrak:
- Put/Get/Delete selalu ter-scope (bimbelID, fileID); storage fisik dipakai
  bersama lintas tenant, jadi key tanpa tenant adalah bug.
- Get mengembalikan bytes persis seperti yang di-Put (tidak ada transcoding;
  checksum di metadata DB harus tetap cocok).
*/

type BlobPayload struct {
	Bytes       []byte
	ContentType string
	SizeBytes   int64
	Checksum    string
}

type Blob struct {
	Bytes       []byte
	ContentType string
	SizeBytes   int64
}

type BlobService interface {
	Put(ctx context.Context, bimbelID, fileID uuid.UUID, p BlobPayload) error
	Get(ctx context.Context, bimbelID, fileID uuid.UUID) (Blob, error)
	Delete(ctx context.Context, bimbelID, fileID uuid.UUID) error
}

// --------------------------------------------------
// Implementasi berbasis Aliyun OSS
// --------------------------------------------------

type OSSBlobService struct {
	svc *OSSService
}

// Buat instance dari ENV. prefix opsional (contoh: "homework/")
func NewOSSBlobServiceFromEnv(prefix string) (*OSSBlobService, error) {
	s, err := NewOSSServiceFromEnv(prefix)
	if err != nil {
		return nil, err
	}
	return &OSSBlobService{svc: s}, nil
}

func (b *OSSBlobService) Put(ctx context.Context, bimbelID, fileID uuid.UUID, p BlobPayload) error {
	if bimbelID == uuid.Nil || fileID == uuid.Nil {
		return fiber.NewError(fiber.StatusBadRequest, "bimbel_id/file_id tidak valid")
	}
	if len(p.Bytes) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "File kosong")
	}
	key := b.svc.HomeworkObjectKey(bimbelID, fileID)
	if err := b.svc.UploadBytes(ctx, key, p.Bytes, p.ContentType); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("Gagal upload ke OSS: %v", err))
	}
	return nil
}

func (b *OSSBlobService) Get(ctx context.Context, bimbelID, fileID uuid.UUID) (Blob, error) {
	if bimbelID == uuid.Nil || fileID == uuid.Nil {
		return Blob{}, fiber.NewError(fiber.StatusBadRequest, "bimbel_id/file_id tidak valid")
	}
	key := b.svc.HomeworkObjectKey(bimbelID, fileID)
	data, ct, err := b.svc.DownloadBytes(ctx, key)
	if err != nil {
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "nosuchkey") || strings.Contains(low, "404") {
			return Blob{}, fiber.NewError(fiber.StatusNotFound, "File tidak ditemukan di storage")
		}
		return Blob{}, fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("Gagal ambil object: %v", err))
	}
	return Blob{Bytes: data, ContentType: ct, SizeBytes: int64(len(data))}, nil
}

func (b *OSSBlobService) Delete(ctx context.Context, bimbelID, fileID uuid.UUID) error {
	if bimbelID == uuid.Nil || fileID == uuid.Nil {
		return fiber.NewError(fiber.StatusBadRequest, "bimbel_id/file_id tidak valid")
	}
	key := b.svc.HomeworkObjectKey(bimbelID, fileID)
	if err := b.svc.DeleteObject(ctx, key); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("Gagal hapus object: %v", err))
	}
	return nil
}

// --------------------------------------------------
// Implementasi in-memory (local dev & unit test)
// --------------------------------------------------

type memoryBlobKey struct {
	BimbelID uuid.UUID
	FileID   uuid.UUID
}

type MemoryBlobService struct {
	mu    sync.RWMutex
	blobs map[memoryBlobKey]Blob
}

func NewMemoryBlobService() *MemoryBlobService {
	return &MemoryBlobService{blobs: make(map[memoryBlobKey]Blob)}
}

func (m *MemoryBlobService) Put(ctx context.Context, bimbelID, fileID uuid.UUID, p BlobPayload) error {
	if bimbelID == uuid.Nil || fileID == uuid.Nil {
		return fiber.NewError(fiber.StatusBadRequest, "bimbel_id/file_id tidak valid")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := append([]byte(nil), p.Bytes...)
	m.blobs[memoryBlobKey{bimbelID, fileID}] = Blob{
		Bytes:       cp,
		ContentType: p.ContentType,
		SizeBytes:   int64(len(cp)),
	}
	return nil
}

func (m *MemoryBlobService) Get(ctx context.Context, bimbelID, fileID uuid.UUID) (Blob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[memoryBlobKey{bimbelID, fileID}]
	if !ok {
		return Blob{}, fiber.NewError(fiber.StatusNotFound, "File tidak ditemukan di storage")
	}
	return b, nil
}

func (m *MemoryBlobService) Delete(ctx context.Context, bimbelID, fileID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, memoryBlobKey{bimbelID, fileID})
	return nil
}

// Len: jumlah object tersimpan (dipakai assert di test)
func (m *MemoryBlobService) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}

// --------------------------------------------------
// Mock untuk unit test (failure injection)
// --------------------------------------------------

type MockBlobService struct {
	PutFn    func(ctx context.Context, bimbelID, fileID uuid.UUID, p BlobPayload) error
	GetFn    func(ctx context.Context, bimbelID, fileID uuid.UUID) (Blob, error)
	DeleteFn func(ctx context.Context, bimbelID, fileID uuid.UUID) error
}

func (m *MockBlobService) Put(ctx context.Context, bimbelID, fileID uuid.UUID, p BlobPayload) error {
	if m.PutFn == nil {
		return errors.New("not implemented")
	}
	return m.PutFn(ctx, bimbelID, fileID, p)
}

func (m *MockBlobService) Get(ctx context.Context, bimbelID, fileID uuid.UUID) (Blob, error) {
	if m.GetFn == nil {
		return Blob{}, errors.New("not implemented")
	}
	return m.GetFn(ctx, bimbelID, fileID)
}

func (m *MockBlobService) Delete(ctx context.Context, bimbelID, fileID uuid.UUID) error {
	if m.DeleteFn == nil {
		return errors.New("not implemented")
	}
	return m.DeleteFn(ctx, bimbelID, fileID)
}
