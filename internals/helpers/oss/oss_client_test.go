// file: internals/helpers/oss/oss_client_test.go
package helper

import (
	"testing"

	"github.com/google/uuid"
)

func TestHomeworkObjectKey(t *testing.T) {
	bimbel := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	file := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	s := &OSSService{Prefix: "homework"}
	got := s.HomeworkObjectKey(bimbel, file)
	want := "homework/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222"
	if got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}

	s = &OSSService{}
	got = s.HomeworkObjectKey(bimbel, file)
	want = "11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222"
	if got != want {
		t.Fatalf("key tanpa prefix = %q, want %q", got, want)
	}
}

func TestMaxUploadSize(t *testing.T) {
	t.Setenv("HOMEWORK_MAX_UPLOAD_MB", "")
	if got := MaxUploadSize(); got != 20*1024*1024 {
		t.Fatalf("default = %d, want 20MB", got)
	}

	t.Setenv("HOMEWORK_MAX_UPLOAD_MB", "5")
	if got := MaxUploadSize(); got != 5*1024*1024 {
		t.Fatalf("override = %d, want 5MB", got)
	}

	// nilai non-angka / nol jatuh ke default, bukan mematikan upload
	t.Setenv("HOMEWORK_MAX_UPLOAD_MB", "banyak")
	if got := MaxUploadSize(); got != 20*1024*1024 {
		t.Fatalf("invalid = %d, want 20MB", got)
	}
	t.Setenv("HOMEWORK_MAX_UPLOAD_MB", "0")
	if got := MaxUploadSize(); got != 20*1024*1024 {
		t.Fatalf("zero = %d, want 20MB", got)
	}
}

func TestPublicURL(t *testing.T) {
	s := &OSSService{Endpoint: "https://oss-ap-southeast-5.aliyuncs.com", BucketName: "bimbelku"}
	got := s.PublicURL("homework/a/b")
	want := "https://bimbelku.oss-ap-southeast-5.aliyuncs.com/homework/a/b"
	if got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}
