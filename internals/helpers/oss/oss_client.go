// file: internals/helpers/oss/oss_client.go
package helper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func getEnvInt(key string, def int) int {
	if v := getEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// batas ukuran upload homework (guard di controller + BodyLimit fiber);
// override via ENV HOMEWORK_MAX_UPLOAD_MB
const defaultMaxUploadMB = 20

func MaxUploadSize() int64 {
	mb := getEnvInt("HOMEWORK_MAX_UPLOAD_MB", defaultMaxUploadMB)
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return int64(mb) * 1024 * 1024
}

/* =======================================================================
   OSS Service
======================================================================= */

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string // optional: "homework/"
}

func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := getEnv("ALI_OSS_ENDPOINT")
	ak := getEnv("ALI_OSS_ACCESS_KEY")
	sk := getEnv("ALI_OSS_SECRET_KEY")
	sts := getEnv("ALI_OSS_SECURITY_TOKEN")
	bucketName := getEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var (
		client *oss.Client
		err    error
	)
	if sts != "" {
		client, err = oss.New(endpoint, ak, sk, oss.SecurityToken(sts))
	} else {
		client, err = oss.New(endpoint, ak, sk)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// Verifikasi ringan lokasi bucket
	if loc, err := client.GetBucketLocation(bucketName); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 && se.Code == "AccessDenied" {
			log.Printf("[OSS] warn: skip location check due to AccessDenied (bucket=%s). Continuing.", bucketName)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", bucketName, loc)
	}

	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		Prefix:     strings.Trim(prefix, "/"),
	}, nil
}

// HomeworkObjectKey: key object untuk file homework, selalu ter-scope tenant.
// Bentuk: [prefix/]<bimbel_id>/<file_id>
func (s *OSSService) HomeworkObjectKey(bimbelID, fileID uuid.UUID) string {
	key := bimbelID.String() + "/" + fileID.String()
	if s.Prefix != "" {
		key = s.Prefix + "/" + key
	}
	return key
}

/* =======================================================================
   Upload / Download / Delete
======================================================================= */

func (s *OSSService) UploadStream(ctx context.Context, key string, r io.Reader, contentType string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("attachment"),
		oss.CacheControl("private, max-age=0, no-cache"),
	}
	return s.Bucket.PutObject(key, r, opts...)
}

func (s *OSSService) UploadBytes(ctx context.Context, key string, data []byte, contentType string) error {
	return s.UploadStream(ctx, key, bytes.NewReader(data), contentType)
}

// DownloadBytes: ambil object utuh + content-type dari metadata.
func (s *OSSService) DownloadBytes(ctx context.Context, key string) ([]byte, string, error) {
	if key == "" {
		return nil, "", fmt.Errorf("empty key")
	}
	rc, err := s.Bucket.GetObject(key, oss.WithContext(ctx))
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", err
	}

	ct := "application/octet-stream"
	if meta, err := s.Bucket.GetObjectDetailedMeta(key); err == nil {
		if v := meta.Get("Content-Type"); v != "" {
			ct = v
		}
	}
	return data, ct, nil
}

func (s *OSSService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSService) PublicURL(key string) string {
	ep := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, ep, key)
}
