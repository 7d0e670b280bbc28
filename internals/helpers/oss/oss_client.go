// internals/helpers/oss/oss_client.go
package helper

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	helpers "github.com/Stevennnncz/ProyectoDiseno/internals/helpers"
)

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

/* =======================================================================
   OSS Service
======================================================================= */

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string // opcional: "actas"
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
		client, err = oss.New(normalizeEndpoint(endpoint), ak, sk, oss.SecurityToken(sts))
	} else {
		client, err = oss.New(normalizeEndpoint(endpoint), ak, sk)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// Verificación ligera del bucket
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

/* =======================================================================
   Upload & Delete
======================================================================= */

func (s *OSSService) UploadStream(ctx context.Context, key string, r io.Reader, contentType string, inline bool, cacheForever bool) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
	}
	if inline {
		opts = append(opts, oss.ContentDisposition("inline"))
	}
	if cacheForever {
		opts = append(opts, oss.CacheControl("public, max-age=31536000, immutable"))
	}
	return s.Bucket.PutObject(key, r, opts...)
}

func (s *OSSService) DeleteObject(ctx context.Context, key string) error {
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSService) DeleteObjects(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.Bucket.DeleteObjects(keys, oss.WithContext(ctx), oss.DeleteObjectsQuiet(true))
	return err
}

/* =======================================================================
   Public URL & Key utils
======================================================================= */

func (s *OSSService) PublicURL(key string) string {
	return PublicURLFor(s.Endpoint, s.BucketName, key)
}

// PublicURLFor: ALI_OSS_PUBLIC_BASE (CDN) si existe; si no, el host virtual del bucket.
func PublicURLFor(endpoint, bucket, key string) string {
	if key == "" {
		return ""
	}
	if base := getEnv("ALI_OSS_PUBLIC_BASE"); base != "" {
		return strings.TrimRight(base, "/") + "/" + key
	}
	if endpoint == "" || bucket == "" {
		return ""
	}
	end := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", bucket, end, key)
}

// ObjectKey arma "{prefix}/{dir}/{slug}_{YYYYMMDD_HHMMSS}_{rand}{ext}".
func (s *OSSService) ObjectKey(dir, name, ext string, now time.Time) string {
	return BuildObjectKey(s.Prefix, dir, name, ext, now, helpers.RandHex(3))
}

func BuildObjectKey(prefix, dir, name, ext string, now time.Time, suffix string) string {
	base := helpers.Slugify(name, 80)
	file := fmt.Sprintf("%s_%s", base, now.Format("20060102_150405"))
	if suffix != "" {
		file += "_" + suffix
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	parts := []string{}
	for _, p := range []string{strings.Trim(prefix, "/"), strings.Trim(dir, "/")} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, file+strings.ToLower(ext))
	return path.Join(parts...)
}

func isNotFound(err error) bool {
	if e, ok := err.(oss.ServiceError); ok {
		return e.StatusCode == 404
	}
	return false
}
