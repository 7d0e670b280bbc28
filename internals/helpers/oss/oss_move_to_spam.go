package helper

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

const SpamPrefix = "spam/"

func normalizeEndpoint(ep string) string {
	ep = strings.TrimSpace(ep)
	if ep == "" {
		return ep
	}
	if strings.HasPrefix(ep, "http://") || strings.HasPrefix(ep, "https://") {
		return ep
	}
	return "https://" + ep
}

// SpamKey: spam/YYYY/MM/DD/HHMMSS__basename
func SpamKey(srcKey string, now time.Time) string {
	return path.Join(
		strings.TrimSuffix(SpamPrefix, "/"),
		now.Format("2006"), now.Format("01"), now.Format("02"),
		fmt.Sprintf("%s__%s", now.Format("150405"), path.Base(srcKey)),
	)
}

// MoveToSpam copia el objeto a spam/ y borra el original (best-effort).
// Devuelve la clave destino; el reaper la elimina tras RETENTION_DAYS.
func (s *OSSService) MoveToSpam(ctx context.Context, srcKey string) (string, error) {
	if srcKey == "" {
		return "", fmt.Errorf("empty src key")
	}
	if strings.HasPrefix(srcKey, SpamPrefix) {
		return srcKey, nil
	}
	dstKey := SpamKey(srcKey, time.Now())

	if _, err := s.Bucket.CopyObject(srcKey, dstKey, oss.WithContext(ctx)); err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("copy %q -> %q: %w", srcKey, dstKey, err)
	}
	_ = s.Bucket.DeleteObject(srcKey, oss.WithContext(ctx)) // best-effort
	return dstKey, nil
}
