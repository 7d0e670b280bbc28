package helper

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/Stevennnncz/ProyectoDiseno/internals/configs"
)

type TrashReaperConfig struct {
	Prefix        string
	RetentionDays int
	CronSchedule  string
	DryRun        bool
}

// ReaperTarget: tabla con soft-delete que el reaper purga.
type ReaperTarget struct{ Table, Col string }

var ReaperTargets = []ReaperTarget{
	{Table: "actas", Col: "deleted_at"},
}

func LoadTrashReaperConfig() TrashReaperConfig {
	return TrashReaperConfig{
		Prefix:        configs.GetEnv("REAPER_PREFIX", SpamPrefix),
		RetentionDays: configs.GetEnvInt("RETENTION_DAYS", 30),
		CronSchedule:  configs.GetEnv("CRON_SCHEDULE", "15 2 * * *"),
		DryRun:        configs.GetEnvBool("DRY_RUN", false),
	}
}

func (c TrashReaperConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// ── ENTRYPOINT: se llama desde main.go. svc puede ser nil (solo DB reaper).
func StartTrashReaperCron(db *gorm.DB, svc *OSSService) *cron.Cron {
	cfg := LoadTrashReaperConfig()

	if svc == nil {
		log.Printf("[TRASH-REAPER] OSS no configurado, solo DB reaper")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(cfg.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		now := time.Now()

		// 1) OSS spam cleaner
		if svc != nil {
			if err := runOSSReaper(ctx, svc, cfg.Prefix, now.Add(-cfg.Retention()), cfg.DryRun); err != nil {
				log.Printf("[TRASH-REAPER] OSS error: %v", err)
			}
		}

		// 2) DB soft-delete cleaner
		if _, err := RunDBReaper(ctx, db, now.Add(-cfg.Retention()), cfg.DryRun); err != nil {
			log.Printf("[TRASH-REAPER] DB error: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("[TRASH-REAPER] add cron falló: %v", err)
	}
	log.Printf("[TRASH-REAPER] started schedule=%q prefix=%q retention=%dd dryRun=%v",
		cfg.CronSchedule, cfg.Prefix, cfg.RetentionDays, cfg.DryRun)
	c.Start()
	return c
}

// ExpiredKeys filtra los objetos bajo prefix modificados antes de threshold.
func ExpiredKeys(objects []oss.ObjectProperties, prefix string, threshold time.Time) []string {
	var keys []string
	for _, obj := range objects {
		if obj.Key == "" || !strings.HasPrefix(obj.Key, prefix) {
			continue
		}
		if obj.LastModified.Before(threshold) {
			keys = append(keys, obj.Key)
		}
	}
	return keys
}

func runOSSReaper(ctx context.Context, svc *OSSService, prefix string, threshold time.Time, dryRun bool) error {
	log.Printf("[OSS-REAPER] scanning prefix=%q threshold=%s dry=%v", prefix, threshold.Format(time.RFC3339), dryRun)

	marker := oss.Marker("")
	var keysToDelete []string
	total := 0

	for {
		lor, err := svc.Bucket.ListObjects(oss.Prefix(prefix), marker, oss.MaxKeys(1000), oss.WithContext(ctx))
		if err != nil {
			return err
		}
		total += len(lor.Objects)
		keysToDelete = append(keysToDelete, ExpiredKeys(lor.Objects, prefix, threshold)...)
		if !lor.IsTruncated {
			break
		}
		marker = oss.Marker(lor.NextMarker)
	}

	if len(keysToDelete) == 0 {
		log.Printf("[OSS-REAPER] nothing to delete; scanned=%d under %q", total, prefix)
		return nil
	}
	if dryRun {
		log.Printf("[OSS-REAPER] DRY-RUN would delete %d/%d objects under %q", len(keysToDelete), total, prefix)
		return nil
	}

	deleted := deleteInBatches(ctx, keysToDelete, reaperBatchSize, svc.DeleteObjects)
	log.Printf("[OSS-REAPER] deleted %d objects (scanned=%d) under %q", deleted, total, prefix)
	return nil
}

// límite de OSS por llamada a DeleteObjects
const reaperBatchSize = 1000

// deleteInBatches borra en lotes de size; un lote fallido se registra y se
// sigue con el resto. Devuelve cuántas claves se borraron.
func deleteInBatches(ctx context.Context, keys []string, size int, del func(context.Context, []string) error) int {
	deleted := 0
	for i := 0; i < len(keys); i += size {
		end := min(i+size, len(keys))
		batch := keys[i:end]
		if err := del(ctx, batch); err != nil {
			log.Printf("[OSS-REAPER] delete batch %d-%d falló: %v", i, end, err)
			continue
		}
		deleted += len(batch)
	}
	return deleted
}

// RunDBReaper hard-delete de filas soft-deleted anteriores a cutoff.
func RunDBReaper(ctx context.Context, db *gorm.DB, cutoff time.Time, dryRun bool) (int64, error) {
	if db == nil {
		return 0, nil
	}

	var total int64
	for _, t := range ReaperTargets {
		where := t.Col + ` IS NOT NULL AND ` + t.Col + ` < ?`
		if dryRun {
			var n int64
			if err := db.WithContext(ctx).Table(t.Table).Where(where, cutoff).Count(&n).Error; err != nil {
				log.Printf("[DB-REAPER] %s: count error: %v", t.Table, err)
				continue
			}
			log.Printf("[DB-REAPER] DRY-RUN %s: would hard-delete %d rows", t.Table, n)
			continue
		}
		res := db.WithContext(ctx).Exec(`DELETE FROM `+t.Table+` WHERE `+where, cutoff)
		if err := res.Error; err != nil {
			log.Printf("[DB-REAPER] %s: delete error: %v", t.Table, err)
			continue
		}
		total += res.RowsAffected
		if res.RowsAffected > 0 {
			log.Printf("[DB-REAPER] %s: hard-deleted %d rows older than %s", t.Table, res.RowsAffected, cutoff.Format(time.RFC3339))
		}
	}
	if total == 0 && !dryRun {
		log.Printf("[DB-REAPER] nothing to delete (cutoff=%s)", cutoff.Format(time.RFC3339))
	}
	return total, nil
}
