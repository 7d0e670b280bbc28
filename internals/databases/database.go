package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Stevennnncz/ProyectoDiseno/internals/configs"
)

var DB *gorm.DB

// ConnectDB abre la base según DB_DRIVER: postgres (default, Supabase) o
// sqlite (desarrollo local, migra los modelos dados).
func ConnectDB(models ...any) {
	driver := strings.ToLower(getenv("DB_DRIVER", "postgres"))
	log.Printf("🔌 Conexión a base de datos (%s)...", driver)

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "sqlite":
		db, err = OpenSQLite(getenv("DB_SQLITE_PATH", "file:actas.db?_pragma=foreign_keys(1)"), models...)
	default:
		db, err = OpenPostgres(postgresDSN())
	}
	if err != nil {
		log.Fatalf("❌ No se pudo conectar a la DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func postgresDSN() string {
	// Con PgBouncer usar su puerto (6543) y mantener PreferSimpleProtocol=true
	sslmode := getenv("DB_SSLMODE", "require")
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=actas&options=-c statement_timeout=5000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: configs.NewGormLogger()})
}

// OpenSQLite abre (y migra) una base SQLite. Una DSN en memoria queda con
// una sola conexión para que todas vean las mismas tablas.
func OpenSQLite(dsn string, models ...any) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: configs.NewGormLogger()})
	if err != nil {
		return nil, err
	}
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("migrar: %w", err)
		}
	}
	return db, nil
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	if DB.Dialector.Name() == "sqlite" {
		return
	}
	// ⚖️ Ajustar al límite de Supabase/PgBouncer
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
			return
		}
		// la consulta más frecuente: listado de actas por sesión
		DB.Exec("SELECT 1 FROM actas LIMIT 1")
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
