package models

import (
	"io"
	"log"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"
)

// setupTestDBWithSilentLogger creates an in-memory test database with a
// silent logger to suppress SQL logs. With no models given it migrates the
// full session schema.
func setupTestDBWithSilentLogger(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()

	silentLogger := glog.New(
		log.New(io.Discard, "", log.LstdFlags),
		glog.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  glog.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: silentLogger,
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	if len(entities) == 0 {
		entities = []interface{}{&VoiceSession{}}
	}
	if err := db.AutoMigrate(entities...); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}
