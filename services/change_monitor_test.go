package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bistroboard/bistroboard/models"
)

func setupMonitorDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.DBChange{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestChangeMonitorInvalidatesAndMarksProcessed(t *testing.T) {
	db := setupMonitorDB(t)
	cache := NewQueryCache(DefaultQueryCacheConfig())

	loader := func() (interface{}, error) { return "x", nil }
	cache.Fetch("orders:1:all", loader)
	cache.Fetch("dashboard:1:a:b", loader)
	cache.Fetch("reservations:1:all", loader)
	assert.Equal(t, 3, cache.Len())

	db.Create(&models.DBChange{TableName: "orders", RecordID: 7, ActionType: "UPDATE", ChangedAt: time.Now()})

	monitor := NewChangeMonitor(db, cache)
	monitor.Interval = 5 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	// An orders change dirties the order lists and the dashboard, nothing else.
	assert.Eventually(t, func() bool {
		return cache.Len() == 1
	}, time.Second, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		var change models.DBChange
		db.First(&change)
		return change.Processed
	}, time.Second, 5*time.Millisecond)
}

func TestChangeMonitorSkipsProcessedRows(t *testing.T) {
	db := setupMonitorDB(t)
	cache := NewQueryCache(DefaultQueryCacheConfig())

	db.Create(&models.DBChange{TableName: "orders", RecordID: 7, ActionType: "UPDATE", ChangedAt: time.Now(), Processed: true})

	loader := func() (interface{}, error) { return "x", nil }
	cache.Fetch("orders:1:all", loader)

	monitor := NewChangeMonitor(db, cache)
	monitor.Interval = 5 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, cache.Len(), "already-processed rows are not replayed")
}
