package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/bistroboard/bistroboard/live"
	"github.com/bistroboard/bistroboard/models"
)

// ChangeMonitor polls the db_changes feed, invalidates the cached lists the
// change touched and pushes a live event. It picks up writes that bypass the
// controllers (migrations, fixtures, other processes).
type ChangeMonitor struct {
	DB       *gorm.DB
	Cache    *QueryCache
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB, cache *QueryCache) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		Cache:    cache,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

// cachePrefixes maps a changed table to the cache key prefixes it dirties.
// Orders and reservations also dirty the dashboard aggregates.
var cachePrefixes = map[string][]string{
	"orders":          {"orders:", "dashboard:"},
	"reservations":    {"reservations:", "dashboard:"},
	"tables":          {"tables:", "dashboard:"},
	"menu_items":      {"menu:"},
	"customers":       {"customers:"},
	"posts":           {"posts:"},
	"content_reports": {"reports:"},
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	if err := cm.DB.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		log.Printf("change monitor: fetch: %v", err)
		return
	}

	for _, change := range changes {
		for _, prefix := range cachePrefixes[change.TableName] {
			cm.Cache.InvalidatePrefix(prefix)
		}

		switch change.TableName {
		case "orders", "reservations", "tables":
			live.BroadcastDashboardUpdate(map[string]interface{}{
				"table":     change.TableName,
				"record_id": change.RecordID,
				"action":    change.ActionType,
			})
		}

		if err := cm.DB.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			log.Printf("change monitor: mark processed: %v", err)
			return
		}
	}
}
