package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/bistroboard/bistroboard/models"
)

// RegisterChangelog installs gorm callbacks that append a db_changes row
// after every create, update and delete on the watched tables. The change
// monitor polls these rows to invalidate cached lists and push live events.
func RegisterChangelog(db *gorm.DB) error {
	watched := map[string]bool{
		"orders":          true,
		"reservations":    true,
		"tables":          true,
		"menu_items":      true,
		"customers":       true,
		"posts":           true,
		"content_reports": true,
	}

	record := func(action string) func(tx *gorm.DB) {
		return func(tx *gorm.DB) {
			if tx.Statement == nil || tx.Statement.Schema == nil {
				return
			}
			table := tx.Statement.Table
			if !watched[table] || tx.Error != nil {
				return
			}

			var recordID int64
			if field := tx.Statement.Schema.LookUpField("ID"); field != nil && tx.Statement.ReflectValue.IsValid() {
				if v, zero := field.ValueOf(tx.Statement.Context, tx.Statement.ReflectValue); !zero {
					if id, ok := v.(uint); ok {
						recordID = int64(id)
					}
				}
			}

			change := models.DBChange{
				TableName:  table,
				RecordID:   recordID,
				ActionType: action,
				ChangedAt:  time.Now(),
			}
			// New session so the insert does not recurse into this callback.
			tx.Session(&gorm.Session{NewDB: true, SkipHooks: true}).Create(&change)
		}
	}

	if err := db.Callback().Create().After("gorm:create").Register("changelog:create", record("INSERT")); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("changelog:update", record("UPDATE")); err != nil {
		return err
	}
	return db.Callback().Delete().After("gorm:delete").Register("changelog:delete", record("DELETE"))
}
