package db

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/loggpt/components-room/internal/chat"
	"github.com/loggpt/components-room/internal/inventory"
	"github.com/loggpt/components-room/internal/lending"
	"github.com/loggpt/components-room/internal/models"
)

// Connect opens the database or exits; a backend without its store has
// nothing to serve.
func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	return gdb
}

func Migrate(gdb *gorm.DB) {
	if err := gdb.AutoMigrate(
		&models.User{},
		&inventory.Component{},
		&lending.Transaction{},
		&chat.Conversation{},
		&chat.Message{},
	); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
}
