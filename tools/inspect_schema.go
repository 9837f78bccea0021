package main

import (
	"fmt"
	"log"

	glebarez "github.com/glebarez/sqlite"
	"github.com/localnerve/resonance/internal/database"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Prints the DDL gorm generates for the resonance tables on SQLite.
func main() {
	db, err := gorm.Open(glebarez.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	type object struct {
		Type string
		Name string
		SQL  string
	}
	var objects []object
	err = db.Raw("SELECT type, name, sql FROM sqlite_master WHERE sql IS NOT NULL AND name NOT LIKE 'sqlite_%' ORDER BY tbl_name, type DESC, name").
		Scan(&objects).Error
	if err != nil {
		log.Fatal(err)
	}

	for _, o := range objects {
		fmt.Printf("\n=== %s: %s ===\n", o.Type, o.Name)
		fmt.Println(o.SQL)
	}
}
