package models

import (
	"log"

	"github.com/mmdatafocus/menucost_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Business{}, &Shop{}, &User{},
		&Ingredient{},
		&Category{}, &Subcategory{},
		&Menu{}, &RecipeLine{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
