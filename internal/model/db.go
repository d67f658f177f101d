package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Company{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Establishment{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Employee{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&PrincipalCapability{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Document{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&DocumentVersion{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&DocumentRelation{}); err != nil {
		return err
	}

	return db.AutoMigrate(&AccessLogEntry{})
}
