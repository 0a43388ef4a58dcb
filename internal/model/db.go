package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	for _, entity := range []interface{}{
		&Language{},
		&Project{},
		&Component{},
		&Translation{},
		&Unit{},
		&Check{},
		&Word{},
		&User{},
	} {
		if err := db.AutoMigrate(entity); err != nil {
			return err
		}
	}

	return nil
}
