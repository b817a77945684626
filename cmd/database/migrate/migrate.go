package migration

import (
	"Streamora-Backend/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Wallet{}); err != nil {
		log.Fatalf("Error migrating wallet database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.CoinPackage{}); err != nil {
		log.Fatalf("Error migrating coin package database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Purchase{}); err != nil {
		log.Fatalf("Error migrating purchase database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.DiscountCode{}); err != nil {
		log.Fatalf("Error migrating discount code database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.DiscountRedemption{}); err != nil {
		log.Fatalf("Error migrating discount redemption database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Gift{}); err != nil {
		log.Fatalf("Error migrating gift database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.GiftTransaction{}); err != nil {
		log.Fatalf("Error migrating gift transaction database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
