package initializers

import (
	"log"

	"github.com/Kariqs/neon-store-api/models"
)

func SyncDatabase() {
	if err := DB.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.CustomNeonOrder{}, &models.CheckoutIntent{}); err != nil {
		log.Fatal("Database sync failed: ", err)
	}
	log.Println("Database synced successfully.")
}
