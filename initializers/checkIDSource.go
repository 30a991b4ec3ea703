package initializers

import (
	"log"

	"github.com/google/uuid"
)

// CheckIDSource refuses to start when the random source behind order ids
// is unusable.
func CheckIDSource() {
	if _, err := uuid.NewRandom(); err != nil {
		log.Fatal("Secure random source unavailable: ", err)
	}
}
