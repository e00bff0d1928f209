package helpers

import "github.com/google/uuid"

// Generate returns a new profile id
func Generate() string {
	return uuid.NewString()
}
