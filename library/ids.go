package library

import "github.com/google/uuid"

// GenerateID returns a fresh time-ordered UUIDv7 in its hyphenated form.
func GenerateID() string {
	return uuid.Must(uuid.NewV7()).String()
}
