package service

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-task-keeper/internal/config"
)

// sequentialIDs hands out "id-1", "id-2", ...
type sequentialIDs struct {
	n int
}

func (s *sequentialIDs) Generate() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testAppConfig() config.App {
	return config.App{
		TokenSignKey:     "test-sign-key",
		TokenIssuer:      "test-issuer",
		TokenDuration:    time.Hour,
		PasswordHashCost: bcrypt.MinCost,
		Version:          "1.0.0",
	}
}
