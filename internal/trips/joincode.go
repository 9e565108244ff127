package trips

import (
	"context"
	"fmt"

	"github.com/wayplan/backend/pkg/security"
)

const (
	joinCodeLength        = 10
	maxCustomJoinCodeSize = 32
	maxJoinCodeAttempts   = 5
)

type joinCodeChecker interface {
	JoinCodeExists(ctx context.Context, joinCode string) (bool, error)
}

// acceptableJoinCode bounds caller-chosen codes. Custom codes carry no format
// requirement beyond fitting the column; only availability is checked. The
// 10-char alphanumeric shape applies to server-generated codes alone.
func acceptableJoinCode(code string) bool {
	return code != "" && len(code) <= maxCustomJoinCodeSize
}

// generateUniqueJoinCode draws random codes until one is unused. The keyspace
// is large enough that collisions are rare; the attempt cap guards against a
// broken uniqueness check looping forever.
func generateUniqueJoinCode(ctx context.Context, checker joinCodeChecker, generate func(int) (string, error)) (string, error) {
	for attempt := 0; attempt < maxJoinCodeAttempts; attempt++ {
		code, err := generate(joinCodeLength)
		if err != nil {
			return "", fmt.Errorf("generate join code: %w", err)
		}
		exists, err := checker.JoinCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check join code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("no unique join code after %d attempts", maxJoinCodeAttempts)
}

var defaultJoinCodeGenerator = security.GenerateJoinCode
