package fetcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kapu/chess-history-go/pkg/gamedto"
)

type usernameRule struct {
	minLen int
	maxLen int
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var usernameRules = map[gamedto.Platform]usernameRule{
	gamedto.PlatformChessCom: {minLen: 3, maxLen: 25},
	gamedto.PlatformLichess:  {minLen: 2, maxLen: 30},
}

// ValidateUsername applies the platform's username length and character
// rules. The facade itself only enforces presence; front ends call this
// before submitting a fetch.
func ValidateUsername(platform gamedto.Platform, username string) error {
	name := strings.TrimSpace(username)
	if name == "" {
		return gamedto.NewError(gamedto.ErrValidation, "username is required")
	}
	rule, ok := usernameRules[platform]
	if !ok {
		return gamedto.NewError(gamedto.ErrUnsupportedPlatform,
			fmt.Sprintf("unsupported platform: %s", platform))
	}
	if len(name) < rule.minLen || len(name) > rule.maxLen || !usernamePattern.MatchString(name) {
		return gamedto.NewError(gamedto.ErrValidation,
			fmt.Sprintf("username must be %d-%d characters and contain only letters, numbers, dashes, and underscores",
				rule.minLen, rule.maxLen))
	}
	return nil
}
