package drive

import (
	"errors"
	"regexp"
)

// ErrMissingToken indicates the Authorization header was absent or malformed.
var ErrMissingToken = errors.New("missing access token")

var bearerPattern = regexp.MustCompile(`(?i)^Bearer\s+(.+)$`)

// BearerToken extracts the opaque access token from an Authorization header
// value. The token is a pass-through credential owned by the caller's identity
// provider; nothing here validates it.
func BearerToken(authHeader string) (string, error) {
	match := bearerPattern.FindStringSubmatch(authHeader)
	if match == nil {
		return "", ErrMissingToken
	}
	return match[1], nil
}
