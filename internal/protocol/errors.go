package protocol

import "strings"

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrProtoVersion    = "E_PROTO_VERSION"

	// Run routing/state.
	ErrRunNotFound = "E_RUN_NOT_FOUND"
	ErrRunCorrupt  = "E_RUN_CORRUPT"

	// Rule/action layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrUnknownAction = "E_UNKNOWN_ACTION"
	ErrNoResource    = "E_NO_RESOURCE"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrRateLimit     = "E_RATE_LIMIT"
	ErrConflict      = "E_CONFLICT"
	ErrBlocked       = "E_BLOCKED"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrProtoVersion:    {},
	ErrRunNotFound:     {},
	ErrRunCorrupt:      {},
	ErrBadRequest:      {},
	ErrUnknownAction:   {},
	ErrNoResource:      {},
	ErrInvalidTarget:   {},
	ErrRateLimit:       {},
	ErrConflict:        {},
	ErrBlocked:         {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// CodeForReason classifies a rule failure reason for clients that branch on codes.
func CodeForReason(reason string) string {
	switch {
	case reason == "":
		return ""
	case strings.HasPrefix(reason, "Unknown"), strings.HasPrefix(reason, "No such"), strings.HasSuffix(reason, "not found"):
		return ErrInvalidTarget
	case strings.HasPrefix(reason, "Not enough"), strings.HasPrefix(reason, "Hold full"), reason == "Category limit":
		return ErrNoResource
	case strings.HasPrefix(reason, "Already"), strings.Contains(reason, "already"):
		return ErrConflict
	case reason == "Invalid quantity":
		return ErrBadRequest
	}
	return ErrBlocked
}
