package mcpserver

import (
	pickyerrors "github.com/Aman-CERP/picky/internal/errors"
)

// errInvalidParams reports a malformed tool call.
func errInvalidParams(message string) error {
	return pickyerrors.ConfigError(message, nil)
}
