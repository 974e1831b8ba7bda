package common

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a prefixed identifier such as "acc_1f8e...". The uuid is
// rendered without dashes so ids stay URL- and log-friendly.
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
