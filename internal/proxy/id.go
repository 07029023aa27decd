package proxy

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewRequestID returns a correlation ID of the form req_<millis base36>_<suffix>.
// It is only meant to tie log lines together, not to be globally unique.
func NewRequestID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return "req_" + strconv.FormatInt(time.Now().UnixMilli(), 36) + "_" + suffix
}
