package chatlog

import (
	"time"

	"github.com/alnah/go-chatlog/internal/dateutil"
)

// ErrInvalidDateFormat is returned for malformed "auto:FORMAT" values.
var ErrInvalidDateFormat = dateutil.ErrInvalidDateFormat

// ResolveDate expands a cover date value against t:
//   - "auto" → t in YYYY-MM-DD HH:mm:ss
//   - "auto:FORMAT" → t in a custom format (e.g. "auto:DD/MM/YYYY")
//   - "auto:preset" → t in a named preset (iso, datetime, european, us, long, zh)
//   - any other value → returned unchanged
func ResolveDate(value string, t time.Time) (string, error) {
	return dateutil.ResolveDate(value, t)
}
