//go:build qmldebug

package instance

import "time"

// DefaultCrashThreshold is longer in debug builds, where a renderer takes
// longer to load.
const DefaultCrashThreshold = 10000 * time.Millisecond
