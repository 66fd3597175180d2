package marketclock

import (
	"fmt"
	"time"
)

// InAnalysisWindow reports whether now falls inside the configured
// analysis window (inclusive on both ends), e.g. 09:35-10:00. tz is an
// IANA zone name or "Local".
func InAnalysisWindow(now time.Time, start, end, tz string) (bool, error) {
	loc := time.Local
	if tz != "" && tz != "Local" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return false, fmt.Errorf("load timezone %q: %w", tz, err)
		}
	}

	startClock, err := time.Parse("15:04", start)
	if err != nil {
		return false, fmt.Errorf("parse window start %q: %w", start, err)
	}
	endClock, err := time.Parse("15:04", end)
	if err != nil {
		return false, fmt.Errorf("parse window end %q: %w", end, err)
	}

	local := now.In(loc)
	minutes := local.Hour()*60 + local.Minute()
	startMin := startClock.Hour()*60 + startClock.Minute()
	endMin := endClock.Hour()*60 + endClock.Minute()

	return minutes >= startMin && minutes <= endMin, nil
}
