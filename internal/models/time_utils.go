package models

import "time"

// TimeToUnixNano stores t as Unix nanoseconds; the zero time maps to 0.
func TimeToUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

// UnixNanoToTime is the inverse of TimeToUnixNano, in UTC.
func UnixNanoToTime(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

// UnixNanoToTimeOptional converts a nullable column value.
func UnixNanoToTimeOptional(ns *int64) *time.Time {
	if ns == nil {
		return nil
	}
	t := UnixNanoToTime(*ns)
	return &t
}

// TimeToUnixNanoOptional converts an optional time for a nullable column.
func TimeToUnixNanoOptional(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ns := TimeToUnixNano(*t)
	return &ns
}

// FormatTimeOptional formats t using layout, or returns "" for the zero time.
func FormatTimeOptional(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
