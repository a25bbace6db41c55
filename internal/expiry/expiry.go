package expiry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var defaultLoc = time.UTC

// SetDefaultExpiryLocation sets the default time location for expiry calculations (fallback UTC).
func SetDefaultExpiryLocation(loc *time.Location) {
	if loc != nil {
		defaultLoc = loc
	}
}

// Validate checks month is 01..12 and year is a two or four digit year.
func Validate(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("expiry month must be 01..12")
	}
	if year < 0 || year > 9999 || (year >= 100 && year < 1000) {
		return fmt.Errorf("expiry year must be YY or YYYY")
	}
	return nil
}

func fullYear(year int) int {
	if year < 100 {
		return 2000 + year
	}
	return year
}

// Wire returns expiry as MM/YYYY, the format the processor expects in ccexp.
func Wire(month, year int) (string, error) {
	if err := Validate(month, year); err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d/%04d", month, fullYear(year)), nil
}

// EndOfMonth returns the last instant of the expiry month in loc.
func EndOfMonth(month, year int, loc *time.Location) (time.Time, error) {
	if err := Validate(month, year); err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = defaultLoc
	}
	// First day of next month
	firstNext := time.Date(fullYear(year), time.Month(month), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	return firstNext.Add(-time.Nanosecond), nil
}

// IsExpired reports whether time 'at' is strictly after the end of the expiry month in loc.
func IsExpired(month, year int, at time.Time, loc *time.Location) (bool, error) {
	end, err := EndOfMonth(month, year, loc)
	if err != nil {
		return false, err
	}
	return at.In(end.Location()).After(end), nil
}

// ParseCardFace accepts "MM/YY", "MM/YYYY", "MMYY" or "MMYYYY" and returns month and full year.
func ParseCardFace(in string) (int, int, error) {
	s := strings.TrimSpace(in)
	s = strings.ReplaceAll(s, "/", "")
	if len(s) != 4 && len(s) != 6 {
		return 0, 0, fmt.Errorf("card face must be MM/YY or MM/YYYY")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, fmt.Errorf("card face must be digits")
		}
	}
	mm, _ := strconv.Atoi(s[:2])
	yy, _ := strconv.Atoi(s[2:])
	if err := Validate(mm, yy); err != nil {
		return 0, 0, err
	}
	return mm, fullYear(yy), nil
}
