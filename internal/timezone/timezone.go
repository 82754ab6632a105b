package timezone

import (
	"sync"
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "Asia/Ho_Chi_Minh"

const DayLayout = "2006-01-02"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

// Clinic is the zone every calendar-day rule is evaluated in.
func Clinic() *time.Location {
	clinicOnce.Do(func() {
		clinicLoc = Location(DefaultTimezone)
	})
	return clinicLoc
}

var (
	clinicOnce sync.Once
	clinicLoc  *time.Location
)

func Now() time.Time {
	return time.Now().In(Clinic())
}

// DayBounds returns [start, end) of the clinic calendar day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(Clinic())
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return start, start.AddDate(0, 0, 1)
}

// DayKey is the clinic calendar day of t formatted as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.In(Clinic()).Format(DayLayout)
}

func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}

func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, s, Clinic())
}

func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, Clinic())
	return start, start.AddDate(0, 1, 0)
}

// Display formats t the way staff read appointment times: HH:mm dd/MM/yyyy.
func Display(t time.Time) string {
	return t.In(Clinic()).Format("15:04 02/01/2006")
}
