package care

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

var statuses = map[string]bool{
	models.CareStatusContacted:   true,
	models.CareStatusUnreachable: true,
	models.CareStatusCallBack:    true,
}

func ValidStatus(s string) bool {
	return statuses[s]
}

func ParseStatus(s string) (string, error) {
	if s == "" {
		return models.CareStatusContacted, nil
	}
	if !ValidStatus(s) {
		return "", httperr.ErrBadRequest("invalid_care_status", "Trạng thái chăm sóc không hợp lệ.")
	}
	return s, nil
}

// Snapshot collects the distinct service and dentist names of a day's
// treatment logs, in the order they were first recorded.
func Snapshot(logs []models.TreatmentLog) (services []string, dentists []string) {
	services = []string{}
	dentists = []string{}
	seenSvc := map[string]bool{}
	seenDoc := map[string]bool{}

	for _, l := range logs {
		if l.ServiceName != "" && !seenSvc[l.ServiceName] {
			seenSvc[l.ServiceName] = true
			services = append(services, l.ServiceName)
		}
		if l.DentistName != "" && !seenDoc[l.DentistName] {
			seenDoc[l.DentistName] = true
			dentists = append(dentists, l.DentistName)
		}
	}
	return services, dentists
}

// Day is one care day of a listing.
type Day struct {
	Date  string                 `json:"date"`
	Items []models.TreatmentCare `json:"items"`
}

// GroupByDay buckets cares by the clinic day of CareAt, newest day first.
func GroupByDay(cares []models.TreatmentCare) []Day {
	byDay := map[string][]models.TreatmentCare{}
	for _, c := range cares {
		key := timezone.DayKey(c.CareAt)
		byDay[key] = append(byDay[key], c)
	}

	out := make([]Day, 0, len(byDay))
	for date, items := range byDay {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CareAt.After(items[j].CareAt)
		})
		out = append(out, Day{Date: date, Items: items})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// CanDelete lets admins remove any care record and staff only their own on
// the day they wrote it.
func CanDelete(actor access.Actor, c *models.TreatmentCare, now time.Time) error {
	if actor.IsAdmin() {
		return nil
	}
	if c.CareStaffID != actor.ID {
		return httperr.ErrForbidden("not_owner", "Chỉ người tạo hoặc quản trị viên được xóa bản ghi chăm sóc.")
	}
	return actor.SameDayWindow(c.CreatedAt, now, "Chỉ được xóa bản ghi chăm sóc trong ngày tạo.")
}
