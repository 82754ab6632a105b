package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// Date-times arrive either as RFC 3339 or as clinic wall-clock time.
var wallClockLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(timezone.Clinic()), nil
	}

	var lastErr error
	for _, layout := range wallClockLayouts {
		t, err := time.ParseInLocation(layout, s, timezone.Clinic())
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseOptionalDateTime(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := parseDateTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// idParam reads a positive numeric path parameter, writing 400 when it is not one.
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_id", "Mã không hợp lệ.")
		return 0, false
	}
	return uint(v), true
}

// uintQuery reads an optional numeric query parameter. Absent means 0.
func uintQuery(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Tham số "+name+" không hợp lệ.")
		return 0, false
	}
	return uint(v), true
}

// dayQuery parses a YYYY-MM-DD query parameter in clinic time, defaulting to today.
func dayQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return timezone.Now(), true
	}
	d, err := timezone.ParseDay(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Ngày không hợp lệ, định dạng YYYY-MM-DD.")
		return time.Time{}, false
	}
	return d, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "Dữ liệu không hợp lệ.",
			"code":    "invalid_request",
			"details": err.Error(),
		})
		return false
	}
	return true
}
