package access

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestActor_SameDayWindow(t *testing.T) {
	created := time.Date(2025, 8, 10, 2, 0, 0, 0, time.UTC) // 09:00 VN
	sameDay := created.Add(10 * time.Hour)                  // 19:00 VN
	nextDay := created.Add(16 * time.Hour)                  // 01:00 VN next day

	staff := Actor{ID: 2, ClinicID: 1, Role: models.RoleReceptionist}
	admin := Actor{ID: 1, ClinicID: 1, Role: models.RoleAdmin}

	assert.NoError(t, staff.SameDayWindow(created, sameDay, "x"))
	assert.NoError(t, admin.SameDayWindow(created, nextDay, "x"))

	err := staff.SameDayWindow(created, nextDay, "Chỉ được xóa trong ngày tạo.")
	be, ok := httperr.AsBusiness(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, be.HTTPStatus())
}

func TestActor_RequireAdmin(t *testing.T) {
	assert.NoError(t, Actor{Role: models.RoleAdmin}.RequireAdmin("x"))
	assert.True(t, httperr.IsBusiness(Actor{Role: models.RoleDoctor}.RequireAdmin("x"), "admin_only"))
}
