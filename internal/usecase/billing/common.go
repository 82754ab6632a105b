package billing

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code, message)
	}
	return err
}

func missingService() error {
	return httperr.ErrNotFound("consulted_service_not_found", "Không tìm thấy dịch vụ tư vấn.")
}

func missingVoucher() error {
	return httperr.ErrNotFound("voucher_not_found", "Không tìm thấy phiếu thu.")
}

func serviceNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return missingService()
	}
	return err
}

func voucherNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return missingVoucher()
	}
	return err
}

func dispatch(d *audit.Dispatcher, actor access.Actor, action, entity string, id uint, meta any) {
	if d == nil {
		return
	}
	d.Dispatch(audit.Event{
		ClinicID: actor.ClinicID,
		UserID:   actor.Ref(),
		Action:   action,
		Entity:   entity,
		EntityID: &id,
		Metadata: meta,
	})
}
