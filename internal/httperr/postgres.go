package httperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// constraintLabels maps unique indexes to the field name staff see in messages.
var constraintLabels = map[string]string{
	"ux_appointments_customer_day_active": "Lịch hẹn trong ngày của khách hàng",
	"idx_customers_clinic_phone":          "Số điện thoại",
	"idx_customers_customer_code":         "Mã khách hàng",
	"idx_employees_email":                 "Email",
	"idx_clinics_code":                    "Mã phòng khám",
	"idx_payment_vouchers_voucher_number": "Số phiếu thu",
}

func uniqueViolation(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr, true
	}
	return nil, false
}

// IsUniqueViolation reports whether err is a unique violation, optionally on a
// specific constraint. An empty constraint matches any unique index.
func IsUniqueViolation(err error, constraint string) bool {
	pgErr, ok := uniqueViolation(err)
	if !ok {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// TranslateUnique turns a unique violation into a field-labelled conflict.
// Other errors are returned unchanged.
func TranslateUnique(err error) error {
	pgErr, ok := uniqueViolation(err)
	if !ok {
		return err
	}

	label, known := constraintLabels[pgErr.ConstraintName]
	if !known {
		label = "Dữ liệu"
	}

	return BusinessError{
		Status:  409,
		Code:    "duplicate_value",
		Message: fmt.Sprintf("%s đã tồn tại.", label),
		Extra:   map[string]any{"constraint": pgErr.ConstraintName},
	}
}
