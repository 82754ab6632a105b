package revenue

import (
	"context"
	"time"
)

type Repository interface {
	// PaymentRows returns the payment lines of vouchers dated in [from, to).
	PaymentRows(ctx context.Context, clinicID uint, from time.Time, to time.Time) ([]Row, error)
}
