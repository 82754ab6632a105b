package billing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// VoucherNumberConstraint is the unique index on payment_vouchers.voucher_number.
const VoucherNumberConstraint = "idx_payment_vouchers_voucher_number"

// VoucherPrefix is <CLINICCODE>-<YYMM> for the clinic month of at.
func VoucherPrefix(clinicCode string, at time.Time) string {
	return fmt.Sprintf(
		"%s-%s",
		strings.ToUpper(strings.TrimSpace(clinicCode)),
		at.In(timezone.Clinic()).Format("0601"),
	)
}

func FormatVoucherNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s-%04d", prefix, seq)
}

// ParseVoucherSequence extracts NNNN from a number issued under prefix.
func ParseVoucherSequence(prefix, number string) (int, bool) {
	rest, ok := strings.CutPrefix(number, prefix+"-")
	if !ok || rest == "" {
		return 0, false
	}
	seq, err := strconv.Atoi(rest)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

// NextVoucherNumber follows the highest number already issued in the month.
func NextVoucherNumber(prefix string, issued []string) string {
	max := 0
	for _, n := range issued {
		if seq, ok := ParseVoucherSequence(prefix, n); ok && seq > max {
			max = seq
		}
	}
	return FormatVoucherNumber(prefix, max+1)
}

// ------------------------------------------------------------
// Detail lines
// ------------------------------------------------------------

type DetailInput struct {
	ConsultedServiceID uint
	Amount             decimal.Decimal
	PaymentMethod      string
}

// ServiceIDs returns the distinct services referenced by lines, ascending.
func ServiceIDs(lines []DetailInput) []uint {
	seen := map[uint]struct{}{}
	for _, l := range lines {
		seen[l.ConsultedServiceID] = struct{}{}
	}
	return sortedKeys(seen)
}

// UnionIDs merges id sets, ascending, so row locks are always taken in the
// same order.
func UnionIDs(sets ...[]uint) []uint {
	seen := map[uint]struct{}{}
	for _, set := range sets {
		for _, id := range set {
			seen[id] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[uint]struct{}) []uint {
	out := make([]uint, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ValidateDetails checks lines against the locked services of the voucher's
// customer. The whole voucher is rejected on the first bad line.
func ValidateDetails(
	customerID uint,
	lines []DetailInput,
	services map[uint]*models.ConsultedService,
) error {
	if len(lines) == 0 {
		return httperr.ErrBadRequest("empty_voucher", "Phiếu thu phải có ít nhất một dòng thanh toán.")
	}

	requested := map[uint]decimal.Decimal{}
	for i, l := range lines {
		if !l.Amount.IsPositive() {
			return httperr.ErrBadRequest(
				"invalid_amount",
				fmt.Sprintf("Dòng %d: số tiền phải lớn hơn 0.", i+1),
			)
		}
		if !IsMoney(l.Amount) {
			return httperr.ErrBadRequest(
				"invalid_amount",
				fmt.Sprintf("Dòng %d: số tiền tối đa 2 chữ số thập phân.", i+1),
			)
		}
		if strings.TrimSpace(l.PaymentMethod) == "" {
			return httperr.ErrBadRequest(
				"payment_method_required",
				fmt.Sprintf("Dòng %d: vui lòng chọn phương thức thanh toán.", i+1),
			)
		}

		svc, ok := services[l.ConsultedServiceID]
		if !ok {
			return httperr.ErrNotFound(
				"consulted_service_not_found",
				fmt.Sprintf("Không tìm thấy dịch vụ tư vấn #%d.", l.ConsultedServiceID),
			)
		}
		if svc.CustomerID != customerID {
			return httperr.ErrBadRequest(
				"service_customer_mismatch",
				fmt.Sprintf("Dịch vụ %q không thuộc khách hàng của phiếu thu.", svc.ConsultedServiceName),
			)
		}

		requested[l.ConsultedServiceID] = requested[l.ConsultedServiceID].Add(l.Amount)
	}

	for _, id := range ServiceIDs(lines) {
		svc := services[id]
		outstanding := svc.FinalPrice.Sub(svc.AmountPaid)
		if requested[id].GreaterThan(outstanding) {
			return httperr.WithExtra(
				httperr.ErrBadRequest(
					"overpayment",
					fmt.Sprintf(
						"Số tiền thanh toán cho %q vượt quá số còn nợ (%s).",
						svc.ConsultedServiceName,
						outstanding.StringFixed(0),
					),
				),
				"consultedServiceId", id,
			)
		}
	}

	return nil
}

func Total(lines []DetailInput) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

// BuildDetails turns validated lines into rows of voucherID.
func BuildDetails(voucherID uint, lines []DetailInput) []models.PaymentVoucherDetail {
	out := make([]models.PaymentVoucherDetail, 0, len(lines))
	for _, l := range lines {
		out = append(out, models.PaymentVoucherDetail{
			PaymentVoucherID:   voucherID,
			ConsultedServiceID: l.ConsultedServiceID,
			Amount:             l.Amount,
			PaymentMethod:      strings.TrimSpace(l.PaymentMethod),
		})
	}
	return out
}

// AmountsByService sums stored detail rows per consulted service.
func AmountsByService(details []models.PaymentVoucherDetail) map[uint]decimal.Decimal {
	out := map[uint]decimal.Decimal{}
	for _, d := range details {
		out[d.ConsultedServiceID] = out[d.ConsultedServiceID].Add(d.Amount)
	}
	return out
}
