package billing

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// MoneyScale is the number of fractional digits a money column keeps.
const MoneyScale = 2

// IsMoney reports whether v is stored without rounding.
func IsMoney(v decimal.Decimal) bool {
	return v.Equal(v.Round(MoneyScale))
}

// Line is the priced form of a consulted service.
type Line struct {
	Price             decimal.Decimal
	PreferentialPrice decimal.Decimal
	Quantity          int
	FinalPrice        decimal.Decimal
}

// PriceLine applies the preferential price to a catalog price. A nil
// preferential price charges the catalog price.
func PriceLine(price decimal.Decimal, preferential *decimal.Decimal, quantity int) (Line, error) {
	if quantity < 1 {
		return Line{}, httperr.ErrBadRequest("invalid_quantity", "Số lượng phải lớn hơn hoặc bằng 1.")
	}

	pref := price
	if preferential != nil {
		pref = *preferential
	}

	if !IsMoney(price) {
		return Line{}, httperr.ErrBadRequest("invalid_price", "Đơn giá tối đa 2 chữ số thập phân.")
	}
	if !IsMoney(pref) {
		return Line{}, httperr.ErrBadRequest("invalid_preferential_price", "Giá ưu đãi tối đa 2 chữ số thập phân.")
	}
	if pref.IsNegative() {
		return Line{}, httperr.ErrBadRequest("invalid_preferential_price", "Giá ưu đãi không được âm.")
	}
	if pref.GreaterThan(price) {
		return Line{}, httperr.ErrBadRequest("invalid_preferential_price", "Giá ưu đãi không được lớn hơn giá gốc.")
	}

	return Line{
		Price:             price,
		PreferentialPrice: pref,
		Quantity:          quantity,
		FinalPrice:        pref.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Apply writes the line onto s. Debt tracks the final price; what remains to
// be paid is Outstanding.
func (l Line) Apply(s *models.ConsultedService) {
	s.Price = l.Price
	s.PreferentialPrice = l.PreferentialPrice
	s.Quantity = l.Quantity
	s.FinalPrice = l.FinalPrice
	s.Debt = l.FinalPrice
	s.RefreshOutstanding()
}

// Reprice changes the preferential price and/or quantity of an existing
// service against its snapshotted catalog price. The new final price may not
// fall below what has already been paid.
func Reprice(s *models.ConsultedService, preferential *decimal.Decimal, quantity *int) error {
	pref := s.PreferentialPrice
	if preferential != nil {
		pref = *preferential
	}
	qty := s.Quantity
	if quantity != nil {
		qty = *quantity
	}

	line, err := PriceLine(s.Price, &pref, qty)
	if err != nil {
		return err
	}

	if line.FinalPrice.LessThan(s.AmountPaid) {
		return httperr.ErrBadRequest(
			"final_price_below_paid",
			"Thành tiền mới không được nhỏ hơn số tiền khách đã thanh toán.",
		)
	}

	line.Apply(s)
	return nil
}
