package revenue

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type GroupBy string

const (
	GroupByDay      GroupBy = "day"
	GroupByEmployee GroupBy = "employee"
	GroupByClinic   GroupBy = "clinic"
	GroupByMethod   GroupBy = "method"
)

func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(s); g {
	case "":
		return GroupByDay, nil
	case GroupByDay, GroupByEmployee, GroupByClinic, GroupByMethod:
		return g, nil
	}
	return "", httperr.ErrBadRequest("invalid_group_by", "Kiểu nhóm báo cáo không hợp lệ.")
}

// Row is one payment line joined with its voucher.
type Row struct {
	VoucherID     uint
	PaymentDate   time.Time
	Amount        decimal.Decimal
	PaymentMethod string
	CashierID     uint
	CashierName   string
	ClinicID      uint
	ClinicName    string
}

type Bucket struct {
	Key      string          `json:"key"`
	Label    string          `json:"label"`
	Total    decimal.Decimal `json:"total"`
	Cash     decimal.Decimal `json:"cash"`
	Card     decimal.Decimal `json:"card"`
	Transfer decimal.Decimal `json:"transfer"`
	Other    decimal.Decimal `json:"other"`
	Count    int             `json:"count"`

	vouchers map[uint]struct{}
}

func (b *Bucket) add(r Row) {
	b.Total = b.Total.Add(r.Amount)

	switch Classify(r.PaymentMethod) {
	case MethodCash:
		b.Cash = b.Cash.Add(r.Amount)
	case MethodCard:
		b.Card = b.Card.Add(r.Amount)
	case MethodTransfer:
		b.Transfer = b.Transfer.Add(r.Amount)
	default:
		b.Other = b.Other.Add(r.Amount)
	}

	b.vouchers[r.VoucherID] = struct{}{}
	b.Count = len(b.vouchers)
}

type Report struct {
	GroupBy GroupBy  `json:"groupBy"`
	From    string   `json:"from"`
	To      string   `json:"to"`
	Buckets []Bucket `json:"buckets"`
	Summary Bucket   `json:"summary"`
}

func keyOf(g GroupBy, r Row) (string, string) {
	switch g {
	case GroupByEmployee:
		return fmt.Sprintf("%d", r.CashierID), r.CashierName
	case GroupByClinic:
		return fmt.Sprintf("%d", r.ClinicID), r.ClinicName
	case GroupByMethod:
		m := Classify(r.PaymentMethod)
		return string(m), m.Label()
	default:
		day := timezone.DayKey(r.PaymentDate)
		return day, r.PaymentDate.In(timezone.Clinic()).Format("02/01/2006")
	}
}

func newBucket(key, label string) *Bucket {
	return &Bucket{Key: key, Label: label, vouchers: map[uint]struct{}{}}
}

// Aggregate sums rows per group. Buckets are ordered by key for days and by
// descending total otherwise.
func Aggregate(g GroupBy, from, to time.Time, rows []Row) Report {
	byKey := map[string]*Bucket{}
	summary := newBucket("total", "Tổng cộng")

	for _, r := range rows {
		key, label := keyOf(g, r)
		b, ok := byKey[key]
		if !ok {
			b = newBucket(key, label)
			byKey[key] = b
		}
		b.add(r)
		summary.add(r)
	}

	buckets := make([]Bucket, 0, len(byKey))
	for _, b := range byKey {
		buckets = append(buckets, *b)
	}

	sort.Slice(buckets, func(i, j int) bool {
		if g == GroupByDay {
			return buckets[i].Key < buckets[j].Key
		}
		if !buckets[i].Total.Equal(buckets[j].Total) {
			return buckets[i].Total.GreaterThan(buckets[j].Total)
		}
		return buckets[i].Key < buckets[j].Key
	})

	return Report{
		GroupBy: g,
		From:    timezone.DayKey(from),
		To:      timezone.DayKey(to),
		Buckets: buckets,
		Summary: *summary,
	}
}
