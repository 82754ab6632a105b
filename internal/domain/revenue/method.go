package revenue

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Method string

const (
	MethodCash     Method = "cash"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
	MethodOther    Method = "other"
)

var methodLabels = map[Method]string{
	MethodCash:     "Tiền mặt",
	MethodCard:     "Thẻ",
	MethodTransfer: "Chuyển khoản",
	MethodOther:    "Khác",
}

func (m Method) Label() string {
	return methodLabels[m]
}

// Checked in this order; the first keyword found wins.
var methodKeywords = []struct {
	method   Method
	keywords []string
}{
	{MethodCash, []string{"tien mat", "cash"}},
	{MethodCard, []string{"the", "card", "pos", "quet"}},
	{MethodTransfer, []string{"chuyen khoan", "ck", "transfer", "bank"}},
}

// Fold strips Vietnamese diacritics, lowercases and collapses everything that
// is not a letter or digit into single spaces.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	// đ/Đ are letters of their own, not d plus a mark.
	out = strings.NewReplacer("đ", "d", "Đ", "D").Replace(out)

	fields := strings.FieldsFunc(strings.ToLower(out), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

// Classify buckets a free-text payment method by keyword.
func Classify(paymentMethod string) Method {
	folded := " " + Fold(paymentMethod) + " "
	for _, group := range methodKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(folded, " "+kw+" ") {
				return group.method
			}
		}
	}
	return MethodOther
}
