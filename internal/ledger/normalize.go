package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Transaction kinds. Legacy Portuguese tokens (receita/despesa, any case)
// are accepted on input and canonicalized to these.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// Canonical is the single internal shape for transaction input. It exists
// only within one request; nil fields were not supplied by the client.
type Canonical struct {
	Description *string
	Amount      *string // raw decimal text, parsed by the validator
	Kind        *string
	CategoryID  *uint
	Date        *string // YYYY-MM-DD
}

// Legacy clients send the Portuguese vocabulary, newer ones the English
// one. Portuguese wins when both are present.
var fieldAliases = map[string][]string{
	"description": {"descricao", "description"},
	"amount":      {"valor", "amount"},
	"kind":        {"tipo", "type", "kind"},
	"categoryId":  {"categoria_id", "category_id"},
	"date":        {"data_transacao", "transaction_date"},
}

// Normalize maps a raw request body, in either wire vocabulary, into the
// canonical shape and defaults a missing or blank date to today (server
// clock). Unknown keys are dropped. It is a pure function of its input
// and the clock, and idempotent over already-canonical bodies.
func Normalize(raw map[string]any, now time.Time) (Canonical, error) {
	c, err := NormalizePartial(raw)
	if err != nil {
		return Canonical{}, err
	}
	if c.Date == nil || strings.TrimSpace(*c.Date) == "" {
		d := now.Format(DateLayout)
		c.Date = &d
	}
	return c, nil
}

// NormalizePartial is Normalize without the date default. Partial updates
// use it so an omitted date leaves the stored one untouched.
func NormalizePartial(raw map[string]any) (Canonical, error) {
	var c Canonical

	if v, ok := pick(raw, fieldAliases["description"]); ok {
		s := asString(v)
		c.Description = &s
	}
	if v, ok := pick(raw, fieldAliases["amount"]); ok {
		s := amountText(v)
		c.Amount = &s
	}
	if v, ok := pick(raw, fieldAliases["kind"]); ok {
		k := NormalizeKind(asString(v))
		c.Kind = &k
	}
	if v, ok := pick(raw, fieldAliases["categoryId"]); ok {
		id, err := coerceID(v)
		if err != nil {
			return Canonical{}, &MalformedFieldError{Field: "categoryId"}
		}
		c.CategoryID = &id
	}
	if v, ok := pick(raw, fieldAliases["date"]); ok {
		s := strings.TrimSpace(asString(v))
		c.Date = &s
	}
	return c, nil
}

// NormalizeKind lowercases and translates the legacy tokens. Unrecognized
// values pass through lowercased for the validator to reject.
func NormalizeKind(s string) string {
	k := strings.ToLower(strings.TrimSpace(s))
	switch k {
	case "receita":
		return KindIncome
	case "despesa":
		return KindExpense
	}
	return k
}

func pick(raw map[string]any, keys []string) (any, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

// amountText keeps the amount as decimal text; parsing and the 2-digit
// precision check belong to the validator.
func amountText(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case string:
		return strings.TrimSpace(n)
	default:
		return fmt.Sprint(v)
	}
}

func coerceID(v any) (uint, error) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n != math.Trunc(n) {
			return 0, fmt.Errorf("not a whole number: %v", n)
		}
		return uint(n), nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("negative id: %d", n)
		}
		return uint(n), nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("negative id: %d", n)
		}
		return uint(n), nil
	case uint:
		return n, nil
	case string:
		id, err := strconv.ParseUint(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(id), nil
	default:
		return 0, fmt.Errorf("unsupported id type %T", v)
	}
}
