package form

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Values holds raw field input keyed by field name.
type Values map[string]string

// Rule is one declarative check on a field. Check returns false when the
// value fails; the rule's Message is then the field error.
type Rule interface {
	Check(value string, all Values) bool
	Message() string
}

type Required struct{ Msg string }

func (r Required) Check(v string, _ Values) bool { return strings.TrimSpace(v) != "" }
func (r Required) Message() string               { return r.Msg }

type MinLength struct {
	N   int
	Msg string
}

func (r MinLength) Check(v string, _ Values) bool { return utf8.RuneCountInString(strings.TrimSpace(v)) >= r.N }
func (r MinLength) Message() string               { return r.Msg }

type MaxLength struct {
	N   int
	Msg string
}

func (r MaxLength) Check(v string, _ Values) bool { return utf8.RuneCountInString(strings.TrimSpace(v)) <= r.N }
func (r MaxLength) Message() string               { return r.Msg }

type ExactLength struct {
	N   int
	Msg string
}

func (r ExactLength) Check(v string, _ Values) bool {
	return utf8.RuneCountInString(strings.TrimSpace(v)) == r.N
}
func (r ExactLength) Message() string { return r.Msg }

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Email struct{ Msg string }

func (r Email) Check(v string, _ Values) bool { return emailPattern.MatchString(strings.TrimSpace(v)) }
func (r Email) Message() string               { return r.Msg }

// Number accepts any amount ParseAmount understands.
type Number struct{ Msg string }

func (r Number) Check(v string, _ Values) bool {
	_, err := ParseAmount(v)
	return err == nil
}
func (r Number) Message() string { return r.Msg }

// Positive requires an amount strictly greater than zero.
type Positive struct{ Msg string }

func (r Positive) Check(v string, _ Values) bool {
	d, err := ParseAmount(v)
	return err == nil && d.IsPositive()
}
func (r Positive) Message() string { return r.Msg }

// Range bounds an amount inclusively. A nil bound is open.
type Range struct {
	Min, Max *decimal.Decimal
	Msg      string
}

func (r Range) Check(v string, _ Values) bool {
	d, err := ParseAmount(v)
	if err != nil {
		return false
	}
	if r.Min != nil && d.LessThan(*r.Min) {
		return false
	}
	if r.Max != nil && d.GreaterThan(*r.Max) {
		return false
	}
	return true
}
func (r Range) Message() string { return r.Msg }

type OneOf struct {
	Options []string
	Msg     string
}

func (r OneOf) Check(v string, _ Values) bool {
	for _, o := range r.Options {
		if v == o {
			return true
		}
	}
	return false
}
func (r OneOf) Message() string { return r.Msg }

// UUID requires a server-issued identifier.
type UUID struct{ Msg string }

func (r UUID) Check(v string, _ Values) bool {
	_, err := uuid.Parse(v)
	return err == nil
}
func (r UUID) Message() string { return r.Msg }

// Date requires a calendar date in YYYY-MM-DD form.
type Date struct{ Msg string }

func (r Date) Check(v string, _ Values) bool {
	_, err := time.Parse(time.DateOnly, strings.TrimSpace(v))
	return err == nil
}
func (r Date) Message() string { return r.Msg }

// CrossField checks a value against the rest of the form.
type CrossField struct {
	Fn  func(value string, all Values) bool
	Msg string
}

func (r CrossField) Check(v string, all Values) bool { return r.Fn(v, all) }
func (r CrossField) Message() string                 { return r.Msg }

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount reads a user-typed amount. A comma is the decimal separator
// when present, dots then being thousands separators: "1.234,56" and
// "1234.56" read the same. A leading "R$" is ignored.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
