package bacnet

import (
	"fmt"
	"strconv"
	"strings"
)

// Unspecified marks a date or time field written as "*"
const Unspecified = -1

// Date is a BACnet date; any field may be Unspecified.
// Month 13/14 mean odd/even months and day 32/33/34 mean last/odd/even days.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (Date) Datatype() Datatype { return DatatypeDate }

func (d Date) Text() string {
	return field(d.Year, 4) + "-" + field(d.Month, 2) + "-" + field(d.Day, 2)
}

// Time is a BACnet time; any field may be Unspecified
type Time struct {
	Hour      int
	Minute    int
	Second    int
	Hundredth int
}

func (Time) Datatype() Datatype { return DatatypeTime }

// Text omits the hundredths when they are zero
func (t Time) Text() string {
	text := field(t.Hour, 2) + ":" + field(t.Minute, 2) + ":" + field(t.Second, 2)
	if t.Hundredth != 0 {
		text += "." + field(t.Hundredth, 2)
	}
	return text
}

// DateTime is a date and a time
type DateTime struct {
	Date Date
	Time Time
}

func (DateTime) Datatype() Datatype { return DatatypeDateTime }

func (dt DateTime) Text() string {
	return dt.Date.Text() + " " + dt.Time.Text()
}

func field(v, width int) string {
	if v == Unspecified {
		return "*"
	}
	return fmt.Sprintf("%0*d", width, v)
}

// parseField reads one numeric field, or "*" as Unspecified
func parseField(text string, lo, hi int) (int, error) {
	if text == "*" {
		return Unspecified, nil
	}
	if !isDecimal(text) {
		return 0, ErrSyntax
	}
	v, err := strconv.Atoi(text)
	if err != nil || v < lo || v > hi {
		return 0, ErrRange
	}
	return v, nil
}

func parseDate(text string) (Date, error) {
	parts := strings.Split(text, "-")
	if len(parts) != 3 {
		return Date{}, ErrSyntax
	}

	year, err := parseField(parts[0], 1900, 2154)
	if err != nil {
		return Date{}, err
	}
	month, err := parseField(parts[1], 1, 14)
	if err != nil {
		return Date{}, err
	}
	day, err := parseField(parts[2], 1, 34)
	if err != nil {
		return Date{}, err
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

func parseTime(text string) (Time, error) {
	main, fraction, hasFraction := strings.Cut(text, ".")
	parts := strings.Split(main, ":")
	if len(parts) != 3 {
		return Time{}, ErrSyntax
	}

	hour, err := parseField(parts[0], 0, 23)
	if err != nil {
		return Time{}, err
	}
	minute, err := parseField(parts[1], 0, 59)
	if err != nil {
		return Time{}, err
	}
	second, err := parseField(parts[2], 0, 59)
	if err != nil {
		return Time{}, err
	}

	hundredth := 0
	if hasFraction {
		switch {
		case fraction == "*":
			hundredth = Unspecified
		case isDecimal(fraction):
			// ".5" is fifty hundredths, digits past the second are truncated
			padded := (fraction + "0")[:2]
			hundredth, _ = strconv.Atoi(padded)
		default:
			return Time{}, ErrSyntax
		}
	}
	return Time{Hour: hour, Minute: minute, Second: second, Hundredth: hundredth}, nil
}
