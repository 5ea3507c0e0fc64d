package bacnet

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var floatLexical = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

// Parse parses raw text as a value of datatype d.
// Failures are returned as a *ValueError.
func Parse(d Datatype, raw string) (Value, error) {
	v, err := parse(d, raw)
	if err != nil {
		var ve *ValueError
		if errors.As(err, &ve) {
			return nil, ve
		}
		return nil, valueError(d, raw, err)
	}
	return v, nil
}

func parse(d Datatype, raw string) (Value, error) {
	switch d {
	case DatatypeNone:
		if raw != "" {
			return nil, ErrNotEmpty
		}
		return NoValue{}, nil

	case DatatypeNull:
		if raw != "" {
			return nil, ErrNotEmpty
		}
		return Null{}, nil

	case DatatypeBoolean:
		switch raw {
		case "true", "set":
			return Boolean(true), nil
		case "false", "reset":
			return Boolean(false), nil
		}
		return nil, ErrSyntax

	case DatatypeUnsigned:
		n, err := parseUnsigned(raw)
		if err != nil {
			return nil, err
		}
		return Unsigned(n), nil

	case DatatypeInteger:
		if !isSignedDecimal(raw) {
			return nil, ErrSyntax
		}
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, ErrRange
		}
		return Integer(n), nil

	case DatatypeReal:
		f, err := parseFloat(raw, 32)
		if err != nil {
			return nil, err
		}
		return Real(f), nil

	case DatatypeDouble:
		f, err := parseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		return Double(f), nil

	case DatatypeCharacterString:
		return CharacterString(raw), nil

	case DatatypeBitString:
		return parseBitString(raw)

	case DatatypeEnumerated:
		n, err := parseUnsigned(raw)
		if err != nil {
			return nil, err
		}
		return Enumerated(n), nil

	case DatatypeDate:
		return parseDate(raw)

	case DatatypeTime:
		return parseTime(raw)

	case DatatypeDateTime:
		fields := strings.Fields(raw)
		if len(fields) != 2 {
			return nil, ErrSyntax
		}
		date, err := parseDate(fields[0])
		if err != nil {
			return nil, err
		}
		tm, err := parseTime(fields[1])
		if err != nil {
			return nil, err
		}
		return DateTime{Date: date, Time: tm}, nil

	case DatatypeObjectIdentifier:
		return parseObjectIdentifier(raw)

	case DatatypeObjectType:
		return ParseObjectType(raw)

	case DatatypePropertyIdentifier:
		return ParsePropertyIdentifier(raw)
	}

	return nil, ErrUnknownDatatype
}

func parseUnsigned(raw string) (uint32, error) {
	if strings.HasPrefix(raw, "-") && isDecimal(raw[1:]) {
		return 0, ErrNegative
	}
	if !isDecimal(raw) {
		return 0, ErrSyntax
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, ErrRange
	}
	return uint32(n), nil
}

func parseFloat(raw string, bitSize int) (float64, error) {
	if !floatLexical.MatchString(raw) {
		return 0, ErrSyntax
	}
	f, err := strconv.ParseFloat(raw, bitSize)
	if err != nil {
		return 0, ErrRange
	}
	return f, nil
}

func parseBitString(raw string) (Value, error) {
	if raw == "" {
		return BitString{}, nil
	}
	var positions []uint32
	for _, part := range strings.Split(raw, ";") {
		n, err := parseUnsigned(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		positions = append(positions, n)
	}
	return NewBitString(positions...), nil
}

func parseObjectIdentifier(raw string) (Value, error) {
	typeText, instanceText, ok := strings.Cut(raw, ",")
	if !ok {
		return nil, ErrSyntax
	}

	objType, err := ParseObjectType(strings.TrimSpace(typeText))
	if err != nil {
		return nil, valueError(DatatypeObjectIdentifier, raw, errors.Unwrap(err))
	}

	instance, err := parseUnsigned(strings.TrimSpace(instanceText))
	if err != nil {
		return nil, err
	}
	if instance > MaxInstance {
		return nil, ErrRange
	}
	return ObjectIdentifier{Type: objType, Instance: instance}, nil
}

// isDecimal reports whether s is a non-empty run of ASCII digits
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isSignedDecimal(s string) bool {
	return isDecimal(strings.TrimPrefix(s, "-"))
}
