package bacnet

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		datatype  Datatype
		input     string
		canonical string
	}{
		{DatatypeNull, "", ""},
		{DatatypeBoolean, "true", "true"},
		{DatatypeBoolean, "set", "true"},
		{DatatypeBoolean, "reset", "false"},
		{DatatypeUnsigned, "4294967295", "4294967295"},
		{DatatypeInteger, "-2147483648", "-2147483648"},
		{DatatypeInteger, "007", "7"},
		{DatatypeReal, "72.5", "72.5"},
		{DatatypeReal, "-1e3", "-1000"},
		{DatatypeDouble, ".25", "0.25"},
		{DatatypeDouble, "6.02e23", "6.02e+23"},
		{DatatypeEnumerated, "3", "3"},
		{DatatypeBitString, "", ""},
		{DatatypeBitString, "1;4;5", "1;4;5"},
		{DatatypeBitString, "5;1;4;4", "1;4;5"},
		{DatatypeObjectIdentifier, "analog-value,1", "analog-value,1"},
		{DatatypeObjectIdentifier, "2, 7", "analog-value,7"},
		{DatatypeObjectIdentifier, "200,3", "200,3"},
		{DatatypeObjectType, "device", "device"},
		{DatatypeObjectType, "8", "device"},
		{DatatypePropertyIdentifier, "present-value", "present-value"},
		{DatatypePropertyIdentifier, "77", "object-name"},
		{DatatypeDate, "2024-03-15", "2024-03-15"},
		{DatatypeDate, "*-3-*", "*-03-*"},
		{DatatypeDate, "*-*-*", "*-*-*"},
		{DatatypeTime, "13:45:00", "13:45:00"},
		{DatatypeTime, "13:45:00.5", "13:45:00.50"},
		{DatatypeTime, "*:30:*", "*:30:*"},
		{DatatypeDateTime, "2024-03-15 13:45:00", "2024-03-15 13:45:00"},
		{DatatypeDateTime, "2024-*-15\t*:00:00", "2024-*-15 *:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.datatype.String()+"/"+tt.input, func(t *testing.T) {
			v, err := Parse(tt.datatype, tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if v.Datatype() != tt.datatype {
				t.Errorf("Expected datatype %s, got %s", tt.datatype, v.Datatype())
			}
			if v.Text() != tt.canonical {
				t.Errorf("Expected canonical %q, got %q", tt.canonical, v.Text())
			}

			again, err := Parse(tt.datatype, v.Text())
			if err != nil {
				t.Fatalf("Parse of canonical text failed: %v", err)
			}
			if again.Text() != v.Text() {
				t.Errorf("Round trip changed %q to %q", v.Text(), again.Text())
			}
		})
	}
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		datatype Datatype
		input    string
		reason   error
	}{
		{DatatypeNone, "x", ErrNotEmpty},
		{DatatypeNull, "null", ErrNotEmpty},
		{DatatypeBoolean, "True", ErrSyntax},
		{DatatypeBoolean, "1", ErrSyntax},
		{DatatypeInteger, "12a", ErrSyntax},
		{DatatypeInteger, "+5", ErrSyntax},
		{DatatypeInteger, "", ErrSyntax},
		{DatatypeInteger, "2147483648", ErrRange},
		{DatatypeInteger, "-2147483649", ErrRange},
		{DatatypeUnsigned, "-1", ErrNegative},
		{DatatypeUnsigned, "4294967296", ErrRange},
		{DatatypeReal, "NaN", ErrSyntax},
		{DatatypeReal, "1e39", ErrRange},
		{DatatypeDouble, "1.2.3", ErrSyntax},
		{DatatypeEnumerated, "-2", ErrNegative},
		{DatatypeEnumerated, "active", ErrSyntax},
		{DatatypeBitString, "1;x", ErrSyntax},
		{DatatypeBitString, "1;-2", ErrNegative},
		{DatatypeObjectIdentifier, "analog-value", ErrSyntax},
		{DatatypeObjectIdentifier, "analog-value,one", ErrSyntax},
		{DatatypeObjectIdentifier, "analog-value,4194304", ErrRange},
		{DatatypeObjectIdentifier, "no-such-type,1", ErrUnknownName},
		{DatatypeObjectType, "analogue-value", ErrUnknownName},
		{DatatypeObjectType, "100", ErrUnknownName},
		{DatatypeObjectType, "1024", ErrRange},
		{DatatypePropertyIdentifier, "presentValue", ErrUnknownName},
		{DatatypeDate, "2024/03/15", ErrSyntax},
		{DatatypeDate, "2024-13-40", ErrRange},
		{DatatypeDate, "1899-01-01", ErrRange},
		{DatatypeTime, "24:00:00", ErrRange},
		{DatatypeTime, "12:00", ErrSyntax},
		{DatatypeTime, "12:00:00.x", ErrSyntax},
		{DatatypeDateTime, "2024-03-15", ErrSyntax},
		{DatatypeDateTime, "2024-03-15 25:00:00", ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.datatype.String()+"/"+tt.input, func(t *testing.T) {
			_, err := Parse(tt.datatype, tt.input)
			if err == nil {
				t.Fatal("Expected an error")
			}

			var ve *ValueError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected *ValueError, got %T", err)
			}
			if ve.Datatype != tt.datatype {
				t.Errorf("Expected datatype %s, got %s", tt.datatype, ve.Datatype)
			}
			if ve.Text != tt.input {
				t.Errorf("Expected text %q, got %q", tt.input, ve.Text)
			}
			if !errors.Is(err, tt.reason) {
				t.Errorf("Expected reason %v, got %v", tt.reason, ve.Reason)
			}
		})
	}
}

func TestParse_BooleanSynonyms(t *testing.T) {
	set, _ := Parse(DatatypeBoolean, "set")
	tru, _ := Parse(DatatypeBoolean, "true")
	if set != tru {
		t.Errorf("Expected set == true, got %v and %v", set, tru)
	}

	reset, _ := Parse(DatatypeBoolean, "reset")
	fls, _ := Parse(DatatypeBoolean, "false")
	if reset != fls {
		t.Errorf("Expected reset == false, got %v and %v", reset, fls)
	}
}

func TestParse_None(t *testing.T) {
	v, err := Parse(DatatypeNone, "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, ok := v.(NoValue); !ok {
		t.Errorf("Expected NoValue, got %T", v)
	}
	if Term(v) != nil {
		t.Error("Expected NoValue to have no term")
	}
}

func TestParse_CharacterStringVerbatim(t *testing.T) {
	input := "  Chilled Water; \"supply\" \n"
	v, err := Parse(DatatypeCharacterString, input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if v.Text() != input {
		t.Errorf("Expected %q, got %q", input, v.Text())
	}
}

func TestBitString(t *testing.T) {
	v, err := Parse(DatatypeBitString, "5;1;4;4")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	bits := v.(BitString)

	if bits.Len() != 6 {
		t.Errorf("Expected length 6, got %d", bits.Len())
	}
	if diff := cmp.Diff([]uint32{1, 4, 5}, bits.Positions()); diff != "" {
		t.Errorf("Positions mismatch (-want +got):\n%s", diff)
	}
	if !bits.IsSet(4) || bits.IsSet(2) {
		t.Error("IsSet reports the wrong positions")
	}

	empty := NewBitString()
	if empty.Len() != 0 || empty.Text() != "" {
		t.Errorf("Expected empty bit string, got %q", empty.Text())
	}
}

func TestParseDatatype(t *testing.T) {
	for _, d := range Datatypes() {
		parsed, err := ParseDatatype(d.String())
		if err != nil {
			t.Fatalf("ParseDatatype(%q) failed: %v", d.String(), err)
		}
		if parsed != d {
			t.Errorf("Expected %s, got %s", d, parsed)
		}
	}

	if len(Datatypes()) != 16 {
		t.Errorf("Expected 16 datatypes, got %d", len(Datatypes()))
	}

	if _, err := ParseDatatype("OctetString"); !errors.Is(err, ErrUnknownDatatype) {
		t.Errorf("Expected ErrUnknownDatatype, got %v", err)
	}

	var d Datatype
	if err := d.UnmarshalText([]byte("Boolean")); err != nil || d != DatatypeBoolean {
		t.Errorf("UnmarshalText: got %s, %v", d, err)
	}
	if err := d.UnmarshalText(nil); err != nil || d != DatatypeNone {
		t.Errorf("UnmarshalText(empty): got %s, %v", d, err)
	}
}
