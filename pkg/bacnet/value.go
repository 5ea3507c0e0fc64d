package bacnet

import (
	"sort"
	"strconv"
	"strings"
)

// Value is a parsed primitive value
type Value interface {
	// Datatype is the datatype the value was parsed as
	Datatype() Datatype

	// Text is the canonical textual form; Parse(v.Datatype(), v.Text()) yields an equal value
	Text() string
}

// NoValue is the marker produced for the None datatype
type NoValue struct{}

func (NoValue) Datatype() Datatype { return DatatypeNone }
func (NoValue) Text() string       { return "" }

// Null is the BACnet NULL value
type Null struct{}

func (Null) Datatype() Datatype { return DatatypeNull }
func (Null) Text() string       { return "" }

type Boolean bool

func (Boolean) Datatype() Datatype { return DatatypeBoolean }
func (b Boolean) Text() string     { return strconv.FormatBool(bool(b)) }

type Unsigned uint32

func (Unsigned) Datatype() Datatype { return DatatypeUnsigned }
func (u Unsigned) Text() string     { return strconv.FormatUint(uint64(u), 10) }

type Integer int32

func (Integer) Datatype() Datatype { return DatatypeInteger }
func (i Integer) Text() string     { return strconv.FormatInt(int64(i), 10) }

type Real float32

func (Real) Datatype() Datatype { return DatatypeReal }
func (r Real) Text() string     { return strconv.FormatFloat(float64(r), 'g', -1, 32) }

type Double float64

func (Double) Datatype() Datatype { return DatatypeDouble }
func (d Double) Text() string     { return strconv.FormatFloat(float64(d), 'g', -1, 64) }

type CharacterString string

func (CharacterString) Datatype() Datatype { return DatatypeCharacterString }
func (s CharacterString) Text() string     { return string(s) }

type Enumerated uint32

func (Enumerated) Datatype() Datatype { return DatatypeEnumerated }
func (e Enumerated) Text() string     { return strconv.FormatUint(uint64(e), 10) }

// BitString is a set of bit positions with a length of max position + 1.
type BitString struct {
	bits []uint32 // sorted, unique
}

// NewBitString builds a bit string with the given positions set
func NewBitString(positions ...uint32) BitString {
	bits := append([]uint32(nil), positions...)
	sort.Slice(bits, func(i, j int) bool { return bits[i] < bits[j] })
	out := bits[:0]
	for i, b := range bits {
		if i > 0 && b == bits[i-1] {
			continue
		}
		out = append(out, b)
	}
	return BitString{bits: out}
}

func (BitString) Datatype() Datatype { return DatatypeBitString }

// Text lists the set positions ascending, separated by ";"
func (b BitString) Text() string {
	parts := make([]string, len(b.bits))
	for i, bit := range b.bits {
		parts[i] = strconv.FormatUint(uint64(bit), 10)
	}
	return strings.Join(parts, ";")
}

// Len is the number of bits, one past the highest set position
func (b BitString) Len() int {
	if len(b.bits) == 0 {
		return 0
	}
	return int(b.bits[len(b.bits)-1]) + 1
}

// IsSet reports whether position i is set
func (b BitString) IsSet(i uint32) bool {
	idx := sort.Search(len(b.bits), func(k int) bool { return b.bits[k] >= i })
	return idx < len(b.bits) && b.bits[idx] == i
}

// Positions returns the set positions in ascending order
func (b BitString) Positions() []uint32 {
	return append([]uint32(nil), b.bits...)
}

// MaxInstance is the largest object instance number (22 bits)
const MaxInstance = 1<<22 - 1

// ObjectIdentifier names an object by type and instance
type ObjectIdentifier struct {
	Type     ObjectType
	Instance uint32
}

func (ObjectIdentifier) Datatype() Datatype { return DatatypeObjectIdentifier }

func (o ObjectIdentifier) Text() string {
	return o.Type.Name() + "," + strconv.FormatUint(uint64(o.Instance), 10)
}
