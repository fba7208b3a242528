package codec

import "fmt"

// Kind tags the payload held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
)

// Value is the decoded result of one register group: exactly one of Int,
// Float or Str is meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Str   string
}

// Null is the value produced whenever any source word is absent.
var Null = Value{Kind: KindNull}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindString:
		return v.Str
	}
	return "<null>"
}

// toFloat returns v as a float64 for the numeric adjustment operators.
// Strings and null are not numeric.
func toFloat(v Value) (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	}
	return 0, false
}
