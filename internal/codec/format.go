// Package codec decodes raw Modbus register words into typed values
// according to the 16 closed-set format tags, and applies the ordered
// arithmetic/equality-replacement adjustment chain to the result.
package codec

import "fmt"

// Format is a closed sum type over the 16 format tags a register may
// declare, plus Unknown for an unparsed/invalid tag.
type Format int

const (
	Unknown Format = iota
	Signed
	Unsigned
	HexASCII
	Binary
	LongABCD
	LongCDAB
	LongBADC
	LongDCBA
	FloatABCD
	FloatCDAB
	FloatBADC
	FloatDCBA
	DoubleABCDEFGH
	DoubleGHEFCDAB
	DoubleBADCFEHG
	DoubleHGFEDCBA
)

var tagText = map[Format]string{
	Signed:         "Signed",
	Unsigned:       "Unsigned",
	HexASCII:       "Hex - ASCII",
	Binary:         "Binary",
	LongABCD:       "Long AB CD",
	LongCDAB:       "Long CD AB",
	LongBADC:       "Long BA DC",
	LongDCBA:       "Long DC BA",
	FloatABCD:      "Float AB CD",
	FloatCDAB:      "Float CD AB",
	FloatBADC:      "Float BA DC",
	FloatDCBA:      "Float DC BA",
	DoubleABCDEFGH: "Double AB CD EF GH",
	DoubleGHEFCDAB: "Double GH EF CD AB",
	DoubleBADCFEHG: "Double BA DC FE HG",
	DoubleHGFEDCBA: "Double HG FE DC BA",
}

var textTag = func() map[string]Format {
	m := make(map[string]Format, len(tagText))
	for f, s := range tagText {
		m[s] = f
	}
	return m
}()

// ParseFormat resolves a config format tag to a Format. An unrecognized
// tag is a ConfigInvalid condition for the caller, not a panic here.
func ParseFormat(tag string) (Format, error) {
	if f, ok := textTag[tag]; ok {
		return f, nil
	}
	return Unknown, fmt.Errorf("codec: unknown format tag %q", tag)
}

func (f Format) String() string {
	if s, ok := tagText[f]; ok {
		return s
	}
	return "Unknown"
}

// Words reports the register word count this format spans, per the
// word-length table.
func (f Format) Words() int {
	switch f {
	case Signed, Unsigned, HexASCII, Binary:
		return 1
	case LongABCD, LongCDAB, LongBADC, LongDCBA,
		FloatABCD, FloatCDAB, FloatBADC, FloatDCBA:
		return 2
	case DoubleABCDEFGH, DoubleGHEFCDAB, DoubleBADCFEHG, DoubleHGFEDCBA:
		return 4
	}
	return 0
}

// order reports the byte/word reordering a multi-word format applies
// before the resulting buffer is read as a big-endian integer or float.
// reverseWords swaps word significance (AB CD -> CD AB); swapBytes
// swaps the two bytes within every word (AB CD -> BA DC).
func (f Format) order() (reverseWords, swapBytes bool) {
	switch f {
	case LongABCD, FloatABCD, DoubleABCDEFGH:
		return false, false
	case LongCDAB, FloatCDAB, DoubleGHEFCDAB:
		return true, false
	case LongBADC, FloatBADC, DoubleBADCFEHG:
		return false, true
	case LongDCBA, FloatDCBA, DoubleHGFEDCBA:
		return true, true
	}
	return false, false
}
