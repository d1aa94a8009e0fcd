package ast

import "github.com/shopspring/decimal"

// LiteralValueKind discriminates the LiteralValue sum type.
type LiteralValueKind string

// Literal value kinds.
const (
	LiteralString          LiteralValueKind = "string"
	LiteralMultilineString LiteralValueKind = "multilineString"
	LiteralNumber          LiteralValueKind = "number"
	LiteralDateTime        LiteralValueKind = "dateTime"
	LiteralTime            LiteralValueKind = "time"
	LiteralBoolean         LiteralValueKind = "boolean"
	LiteralCode            LiteralValueKind = "code"
	LiteralQuantity        LiteralValueKind = "quantity"
	LiteralRatio           LiteralValueKind = "ratio"
	LiteralReference       LiteralValueKind = "reference"
)

// LiteralValue is the closed sum type over fixed/assigned values:
// strings, numbers, datetimes, codes, quantities, ratios, references.
type LiteralValue interface {
	// Kind identifies which concrete variant this value is.
	Kind() LiteralValueKind
}

// StringValue is a single-line quoted string, already unescaped.
type StringValue struct {
	Value string
}

// Kind implements LiteralValue.
func (StringValue) Kind() LiteralValueKind { return LiteralString }

// MultilineStringValue is a triple-quoted string, already dedented.
type MultilineStringValue struct {
	Value string
}

// Kind implements LiteralValue.
func (MultilineStringValue) Kind() LiteralValueKind { return LiteralMultilineString }

// NumberValue is a decimal literal. shopspring/decimal is used instead
// of float64 so that clinical quantities round-trip exactly.
type NumberValue struct {
	Value decimal.Decimal
}

// Kind implements LiteralValue.
func (NumberValue) Kind() LiteralValueKind { return LiteralNumber }

// DateTimeValue is the raw DATETIME token text, unvalidated.
type DateTimeValue struct {
	Value string
}

// Kind implements LiteralValue.
func (DateTimeValue) Kind() LiteralValueKind { return LiteralDateTime }

// TimeValue is the raw TIME token text, unvalidated.
type TimeValue struct {
	Value string
}

// Kind implements LiteralValue.
func (TimeValue) Kind() LiteralValueKind { return LiteralTime }

// BooleanValue is a `true`/`false` literal.
type BooleanValue struct {
	Value bool
}

// Kind implements LiteralValue.
func (BooleanValue) Kind() LiteralValueKind { return LiteralBoolean }

// CodeValue is `[SYSTEM]#code ["display"]`. System is empty if the
// code carried none and none was adopted from a from-clause; otherwise
// it holds a resolved canonical URL or, on resolution failure, the
// original symbolic string verbatim.
type CodeValue struct {
	Code    string
	System  string
	Display string
}

// Kind implements LiteralValue.
func (CodeValue) Kind() LiteralValueKind { return LiteralCode }

// QuantityValue is `NUMBER UNIT`, with Unit.System fixed to UCUM.
type QuantityValue struct {
	Value decimal.Decimal
	Unit  CodeValue
}

// Kind implements LiteralValue.
func (QuantityValue) Kind() LiteralValueKind { return LiteralQuantity }

// UCUMSystem is the fixed canonical URL for the UCUM code system that
// every QuantityValue.Unit carries.
const UCUMSystem = "http://unitsofmeasure.org"

// RatioValue is a numerator/denominator pair of quantities. A bare
// number part is represented as a QuantityValue with an empty Unit.
type RatioValue struct {
	Numerator   QuantityValue
	Denominator QuantityValue
}

// Kind implements LiteralValue.
func (RatioValue) Kind() LiteralValueKind { return LiteralRatio }

// ReferenceValue is `Reference(A|B|...)`, resolved against only the
// first name before the first `|`.
type ReferenceValue struct {
	Reference string
	Display   string
}

// Kind implements LiteralValue.
func (ReferenceValue) Kind() LiteralValueKind { return LiteralReference }
