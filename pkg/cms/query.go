package cms

import (
	"strconv"
	"strings"
	"time"
)

// QueryOperator is one of the fixed comparison operators understood by
// the API's filter-query language.
type QueryOperator string

const (
	OpEquals         QueryOperator = "eq"
	OpContains       QueryOperator = "co"
	OpStartsWith     QueryOperator = "sw"
	OpMatches        QueryOperator = "mt"
	OpSimilar        QueryOperator = "sm"
	OpGreaterOrEqual QueryOperator = "ge"
	OpGreaterThan    QueryOperator = "gt"
	OpLessOrEqual    QueryOperator = "le"
	OpLessThan       QueryOperator = "lt"
)

// QueryNode is an immutable, already-serialized filter expression.
// Nodes combine left-to-right in call order; no implicit precedence is
// applied. Grouping parentheses appear only when Group is called.
type QueryNode struct {
	expr string
}

// Query builds a single comparison node serializing as
// `<field> <op> "<value>"`.
func Query(field string, operator QueryOperator, value string) QueryNode {
	var builder strings.Builder

	builder.WriteString(field)
	builder.WriteString(" ")
	builder.WriteString(string(operator))
	builder.WriteString(" \"")
	builder.WriteString(value)
	builder.WriteString("\"")

	return QueryNode{expr: builder.String()}
}

// And combines two expressions with the "and" connective.
func (n QueryNode) And(other QueryNode) QueryNode {
	return QueryNode{expr: n.expr + " and " + other.expr}
}

// Or combines two expressions with the "or" connective.
func (n QueryNode) Or(other QueryNode) QueryNode {
	return QueryNode{expr: n.expr + " or " + other.expr}
}

// Group wraps the expression in a single pair of parentheses.
func (n QueryNode) Group() QueryNode {
	return QueryNode{expr: "(" + n.expr + ")"}
}

// String returns the serialized expression.
func (n QueryNode) String() string {
	return n.expr
}

// IsZero reports whether the node carries no expression.
func (n QueryNode) IsZero() bool {
	return n.expr == ""
}

// MatchList builds an OR-chain of equality comparisons over one field,
// wrapped in parentheses. An empty value list is rejected with
// ErrEmptyMatchList.
func MatchList(field string, values ...string) (QueryNode, error) {
	if len(values) == 0 {
		return QueryNode{}, ErrEmptyMatchList
	}

	node := Query(field, OpEquals, values[0])
	for _, value := range values[1:] {
		node = node.Or(Query(field, OpEquals, value))
	}

	return node.Group(), nil
}

// Value formatting helpers. The query language carries all values as
// strings; numeric and date formatting is always explicit.

// QueryInt formats an integer query value.
func QueryInt(value int64) string {
	return strconv.FormatInt(value, 10)
}

// QueryFloat formats a floating-point query value.
func QueryFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// QueryBool formats a boolean query value.
func QueryBool(value bool) string {
	return strconv.FormatBool(value)
}

// QueryDate formats a date query value using the caller-supplied layout.
func QueryDate(value time.Time, layout string) string {
	return value.Format(layout)
}
