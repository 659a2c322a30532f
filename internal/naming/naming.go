// Package naming derives wire field names and enum value names from model names.
//
// All functions are pure. Lookups that can fail against the catalog live in the
// mapping package, which turns a miss into a schema-mismatch error.
package naming

import (
	"strings"
	"unicode"
)

const (
	// AttrPrefix is prepended to every attribute-kind field on the wire.
	AttrPrefix = "a_"

	// OneOfSuffix marks the field that carries a nested union.
	OneOfSuffix = "_one_of"

	containerSuffix = "Container"
)

// ToWire converts a model name ("NumericMetricDescriptor", "MaxLimits") into
// the snake_case wire field name ("numeric_metric_descriptor", "max_limits").
// An underscore is inserted only on a lower-to-upper transition, so runs of
// capitals stay together ("CSUsr" becomes "csusr").
func ToWire(name string) string {
	name = strings.TrimSuffix(name, containerSuffix)
	name = strings.TrimPrefix(name, "_")
	if name == "" {
		return ""
	}
	return strings.ToLower(splitCamel(name))
}

// AttrToWire is ToWire plus the attribute prefix.
func AttrToWire(name string) string {
	return AttrPrefix + ToWire(name)
}

// OneOf returns the union field name for a family type.
func OneOf(typeName string) string {
	return ToWire(typeName) + OneOfSuffix
}

// MessageName returns the wire message name for a model type.
func MessageName(typeName string) string {
	return strings.TrimSuffix(typeName, containerSuffix) + "Msg"
}

// OneOfMessageName returns the wire message name of a family union.
func OneOfMessageName(typeName string) string {
	return strings.TrimSuffix(typeName, containerSuffix) + "OneOfMsg"
}

// EnumToWire converts an enum token ("NotRdy") to its wire value name ("NOT_RDY").
func EnumToWire(token string) string {
	if token == "" {
		return ""
	}
	return strings.ToUpper(splitCamel(token))
}

// EnumFromWire matches a wire value name against a closed token set. Underscores
// are dropped and the comparison is case-insensitive, which inverts EnumToWire
// for every token shape it produces.
func EnumFromWire(wire string, tokens []string) (string, bool) {
	flat := strings.ReplaceAll(wire, "_", "")
	for _, t := range tokens {
		if strings.EqualFold(t, flat) {
			return t, true
		}
	}
	return "", false
}

func splitCamel(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	var prev rune
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteByte('_')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
