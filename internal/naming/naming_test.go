package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToWire(t *testing.T) {
	cases := map[string]string{
		"NumericMetricDescriptor":          "numeric_metric_descriptor",
		"NumericMetricDescriptorContainer": "numeric_metric_descriptor",
		"MaxLimits":                        "max_limits",
		"Handle":                           "handle",
		"_Extension":                       "extension",
		"CSUsr":                            "csusr",
		"PoC":                              "po_c",
		"Qi":                               "qi",
		"":                                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ToWire(in), in)
	}
}

func TestAttrToWire(t *testing.T) {
	assert.Equal(t, "a_descriptor_version", AttrToWire("DescriptorVersion"))
	assert.Equal(t, "a_handle", AttrToWire("Handle"))
}

func TestOneOf(t *testing.T) {
	assert.Equal(t, "string_metric_descriptor_one_of", OneOf("StringMetricDescriptor"))
	assert.Equal(t, "AbstractMetricDescriptorOneOfMsg", OneOfMessageName("AbstractMetricDescriptor"))
	assert.Equal(t, "MdsDescriptorMsg", MessageName("MdsDescriptorContainer"))
}

func TestEnumRoundTrip(t *testing.T) {
	tokens := []string{"On", "NotRdy", "StndBy", "Off", "Shtdn", "Fail", "CSUsr", "MedA", "DisChB", "NA"}
	for _, tok := range tokens {
		wire := EnumToWire(tok)
		got, ok := EnumFromWire(wire, tokens)
		assert.True(t, ok, tok)
		assert.Equal(t, tok, got)
	}
	assert.Equal(t, "NOT_RDY", EnumToWire("NotRdy"))
	assert.Equal(t, "DIS_CH_B", EnumToWire("DisChB"))
	assert.Equal(t, "CSUSR", EnumToWire("CSUsr"))
}

func TestEnumFromWireUnknown(t *testing.T) {
	_, ok := EnumFromWire("BOGUS", []string{"On", "Off"})
	assert.False(t, ok)
}
