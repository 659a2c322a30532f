package pmtypes

import (
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/cockroachdb/apd/v3"
)

type MetricQuality struct {
	Validity MeasurementValidity
	Mode     *GenerationMode
	Qi       *apd.Decimal
}

func (q *MetricQuality) TypeName() string { return "MetricQuality" }

func (q *MetricQuality) Blocks() []prop.Block {
	return []prop.Block{{Type: "MetricQuality", Props: []prop.Property{
		prop.RequiredEnum("Validity", &q.Validity, MeasurementValidities),
		prop.OptEnum("Mode", &q.Mode, GenerationModes).Implied(GenerationReal),
		prop.Decimal("Qi", &q.Qi).Implied("1"),
	}}}
}

type Annotation struct {
	Type CodedValue
}

func (a *Annotation) TypeName() string { return "Annotation" }

func (a *Annotation) Blocks() []prop.Block {
	return []prop.Block{{Type: "Annotation", Props: []prop.Property{
		prop.Struct("Type", &a.Type),
	}}}
}

// AbstractMetricValue is the common part of all metric values.
type AbstractMetricValue struct {
	MetricQuality     MetricQuality
	Annotation        []*Annotation
	StartTime         *uint64
	StopTime          *uint64
	DeterminationTime *uint64
}

func (v *AbstractMetricValue) block() prop.Block {
	return prop.Block{Type: "AbstractMetricValue", Props: []prop.Property{
		prop.Struct("MetricQuality", &v.MetricQuality),
		prop.Elements("Annotation", &v.Annotation, "Annotation"),
		prop.OptUint("StartTime", &v.StartTime),
		prop.OptUint("StopTime", &v.StopTime),
		prop.OptUint("DeterminationTime", &v.DeterminationTime),
	}}
}

type NumericMetricValue struct {
	AbstractMetricValue
	Value *apd.Decimal
}

// NewNumericMetricValue returns a valid value with the given decimal text.
func NewNumericMetricValue(value string) *NumericMetricValue {
	v := &NumericMetricValue{Value: prop.MustDecimal(value)}
	v.MetricQuality.Validity = ValidityValid
	return v
}

func (v *NumericMetricValue) TypeName() string { return "NumericMetricValue" }

func (v *NumericMetricValue) Blocks() []prop.Block {
	return []prop.Block{v.AbstractMetricValue.block(), {Type: "NumericMetricValue", Props: []prop.Property{
		prop.Decimal("Value", &v.Value),
	}}}
}

type StringMetricValue struct {
	AbstractMetricValue
	Value *string
}

func NewStringMetricValue(value string) *StringMetricValue {
	v := &StringMetricValue{Value: &value}
	v.MetricQuality.Validity = ValidityValid
	return v
}

func (v *StringMetricValue) TypeName() string { return "StringMetricValue" }

func (v *StringMetricValue) Blocks() []prop.Block {
	return []prop.Block{v.AbstractMetricValue.block(), {Type: "StringMetricValue", Props: []prop.Property{
		prop.OptString("Value", &v.Value),
	}}}
}

type SampleArrayValue struct {
	AbstractMetricValue
	Samples []*apd.Decimal
}

func NewSampleArrayValue(samples ...string) *SampleArrayValue {
	v := &SampleArrayValue{}
	v.MetricQuality.Validity = ValidityValid
	for _, s := range samples {
		v.Samples = append(v.Samples, prop.MustDecimal(s))
	}
	return v
}

func (v *SampleArrayValue) TypeName() string { return "SampleArrayValue" }

func (v *SampleArrayValue) Blocks() []prop.Block {
	return []prop.Block{v.AbstractMetricValue.block(), {Type: "SampleArrayValue", Props: []prop.Property{
		prop.Decimals("Samples", &v.Samples),
	}}}
}

func init() {
	prop.Register(
		prop.TypeInfo{Name: "LocalizedText", New: func() prop.Composite { return &LocalizedText{} }},
		prop.TypeInfo{Name: "Translation", New: func() prop.Composite { return &Translation{} }},
		prop.TypeInfo{Name: "CodedValue", New: func() prop.Composite { return &CodedValue{} }},
		prop.TypeInfo{Name: "InstanceIdentifier", Family: true, New: func() prop.Composite { return &InstanceIdentifier{} }},
		prop.TypeInfo{Name: "OperatingJurisdiction", Parent: "InstanceIdentifier", New: func() prop.Composite { return &OperatingJurisdiction{} }},
		prop.TypeInfo{Name: "Range", New: func() prop.Composite { return &Range{} }},
		prop.TypeInfo{Name: "Measurement", New: func() prop.Composite { return &Measurement{} }},
		prop.TypeInfo{Name: "ProductionSpecification", New: func() prop.Composite { return &ProductionSpecification{} }},
		prop.TypeInfo{Name: "MetaData", New: func() prop.Composite { return &MetaData{} }},
		prop.TypeInfo{Name: "AllowedValue", New: func() prop.Composite { return &AllowedValue{} }},
		prop.TypeInfo{Name: "Argument", New: func() prop.Composite { return &Argument{} }},
		prop.TypeInfo{Name: "RemedyInfo", New: func() prop.Composite { return &RemedyInfo{} }},
		prop.TypeInfo{Name: "CauseInfo", New: func() prop.Composite { return &CauseInfo{} }},
		prop.TypeInfo{Name: "Relation", New: func() prop.Composite { return &Relation{} }},
		prop.TypeInfo{Name: "PhysicalConnectorInfo", New: func() prop.Composite { return &PhysicalConnectorInfo{} }},
		prop.TypeInfo{Name: "SystemSignalActivation", New: func() prop.Composite { return &SystemSignalActivation{} }},
		prop.TypeInfo{Name: "LocationDetail", New: func() prop.Composite { return &LocationDetail{} }},
		prop.TypeInfo{Name: "BaseDemographics", New: func() prop.Composite { return &BaseDemographics{} }},
		prop.TypeInfo{Name: "PatientDemographicsCoreData", Parent: "BaseDemographics", New: func() prop.Composite { return &PatientDemographicsCoreData{} }},
		prop.TypeInfo{Name: "OperationGroup", New: func() prop.Composite { return &OperationGroup{} }},
		prop.TypeInfo{Name: "MetricQuality", New: func() prop.Composite { return &MetricQuality{} }},
		prop.TypeInfo{Name: "Annotation", New: func() prop.Composite { return &Annotation{} }},
		prop.TypeInfo{Name: "AbstractMetricValue"},
		prop.TypeInfo{Name: "NumericMetricValue", Parent: "AbstractMetricValue", New: func() prop.Composite { return &NumericMetricValue{} }},
		prop.TypeInfo{Name: "StringMetricValue", Parent: "AbstractMetricValue", New: func() prop.Composite { return &StringMetricValue{} }},
		prop.TypeInfo{Name: "SampleArrayValue", Parent: "AbstractMetricValue", New: func() prop.Composite { return &SampleArrayValue{} }},
	)
}
