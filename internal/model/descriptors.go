package model

import (
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/cockroachdb/apd/v3"
)

// AbstractDescriptor is the root block of every descriptor.
type AbstractDescriptor struct {
	Extension            *prop.Extension
	Type                 *pmtypes.CodedValue
	Handle               string
	DescriptorVersion    uint64
	SafetyClassification *pmtypes.SafetyClassification

	// ParentHandle is structural. It is derived from the position in the
	// description tree and is not a field of the descriptor block.
	ParentHandle string
}

func (d *AbstractDescriptor) DescriptorBase() *AbstractDescriptor { return d }

// IncrementDescriptorVersion is called on every externally visible change.
func (d *AbstractDescriptor) IncrementDescriptorVersion() { d.DescriptorVersion++ }

func (d *AbstractDescriptor) SafetyClassificationValue() pmtypes.SafetyClassification {
	return implied(d.SafetyClassification, pmtypes.SafetyInf)
}

func (d *AbstractDescriptor) blocks() []prop.Block {
	return []prop.Block{{Type: "AbstractDescriptor", Props: []prop.Property{
		prop.Opaque("Extension", &d.Extension),
		prop.Element("Type", &d.Type, "CodedValue"),
		prop.String("Handle", &d.Handle).AsIdentity(),
		prop.UintDefault("DescriptorVersion", &d.DescriptorVersion),
		prop.OptEnum("SafetyClassification", &d.SafetyClassification, pmtypes.SafetyClassifications).
			Implied(pmtypes.SafetyInf),
	}}}
}

// Device components.

type AbstractDeviceComponentDescriptor struct {
	AbstractDescriptor
	ProductionSpecification []*pmtypes.ProductionSpecification
}

func (d *AbstractDeviceComponentDescriptor) blocks() []prop.Block {
	return append(d.AbstractDescriptor.blocks(), prop.Block{Type: "AbstractDeviceComponentDescriptor", Props: []prop.Property{
		prop.Elements("ProductionSpecification", &d.ProductionSpecification, "ProductionSpecification"),
	}})
}

type AbstractComplexDeviceComponentDescriptor struct {
	AbstractDeviceComponentDescriptor
}

func (d *AbstractComplexDeviceComponentDescriptor) blocks() []prop.Block {
	return append(d.AbstractDeviceComponentDescriptor.blocks(), prop.Block{Type: "AbstractComplexDeviceComponentDescriptor"})
}

type MdsDescriptor struct {
	AbstractComplexDeviceComponentDescriptor
	MetaData *pmtypes.MetaData
}

func (d *MdsDescriptor) TypeName() string { return "MdsDescriptor" }
func (d *MdsDescriptor) NodeType() Kind   { return KindMdsDescriptor }

func (d *MdsDescriptor) Blocks() []prop.Block {
	return append(d.AbstractComplexDeviceComponentDescriptor.blocks(), prop.Block{Type: "MdsDescriptor", Props: []prop.Property{
		prop.Element("MetaData", &d.MetaData, "MetaData"),
	}})
}

type VmdDescriptor struct {
	AbstractComplexDeviceComponentDescriptor
}

func (d *VmdDescriptor) TypeName() string { return "VmdDescriptor" }
func (d *VmdDescriptor) NodeType() Kind   { return KindVmdDescriptor }

func (d *VmdDescriptor) Blocks() []prop.Block {
	return append(d.AbstractComplexDeviceComponentDescriptor.blocks(), prop.Block{Type: "VmdDescriptor"})
}

type ChannelDescriptor struct {
	AbstractDeviceComponentDescriptor
}

func (d *ChannelDescriptor) TypeName() string { return "ChannelDescriptor" }
func (d *ChannelDescriptor) NodeType() Kind   { return KindChannelDescriptor }

func (d *ChannelDescriptor) Blocks() []prop.Block {
	return append(d.AbstractDeviceComponentDescriptor.blocks(), prop.Block{Type: "ChannelDescriptor"})
}

type ClockDescriptor struct {
	AbstractDeviceComponentDescriptor
	TimeProtocol []*pmtypes.CodedValue
	Resolution   *time.Duration
}

func (d *ClockDescriptor) TypeName() string { return "ClockDescriptor" }
func (d *ClockDescriptor) NodeType() Kind   { return KindClockDescriptor }

func (d *ClockDescriptor) Blocks() []prop.Block {
	return append(d.AbstractDeviceComponentDescriptor.blocks(), prop.Block{Type: "ClockDescriptor", Props: []prop.Property{
		prop.Elements("TimeProtocol", &d.TimeProtocol, "CodedValue"),
		prop.Duration("Resolution", &d.Resolution),
	}})
}

type BatteryDescriptor struct {
	AbstractDeviceComponentDescriptor
	CapacityFullCharge *pmtypes.Measurement
	CapacitySpecified  *pmtypes.Measurement
	VoltageSpecified   *pmtypes.Measurement
}

func (d *BatteryDescriptor) TypeName() string { return "BatteryDescriptor" }
func (d *BatteryDescriptor) NodeType() Kind   { return KindBatteryDescriptor }

func (d *BatteryDescriptor) Blocks() []prop.Block {
	return append(d.AbstractDeviceComponentDescriptor.blocks(), prop.Block{Type: "BatteryDescriptor", Props: []prop.Property{
		prop.Element("CapacityFullCharge", &d.CapacityFullCharge, "Measurement"),
		prop.Element("CapacitySpecified", &d.CapacitySpecified, "Measurement"),
		prop.Element("VoltageSpecified", &d.VoltageSpecified, "Measurement"),
	}})
}

type ScoDescriptor struct {
	AbstractDeviceComponentDescriptor
}

func (d *ScoDescriptor) TypeName() string { return "ScoDescriptor" }
func (d *ScoDescriptor) NodeType() Kind   { return KindScoDescriptor }

func (d *ScoDescriptor) Blocks() []prop.Block {
	return append(d.AbstractDeviceComponentDescriptor.blocks(), prop.Block{Type: "ScoDescriptor"})
}

type SystemContextDescriptor struct {
	AbstractDeviceComponentDescriptor
}

func (d *SystemContextDescriptor) TypeName() string { return "SystemContextDescriptor" }
func (d *SystemContextDescriptor) NodeType() Kind   { return KindSystemContextDescriptor }

func (d *SystemContextDescriptor) Blocks() []prop.Block {
	return append(d.AbstractDeviceComponentDescriptor.blocks(), prop.Block{Type: "SystemContextDescriptor"})
}

// Contexts.

type AbstractContextDescriptor struct {
	AbstractDescriptor
}

func (d *AbstractContextDescriptor) blocks() []prop.Block {
	return append(d.AbstractDescriptor.blocks(), prop.Block{Type: "AbstractContextDescriptor"})
}

type PatientContextDescriptor struct{ AbstractContextDescriptor }

func (d *PatientContextDescriptor) TypeName() string { return "PatientContextDescriptor" }
func (d *PatientContextDescriptor) NodeType() Kind   { return KindPatientContextDescriptor }
func (d *PatientContextDescriptor) Blocks() []prop.Block {
	return append(d.AbstractContextDescriptor.blocks(), prop.Block{Type: "PatientContextDescriptor"})
}

type LocationContextDescriptor struct{ AbstractContextDescriptor }

func (d *LocationContextDescriptor) TypeName() string { return "LocationContextDescriptor" }
func (d *LocationContextDescriptor) NodeType() Kind   { return KindLocationContextDescriptor }
func (d *LocationContextDescriptor) Blocks() []prop.Block {
	return append(d.AbstractContextDescriptor.blocks(), prop.Block{Type: "LocationContextDescriptor"})
}

type EnsembleContextDescriptor struct{ AbstractContextDescriptor }

func (d *EnsembleContextDescriptor) TypeName() string { return "EnsembleContextDescriptor" }
func (d *EnsembleContextDescriptor) NodeType() Kind   { return KindEnsembleContextDescriptor }
func (d *EnsembleContextDescriptor) Blocks() []prop.Block {
	return append(d.AbstractContextDescriptor.blocks(), prop.Block{Type: "EnsembleContextDescriptor"})
}

type OperatorContextDescriptor struct{ AbstractContextDescriptor }

func (d *OperatorContextDescriptor) TypeName() string { return "OperatorContextDescriptor" }
func (d *OperatorContextDescriptor) NodeType() Kind   { return KindOperatorContextDescriptor }
func (d *OperatorContextDescriptor) Blocks() []prop.Block {
	return append(d.AbstractContextDescriptor.blocks(), prop.Block{Type: "OperatorContextDescriptor"})
}

type WorkflowContextDescriptor struct{ AbstractContextDescriptor }

func (d *WorkflowContextDescriptor) TypeName() string { return "WorkflowContextDescriptor" }
func (d *WorkflowContextDescriptor) NodeType() Kind   { return KindWorkflowContextDescriptor }
func (d *WorkflowContextDescriptor) Blocks() []prop.Block {
	return append(d.AbstractContextDescriptor.blocks(), prop.Block{Type: "WorkflowContextDescriptor"})
}

type MeansContextDescriptor struct{ AbstractContextDescriptor }

func (d *MeansContextDescriptor) TypeName() string { return "MeansContextDescriptor" }
func (d *MeansContextDescriptor) NodeType() Kind   { return KindMeansContextDescriptor }
func (d *MeansContextDescriptor) Blocks() []prop.Block {
	return append(d.AbstractContextDescriptor.blocks(), prop.Block{Type: "MeansContextDescriptor"})
}

// Metrics.

type AbstractMetricDescriptor struct {
	AbstractDescriptor
	Unit                pmtypes.CodedValue
	BodySite            []*pmtypes.CodedValue
	Relation            []*pmtypes.Relation
	MetricCategory      pmtypes.MetricCategory
	DerivationMethod    *pmtypes.DerivationMethod
	MetricAvailability  pmtypes.MetricAvailability
	MaxMeasurementTime  *time.Duration
	MaxDelayTime        *time.Duration
	DeterminationPeriod *time.Duration
	LifeTimePeriod      *time.Duration
	ActivationDuration  *time.Duration
}

func (d *AbstractMetricDescriptor) setDefaults() {
	d.MetricCategory = pmtypes.MetricCategoryUnspec
	d.MetricAvailability = pmtypes.AvailabilityCont
}

func (d *AbstractMetricDescriptor) blocks() []prop.Block {
	return append(d.AbstractDescriptor.blocks(), prop.Block{Type: "AbstractMetricDescriptor", Props: []prop.Property{
		prop.Struct("Unit", &d.Unit),
		prop.Elements("BodySite", &d.BodySite, "CodedValue"),
		prop.Elements("Relation", &d.Relation, "Relation"),
		prop.Enum("MetricCategory", &d.MetricCategory, pmtypes.MetricCategories),
		prop.OptEnum("DerivationMethod", &d.DerivationMethod, pmtypes.DerivationMethods),
		prop.Enum("MetricAvailability", &d.MetricAvailability, pmtypes.MetricAvailabilities),
		prop.Duration("MaxMeasurementTime", &d.MaxMeasurementTime),
		prop.Duration("MaxDelayTime", &d.MaxDelayTime),
		prop.Duration("DeterminationPeriod", &d.DeterminationPeriod),
		prop.Duration("LifeTimePeriod", &d.LifeTimePeriod),
		prop.Duration("ActivationDuration", &d.ActivationDuration),
	}})
}

type NumericMetricDescriptor struct {
	AbstractMetricDescriptor
	TechnicalRange  []*pmtypes.Range
	Resolution      apd.Decimal
	AveragingPeriod *time.Duration
}

func NewNumericMetricDescriptor(handle, parent string) *NumericMetricDescriptor {
	d := &NumericMetricDescriptor{}
	d.setDefaults()
	d.Handle, d.ParentHandle = handle, parent
	return d
}

func (d *NumericMetricDescriptor) TypeName() string { return "NumericMetricDescriptor" }
func (d *NumericMetricDescriptor) NodeType() Kind   { return KindNumericMetricDescriptor }

func (d *NumericMetricDescriptor) Blocks() []prop.Block {
	return append(d.AbstractMetricDescriptor.blocks(), prop.Block{Type: "NumericMetricDescriptor", Props: []prop.Property{
		prop.Elements("TechnicalRange", &d.TechnicalRange, "Range"),
		prop.RequiredDecimal("Resolution", &d.Resolution),
		prop.Duration("AveragingPeriod", &d.AveragingPeriod),
	}})
}

type StringMetricDescriptor struct {
	AbstractMetricDescriptor
}

func (d *StringMetricDescriptor) TypeName() string { return "StringMetricDescriptor" }
func (d *StringMetricDescriptor) NodeType() Kind   { return KindStringMetricDescriptor }

func (d *StringMetricDescriptor) Blocks() []prop.Block {
	return append(d.AbstractMetricDescriptor.blocks(), prop.Block{Type: "StringMetricDescriptor"})
}

type EnumStringMetricDescriptor struct {
	StringMetricDescriptor
	AllowedValue []*pmtypes.AllowedValue
}

func (d *EnumStringMetricDescriptor) TypeName() string { return "EnumStringMetricDescriptor" }
func (d *EnumStringMetricDescriptor) NodeType() Kind   { return KindEnumStringMetricDescriptor }

func (d *EnumStringMetricDescriptor) Blocks() []prop.Block {
	return append(d.StringMetricDescriptor.Blocks(), prop.Block{Type: "EnumStringMetricDescriptor", Props: []prop.Property{
		prop.Elements("AllowedValue", &d.AllowedValue, "AllowedValue"),
	}})
}

type RealTimeSampleArrayMetricDescriptor struct {
	AbstractMetricDescriptor
	TechnicalRange []*pmtypes.Range
	Resolution     apd.Decimal
	SamplePeriod   time.Duration
}

func (d *RealTimeSampleArrayMetricDescriptor) TypeName() string {
	return "RealTimeSampleArrayMetricDescriptor"
}
func (d *RealTimeSampleArrayMetricDescriptor) NodeType() Kind {
	return KindRealTimeSampleArrayMetricDescriptor
}

func (d *RealTimeSampleArrayMetricDescriptor) Blocks() []prop.Block {
	return append(d.AbstractMetricDescriptor.blocks(), prop.Block{Type: "RealTimeSampleArrayMetricDescriptor", Props: []prop.Property{
		prop.Elements("TechnicalRange", &d.TechnicalRange, "Range"),
		prop.RequiredDecimal("Resolution", &d.Resolution),
		prop.RequiredDuration("SamplePeriod", &d.SamplePeriod),
	}})
}

type DistributionSampleArrayMetricDescriptor struct {
	AbstractMetricDescriptor
	TechnicalRange    []*pmtypes.Range
	DomainUnit        pmtypes.CodedValue
	DistributionRange pmtypes.Range
	Resolution        apd.Decimal
}

func (d *DistributionSampleArrayMetricDescriptor) TypeName() string {
	return "DistributionSampleArrayMetricDescriptor"
}
func (d *DistributionSampleArrayMetricDescriptor) NodeType() Kind {
	return KindDistributionSampleArrayMetricDescriptor
}

func (d *DistributionSampleArrayMetricDescriptor) Blocks() []prop.Block {
	return append(d.AbstractMetricDescriptor.blocks(), prop.Block{Type: "DistributionSampleArrayMetricDescriptor", Props: []prop.Property{
		prop.Elements("TechnicalRange", &d.TechnicalRange, "Range"),
		prop.Struct("DomainUnit", &d.DomainUnit),
		prop.Struct("DistributionRange", &d.DistributionRange),
		prop.RequiredDecimal("Resolution", &d.Resolution),
	}})
}

// Operations.

type AbstractOperationDescriptor struct {
	AbstractDescriptor
	OperationTarget            string
	MaxTimeToFinish            *time.Duration
	InvocationEffectiveTimeout *time.Duration
	Retriggerable              *bool
	AccessLevel                *pmtypes.AccessLevel
}

func (d *AbstractOperationDescriptor) RetriggerableValue() bool {
	return implied(d.Retriggerable, true)
}

func (d *AbstractOperationDescriptor) AccessLevelValue() pmtypes.AccessLevel {
	return implied(d.AccessLevel, pmtypes.AccessUsr)
}

func (d *AbstractOperationDescriptor) blocks() []prop.Block {
	return append(d.AbstractDescriptor.blocks(), prop.Block{Type: "AbstractOperationDescriptor", Props: []prop.Property{
		prop.String("OperationTarget", &d.OperationTarget),
		prop.Duration("MaxTimeToFinish", &d.MaxTimeToFinish),
		prop.Duration("InvocationEffectiveTimeout", &d.InvocationEffectiveTimeout),
		prop.OptBool("Retriggerable", &d.Retriggerable).Implied(true),
		prop.OptEnum("AccessLevel", &d.AccessLevel, pmtypes.AccessLevels).Implied(pmtypes.AccessUsr),
	}})
}

type SetValueOperationDescriptor struct{ AbstractOperationDescriptor }

func (d *SetValueOperationDescriptor) TypeName() string { return "SetValueOperationDescriptor" }
func (d *SetValueOperationDescriptor) NodeType() Kind   { return KindSetValueOperationDescriptor }
func (d *SetValueOperationDescriptor) Blocks() []prop.Block {
	return append(d.AbstractOperationDescriptor.blocks(), prop.Block{Type: "SetValueOperationDescriptor"})
}

type SetStringOperationDescriptor struct {
	AbstractOperationDescriptor
	MaxLength *uint64
}

func (d *SetStringOperationDescriptor) TypeName() string { return "SetStringOperationDescriptor" }
func (d *SetStringOperationDescriptor) NodeType() Kind   { return KindSetStringOperationDescriptor }
func (d *SetStringOperationDescriptor) Blocks() []prop.Block {
	return append(d.AbstractOperationDescriptor.blocks(), prop.Block{Type: "SetStringOperationDescriptor", Props: []prop.Property{
		prop.OptUint("MaxLength", &d.MaxLength),
	}})
}

type AbstractSetStateOperationDescriptor struct {
	AbstractOperationDescriptor
	ModifiableData []string
}

func (d *AbstractSetStateOperationDescriptor) blocks() []prop.Block {
	return append(d.AbstractOperationDescriptor.blocks(), prop.Block{Type: "AbstractSetStateOperationDescriptor", Props: []prop.Property{
		prop.Strings("ModifiableData", &d.ModifiableData, prop.InTextList),
	}})
}

type ActivateOperationDescriptor struct {
	AbstractSetStateOperationDescriptor
	Argument []*pmtypes.Argument
}

func (d *ActivateOperationDescriptor) TypeName() string { return "ActivateOperationDescriptor" }
func (d *ActivateOperationDescriptor) NodeType() Kind   { return KindActivateOperationDescriptor }
func (d *ActivateOperationDescriptor) Blocks() []prop.Block {
	return append(d.AbstractSetStateOperationDescriptor.blocks(), prop.Block{Type: "ActivateOperationDescriptor", Props: []prop.Property{
		prop.Elements("Argument", &d.Argument, "Argument"),
	}})
}

type SetAlertStateOperationDescriptor struct {
	AbstractSetStateOperationDescriptor
}

func (d *SetAlertStateOperationDescriptor) TypeName() string {
	return "SetAlertStateOperationDescriptor"
}
func (d *SetAlertStateOperationDescriptor) NodeType() Kind {
	return KindSetAlertStateOperationDescriptor
}
func (d *SetAlertStateOperationDescriptor) Blocks() []prop.Block {
	return append(d.AbstractSetStateOperationDescriptor.blocks(), prop.Block{Type: "SetAlertStateOperationDescriptor"})
}

type SetComponentStateOperationDescriptor struct {
	AbstractSetStateOperationDescriptor
}

func (d *SetComponentStateOperationDescriptor) TypeName() string {
	return "SetComponentStateOperationDescriptor"
}
func (d *SetComponentStateOperationDescriptor) NodeType() Kind {
	return KindSetComponentStateOperationDescriptor
}
func (d *SetComponentStateOperationDescriptor) Blocks() []prop.Block {
	return append(d.AbstractSetStateOperationDescriptor.blocks(), prop.Block{Type: "SetComponentStateOperationDescriptor"})
}

type SetContextStateOperationDescriptor struct {
	AbstractSetStateOperationDescriptor
}

func (d *SetContextStateOperationDescriptor) TypeName() string {
	return "SetContextStateOperationDescriptor"
}
func (d *SetContextStateOperationDescriptor) NodeType() Kind {
	return KindSetContextStateOperationDescriptor
}
func (d *SetContextStateOperationDescriptor) Blocks() []prop.Block {
	return append(d.AbstractSetStateOperationDescriptor.blocks(), prop.Block{Type: "SetContextStateOperationDescriptor"})
}

type SetMetricStateOperationDescriptor struct {
	AbstractSetStateOperationDescriptor
}

func (d *SetMetricStateOperationDescriptor) TypeName() string {
	return "SetMetricStateOperationDescriptor"
}
func (d *SetMetricStateOperationDescriptor) NodeType() Kind {
	return KindSetMetricStateOperationDescriptor
}
func (d *SetMetricStateOperationDescriptor) Blocks() []prop.Block {
	return append(d.AbstractSetStateOperationDescriptor.blocks(), prop.Block{Type: "SetMetricStateOperationDescriptor"})
}

// Alerts.

type AbstractAlertDescriptor struct {
	AbstractDescriptor
}

func (d *AbstractAlertDescriptor) blocks() []prop.Block {
	return append(d.AbstractDescriptor.blocks(), prop.Block{Type: "AbstractAlertDescriptor"})
}

type AlertSystemDescriptor struct {
	AbstractAlertDescriptor
	MaxPhysiologicalParallelAlarms *uint64
	MaxTechnicalParallelAlarms     *uint64
	SelfCheckPeriod                *time.Duration
}

func (d *AlertSystemDescriptor) TypeName() string { return "AlertSystemDescriptor" }
func (d *AlertSystemDescriptor) NodeType() Kind   { return KindAlertSystemDescriptor }

func (d *AlertSystemDescriptor) Blocks() []prop.Block {
	return append(d.AbstractAlertDescriptor.blocks(), prop.Block{Type: "AlertSystemDescriptor", Props: []prop.Property{
		prop.OptUint("MaxPhysiologicalParallelAlarms", &d.MaxPhysiologicalParallelAlarms),
		prop.OptUint("MaxTechnicalParallelAlarms", &d.MaxTechnicalParallelAlarms),
		prop.Duration("SelfCheckPeriod", &d.SelfCheckPeriod),
	}})
}

type AlertConditionDescriptor struct {
	AbstractAlertDescriptor
	Source                          []string
	CauseInfo                       []*pmtypes.CauseInfo
	Kind                            *pmtypes.AlertConditionKind
	Priority                        pmtypes.AlertConditionPriority
	DefaultConditionGenerationDelay *time.Duration
	CanEscalate                     *pmtypes.AlertConditionPriority
	CanDeescalate                   *pmtypes.AlertConditionPriority
}

func NewAlertConditionDescriptor(handle, parent string) *AlertConditionDescriptor {
	d := &AlertConditionDescriptor{Priority: pmtypes.PriorityNone}
	d.Handle, d.ParentHandle = handle, parent
	return d
}

func (d *AlertConditionDescriptor) TypeName() string { return "AlertConditionDescriptor" }
func (d *AlertConditionDescriptor) NodeType() Kind   { return KindAlertConditionDescriptor }

func (d *AlertConditionDescriptor) KindValue() pmtypes.AlertConditionKind {
	return implied(d.Kind, pmtypes.AlertKindOther)
}

func (d *AlertConditionDescriptor) DefaultConditionGenerationDelayValue() time.Duration {
	return implied(d.DefaultConditionGenerationDelay, 0)
}

func (d *AlertConditionDescriptor) Blocks() []prop.Block {
	return append(d.AbstractAlertDescriptor.blocks(), prop.Block{Type: "AlertConditionDescriptor", Props: []prop.Property{
		prop.Strings("Source", &d.Source, prop.InTextList),
		prop.Elements("CauseInfo", &d.CauseInfo, "CauseInfo"),
		prop.OptEnum("Kind", &d.Kind, pmtypes.AlertConditionKinds).Implied(pmtypes.AlertKindOther),
		prop.Enum("Priority", &d.Priority, pmtypes.AlertConditionPriorities),
		prop.Duration("DefaultConditionGenerationDelay", &d.DefaultConditionGenerationDelay).Implied(0),
		prop.OptEnum("CanEscalate", &d.CanEscalate, pmtypes.AlertConditionPriorities),
		prop.OptEnum("CanDeescalate", &d.CanDeescalate, pmtypes.AlertConditionPriorities),
	}})
}

type LimitAlertConditionDescriptor struct {
	AlertConditionDescriptor
	MaxLimits          pmtypes.Range
	AutoLimitSupported *bool
}

func (d *LimitAlertConditionDescriptor) TypeName() string { return "LimitAlertConditionDescriptor" }
func (d *LimitAlertConditionDescriptor) NodeType() Kind   { return KindLimitAlertConditionDescriptor }

func (d *LimitAlertConditionDescriptor) AutoLimitSupportedValue() bool {
	return implied(d.AutoLimitSupported, false)
}

func (d *LimitAlertConditionDescriptor) Blocks() []prop.Block {
	return append(d.AlertConditionDescriptor.Blocks(), prop.Block{Type: "LimitAlertConditionDescriptor", Props: []prop.Property{
		prop.Struct("MaxLimits", &d.MaxLimits),
		prop.OptBool("AutoLimitSupported", &d.AutoLimitSupported).Implied(false),
	}})
}

type AlertSignalDescriptor struct {
	AbstractAlertDescriptor
	ConditionSignaled            *string
	Manifestation                pmtypes.AlertSignalManifestation
	Latching                     bool
	DefaultSignalGenerationDelay *time.Duration
	SignalDelegationSupported    *bool
	AcknowledgementSupported     *bool
	AcknowledgeTimeout           *time.Duration
}

func (d *AlertSignalDescriptor) TypeName() string { return "AlertSignalDescriptor" }
func (d *AlertSignalDescriptor) NodeType() Kind   { return KindAlertSignalDescriptor }

func (d *AlertSignalDescriptor) SignalDelegationSupportedValue() bool {
	return implied(d.SignalDelegationSupported, false)
}

func (d *AlertSignalDescriptor) AcknowledgementSupportedValue() bool {
	return implied(d.AcknowledgementSupported, false)
}

func (d *AlertSignalDescriptor) Blocks() []prop.Block {
	return append(d.AbstractAlertDescriptor.blocks(), prop.Block{Type: "AlertSignalDescriptor", Props: []prop.Property{
		prop.OptString("ConditionSignaled", &d.ConditionSignaled),
		prop.RequiredEnum("Manifestation", &d.Manifestation, pmtypes.AlertSignalManifestations),
		prop.Bool("Latching", &d.Latching),
		prop.Duration("DefaultSignalGenerationDelay", &d.DefaultSignalGenerationDelay).Implied(0),
		prop.OptBool("SignalDelegationSupported", &d.SignalDelegationSupported).Implied(false),
		prop.OptBool("AcknowledgementSupported", &d.AcknowledgementSupported).Implied(false),
		prop.Duration("AcknowledgeTimeout", &d.AcknowledgeTimeout),
	}})
}
