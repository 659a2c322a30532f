package model

import (
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
)

// AbstractState is the root block of every state.
type AbstractState struct {
	Extension         *prop.Extension
	StateVersion      uint64
	DescriptorHandle  string
	DescriptorVersion uint64
}

func (s *AbstractState) StateBase() *AbstractState { return s }

func (s *AbstractState) IncrementStateVersion() { s.StateVersion++ }

func (s *AbstractState) blocks() []prop.Block {
	return []prop.Block{{Type: "AbstractState", Props: []prop.Property{
		prop.Opaque("Extension", &s.Extension),
		prop.UintDefault("StateVersion", &s.StateVersion),
		prop.String("DescriptorHandle", &s.DescriptorHandle).AsIdentity(),
		prop.UintDefault("DescriptorVersion", &s.DescriptorVersion),
	}}}
}

// Operation states.

type AbstractOperationState struct {
	AbstractState
	OperatingMode pmtypes.OperatingMode
}

func (s *AbstractOperationState) setDefaults() { s.OperatingMode = pmtypes.OperatingModeEn }

func (s *AbstractOperationState) blocks() []prop.Block {
	return append(s.AbstractState.blocks(), prop.Block{Type: "AbstractOperationState", Props: []prop.Property{
		prop.RequiredEnum("OperatingMode", &s.OperatingMode, pmtypes.OperatingModes),
	}})
}

type SetValueOperationState struct {
	AbstractOperationState
	AllowedRange []*pmtypes.Range
}

func (s *SetValueOperationState) TypeName() string { return "SetValueOperationState" }
func (s *SetValueOperationState) NodeType() Kind   { return KindSetValueOperationState }
func (s *SetValueOperationState) Blocks() []prop.Block {
	return append(s.AbstractOperationState.blocks(), prop.Block{Type: "SetValueOperationState", Props: []prop.Property{
		prop.Elements("AllowedRange", &s.AllowedRange, "Range"),
	}})
}

type SetStringOperationState struct {
	AbstractOperationState
	AllowedValues []string
}

func (s *SetStringOperationState) TypeName() string { return "SetStringOperationState" }
func (s *SetStringOperationState) NodeType() Kind   { return KindSetStringOperationState }
func (s *SetStringOperationState) Blocks() []prop.Block {
	return append(s.AbstractOperationState.blocks(), prop.Block{Type: "SetStringOperationState", Props: []prop.Property{
		prop.Strings("AllowedValues", &s.AllowedValues, prop.InTextList),
	}})
}

type ActivateOperationState struct{ AbstractOperationState }

func (s *ActivateOperationState) TypeName() string { return "ActivateOperationState" }
func (s *ActivateOperationState) NodeType() Kind   { return KindActivateOperationState }
func (s *ActivateOperationState) Blocks() []prop.Block {
	return append(s.AbstractOperationState.blocks(), prop.Block{Type: "ActivateOperationState"})
}

type SetAlertStateOperationState struct{ AbstractOperationState }

func (s *SetAlertStateOperationState) TypeName() string { return "SetAlertStateOperationState" }
func (s *SetAlertStateOperationState) NodeType() Kind   { return KindSetAlertStateOperationState }
func (s *SetAlertStateOperationState) Blocks() []prop.Block {
	return append(s.AbstractOperationState.blocks(), prop.Block{Type: "SetAlertStateOperationState"})
}

type SetComponentStateOperationState struct{ AbstractOperationState }

func (s *SetComponentStateOperationState) TypeName() string {
	return "SetComponentStateOperationState"
}
func (s *SetComponentStateOperationState) NodeType() Kind { return KindSetComponentStateOperationState }
func (s *SetComponentStateOperationState) Blocks() []prop.Block {
	return append(s.AbstractOperationState.blocks(), prop.Block{Type: "SetComponentStateOperationState"})
}

type SetContextStateOperationState struct{ AbstractOperationState }

func (s *SetContextStateOperationState) TypeName() string { return "SetContextStateOperationState" }
func (s *SetContextStateOperationState) NodeType() Kind   { return KindSetContextStateOperationState }
func (s *SetContextStateOperationState) Blocks() []prop.Block {
	return append(s.AbstractOperationState.blocks(), prop.Block{Type: "SetContextStateOperationState"})
}

type SetMetricStateOperationState struct{ AbstractOperationState }

func (s *SetMetricStateOperationState) TypeName() string { return "SetMetricStateOperationState" }
func (s *SetMetricStateOperationState) NodeType() Kind   { return KindSetMetricStateOperationState }
func (s *SetMetricStateOperationState) Blocks() []prop.Block {
	return append(s.AbstractOperationState.blocks(), prop.Block{Type: "SetMetricStateOperationState"})
}

// Metric states.

type AbstractMetricState struct {
	AbstractState
	BodySite                  []*pmtypes.CodedValue
	PhysicalConnector         *pmtypes.PhysicalConnectorInfo
	ActivationState           *pmtypes.ComponentActivation
	ActiveDeterminationPeriod *time.Duration
	LifeTimePeriod            *time.Duration
}

func (s *AbstractMetricState) ActivationStateValue() pmtypes.ComponentActivation {
	return implied(s.ActivationState, pmtypes.ActivationOn)
}

func (s *AbstractMetricState) blocks() []prop.Block {
	return append(s.AbstractState.blocks(), prop.Block{Type: "AbstractMetricState", Props: []prop.Property{
		prop.Elements("BodySite", &s.BodySite, "CodedValue"),
		prop.Element("PhysicalConnector", &s.PhysicalConnector, "PhysicalConnectorInfo"),
		prop.OptEnum("ActivationState", &s.ActivationState, pmtypes.ComponentActivations).Implied(pmtypes.ActivationOn),
		prop.Duration("ActiveDeterminationPeriod", &s.ActiveDeterminationPeriod),
		prop.Duration("LifeTimePeriod", &s.LifeTimePeriod),
	}})
}

type NumericMetricState struct {
	AbstractMetricState
	MetricValue           *pmtypes.NumericMetricValue
	PhysiologicalRange    []*pmtypes.Range
	ActiveAveragingPeriod *time.Duration
}

func (s *NumericMetricState) TypeName() string { return "NumericMetricState" }
func (s *NumericMetricState) NodeType() Kind   { return KindNumericMetricState }
func (s *NumericMetricState) Blocks() []prop.Block {
	return append(s.AbstractMetricState.blocks(), prop.Block{Type: "NumericMetricState", Props: []prop.Property{
		prop.Element("MetricValue", &s.MetricValue, "NumericMetricValue"),
		prop.Elements("PhysiologicalRange", &s.PhysiologicalRange, "Range"),
		prop.Duration("ActiveAveragingPeriod", &s.ActiveAveragingPeriod),
	}})
}

type StringMetricState struct {
	AbstractMetricState
	MetricValue *pmtypes.StringMetricValue
}

func (s *StringMetricState) TypeName() string { return "StringMetricState" }
func (s *StringMetricState) NodeType() Kind   { return KindStringMetricState }
func (s *StringMetricState) Blocks() []prop.Block {
	return append(s.AbstractMetricState.blocks(), prop.Block{Type: "StringMetricState", Props: []prop.Property{
		prop.Element("MetricValue", &s.MetricValue, "StringMetricValue"),
	}})
}

type EnumStringMetricState struct{ StringMetricState }

func (s *EnumStringMetricState) TypeName() string { return "EnumStringMetricState" }
func (s *EnumStringMetricState) NodeType() Kind   { return KindEnumStringMetricState }
func (s *EnumStringMetricState) Blocks() []prop.Block {
	return append(s.StringMetricState.Blocks(), prop.Block{Type: "EnumStringMetricState"})
}

type RealTimeSampleArrayMetricState struct {
	AbstractMetricState
	MetricValue        *pmtypes.SampleArrayValue
	PhysiologicalRange []*pmtypes.Range
}

func (s *RealTimeSampleArrayMetricState) TypeName() string { return "RealTimeSampleArrayMetricState" }
func (s *RealTimeSampleArrayMetricState) NodeType() Kind   { return KindRealTimeSampleArrayMetricState }
func (s *RealTimeSampleArrayMetricState) Blocks() []prop.Block {
	return append(s.AbstractMetricState.blocks(), prop.Block{Type: "RealTimeSampleArrayMetricState", Props: []prop.Property{
		prop.Element("MetricValue", &s.MetricValue, "SampleArrayValue"),
		prop.Elements("PhysiologicalRange", &s.PhysiologicalRange, "Range"),
	}})
}

type DistributionSampleArrayMetricState struct {
	AbstractMetricState
	MetricValue        *pmtypes.SampleArrayValue
	PhysiologicalRange []*pmtypes.Range
}

func (s *DistributionSampleArrayMetricState) TypeName() string {
	return "DistributionSampleArrayMetricState"
}
func (s *DistributionSampleArrayMetricState) NodeType() Kind {
	return KindDistributionSampleArrayMetricState
}
func (s *DistributionSampleArrayMetricState) Blocks() []prop.Block {
	return append(s.AbstractMetricState.blocks(), prop.Block{Type: "DistributionSampleArrayMetricState", Props: []prop.Property{
		prop.Element("MetricValue", &s.MetricValue, "SampleArrayValue"),
		prop.Elements("PhysiologicalRange", &s.PhysiologicalRange, "Range"),
	}})
}

// Device component states.

type AbstractDeviceComponentState struct {
	AbstractState
	PhysicalConnector *pmtypes.PhysicalConnectorInfo
	ActivationState   *pmtypes.ComponentActivation
	OperatingHours    *uint64
	OperatingCycles   *int64
}

func (s *AbstractDeviceComponentState) ActivationStateValue() pmtypes.ComponentActivation {
	return implied(s.ActivationState, pmtypes.ActivationOn)
}

func (s *AbstractDeviceComponentState) blocks() []prop.Block {
	return append(s.AbstractState.blocks(), prop.Block{Type: "AbstractDeviceComponentState", Props: []prop.Property{
		prop.Element("PhysicalConnector", &s.PhysicalConnector, "PhysicalConnectorInfo"),
		prop.OptEnum("ActivationState", &s.ActivationState, pmtypes.ComponentActivations).Implied(pmtypes.ActivationOn),
		prop.OptUint("OperatingHours", &s.OperatingHours),
		prop.OptInt("OperatingCycles", &s.OperatingCycles),
	}})
}

type AbstractComplexDeviceComponentState struct {
	AbstractDeviceComponentState
}

func (s *AbstractComplexDeviceComponentState) blocks() []prop.Block {
	return append(s.AbstractDeviceComponentState.blocks(), prop.Block{Type: "AbstractComplexDeviceComponentState"})
}

type MdsState struct {
	AbstractComplexDeviceComponentState
	OperatingJurisdiction *pmtypes.OperatingJurisdiction
	Lang                  *string
	OperatingMode         *pmtypes.MdsOperatingMode
}

func (s *MdsState) TypeName() string { return "MdsState" }
func (s *MdsState) NodeType() Kind   { return KindMdsState }

func (s *MdsState) OperatingModeValue() pmtypes.MdsOperatingMode {
	return implied(s.OperatingMode, pmtypes.MdsNormal)
}

func (s *MdsState) Blocks() []prop.Block {
	return append(s.AbstractComplexDeviceComponentState.blocks(), prop.Block{Type: "MdsState", Props: []prop.Property{
		prop.Element("OperatingJurisdiction", &s.OperatingJurisdiction, "OperatingJurisdiction"),
		prop.OptString("Lang", &s.Lang),
		prop.OptEnum("OperatingMode", &s.OperatingMode, pmtypes.MdsOperatingModes).Implied(pmtypes.MdsNormal),
	}})
}

type VmdState struct {
	AbstractComplexDeviceComponentState
	OperatingJurisdiction *pmtypes.OperatingJurisdiction
}

func (s *VmdState) TypeName() string { return "VmdState" }
func (s *VmdState) NodeType() Kind   { return KindVmdState }
func (s *VmdState) Blocks() []prop.Block {
	return append(s.AbstractComplexDeviceComponentState.blocks(), prop.Block{Type: "VmdState", Props: []prop.Property{
		prop.Element("OperatingJurisdiction", &s.OperatingJurisdiction, "OperatingJurisdiction"),
	}})
}

type ChannelState struct{ AbstractDeviceComponentState }

func (s *ChannelState) TypeName() string { return "ChannelState" }
func (s *ChannelState) NodeType() Kind   { return KindChannelState }
func (s *ChannelState) Blocks() []prop.Block {
	return append(s.AbstractDeviceComponentState.blocks(), prop.Block{Type: "ChannelState"})
}

type ScoState struct {
	AbstractDeviceComponentState
	OperationGroup      []*pmtypes.OperationGroup
	InvocationRequested []string
	InvocationRequired  []string
}

func (s *ScoState) TypeName() string { return "ScoState" }
func (s *ScoState) NodeType() Kind   { return KindScoState }
func (s *ScoState) Blocks() []prop.Block {
	return append(s.AbstractDeviceComponentState.blocks(), prop.Block{Type: "ScoState", Props: []prop.Property{
		prop.Elements("OperationGroup", &s.OperationGroup, "OperationGroup"),
		prop.Strings("InvocationRequested", &s.InvocationRequested, prop.InAttributeList),
		prop.Strings("InvocationRequired", &s.InvocationRequired, prop.InAttributeList),
	}})
}

type ClockState struct {
	AbstractDeviceComponentState
	ActiveSyncProtocol *pmtypes.CodedValue
	ReferenceSource    []string
	DateAndTime        *uint64
	RemoteSync         bool
	LastSet            *uint64
	TimeZone           *string
	CriticalUse        *bool
}

func (s *ClockState) TypeName() string { return "ClockState" }
func (s *ClockState) NodeType() Kind   { return KindClockState }

func (s *ClockState) CriticalUseValue() bool { return implied(s.CriticalUse, false) }

func (s *ClockState) Blocks() []prop.Block {
	return append(s.AbstractDeviceComponentState.blocks(), prop.Block{Type: "ClockState", Props: []prop.Property{
		prop.Element("ActiveSyncProtocol", &s.ActiveSyncProtocol, "CodedValue"),
		prop.Strings("ReferenceSource", &s.ReferenceSource, prop.InTextList),
		prop.OptUint("DateAndTime", &s.DateAndTime),
		prop.Bool("RemoteSync", &s.RemoteSync),
		prop.OptUint("LastSet", &s.LastSet),
		prop.OptString("TimeZone", &s.TimeZone),
		prop.OptBool("CriticalUse", &s.CriticalUse).Implied(false),
	}})
}

type BatteryState struct {
	AbstractDeviceComponentState
	CapacityRemaining    *pmtypes.Measurement
	Voltage              *pmtypes.Measurement
	Current              *pmtypes.Measurement
	Temperature          *pmtypes.Measurement
	RemainingBatteryTime *pmtypes.Measurement
	ChargeStatus         *pmtypes.ChargeStatus
	ChargeCycles         *uint64
}

func (s *BatteryState) TypeName() string { return "BatteryState" }
func (s *BatteryState) NodeType() Kind   { return KindBatteryState }
func (s *BatteryState) Blocks() []prop.Block {
	return append(s.AbstractDeviceComponentState.blocks(), prop.Block{Type: "BatteryState", Props: []prop.Property{
		prop.Element("CapacityRemaining", &s.CapacityRemaining, "Measurement"),
		prop.Element("Voltage", &s.Voltage, "Measurement"),
		prop.Element("Current", &s.Current, "Measurement"),
		prop.Element("Temperature", &s.Temperature, "Measurement"),
		prop.Element("RemainingBatteryTime", &s.RemainingBatteryTime, "Measurement"),
		prop.OptEnum("ChargeStatus", &s.ChargeStatus, pmtypes.ChargeStatuses),
		prop.OptUint("ChargeCycles", &s.ChargeCycles),
	}})
}

type SystemContextState struct{ AbstractDeviceComponentState }

func (s *SystemContextState) TypeName() string { return "SystemContextState" }
func (s *SystemContextState) NodeType() Kind   { return KindSystemContextState }
func (s *SystemContextState) Blocks() []prop.Block {
	return append(s.AbstractDeviceComponentState.blocks(), prop.Block{Type: "SystemContextState"})
}

// Alert states.

type AbstractAlertState struct {
	AbstractState
	ActivationState pmtypes.AlertActivation
}

func (s *AbstractAlertState) setDefaults() { s.ActivationState = pmtypes.AlertOn }

func (s *AbstractAlertState) blocks() []prop.Block {
	return append(s.AbstractState.blocks(), prop.Block{Type: "AbstractAlertState", Props: []prop.Property{
		prop.RequiredEnum("ActivationState", &s.ActivationState, pmtypes.AlertActivations),
	}})
}

type AlertSystemState struct {
	AbstractAlertState
	SystemSignalActivation              []*pmtypes.SystemSignalActivation
	LastSelfCheck                       *uint64
	SelfCheckCount                      *int64
	PresentPhysiologicalAlarmConditions []string
	PresentTechnicalAlarmConditions     []string
}

func (s *AlertSystemState) TypeName() string { return "AlertSystemState" }
func (s *AlertSystemState) NodeType() Kind   { return KindAlertSystemState }
func (s *AlertSystemState) Blocks() []prop.Block {
	return append(s.AbstractAlertState.blocks(), prop.Block{Type: "AlertSystemState", Props: []prop.Property{
		prop.Elements("SystemSignalActivation", &s.SystemSignalActivation, "SystemSignalActivation"),
		prop.OptUint("LastSelfCheck", &s.LastSelfCheck),
		prop.OptInt("SelfCheckCount", &s.SelfCheckCount),
		prop.Strings("PresentPhysiologicalAlarmConditions", &s.PresentPhysiologicalAlarmConditions, prop.InAttributeList),
		prop.Strings("PresentTechnicalAlarmConditions", &s.PresentTechnicalAlarmConditions, prop.InAttributeList),
	}})
}

type AlertConditionState struct {
	AbstractAlertState
	ActualConditionGenerationDelay *time.Duration
	ActualPriority                 *pmtypes.AlertConditionPriority
	Rank                           *int64
	Presence                       *bool
	DeterminationTime              *uint64
}

func (s *AlertConditionState) TypeName() string { return "AlertConditionState" }
func (s *AlertConditionState) NodeType() Kind   { return KindAlertConditionState }

func (s *AlertConditionState) PresenceValue() bool { return implied(s.Presence, false) }

func (s *AlertConditionState) Blocks() []prop.Block {
	return append(s.AbstractAlertState.blocks(), prop.Block{Type: "AlertConditionState", Props: []prop.Property{
		prop.Duration("ActualConditionGenerationDelay", &s.ActualConditionGenerationDelay),
		prop.OptEnum("ActualPriority", &s.ActualPriority, pmtypes.AlertConditionPriorities),
		prop.OptInt("Rank", &s.Rank),
		prop.OptBool("Presence", &s.Presence).Implied(false),
		prop.OptUint("DeterminationTime", &s.DeterminationTime),
	}})
}

type LimitAlertConditionState struct {
	AlertConditionState
	Limits                   pmtypes.Range
	MonitoredAlertLimits     pmtypes.AlertConditionMonitoredLimits
	AutoLimitActivationState *pmtypes.AlertActivation
}

func (s *LimitAlertConditionState) TypeName() string { return "LimitAlertConditionState" }
func (s *LimitAlertConditionState) NodeType() Kind   { return KindLimitAlertConditionState }
func (s *LimitAlertConditionState) Blocks() []prop.Block {
	return append(s.AlertConditionState.Blocks(), prop.Block{Type: "LimitAlertConditionState", Props: []prop.Property{
		prop.Struct("Limits", &s.Limits),
		prop.RequiredEnum("MonitoredAlertLimits", &s.MonitoredAlertLimits, pmtypes.AlertConditionMonitoredLimitsValues),
		prop.OptEnum("AutoLimitActivationState", &s.AutoLimitActivationState, pmtypes.AlertActivations),
	}})
}

type AlertSignalState struct {
	AbstractAlertState
	ActualSignalGenerationDelay *time.Duration
	Presence                    *pmtypes.AlertSignalPresence
	Location                    *pmtypes.AlertSignalPrimaryLocation
	Slot                        *uint64
}

func (s *AlertSignalState) TypeName() string { return "AlertSignalState" }
func (s *AlertSignalState) NodeType() Kind   { return KindAlertSignalState }

func (s *AlertSignalState) PresenceValue() pmtypes.AlertSignalPresence {
	return implied(s.Presence, pmtypes.SignalOff)
}

func (s *AlertSignalState) LocationValue() pmtypes.AlertSignalPrimaryLocation {
	return implied(s.Location, pmtypes.LocationLocal)
}

func (s *AlertSignalState) Blocks() []prop.Block {
	return append(s.AbstractAlertState.blocks(), prop.Block{Type: "AlertSignalState", Props: []prop.Property{
		prop.Duration("ActualSignalGenerationDelay", &s.ActualSignalGenerationDelay),
		prop.OptEnum("Presence", &s.Presence, pmtypes.AlertSignalPresences).Implied(pmtypes.SignalOff),
		prop.OptEnum("Location", &s.Location, pmtypes.AlertSignalPrimaryLocations).Implied(pmtypes.LocationLocal),
		prop.OptUint("Slot", &s.Slot),
	}})
}

// Multi and context states.

type AbstractMultiState struct {
	AbstractState
	Category *pmtypes.CodedValue
	Handle   string
}

func (s *AbstractMultiState) MultiBase() *AbstractMultiState { return s }

func (s *AbstractMultiState) blocks() []prop.Block {
	return append(s.AbstractState.blocks(), prop.Block{Type: "AbstractMultiState", Props: []prop.Property{
		prop.Element("Category", &s.Category, "CodedValue"),
		prop.String("Handle", &s.Handle).AsIdentity(),
	}})
}

type AbstractContextState struct {
	AbstractMultiState
	Validator            []pmtypes.Identifier
	Identification       []pmtypes.Identifier
	ContextAssociation   *pmtypes.ContextAssociation
	BindingMdibVersion   *uint64
	UnbindingMdibVersion *uint64
	BindingStartTime     *uint64
	BindingEndTime       *uint64
}

func (s *AbstractContextState) ContextBase() *AbstractContextState { return s }

func (s *AbstractContextState) ContextAssociationValue() pmtypes.ContextAssociation {
	return implied(s.ContextAssociation, pmtypes.AssociationNo)
}

func (s *AbstractContextState) blocks() []prop.Block {
	return append(s.AbstractMultiState.blocks(), prop.Block{Type: "AbstractContextState", Props: []prop.Property{
		prop.Elements("Validator", &s.Validator, "InstanceIdentifier"),
		prop.Elements("Identification", &s.Identification, "InstanceIdentifier"),
		prop.OptEnum("ContextAssociation", &s.ContextAssociation, pmtypes.ContextAssociations).
			Implied(pmtypes.AssociationNo),
		prop.OptUint("BindingMdibVersion", &s.BindingMdibVersion),
		prop.OptUint("UnbindingMdibVersion", &s.UnbindingMdibVersion),
		prop.OptUint("BindingStartTime", &s.BindingStartTime),
		prop.OptUint("BindingEndTime", &s.BindingEndTime),
	}})
}

type PatientContextState struct {
	AbstractContextState
	CoreData *pmtypes.PatientDemographicsCoreData
}

func (s *PatientContextState) TypeName() string { return "PatientContextState" }
func (s *PatientContextState) NodeType() Kind   { return KindPatientContextState }
func (s *PatientContextState) Blocks() []prop.Block {
	return append(s.AbstractContextState.blocks(), prop.Block{Type: "PatientContextState", Props: []prop.Property{
		prop.Element("CoreData", &s.CoreData, "PatientDemographicsCoreData"),
	}})
}

type LocationContextState struct {
	AbstractContextState
	LocationDetail *pmtypes.LocationDetail
}

func (s *LocationContextState) TypeName() string { return "LocationContextState" }
func (s *LocationContextState) NodeType() Kind   { return KindLocationContextState }
func (s *LocationContextState) Blocks() []prop.Block {
	return append(s.AbstractContextState.blocks(), prop.Block{Type: "LocationContextState", Props: []prop.Property{
		prop.Element("LocationDetail", &s.LocationDetail, "LocationDetail"),
	}})
}

type EnsembleContextState struct{ AbstractContextState }

func (s *EnsembleContextState) TypeName() string { return "EnsembleContextState" }
func (s *EnsembleContextState) NodeType() Kind   { return KindEnsembleContextState }
func (s *EnsembleContextState) Blocks() []prop.Block {
	return append(s.AbstractContextState.blocks(), prop.Block{Type: "EnsembleContextState"})
}

type OperatorContextState struct{ AbstractContextState }

func (s *OperatorContextState) TypeName() string { return "OperatorContextState" }
func (s *OperatorContextState) NodeType() Kind   { return KindOperatorContextState }
func (s *OperatorContextState) Blocks() []prop.Block {
	return append(s.AbstractContextState.blocks(), prop.Block{Type: "OperatorContextState"})
}

type WorkflowContextState struct{ AbstractContextState }

func (s *WorkflowContextState) TypeName() string { return "WorkflowContextState" }
func (s *WorkflowContextState) NodeType() Kind   { return KindWorkflowContextState }
func (s *WorkflowContextState) Blocks() []prop.Block {
	return append(s.AbstractContextState.blocks(), prop.Block{Type: "WorkflowContextState"})
}

type MeansContextState struct{ AbstractContextState }

func (s *MeansContextState) TypeName() string { return "MeansContextState" }
func (s *MeansContextState) NodeType() Kind   { return KindMeansContextState }
func (s *MeansContextState) Blocks() []prop.Block {
	return append(s.AbstractContextState.blocks(), prop.Block{Type: "MeansContextState"})
}
