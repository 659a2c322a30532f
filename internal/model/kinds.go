package model

import "fmt"

// Kind is the discriminant of every concrete descriptor and state type.
type Kind int

const (
	KindUnknown Kind = iota

	KindMdsDescriptor
	KindVmdDescriptor
	KindChannelDescriptor
	KindClockDescriptor
	KindBatteryDescriptor
	KindScoDescriptor
	KindSystemContextDescriptor
	KindPatientContextDescriptor
	KindLocationContextDescriptor
	KindEnsembleContextDescriptor
	KindOperatorContextDescriptor
	KindWorkflowContextDescriptor
	KindMeansContextDescriptor
	KindNumericMetricDescriptor
	KindStringMetricDescriptor
	KindEnumStringMetricDescriptor
	KindRealTimeSampleArrayMetricDescriptor
	KindDistributionSampleArrayMetricDescriptor
	KindSetValueOperationDescriptor
	KindSetStringOperationDescriptor
	KindActivateOperationDescriptor
	KindSetAlertStateOperationDescriptor
	KindSetComponentStateOperationDescriptor
	KindSetContextStateOperationDescriptor
	KindSetMetricStateOperationDescriptor
	KindAlertSystemDescriptor
	KindAlertConditionDescriptor
	KindLimitAlertConditionDescriptor
	KindAlertSignalDescriptor

	KindMdsState
	KindVmdState
	KindChannelState
	KindClockState
	KindBatteryState
	KindScoState
	KindSystemContextState
	KindPatientContextState
	KindLocationContextState
	KindEnsembleContextState
	KindOperatorContextState
	KindWorkflowContextState
	KindMeansContextState
	KindNumericMetricState
	KindStringMetricState
	KindEnumStringMetricState
	KindRealTimeSampleArrayMetricState
	KindDistributionSampleArrayMetricState
	KindSetValueOperationState
	KindSetStringOperationState
	KindActivateOperationState
	KindSetAlertStateOperationState
	KindSetComponentStateOperationState
	KindSetContextStateOperationState
	KindSetMetricStateOperationState
	KindAlertSystemState
	KindAlertConditionState
	KindLimitAlertConditionState
	KindAlertSignalState

	kindEnd
)

var kindNames = [...]string{
	KindUnknown: "Unknown",

	KindMdsDescriptor:                           "MdsDescriptor",
	KindVmdDescriptor:                           "VmdDescriptor",
	KindChannelDescriptor:                       "ChannelDescriptor",
	KindClockDescriptor:                         "ClockDescriptor",
	KindBatteryDescriptor:                       "BatteryDescriptor",
	KindScoDescriptor:                           "ScoDescriptor",
	KindSystemContextDescriptor:                 "SystemContextDescriptor",
	KindPatientContextDescriptor:                "PatientContextDescriptor",
	KindLocationContextDescriptor:               "LocationContextDescriptor",
	KindEnsembleContextDescriptor:               "EnsembleContextDescriptor",
	KindOperatorContextDescriptor:               "OperatorContextDescriptor",
	KindWorkflowContextDescriptor:               "WorkflowContextDescriptor",
	KindMeansContextDescriptor:                  "MeansContextDescriptor",
	KindNumericMetricDescriptor:                 "NumericMetricDescriptor",
	KindStringMetricDescriptor:                  "StringMetricDescriptor",
	KindEnumStringMetricDescriptor:              "EnumStringMetricDescriptor",
	KindRealTimeSampleArrayMetricDescriptor:     "RealTimeSampleArrayMetricDescriptor",
	KindDistributionSampleArrayMetricDescriptor: "DistributionSampleArrayMetricDescriptor",
	KindSetValueOperationDescriptor:             "SetValueOperationDescriptor",
	KindSetStringOperationDescriptor:            "SetStringOperationDescriptor",
	KindActivateOperationDescriptor:             "ActivateOperationDescriptor",
	KindSetAlertStateOperationDescriptor:        "SetAlertStateOperationDescriptor",
	KindSetComponentStateOperationDescriptor:    "SetComponentStateOperationDescriptor",
	KindSetContextStateOperationDescriptor:      "SetContextStateOperationDescriptor",
	KindSetMetricStateOperationDescriptor:       "SetMetricStateOperationDescriptor",
	KindAlertSystemDescriptor:                   "AlertSystemDescriptor",
	KindAlertConditionDescriptor:                "AlertConditionDescriptor",
	KindLimitAlertConditionDescriptor:           "LimitAlertConditionDescriptor",
	KindAlertSignalDescriptor:                   "AlertSignalDescriptor",

	KindMdsState:                           "MdsState",
	KindVmdState:                           "VmdState",
	KindChannelState:                       "ChannelState",
	KindClockState:                         "ClockState",
	KindBatteryState:                       "BatteryState",
	KindScoState:                           "ScoState",
	KindSystemContextState:                 "SystemContextState",
	KindPatientContextState:                "PatientContextState",
	KindLocationContextState:               "LocationContextState",
	KindEnsembleContextState:               "EnsembleContextState",
	KindOperatorContextState:               "OperatorContextState",
	KindWorkflowContextState:               "WorkflowContextState",
	KindMeansContextState:                  "MeansContextState",
	KindNumericMetricState:                 "NumericMetricState",
	KindStringMetricState:                  "StringMetricState",
	KindEnumStringMetricState:              "EnumStringMetricState",
	KindRealTimeSampleArrayMetricState:     "RealTimeSampleArrayMetricState",
	KindDistributionSampleArrayMetricState: "DistributionSampleArrayMetricState",
	KindSetValueOperationState:             "SetValueOperationState",
	KindSetStringOperationState:            "SetStringOperationState",
	KindActivateOperationState:             "ActivateOperationState",
	KindSetAlertStateOperationState:        "SetAlertStateOperationState",
	KindSetComponentStateOperationState:    "SetComponentStateOperationState",
	KindSetContextStateOperationState:      "SetContextStateOperationState",
	KindSetMetricStateOperationState:       "SetMetricStateOperationState",
	KindAlertSystemState:                   "AlertSystemState",
	KindAlertConditionState:                "AlertConditionState",
	KindLimitAlertConditionState:           "LimitAlertConditionState",
	KindAlertSignalState:                   "AlertSignalState",
}

const firstStateKind = KindMdsState

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k := KindUnknown + 1; k < kindEnd; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

func (k Kind) String() string {
	if k <= KindUnknown || k >= kindEnd {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindOf returns the kind of a concrete type name.
func KindOf(typeName string) (Kind, bool) {
	k, ok := kindByName[typeName]
	return k, ok
}

func (k Kind) IsDescriptor() bool { return k > KindUnknown && k < firstStateKind }
func (k Kind) IsState() bool      { return k >= firstStateKind && k < kindEnd }

// StateKind returns the state kind paired with a descriptor kind.
func (k Kind) StateKind() Kind {
	if !k.IsDescriptor() {
		return KindUnknown
	}
	return k + (firstStateKind - KindMdsDescriptor)
}

// DescriptorKind returns the descriptor kind paired with a state kind.
func (k Kind) DescriptorKind() Kind {
	if !k.IsState() {
		return KindUnknown
	}
	return k - (firstStateKind - KindMdsDescriptor)
}

// IsContext reports whether k is a context descriptor or context state kind.
func (k Kind) IsContext() bool {
	d := k
	if k.IsState() {
		d = k.DescriptorKind()
	}
	return d >= KindPatientContextDescriptor && d <= KindMeansContextDescriptor
}

// DescriptorKinds returns all concrete descriptor kinds in declaration order.
func DescriptorKinds() []Kind {
	out := make([]Kind, 0, firstStateKind-KindMdsDescriptor)
	for k := KindMdsDescriptor; k < firstStateKind; k++ {
		out = append(out, k)
	}
	return out
}

// StateKinds returns all concrete state kinds in declaration order.
func StateKinds() []Kind {
	out := make([]Kind, 0, kindEnd-firstStateKind)
	for k := firstStateKind; k < kindEnd; k++ {
		out = append(out, k)
	}
	return out
}
