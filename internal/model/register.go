package model

import (
	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
)

func family(name, parent string) prop.TypeInfo {
	return prop.TypeInfo{Name: name, Parent: parent, Family: true}
}

func concrete(name, parent string, isFamily bool, fn func() prop.Composite) prop.TypeInfo {
	return prop.TypeInfo{Name: name, Parent: parent, Family: isFamily, New: fn}
}

func withDefaults[T any, P interface {
	*T
	prop.Composite
	setDefaults()
}]() prop.Composite {
	p := P(new(T))
	p.setDefaults()
	return p
}

func init() {
	prop.Register(
		family("AbstractDescriptor", ""),
		family("AbstractDeviceComponentDescriptor", "AbstractDescriptor"),
		family("AbstractComplexDeviceComponentDescriptor", "AbstractDeviceComponentDescriptor"),
		concrete("MdsDescriptor", "AbstractComplexDeviceComponentDescriptor", false, func() prop.Composite { return &MdsDescriptor{} }),
		concrete("VmdDescriptor", "AbstractComplexDeviceComponentDescriptor", false, func() prop.Composite { return &VmdDescriptor{} }),
		concrete("ChannelDescriptor", "AbstractDeviceComponentDescriptor", false, func() prop.Composite { return &ChannelDescriptor{} }),
		concrete("ClockDescriptor", "AbstractDeviceComponentDescriptor", false, func() prop.Composite { return &ClockDescriptor{} }),
		concrete("BatteryDescriptor", "AbstractDeviceComponentDescriptor", false, func() prop.Composite { return &BatteryDescriptor{} }),
		concrete("ScoDescriptor", "AbstractDeviceComponentDescriptor", false, func() prop.Composite { return &ScoDescriptor{} }),
		concrete("SystemContextDescriptor", "AbstractDeviceComponentDescriptor", false, func() prop.Composite { return &SystemContextDescriptor{} }),

		family("AbstractContextDescriptor", "AbstractDescriptor"),
		concrete("PatientContextDescriptor", "AbstractContextDescriptor", false, func() prop.Composite { return &PatientContextDescriptor{} }),
		concrete("LocationContextDescriptor", "AbstractContextDescriptor", false, func() prop.Composite { return &LocationContextDescriptor{} }),
		concrete("EnsembleContextDescriptor", "AbstractContextDescriptor", false, func() prop.Composite { return &EnsembleContextDescriptor{} }),
		concrete("OperatorContextDescriptor", "AbstractContextDescriptor", false, func() prop.Composite { return &OperatorContextDescriptor{} }),
		concrete("WorkflowContextDescriptor", "AbstractContextDescriptor", false, func() prop.Composite { return &WorkflowContextDescriptor{} }),
		concrete("MeansContextDescriptor", "AbstractContextDescriptor", false, func() prop.Composite { return &MeansContextDescriptor{} }),

		family("AbstractMetricDescriptor", "AbstractDescriptor"),
		concrete("NumericMetricDescriptor", "AbstractMetricDescriptor", false, withDefaults[NumericMetricDescriptor]),
		concrete("StringMetricDescriptor", "AbstractMetricDescriptor", true, withDefaults[StringMetricDescriptor]),
		concrete("EnumStringMetricDescriptor", "StringMetricDescriptor", false, withDefaults[EnumStringMetricDescriptor]),
		concrete("RealTimeSampleArrayMetricDescriptor", "AbstractMetricDescriptor", false, withDefaults[RealTimeSampleArrayMetricDescriptor]),
		concrete("DistributionSampleArrayMetricDescriptor", "AbstractMetricDescriptor", false, withDefaults[DistributionSampleArrayMetricDescriptor]),

		family("AbstractOperationDescriptor", "AbstractDescriptor"),
		concrete("SetValueOperationDescriptor", "AbstractOperationDescriptor", false, func() prop.Composite { return &SetValueOperationDescriptor{} }),
		concrete("SetStringOperationDescriptor", "AbstractOperationDescriptor", false, func() prop.Composite { return &SetStringOperationDescriptor{} }),
		family("AbstractSetStateOperationDescriptor", "AbstractOperationDescriptor"),
		concrete("ActivateOperationDescriptor", "AbstractSetStateOperationDescriptor", false, func() prop.Composite { return &ActivateOperationDescriptor{} }),
		concrete("SetAlertStateOperationDescriptor", "AbstractSetStateOperationDescriptor", false, func() prop.Composite { return &SetAlertStateOperationDescriptor{} }),
		concrete("SetComponentStateOperationDescriptor", "AbstractSetStateOperationDescriptor", false, func() prop.Composite { return &SetComponentStateOperationDescriptor{} }),
		concrete("SetContextStateOperationDescriptor", "AbstractSetStateOperationDescriptor", false, func() prop.Composite { return &SetContextStateOperationDescriptor{} }),
		concrete("SetMetricStateOperationDescriptor", "AbstractSetStateOperationDescriptor", false, func() prop.Composite { return &SetMetricStateOperationDescriptor{} }),

		family("AbstractAlertDescriptor", "AbstractDescriptor"),
		concrete("AlertSystemDescriptor", "AbstractAlertDescriptor", false, func() prop.Composite { return &AlertSystemDescriptor{} }),
		concrete("AlertConditionDescriptor", "AbstractAlertDescriptor", true, func() prop.Composite {
			return &AlertConditionDescriptor{Priority: pmtypes.PriorityNone}
		}),
		concrete("LimitAlertConditionDescriptor", "AlertConditionDescriptor", false, func() prop.Composite {
			d := &LimitAlertConditionDescriptor{}
			d.Priority = pmtypes.PriorityNone
			return d
		}),
		concrete("AlertSignalDescriptor", "AbstractAlertDescriptor", false, func() prop.Composite {
			return &AlertSignalDescriptor{Manifestation: pmtypes.ManifestationOther}
		}),
	)

	prop.Register(
		family("AbstractState", ""),

		family("AbstractOperationState", "AbstractState"),
		concrete("SetValueOperationState", "AbstractOperationState", false, withDefaults[SetValueOperationState]),
		concrete("SetStringOperationState", "AbstractOperationState", false, withDefaults[SetStringOperationState]),
		concrete("ActivateOperationState", "AbstractOperationState", false, withDefaults[ActivateOperationState]),
		concrete("SetAlertStateOperationState", "AbstractOperationState", false, withDefaults[SetAlertStateOperationState]),
		concrete("SetComponentStateOperationState", "AbstractOperationState", false, withDefaults[SetComponentStateOperationState]),
		concrete("SetContextStateOperationState", "AbstractOperationState", false, withDefaults[SetContextStateOperationState]),
		concrete("SetMetricStateOperationState", "AbstractOperationState", false, withDefaults[SetMetricStateOperationState]),

		family("AbstractMetricState", "AbstractState"),
		concrete("NumericMetricState", "AbstractMetricState", false, func() prop.Composite { return &NumericMetricState{} }),
		concrete("StringMetricState", "AbstractMetricState", true, func() prop.Composite { return &StringMetricState{} }),
		concrete("EnumStringMetricState", "StringMetricState", false, func() prop.Composite { return &EnumStringMetricState{} }),
		concrete("RealTimeSampleArrayMetricState", "AbstractMetricState", false, func() prop.Composite { return &RealTimeSampleArrayMetricState{} }),
		concrete("DistributionSampleArrayMetricState", "AbstractMetricState", false, func() prop.Composite { return &DistributionSampleArrayMetricState{} }),

		family("AbstractDeviceComponentState", "AbstractState"),
		family("AbstractComplexDeviceComponentState", "AbstractDeviceComponentState"),
		concrete("MdsState", "AbstractComplexDeviceComponentState", false, func() prop.Composite { return &MdsState{} }),
		concrete("VmdState", "AbstractComplexDeviceComponentState", false, func() prop.Composite { return &VmdState{} }),
		concrete("ChannelState", "AbstractDeviceComponentState", false, func() prop.Composite { return &ChannelState{} }),
		concrete("ClockState", "AbstractDeviceComponentState", false, func() prop.Composite { return &ClockState{} }),
		concrete("BatteryState", "AbstractDeviceComponentState", false, func() prop.Composite { return &BatteryState{} }),
		concrete("ScoState", "AbstractDeviceComponentState", false, func() prop.Composite { return &ScoState{} }),
		concrete("SystemContextState", "AbstractDeviceComponentState", false, func() prop.Composite { return &SystemContextState{} }),

		family("AbstractAlertState", "AbstractState"),
		concrete("AlertSystemState", "AbstractAlertState", false, withDefaults[AlertSystemState]),
		concrete("AlertConditionState", "AbstractAlertState", true, withDefaults[AlertConditionState]),
		concrete("LimitAlertConditionState", "AlertConditionState", false, func() prop.Composite {
			s := &LimitAlertConditionState{MonitoredAlertLimits: pmtypes.LimitsAll}
			s.setDefaults()
			return s
		}),
		concrete("AlertSignalState", "AbstractAlertState", false, withDefaults[AlertSignalState]),

		family("AbstractMultiState", "AbstractState"),
		family("AbstractContextState", "AbstractMultiState"),
		concrete("PatientContextState", "AbstractContextState", false, func() prop.Composite { return &PatientContextState{} }),
		concrete("LocationContextState", "AbstractContextState", false, func() prop.Composite { return &LocationContextState{} }),
		concrete("EnsembleContextState", "AbstractContextState", false, func() prop.Composite { return &EnsembleContextState{} }),
		concrete("OperatorContextState", "AbstractContextState", false, func() prop.Composite { return &OperatorContextState{} }),
		concrete("WorkflowContextState", "AbstractContextState", false, func() prop.Composite { return &WorkflowContextState{} }),
		concrete("MeansContextState", "AbstractContextState", false, func() prop.Composite { return &MeansContextState{} }),
	)
}
