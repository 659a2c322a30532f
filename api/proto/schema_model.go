package pb

func descriptorMessages() []message {
	cv := msgOf("CodedValue")
	rng := msgOf("Range")
	ms := msgOf("Measurement")
	return []message{
		block("AbstractDescriptor", "",
			elem("Extension", msgOf("Extension")),
			elem("Type", cv),
			attr("Handle", plainString),
			attr("DescriptorVersion", uint64Value),
			attr("SafetyClassification", msgOf("SafetyClassification")),
		),

		block("AbstractDeviceComponentDescriptor", "AbstractDescriptor",
			elems("ProductionSpecification", msgOf("ProductionSpecification")),
		),
		block("AbstractComplexDeviceComponentDescriptor", "AbstractDeviceComponentDescriptor",
			elem("AlertSystem", msgOf("AlertSystemDescriptor")),
			elem("Sco", msgOf("ScoDescriptor")),
		),
		block("MdsDescriptor", "AbstractComplexDeviceComponentDescriptor",
			elem("MetaData", msgOf("MetaData")),
			elem("SystemContext", msgOf("SystemContextDescriptor")),
			elem("Clock", msgOf("ClockDescriptor")),
			elems("Battery", msgOf("BatteryDescriptor")),
			elems("Vmd", msgOf("VmdDescriptor")),
		),
		block("VmdDescriptor", "AbstractComplexDeviceComponentDescriptor",
			elems("Channel", msgOf("ChannelDescriptor")),
		),
		block("ChannelDescriptor", "AbstractDeviceComponentDescriptor",
			elems("Metric", unionOf("AbstractMetricDescriptor")),
		),
		block("ClockDescriptor", "AbstractDeviceComponentDescriptor",
			elems("TimeProtocol", cv),
			attr("Resolution", duration),
		),
		block("BatteryDescriptor", "AbstractDeviceComponentDescriptor",
			elem("CapacityFullCharge", ms),
			elem("CapacitySpecified", ms),
			elem("VoltageSpecified", ms),
		),
		block("ScoDescriptor", "AbstractDeviceComponentDescriptor",
			elems("Operation", unionOf("AbstractOperationDescriptor")),
		),
		block("SystemContextDescriptor", "AbstractDeviceComponentDescriptor",
			elem("PatientContext", msgOf("PatientContextDescriptor")),
			elem("LocationContext", msgOf("LocationContextDescriptor")),
			elems("EnsembleContext", msgOf("EnsembleContextDescriptor")),
			elems("OperatorContext", msgOf("OperatorContextDescriptor")),
			elems("WorkflowContext", msgOf("WorkflowContextDescriptor")),
			elems("MeansContext", msgOf("MeansContextDescriptor")),
		),

		block("AbstractContextDescriptor", "AbstractDescriptor"),
		block("PatientContextDescriptor", "AbstractContextDescriptor"),
		block("LocationContextDescriptor", "AbstractContextDescriptor"),
		block("EnsembleContextDescriptor", "AbstractContextDescriptor"),
		block("OperatorContextDescriptor", "AbstractContextDescriptor"),
		block("WorkflowContextDescriptor", "AbstractContextDescriptor"),
		block("MeansContextDescriptor", "AbstractContextDescriptor"),

		block("AbstractMetricDescriptor", "AbstractDescriptor",
			elem("Unit", cv),
			elems("BodySite", cv),
			elems("Relation", msgOf("Relation")),
			attr("MetricCategory", msgOf("MetricCategory")),
			attr("DerivationMethod", msgOf("DerivationMethod")),
			attr("MetricAvailability", msgOf("MetricAvailability")),
			attr("MaxMeasurementTime", duration),
			attr("MaxDelayTime", duration),
			attr("DeterminationPeriod", duration),
			attr("LifeTimePeriod", duration),
			attr("ActivationDuration", duration),
		),
		block("NumericMetricDescriptor", "AbstractMetricDescriptor",
			elems("TechnicalRange", rng),
			attr("Resolution", plainString),
			attr("AveragingPeriod", duration),
		),
		block("StringMetricDescriptor", "AbstractMetricDescriptor"),
		block("EnumStringMetricDescriptor", "StringMetricDescriptor",
			elems("AllowedValue", msgOf("AllowedValue")),
		),
		block("RealTimeSampleArrayMetricDescriptor", "AbstractMetricDescriptor",
			elems("TechnicalRange", rng),
			attr("Resolution", plainString),
			attr("SamplePeriod", duration),
		),
		block("DistributionSampleArrayMetricDescriptor", "AbstractMetricDescriptor",
			elems("TechnicalRange", rng),
			elem("DomainUnit", cv),
			elem("DistributionRange", rng),
			attr("Resolution", plainString),
		),

		block("AbstractOperationDescriptor", "AbstractDescriptor",
			attr("OperationTarget", plainString),
			attr("MaxTimeToFinish", duration),
			attr("InvocationEffectiveTimeout", duration),
			attr("Retriggerable", boolValue),
			attr("AccessLevel", msgOf("AccessLevel")),
		),
		block("SetValueOperationDescriptor", "AbstractOperationDescriptor"),
		block("SetStringOperationDescriptor", "AbstractOperationDescriptor",
			attr("MaxLength", uint64Value),
		),
		block("AbstractSetStateOperationDescriptor", "AbstractOperationDescriptor",
			texts("ModifiableData"),
		),
		block("ActivateOperationDescriptor", "AbstractSetStateOperationDescriptor",
			elems("Argument", msgOf("Argument")),
		),
		block("SetAlertStateOperationDescriptor", "AbstractSetStateOperationDescriptor"),
		block("SetComponentStateOperationDescriptor", "AbstractSetStateOperationDescriptor"),
		block("SetContextStateOperationDescriptor", "AbstractSetStateOperationDescriptor"),
		block("SetMetricStateOperationDescriptor", "AbstractSetStateOperationDescriptor"),

		block("AbstractAlertDescriptor", "AbstractDescriptor"),
		block("AlertSystemDescriptor", "AbstractAlertDescriptor",
			attr("MaxPhysiologicalParallelAlarms", uint64Value),
			attr("MaxTechnicalParallelAlarms", uint64Value),
			attr("SelfCheckPeriod", duration),
			elems("AlertCondition", unionOf("AlertConditionDescriptor")),
			elems("AlertSignal", msgOf("AlertSignalDescriptor")),
		),
		block("AlertConditionDescriptor", "AbstractAlertDescriptor",
			texts("Source"),
			elems("CauseInfo", msgOf("CauseInfo")),
			attr("Kind", msgOf("AlertConditionKind")),
			attr("Priority", msgOf("AlertConditionPriority")),
			attr("DefaultConditionGenerationDelay", duration),
			attr("CanEscalate", msgOf("AlertConditionPriority")),
			attr("CanDeescalate", msgOf("AlertConditionPriority")),
		),
		block("LimitAlertConditionDescriptor", "AlertConditionDescriptor",
			elem("MaxLimits", rng),
			attr("AutoLimitSupported", boolValue),
		),
		block("AlertSignalDescriptor", "AbstractAlertDescriptor",
			attr("ConditionSignaled", stringValue),
			attr("Manifestation", msgOf("AlertSignalManifestation")),
			attr("Latching", plainBool),
			attr("DefaultSignalGenerationDelay", duration),
			attr("SignalDelegationSupported", boolValue),
			attr("AcknowledgementSupported", boolValue),
			attr("AcknowledgeTimeout", duration),
		),

		union("AbstractDescriptor",
			fam("AbstractDeviceComponentDescriptor"),
			fam("AbstractContextDescriptor"),
			fam("AbstractMetricDescriptor"),
			fam("AbstractOperationDescriptor"),
			fam("AbstractAlertDescriptor"),
		),
		union("AbstractDeviceComponentDescriptor",
			fam("AbstractComplexDeviceComponentDescriptor"),
			leaf("ChannelDescriptor"),
			leaf("ClockDescriptor"),
			leaf("BatteryDescriptor"),
			leaf("ScoDescriptor"),
			leaf("SystemContextDescriptor"),
		),
		union("AbstractComplexDeviceComponentDescriptor", leaf("MdsDescriptor"), leaf("VmdDescriptor")),
		union("AbstractContextDescriptor",
			leaf("PatientContextDescriptor"),
			leaf("LocationContextDescriptor"),
			leaf("EnsembleContextDescriptor"),
			leaf("OperatorContextDescriptor"),
			leaf("WorkflowContextDescriptor"),
			leaf("MeansContextDescriptor"),
		),
		union("AbstractMetricDescriptor",
			leaf("NumericMetricDescriptor"),
			fam("StringMetricDescriptor"),
			leaf("RealTimeSampleArrayMetricDescriptor"),
			leaf("DistributionSampleArrayMetricDescriptor"),
		),
		union("StringMetricDescriptor", leaf("StringMetricDescriptor"), leaf("EnumStringMetricDescriptor")),
		union("AbstractOperationDescriptor",
			leaf("SetValueOperationDescriptor"),
			leaf("SetStringOperationDescriptor"),
			fam("AbstractSetStateOperationDescriptor"),
		),
		union("AbstractSetStateOperationDescriptor",
			leaf("ActivateOperationDescriptor"),
			leaf("SetAlertStateOperationDescriptor"),
			leaf("SetComponentStateOperationDescriptor"),
			leaf("SetContextStateOperationDescriptor"),
			leaf("SetMetricStateOperationDescriptor"),
		),
		union("AbstractAlertDescriptor",
			leaf("AlertSystemDescriptor"),
			fam("AlertConditionDescriptor"),
			leaf("AlertSignalDescriptor"),
		),
		union("AlertConditionDescriptor", leaf("AlertConditionDescriptor"), leaf("LimitAlertConditionDescriptor")),
	}
}

func stateMessages() []message {
	cv := msgOf("CodedValue")
	rng := msgOf("Range")
	ms := msgOf("Measurement")
	return []message{
		block("AbstractState", "",
			elem("Extension", msgOf("Extension")),
			attr("StateVersion", uint64Value),
			attr("DescriptorHandle", plainString),
			attr("DescriptorVersion", uint64Value),
		),

		block("AbstractOperationState", "AbstractState",
			attr("OperatingMode", msgOf("OperatingMode")),
		),
		block("SetValueOperationState", "AbstractOperationState", elems("AllowedRange", rng)),
		block("SetStringOperationState", "AbstractOperationState", texts("AllowedValues")),
		block("ActivateOperationState", "AbstractOperationState"),
		block("SetAlertStateOperationState", "AbstractOperationState"),
		block("SetComponentStateOperationState", "AbstractOperationState"),
		block("SetContextStateOperationState", "AbstractOperationState"),
		block("SetMetricStateOperationState", "AbstractOperationState"),

		block("AbstractMetricState", "AbstractState",
			elems("BodySite", cv),
			elem("PhysicalConnector", msgOf("PhysicalConnectorInfo")),
			attr("ActivationState", msgOf("ComponentActivation")),
			attr("ActiveDeterminationPeriod", duration),
			attr("LifeTimePeriod", duration),
		),
		block("NumericMetricState", "AbstractMetricState",
			elem("MetricValue", msgOf("NumericMetricValue")),
			elems("PhysiologicalRange", rng),
			attr("ActiveAveragingPeriod", duration),
		),
		block("StringMetricState", "AbstractMetricState",
			elem("MetricValue", msgOf("StringMetricValue")),
		),
		block("EnumStringMetricState", "StringMetricState"),
		block("RealTimeSampleArrayMetricState", "AbstractMetricState",
			elem("MetricValue", msgOf("SampleArrayValue")),
			elems("PhysiologicalRange", rng),
		),
		block("DistributionSampleArrayMetricState", "AbstractMetricState",
			elem("MetricValue", msgOf("SampleArrayValue")),
			elems("PhysiologicalRange", rng),
		),

		block("AbstractDeviceComponentState", "AbstractState",
			elem("PhysicalConnector", msgOf("PhysicalConnectorInfo")),
			attr("ActivationState", msgOf("ComponentActivation")),
			attr("OperatingHours", uint64Value),
			attr("OperatingCycles", int64Value),
		),
		block("AbstractComplexDeviceComponentState", "AbstractDeviceComponentState"),
		block("MdsState", "AbstractComplexDeviceComponentState",
			elem("OperatingJurisdiction", msgOf("OperatingJurisdiction")),
			attr("Lang", stringValue),
			attr("OperatingMode", msgOf("MdsOperatingMode")),
		),
		block("VmdState", "AbstractComplexDeviceComponentState",
			elem("OperatingJurisdiction", msgOf("OperatingJurisdiction")),
		),
		block("ChannelState", "AbstractDeviceComponentState"),
		block("ScoState", "AbstractDeviceComponentState",
			elems("OperationGroup", msgOf("OperationGroup")),
			attrs("InvocationRequested"),
			attrs("InvocationRequired"),
		),
		block("ClockState", "AbstractDeviceComponentState",
			elem("ActiveSyncProtocol", cv),
			texts("ReferenceSource"),
			attr("DateAndTime", uint64Value),
			attr("RemoteSync", plainBool),
			attr("LastSet", uint64Value),
			attr("TimeZone", stringValue),
			attr("CriticalUse", boolValue),
		),
		block("BatteryState", "AbstractDeviceComponentState",
			elem("CapacityRemaining", ms),
			elem("Voltage", ms),
			elem("Current", ms),
			elem("Temperature", ms),
			elem("RemainingBatteryTime", ms),
			attr("ChargeStatus", msgOf("ChargeStatus")),
			attr("ChargeCycles", uint64Value),
		),
		block("SystemContextState", "AbstractDeviceComponentState"),

		block("AbstractAlertState", "AbstractState",
			attr("ActivationState", msgOf("AlertActivation")),
		),
		block("AlertSystemState", "AbstractAlertState",
			elems("SystemSignalActivation", msgOf("SystemSignalActivation")),
			attr("LastSelfCheck", uint64Value),
			attr("SelfCheckCount", int64Value),
			attrs("PresentPhysiologicalAlarmConditions"),
			attrs("PresentTechnicalAlarmConditions"),
		),
		block("AlertConditionState", "AbstractAlertState",
			attr("ActualConditionGenerationDelay", duration),
			attr("ActualPriority", msgOf("AlertConditionPriority")),
			attr("Rank", int64Value),
			attr("Presence", boolValue),
			attr("DeterminationTime", uint64Value),
		),
		block("LimitAlertConditionState", "AlertConditionState",
			elem("Limits", rng),
			attr("MonitoredAlertLimits", msgOf("AlertConditionMonitoredLimits")),
			attr("AutoLimitActivationState", msgOf("AlertActivation")),
		),
		block("AlertSignalState", "AbstractAlertState",
			attr("ActualSignalGenerationDelay", duration),
			attr("Presence", msgOf("AlertSignalPresence")),
			attr("Location", msgOf("AlertSignalPrimaryLocation")),
			attr("Slot", uint64Value),
		),

		block("AbstractMultiState", "AbstractState",
			elem("Category", cv),
			attr("Handle", plainString),
		),
		block("AbstractContextState", "AbstractMultiState",
			elems("Validator", unionOf("InstanceIdentifier")),
			elems("Identification", unionOf("InstanceIdentifier")),
			attr("ContextAssociation", msgOf("ContextAssociation")),
			attr("BindingMdibVersion", uint64Value),
			attr("UnbindingMdibVersion", uint64Value),
			attr("BindingStartTime", uint64Value),
			attr("BindingEndTime", uint64Value),
		),
		block("PatientContextState", "AbstractContextState",
			elem("CoreData", msgOf("PatientDemographicsCoreData")),
		),
		block("LocationContextState", "AbstractContextState",
			elem("LocationDetail", msgOf("LocationDetail")),
		),
		block("EnsembleContextState", "AbstractContextState"),
		block("OperatorContextState", "AbstractContextState"),
		block("WorkflowContextState", "AbstractContextState"),
		block("MeansContextState", "AbstractContextState"),

		union("AbstractState",
			fam("AbstractOperationState"),
			fam("AbstractMetricState"),
			fam("AbstractDeviceComponentState"),
			fam("AbstractAlertState"),
			fam("AbstractMultiState"),
		),
		union("AbstractOperationState",
			leaf("SetValueOperationState"),
			leaf("SetStringOperationState"),
			leaf("ActivateOperationState"),
			leaf("SetAlertStateOperationState"),
			leaf("SetComponentStateOperationState"),
			leaf("SetContextStateOperationState"),
			leaf("SetMetricStateOperationState"),
		),
		union("AbstractMetricState",
			leaf("NumericMetricState"),
			fam("StringMetricState"),
			leaf("RealTimeSampleArrayMetricState"),
			leaf("DistributionSampleArrayMetricState"),
		),
		union("StringMetricState", leaf("StringMetricState"), leaf("EnumStringMetricState")),
		union("AbstractDeviceComponentState",
			fam("AbstractComplexDeviceComponentState"),
			leaf("ChannelState"),
			leaf("ClockState"),
			leaf("BatteryState"),
			leaf("ScoState"),
			leaf("SystemContextState"),
		),
		union("AbstractComplexDeviceComponentState", leaf("MdsState"), leaf("VmdState")),
		union("AbstractAlertState",
			leaf("AlertSystemState"),
			fam("AlertConditionState"),
			leaf("AlertSignalState"),
		),
		union("AlertConditionState", leaf("AlertConditionState"), leaf("LimitAlertConditionState")),
		union("AbstractMultiState", fam("AbstractContextState")),
		union("AbstractContextState",
			leaf("PatientContextState"),
			leaf("LocationContextState"),
			leaf("EnsembleContextState"),
			leaf("OperatorContextState"),
			leaf("WorkflowContextState"),
			leaf("MeansContextState"),
		),
	}
}
