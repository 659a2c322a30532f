package pb

func enumMessages() []message {
	return []message{
		enumMsg("SafetyClassification", "INF", "MED_A", "MED_B", "MED_C"),
		enumMsg("MetricCategory", "UNSPEC", "MSRMT", "CLC", "SET", "PRESET", "RCMM"),
		enumMsg("DerivationMethod", "AUTO", "MAN"),
		enumMsg("MetricAvailability", "INTR", "CONT"),
		enumMsg("OperatingMode", "DIS", "EN", "NA"),
		enumMsg("AccessLevel", "USR", "CSUSR", "RO", "SP", "OTH"),
		enumMsg("AlertConditionKind", "PHY", "TEC", "OTH"),
		enumMsg("AlertConditionPriority", "NONE", "LO", "ME", "HI"),
		enumMsg("AlertSignalManifestation", "AUD", "VIS", "TAN", "OTH"),
		enumMsg("AlertActivation", "ON", "OFF", "PSD"),
		enumMsg("AlertSignalPresence", "ON", "OFF", "LATCH", "ACK"),
		enumMsg("AlertSignalPrimaryLocation", "LOC", "REM"),
		enumMsg("AlertConditionMonitoredLimits", "ALL", "LO_OFF", "HI_OFF", "NONE"),
		enumMsg("ComponentActivation", "ON", "NOT_RDY", "STND_BY", "OFF", "SHTDN", "FAIL"),
		enumMsg("ContextAssociation", "NO", "PRE", "ASSOC", "DIS"),
		enumMsg("MeasurementValidity", "VLD", "VLDATED", "ONG", "QST", "CALIB", "INV", "OFLW", "UFLW", "NA"),
		enumMsg("GenerationMode", "REAL", "TEST", "DEMO"),
		enumMsg("MdsOperatingMode", "NML", "DMO", "SRV", "MTN"),
		enumMsg("LocalizedTextWidth", "XS", "S", "M", "L", "XL", "XXL"),
		enumMsg("Sex", "UNSPEC", "M", "F", "UNKN"),
		enumMsg("PatientType", "UNSPEC", "AD", "ADO", "PED", "INF", "NEO", "OTH"),
		enumMsg("ChargeStatus", "FUL", "CH_B", "DIS_CH_B", "DEB"),
		enumMsg("RelationKind", "RCM", "PS", "SST", "ECE", "DCE", "OTH"),
		enumMsg("ModificationType", "CRT", "UPT", "DEL"),
	}
}

// pmMessages are the participant-model value types shared by descriptors
// and states.
func pmMessages() []message {
	lt := msgOf("LocalizedText")
	cv := msgOf("CodedValue")
	return []message{
		block("Extension", "", raw("content", plainBytes)),
		block("LocalizedText", "",
			raw("string", plainString),
			attr("Ref", stringValue),
			attr("Lang", stringValue),
			attr("Version", uint64Value),
			attr("TextWidth", msgOf("LocalizedTextWidth")),
		),
		block("Translation", "",
			attr("Code", plainString),
			attr("CodingSystem", stringValue),
			attr("CodingSystemVersion", stringValue),
		),
		block("CodedValue", "",
			elems("CodingSystemName", lt),
			elems("ConceptDescription", lt),
			elems("Translation", msgOf("Translation")),
			attr("Code", plainString),
			attr("CodingSystem", stringValue),
			attr("CodingSystemVersion", stringValue),
			attr("SymbolicCodeName", stringValue),
		),
		block("InstanceIdentifier", "",
			elem("Type", cv),
			elems("IdentifierName", lt),
			attr("Root", stringValue),
			attr("Extension", stringValue),
		),
		block("OperatingJurisdiction", "InstanceIdentifier"),
		union("InstanceIdentifier", leaf("InstanceIdentifier"), leaf("OperatingJurisdiction")),
		block("Range", "",
			attr("Lower", stringValue),
			attr("Upper", stringValue),
			attr("StepWidth", stringValue),
			attr("RelativeAccuracy", stringValue),
			attr("AbsoluteAccuracy", stringValue),
		),
		block("Measurement", "",
			elem("MeasurementUnit", cv),
			attr("MeasuredValue", plainString),
		),
		block("ProductionSpecification", "",
			elem("SpecType", cv),
			elem("ProductionSpec", plainString),
			elem("ComponentId", unionOf("InstanceIdentifier")),
		),
		block("MetaData", "",
			elem("LotNumber", stringValue),
			elems("Manufacturer", lt),
			elems("ModelName", lt),
			elem("ModelNumber", stringValue),
			texts("SerialNumber"),
		),
		block("AllowedValue", "",
			elem("Value", plainString),
			elem("Type", cv),
		),
		block("Argument", "",
			elem("ArgName", cv),
			elem("Arg", plainString),
		),
		block("RemedyInfo", "", elems("Description", lt)),
		block("CauseInfo", "",
			elem("RemedyInfo", msgOf("RemedyInfo")),
			elems("Description", lt),
		),
		block("Relation", "",
			elem("Code", cv),
			elem("Identification", unionOf("InstanceIdentifier")),
			attr("Kind", msgOf("RelationKind")),
			attrs("Entries"),
		),
		block("PhysicalConnectorInfo", "",
			elems("Label", lt),
			attr("Number", int64Value),
		),
		block("SystemSignalActivation", "",
			attr("Manifestation", msgOf("AlertSignalManifestation")),
			attr("State", msgOf("AlertActivation")),
		),
		block("LocationDetail", "",
			attr("PoC", stringValue),
			attr("Room", stringValue),
			attr("Bed", stringValue),
			attr("Facility", stringValue),
			attr("Building", stringValue),
			attr("Floor", stringValue),
		),
		block("BaseDemographics", "",
			elem("Givenname", stringValue),
			texts("Middlename"),
			elem("Familyname", stringValue),
			elem("Birthname", stringValue),
			elem("Title", stringValue),
		),
		block("PatientDemographicsCoreData", "BaseDemographics",
			attr("Sex", msgOf("Sex")),
			attr("PatientType", msgOf("PatientType")),
			elem("DateOfBirth", stringValue),
			elem("Height", msgOf("Measurement")),
			elem("Weight", msgOf("Measurement")),
		),
		block("OperationGroup", "",
			elem("Type", cv),
			attr("OperatingMode", msgOf("OperatingMode")),
			attrs("Operations"),
		),
		block("MetricQuality", "",
			attr("Validity", msgOf("MeasurementValidity")),
			attr("Mode", msgOf("GenerationMode")),
			attr("Qi", stringValue),
		),
		block("Annotation", "", elem("Type", cv)),
		block("AbstractMetricValue", "",
			elem("MetricQuality", msgOf("MetricQuality")),
			elems("Annotation", msgOf("Annotation")),
			attr("StartTime", uint64Value),
			attr("StopTime", uint64Value),
			attr("DeterminationTime", uint64Value),
		),
		block("NumericMetricValue", "AbstractMetricValue", attr("Value", stringValue)),
		block("StringMetricValue", "AbstractMetricValue", attr("Value", stringValue)),
		block("SampleArrayValue", "AbstractMetricValue", attrs("Samples")),
	}
}
