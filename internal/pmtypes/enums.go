package pmtypes

type SafetyClassification string

const (
	SafetyInf  SafetyClassification = "Inf"
	SafetyMedA SafetyClassification = "MedA"
	SafetyMedB SafetyClassification = "MedB"
	SafetyMedC SafetyClassification = "MedC"
)

var SafetyClassifications = []SafetyClassification{SafetyInf, SafetyMedA, SafetyMedB, SafetyMedC}

type MetricCategory string

const (
	MetricCategoryUnspec MetricCategory = "Unspec"
	MetricCategoryMsrmt  MetricCategory = "Msrmt"
	MetricCategoryClc    MetricCategory = "Clc"
	MetricCategorySet    MetricCategory = "Set"
	MetricCategoryPreset MetricCategory = "Preset"
	MetricCategoryRcmm   MetricCategory = "Rcmm"
)

var MetricCategories = []MetricCategory{
	MetricCategoryUnspec, MetricCategoryMsrmt, MetricCategoryClc,
	MetricCategorySet, MetricCategoryPreset, MetricCategoryRcmm,
}

type DerivationMethod string

const (
	DerivationAuto DerivationMethod = "Auto"
	DerivationMan  DerivationMethod = "Man"
)

var DerivationMethods = []DerivationMethod{DerivationAuto, DerivationMan}

type MetricAvailability string

const (
	AvailabilityIntr MetricAvailability = "Intr"
	AvailabilityCont MetricAvailability = "Cont"
)

var MetricAvailabilities = []MetricAvailability{AvailabilityIntr, AvailabilityCont}

type OperatingMode string

const (
	OperatingModeDis OperatingMode = "Dis"
	OperatingModeEn  OperatingMode = "En"
	OperatingModeNA  OperatingMode = "NA"
)

var OperatingModes = []OperatingMode{OperatingModeDis, OperatingModeEn, OperatingModeNA}

type AccessLevel string

const (
	AccessUsr   AccessLevel = "Usr"
	AccessCSUsr AccessLevel = "CSUsr"
	AccessRO    AccessLevel = "RO"
	AccessSP    AccessLevel = "SP"
	AccessOth   AccessLevel = "Oth"
)

var AccessLevels = []AccessLevel{AccessUsr, AccessCSUsr, AccessRO, AccessSP, AccessOth}

type AlertConditionKind string

const (
	AlertKindPhysiological AlertConditionKind = "Phy"
	AlertKindTechnical     AlertConditionKind = "Tec"
	AlertKindOther         AlertConditionKind = "Oth"
)

var AlertConditionKinds = []AlertConditionKind{AlertKindPhysiological, AlertKindTechnical, AlertKindOther}

type AlertConditionPriority string

const (
	PriorityNone   AlertConditionPriority = "None"
	PriorityLow    AlertConditionPriority = "Lo"
	PriorityMedium AlertConditionPriority = "Me"
	PriorityHigh   AlertConditionPriority = "Hi"
)

var AlertConditionPriorities = []AlertConditionPriority{PriorityNone, PriorityLow, PriorityMedium, PriorityHigh}

type AlertSignalManifestation string

const (
	ManifestationAudible  AlertSignalManifestation = "Aud"
	ManifestationVisible  AlertSignalManifestation = "Vis"
	ManifestationTangible AlertSignalManifestation = "Tan"
	ManifestationOther    AlertSignalManifestation = "Oth"
)

var AlertSignalManifestations = []AlertSignalManifestation{
	ManifestationAudible, ManifestationVisible, ManifestationTangible, ManifestationOther,
}

type AlertActivation string

const (
	AlertOn     AlertActivation = "On"
	AlertOff    AlertActivation = "Off"
	AlertPaused AlertActivation = "Psd"
)

var AlertActivations = []AlertActivation{AlertOn, AlertOff, AlertPaused}

type AlertSignalPresence string

const (
	SignalOn    AlertSignalPresence = "On"
	SignalOff   AlertSignalPresence = "Off"
	SignalLatch AlertSignalPresence = "Latch"
	SignalAck   AlertSignalPresence = "Ack"
)

var AlertSignalPresences = []AlertSignalPresence{SignalOn, SignalOff, SignalLatch, SignalAck}

type AlertSignalPrimaryLocation string

const (
	LocationLocal  AlertSignalPrimaryLocation = "Loc"
	LocationRemote AlertSignalPrimaryLocation = "Rem"
)

var AlertSignalPrimaryLocations = []AlertSignalPrimaryLocation{LocationLocal, LocationRemote}

type AlertConditionMonitoredLimits string

const (
	LimitsAll   AlertConditionMonitoredLimits = "All"
	LimitsLoOff AlertConditionMonitoredLimits = "LoOff"
	LimitsHiOff AlertConditionMonitoredLimits = "HiOff"
	LimitsNone  AlertConditionMonitoredLimits = "None"
)

var AlertConditionMonitoredLimitsValues = []AlertConditionMonitoredLimits{LimitsAll, LimitsLoOff, LimitsHiOff, LimitsNone}

type ComponentActivation string

const (
	ActivationOn       ComponentActivation = "On"
	ActivationNotReady ComponentActivation = "NotRdy"
	ActivationStandBy  ComponentActivation = "StndBy"
	ActivationOff      ComponentActivation = "Off"
	ActivationShutdown ComponentActivation = "Shtdn"
	ActivationFailure  ComponentActivation = "Fail"
)

var ComponentActivations = []ComponentActivation{
	ActivationOn, ActivationNotReady, ActivationStandBy,
	ActivationOff, ActivationShutdown, ActivationFailure,
}

type ContextAssociation string

const (
	AssociationNo            ContextAssociation = "No"
	AssociationPre           ContextAssociation = "Pre"
	AssociationAssociated    ContextAssociation = "Assoc"
	AssociationDisassociated ContextAssociation = "Dis"
)

var ContextAssociations = []ContextAssociation{AssociationNo, AssociationPre, AssociationAssociated, AssociationDisassociated}

type MeasurementValidity string

const (
	ValidityValid        MeasurementValidity = "Vld"
	ValidityValidated    MeasurementValidity = "Vldated"
	ValidityOngoing      MeasurementValidity = "Ong"
	ValidityQuestionable MeasurementValidity = "Qst"
	ValidityCalibration  MeasurementValidity = "Calib"
	ValidityInvalid      MeasurementValidity = "Inv"
	ValidityOverflow     MeasurementValidity = "Oflw"
	ValidityUnderflow    MeasurementValidity = "Uflw"
	ValidityNA           MeasurementValidity = "NA"
)

var MeasurementValidities = []MeasurementValidity{
	ValidityValid, ValidityValidated, ValidityOngoing, ValidityQuestionable, ValidityCalibration,
	ValidityInvalid, ValidityOverflow, ValidityUnderflow, ValidityNA,
}

type GenerationMode string

const (
	GenerationReal GenerationMode = "Real"
	GenerationTest GenerationMode = "Test"
	GenerationDemo GenerationMode = "Demo"
)

var GenerationModes = []GenerationMode{GenerationReal, GenerationTest, GenerationDemo}

type MdsOperatingMode string

const (
	MdsNormal      MdsOperatingMode = "Nml"
	MdsDemo        MdsOperatingMode = "Dmo"
	MdsService     MdsOperatingMode = "Srv"
	MdsMaintenance MdsOperatingMode = "Mtn"
)

var MdsOperatingModes = []MdsOperatingMode{MdsNormal, MdsDemo, MdsService, MdsMaintenance}

type LocalizedTextWidth string

const (
	WidthXS  LocalizedTextWidth = "xs"
	WidthS   LocalizedTextWidth = "s"
	WidthM   LocalizedTextWidth = "m"
	WidthL   LocalizedTextWidth = "l"
	WidthXL  LocalizedTextWidth = "xl"
	WidthXXL LocalizedTextWidth = "xxl"
)

var LocalizedTextWidths = []LocalizedTextWidth{WidthXS, WidthS, WidthM, WidthL, WidthXL, WidthXXL}

type Sex string

const (
	SexUnspec  Sex = "Unspec"
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexUnknown Sex = "Unkn"
)

var Sexes = []Sex{SexUnspec, SexMale, SexFemale, SexUnknown}

type PatientType string

const (
	PatientUnspec     PatientType = "Unspec"
	PatientAdult      PatientType = "Ad"
	PatientAdolescent PatientType = "Ado"
	PatientPediatric  PatientType = "Ped"
	PatientInfant     PatientType = "Inf"
	PatientNeonatal   PatientType = "Neo"
	PatientOther      PatientType = "Oth"
)

var PatientTypes = []PatientType{
	PatientUnspec, PatientAdult, PatientAdolescent, PatientPediatric,
	PatientInfant, PatientNeonatal, PatientOther,
}

type ChargeStatus string

const (
	ChargeFull            ChargeStatus = "Ful"
	ChargeCharging        ChargeStatus = "ChB"
	ChargeDischarging     ChargeStatus = "DisChB"
	ChargeDischargedEmpty ChargeStatus = "DEB"
)

var ChargeStatuses = []ChargeStatus{ChargeFull, ChargeCharging, ChargeDischarging, ChargeDischargedEmpty}

type RelationKind string

const (
	RelationRecommendation         RelationKind = "Rcm"
	RelationPresetSetting          RelationKind = "PS"
	RelationSetOfSummaryStats      RelationKind = "SST"
	RelationEffectOnContainment    RelationKind = "ECE"
	RelationDerivedFromContainment RelationKind = "DCE"
	RelationOther                  RelationKind = "Oth"
)

var RelationKinds = []RelationKind{
	RelationRecommendation, RelationPresetSetting, RelationSetOfSummaryStats,
	RelationEffectOnContainment, RelationDerivedFromContainment, RelationOther,
}
