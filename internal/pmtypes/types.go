// Package pmtypes holds the participant-model value types shared by
// descriptors and states, and the closed enumerations.
package pmtypes

import (
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/cockroachdb/apd/v3"
)

// DefaultInstanceRoot is the implied Root of an InstanceIdentifier.
const DefaultInstanceRoot = "biceps.uri.unk"

type LocalizedText struct {
	Text      string
	Ref       *string
	Lang      *string
	Version   *uint64
	TextWidth *LocalizedTextWidth
}

func NewLocalizedText(text string) *LocalizedText {
	return &LocalizedText{Text: text}
}

func (t *LocalizedText) TypeName() string { return "LocalizedText" }

func (t *LocalizedText) Blocks() []prop.Block {
	return []prop.Block{{Type: "LocalizedText", Props: []prop.Property{
		prop.String("Text", &t.Text).AsText().WireAs("string"),
		prop.OptString("Ref", &t.Ref),
		prop.OptString("Lang", &t.Lang),
		prop.OptUint("Version", &t.Version),
		prop.OptEnum("TextWidth", &t.TextWidth, LocalizedTextWidths),
	}}}
}

type Translation struct {
	Code                string
	CodingSystem        *string
	CodingSystemVersion *string
}

func (t *Translation) TypeName() string { return "Translation" }

func (t *Translation) Blocks() []prop.Block {
	return []prop.Block{{Type: "Translation", Props: []prop.Property{
		prop.String("Code", &t.Code),
		prop.OptString("CodingSystem", &t.CodingSystem),
		prop.OptString("CodingSystemVersion", &t.CodingSystemVersion),
	}}}
}

type CodedValue struct {
	Code                string
	CodingSystem        *string
	CodingSystemVersion *string
	SymbolicCodeName    *string
	CodingSystemName    []*LocalizedText
	ConceptDescription  []*LocalizedText
	Translation         []*Translation
}

// NewCodedValue returns a coded value in the default coding system.
func NewCodedValue(code string) *CodedValue {
	return &CodedValue{Code: code}
}

func (c *CodedValue) TypeName() string { return "CodedValue" }

func (c *CodedValue) Blocks() []prop.Block {
	return []prop.Block{{Type: "CodedValue", Props: []prop.Property{
		prop.Elements("CodingSystemName", &c.CodingSystemName, "LocalizedText"),
		prop.Elements("ConceptDescription", &c.ConceptDescription, "LocalizedText"),
		prop.Elements("Translation", &c.Translation, "Translation"),
		prop.String("Code", &c.Code),
		prop.OptString("CodingSystem", &c.CodingSystem),
		prop.OptString("CodingSystemVersion", &c.CodingSystemVersion),
		prop.OptString("SymbolicCodeName", &c.SymbolicCodeName),
	}}}
}

// Identifier is implemented by InstanceIdentifier and its subtypes.
type Identifier interface {
	prop.Composite
	Base() *InstanceIdentifier
}

type InstanceIdentifier struct {
	Type           *CodedValue
	IdentifierName []*LocalizedText
	Root           *string
	Extension      *string
}

func NewInstanceIdentifier(root, extension string) *InstanceIdentifier {
	return &InstanceIdentifier{Root: &root, Extension: &extension}
}

func (i *InstanceIdentifier) TypeName() string          { return "InstanceIdentifier" }
func (i *InstanceIdentifier) Base() *InstanceIdentifier { return i }

// RootValue returns Root or the implied default root.
func (i *InstanceIdentifier) RootValue() string {
	if i.Root == nil {
		return DefaultInstanceRoot
	}
	return *i.Root
}

func (i *InstanceIdentifier) Blocks() []prop.Block {
	return []prop.Block{{Type: "InstanceIdentifier", Props: []prop.Property{
		prop.Element("Type", &i.Type, "CodedValue"),
		prop.Elements("IdentifierName", &i.IdentifierName, "LocalizedText"),
		prop.OptString("Root", &i.Root).Implied(DefaultInstanceRoot),
		prop.OptString("Extension", &i.Extension),
	}}}
}

type OperatingJurisdiction struct {
	InstanceIdentifier
}

func (o *OperatingJurisdiction) TypeName() string { return "OperatingJurisdiction" }

func (o *OperatingJurisdiction) Blocks() []prop.Block {
	return append(o.InstanceIdentifier.Blocks(), prop.Block{Type: "OperatingJurisdiction"})
}

type Range struct {
	Lower            *apd.Decimal
	Upper            *apd.Decimal
	StepWidth        *apd.Decimal
	RelativeAccuracy *apd.Decimal
	AbsoluteAccuracy *apd.Decimal
}

// NewRange builds a range from decimal literals; empty strings leave a bound open.
func NewRange(lower, upper string) *Range {
	r := &Range{}
	if lower != "" {
		r.Lower = prop.MustDecimal(lower)
	}
	if upper != "" {
		r.Upper = prop.MustDecimal(upper)
	}
	return r
}

func (r *Range) TypeName() string { return "Range" }

func (r *Range) Blocks() []prop.Block {
	return []prop.Block{{Type: "Range", Props: []prop.Property{
		prop.Decimal("Lower", &r.Lower),
		prop.Decimal("Upper", &r.Upper),
		prop.Decimal("StepWidth", &r.StepWidth),
		prop.Decimal("RelativeAccuracy", &r.RelativeAccuracy),
		prop.Decimal("AbsoluteAccuracy", &r.AbsoluteAccuracy),
	}}}
}

type Measurement struct {
	MeasurementUnit CodedValue
	MeasuredValue   apd.Decimal
}

func NewMeasurement(value string, unit *CodedValue) *Measurement {
	m := &Measurement{MeasurementUnit: *unit}
	m.MeasuredValue.Set(prop.MustDecimal(value))
	return m
}

func (m *Measurement) TypeName() string { return "Measurement" }

func (m *Measurement) Blocks() []prop.Block {
	return []prop.Block{{Type: "Measurement", Props: []prop.Property{
		prop.Struct("MeasurementUnit", &m.MeasurementUnit),
		prop.RequiredDecimal("MeasuredValue", &m.MeasuredValue),
	}}}
}

type ProductionSpecification struct {
	SpecType       CodedValue
	ProductionSpec string
	ComponentID    *InstanceIdentifier
}

func (p *ProductionSpecification) TypeName() string { return "ProductionSpecification" }

func (p *ProductionSpecification) Blocks() []prop.Block {
	return []prop.Block{{Type: "ProductionSpecification", Props: []prop.Property{
		prop.Struct("SpecType", &p.SpecType),
		prop.String("ProductionSpec", &p.ProductionSpec).AsText(),
		prop.Element("ComponentId", &p.ComponentID, "InstanceIdentifier"),
	}}}
}

type MetaData struct {
	LotNumber    *string
	Manufacturer []*LocalizedText
	ModelName    []*LocalizedText
	ModelNumber  *string
	SerialNumber []string
}

func (m *MetaData) TypeName() string { return "MetaData" }

func (m *MetaData) Blocks() []prop.Block {
	return []prop.Block{{Type: "MetaData", Props: []prop.Property{
		prop.OptString("LotNumber", &m.LotNumber).AsText(),
		prop.Elements("Manufacturer", &m.Manufacturer, "LocalizedText"),
		prop.Elements("ModelName", &m.ModelName, "LocalizedText"),
		prop.OptString("ModelNumber", &m.ModelNumber).AsText(),
		prop.Strings("SerialNumber", &m.SerialNumber, prop.InTextList),
	}}}
}

type AllowedValue struct {
	Value string
	Type  *CodedValue
}

func (a *AllowedValue) TypeName() string { return "AllowedValue" }

func (a *AllowedValue) Blocks() []prop.Block {
	return []prop.Block{{Type: "AllowedValue", Props: []prop.Property{
		prop.String("Value", &a.Value).AsText(),
		prop.Element("Type", &a.Type, "CodedValue"),
	}}}
}

// Argument describes one argument of an activate operation.
type Argument struct {
	ArgName CodedValue
	Arg     string
}

func (a *Argument) TypeName() string { return "Argument" }

func (a *Argument) Blocks() []prop.Block {
	return []prop.Block{{Type: "Argument", Props: []prop.Property{
		prop.Struct("ArgName", &a.ArgName),
		prop.String("Arg", &a.Arg).AsText(),
	}}}
}

type RemedyInfo struct {
	Description []*LocalizedText
}

func (r *RemedyInfo) TypeName() string { return "RemedyInfo" }

func (r *RemedyInfo) Blocks() []prop.Block {
	return []prop.Block{{Type: "RemedyInfo", Props: []prop.Property{
		prop.Elements("Description", &r.Description, "LocalizedText"),
	}}}
}

type CauseInfo struct {
	RemedyInfo  *RemedyInfo
	Description []*LocalizedText
}

func (c *CauseInfo) TypeName() string { return "CauseInfo" }

func (c *CauseInfo) Blocks() []prop.Block {
	return []prop.Block{{Type: "CauseInfo", Props: []prop.Property{
		prop.Element("RemedyInfo", &c.RemedyInfo, "RemedyInfo"),
		prop.Elements("Description", &c.Description, "LocalizedText"),
	}}}
}

type Relation struct {
	Code           *CodedValue
	Identification *InstanceIdentifier
	Kind           RelationKind
	Entries        []string
}

func (r *Relation) TypeName() string { return "Relation" }

func (r *Relation) Blocks() []prop.Block {
	return []prop.Block{{Type: "Relation", Props: []prop.Property{
		prop.Element("Code", &r.Code, "CodedValue"),
		prop.Element("Identification", &r.Identification, "InstanceIdentifier"),
		prop.RequiredEnum("Kind", &r.Kind, RelationKinds),
		prop.Strings("Entries", &r.Entries, prop.InAttributeList),
	}}}
}

type PhysicalConnectorInfo struct {
	Label  []*LocalizedText
	Number *int64
}

func (p *PhysicalConnectorInfo) TypeName() string { return "PhysicalConnectorInfo" }

func (p *PhysicalConnectorInfo) Blocks() []prop.Block {
	return []prop.Block{{Type: "PhysicalConnectorInfo", Props: []prop.Property{
		prop.Elements("Label", &p.Label, "LocalizedText"),
		prop.OptInt("Number", &p.Number),
	}}}
}

type SystemSignalActivation struct {
	Manifestation AlertSignalManifestation
	State         AlertActivation
}

func (s *SystemSignalActivation) TypeName() string { return "SystemSignalActivation" }

func (s *SystemSignalActivation) Blocks() []prop.Block {
	return []prop.Block{{Type: "SystemSignalActivation", Props: []prop.Property{
		prop.RequiredEnum("Manifestation", &s.Manifestation, AlertSignalManifestations),
		prop.RequiredEnum("State", &s.State, AlertActivations),
	}}}
}

type LocationDetail struct {
	PoC      *string
	Room     *string
	Bed      *string
	Facility *string
	Building *string
	Floor    *string
}

func (l *LocationDetail) TypeName() string { return "LocationDetail" }

func (l *LocationDetail) Blocks() []prop.Block {
	return []prop.Block{{Type: "LocationDetail", Props: []prop.Property{
		prop.OptString("PoC", &l.PoC),
		prop.OptString("Room", &l.Room),
		prop.OptString("Bed", &l.Bed),
		prop.OptString("Facility", &l.Facility),
		prop.OptString("Building", &l.Building),
		prop.OptString("Floor", &l.Floor),
	}}}
}

type BaseDemographics struct {
	Givenname  *string
	Middlename []string
	Familyname *string
	Birthname  *string
	Title      *string
}

func (b *BaseDemographics) TypeName() string { return "BaseDemographics" }

func (b *BaseDemographics) Blocks() []prop.Block {
	return []prop.Block{{Type: "BaseDemographics", Props: []prop.Property{
		prop.OptString("Givenname", &b.Givenname).AsText(),
		prop.Strings("Middlename", &b.Middlename, prop.InTextList),
		prop.OptString("Familyname", &b.Familyname).AsText(),
		prop.OptString("Birthname", &b.Birthname).AsText(),
		prop.OptString("Title", &b.Title).AsText(),
	}}}
}

type PatientDemographicsCoreData struct {
	BaseDemographics
	Sex         *Sex
	PatientType *PatientType
	DateOfBirth *string
	Height      *Measurement
	Weight      *Measurement
}

func (p *PatientDemographicsCoreData) TypeName() string { return "PatientDemographicsCoreData" }

func (p *PatientDemographicsCoreData) Blocks() []prop.Block {
	return append(p.BaseDemographics.Blocks(), prop.Block{Type: "PatientDemographicsCoreData", Props: []prop.Property{
		prop.OptEnum("Sex", &p.Sex, Sexes),
		prop.OptEnum("PatientType", &p.PatientType, PatientTypes),
		prop.OptString("DateOfBirth", &p.DateOfBirth).AsText(),
		prop.Element("Height", &p.Height, "Measurement"),
		prop.Element("Weight", &p.Weight, "Measurement"),
	}})
}

type OperationGroup struct {
	Type          CodedValue
	OperatingMode *OperatingMode
	Operations    []string
}

func (o *OperationGroup) TypeName() string { return "OperationGroup" }

func (o *OperationGroup) Blocks() []prop.Block {
	return []prop.Block{{Type: "OperationGroup", Props: []prop.Property{
		prop.Struct("Type", &o.Type),
		prop.OptEnum("OperatingMode", &o.OperatingMode, OperatingModes),
		prop.Strings("Operations", &o.Operations, prop.InAttributeList),
	}}}
}
