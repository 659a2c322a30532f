package profile

import (
	"fmt"

	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"github.com/cockroachdb/apd/v3"
	"go.uber.org/zap"
)

var metricKinds = map[MetricKind]model.Kind{
	MetricNumeric:      model.KindNumericMetricDescriptor,
	MetricString:       model.KindStringMetricDescriptor,
	MetricEnumString:   model.KindEnumStringMetricDescriptor,
	MetricWaveform:     model.KindRealTimeSampleArrayMetricDescriptor,
	MetricDistribution: model.KindDistributionSampleArrayMetricDescriptor,
}

var operationKinds = map[OperationKind]model.Kind{
	OpSetValue:          model.KindSetValueOperationDescriptor,
	OpSetString:         model.KindSetStringOperationDescriptor,
	OpActivate:          model.KindActivateOperationDescriptor,
	OpSetAlertState:     model.KindSetAlertStateOperationDescriptor,
	OpSetComponentState: model.KindSetComponentStateOperationDescriptor,
	OpSetContextState:   model.KindSetContextStateOperationDescriptor,
	OpSetMetricState:    model.KindSetMetricStateOperationDescriptor,
}

// SimulatedMetric is a numeric metric the simulator moves between Min and Max.
type SimulatedMetric struct {
	Handle string
	Min    *apd.Decimal
	Max    *apd.Decimal
	Step   *apd.Decimal
}

// Composition is a composed descriptor tree with the initial states that
// differ from the defaults.
type Composition struct {
	// Descriptors are ordered parents first.
	Descriptors []model.Descriptor
	States      []model.State
	Simulated   []SimulatedMetric
}

type Composer struct {
	logger *zap.Logger
}

func NewComposer(logger *zap.Logger) *Composer {
	return &Composer{logger: logger}
}

type builder struct {
	out     *Composition
	handles map[string]bool
	refs    []reference
}

type reference struct {
	from, to, what string
}

// Compose builds the descriptor tree of a profile. Cross references
// (alert sources, signaled conditions, operation targets) must resolve.
func (c *Composer) Compose(p *Profile) (*Composition, error) {
	c.logger.Info("Composing device",
		zap.String("profile", p.Info.ID),
		zap.Int("mds", len(p.Mds)))

	b := &builder{out: &Composition{}, handles: make(map[string]bool)}
	for _, mds := range p.Mds {
		if err := b.mds(mds); err != nil {
			return nil, fmt.Errorf("failed to compose %s: %w", mds.Handle, err)
		}
	}
	for _, r := range b.refs {
		if !b.handles[r.to] {
			return nil, types.DecodeValidation("profile", "%s of %s refers to unknown handle %q", r.what, r.from, r.to)
		}
	}

	c.logger.Info("Device composition complete",
		zap.String("profile", p.Info.ID),
		zap.Int("descriptors", len(b.out.Descriptors)),
		zap.Int("states", len(b.out.States)),
		zap.Int("simulated", len(b.out.Simulated)))
	return b.out, nil
}

// Parts groups the composition into one create part per parent handle, in
// an order where every parent exists before its children are created.
func (c *Composition) Parts() []mapping.ReportPart {
	var parts []mapping.ReportPart
	index := make(map[string]int)
	partOf := make(map[string]int)
	for _, d := range c.Descriptors {
		parent := d.DescriptorBase().ParentHandle
		i, ok := index[parent]
		if !ok {
			i = len(parts)
			index[parent] = i
			parts = append(parts, mapping.ReportPart{ParentHandle: parent, Modification: model.Create})
		}
		parts[i].Descriptors = append(parts[i].Descriptors, d)
		partOf[d.DescriptorBase().Handle] = i
	}
	for _, s := range c.States {
		if i, ok := partOf[s.StateBase().DescriptorHandle]; ok {
			parts[i].States = append(parts[i].States, s)
		}
	}
	return parts
}

// Apply creates the composed tree in m as one description change.
func (c *Composition) Apply(m *mdib.Mdib) (mdib.BatchReport, error) {
	return m.ApplyDescriptionChanges(c.Parts())
}

func (b *builder) add(k model.Kind, handle, parent, code string) (model.Descriptor, error) {
	if b.handles[handle] {
		return nil, types.InvariantViolation("profile", "duplicate handle %q", handle)
	}
	d, err := model.NewDescriptor(k, handle, parent)
	if err != nil {
		return nil, err
	}
	if code != "" {
		d.DescriptorBase().Type = pmtypes.NewCodedValue(code)
	}
	b.handles[handle] = true
	b.out.Descriptors = append(b.out.Descriptors, d)
	return d, nil
}

// setText assigns a scalar property from its text form; empty text keeps
// the constructor value.
func setText(c prop.Composite, name, text string) error {
	if text == "" {
		return nil
	}
	p, ok := prop.Find(c, name)
	if !ok {
		return types.DecodeValidation("profile", "%s has no %s", c.TypeName(), name)
	}
	s, ok := p.(prop.Scalar)
	if !ok {
		return types.SchemaMismatch("profile", "%s.%s is not a scalar", c.TypeName(), name)
	}
	return s.SetText(text)
}

func (b *builder) mds(p Mds) error {
	d, err := b.add(model.KindMdsDescriptor, p.Handle, "", p.Type)
	if err != nil {
		return err
	}
	if p.Meta != nil {
		d.(*model.MdsDescriptor).MetaData = metaData(p.Meta)
	}
	if err := b.complex(p.Handle, p.AlertSystem, p.Sco); err != nil {
		return err
	}
	if p.SystemContext != nil {
		if err := b.systemContext(p.Handle, p.SystemContext); err != nil {
			return err
		}
	}
	if p.Clock != nil {
		if _, err := b.add(model.KindClockDescriptor, p.Clock.Handle, p.Handle, p.Clock.Type); err != nil {
			return err
		}
	}
	for _, bat := range p.Batteries {
		if _, err := b.add(model.KindBatteryDescriptor, bat.Handle, p.Handle, bat.Type); err != nil {
			return err
		}
	}
	for _, vmd := range p.Vmds {
		if err := b.vmd(p.Handle, vmd); err != nil {
			return err
		}
	}
	return nil
}

func metaData(m *Meta) *pmtypes.MetaData {
	out := &pmtypes.MetaData{SerialNumber: m.SerialNumber}
	if m.Manufacturer != "" {
		out.Manufacturer = []*pmtypes.LocalizedText{pmtypes.NewLocalizedText(m.Manufacturer)}
	}
	if m.ModelName != "" {
		out.ModelName = []*pmtypes.LocalizedText{pmtypes.NewLocalizedText(m.ModelName)}
	}
	if m.ModelNumber != "" {
		number := m.ModelNumber
		out.ModelNumber = &number
	}
	return out
}

// complex adds the alert system and sco shared by Mds and Vmd.
func (b *builder) complex(parent string, as *AlertSystem, sco *Sco) error {
	if as != nil {
		if err := b.alertSystem(parent, as); err != nil {
			return err
		}
	}
	if sco != nil {
		if err := b.sco(parent, sco); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) vmd(parent string, p Vmd) error {
	if _, err := b.add(model.KindVmdDescriptor, p.Handle, parent, p.Type); err != nil {
		return err
	}
	if err := b.complex(p.Handle, p.AlertSystem, p.Sco); err != nil {
		return err
	}
	for _, ch := range p.Channels {
		if _, err := b.add(model.KindChannelDescriptor, ch.Handle, p.Handle, ch.Type); err != nil {
			return err
		}
		for _, m := range ch.Metrics {
			if err := b.metric(ch.Handle, m); err != nil {
				return fmt.Errorf("metric %s: %w", m.Handle, err)
			}
		}
	}
	return nil
}

func metricBase(d model.Descriptor) *model.AbstractMetricDescriptor {
	switch m := d.(type) {
	case *model.NumericMetricDescriptor:
		return &m.AbstractMetricDescriptor
	case *model.StringMetricDescriptor:
		return &m.AbstractMetricDescriptor
	case *model.EnumStringMetricDescriptor:
		return &m.AbstractMetricDescriptor
	case *model.RealTimeSampleArrayMetricDescriptor:
		return &m.AbstractMetricDescriptor
	case *model.DistributionSampleArrayMetricDescriptor:
		return &m.AbstractMetricDescriptor
	}
	return nil
}

func rangeOf(r *Range) (*pmtypes.Range, error) {
	out := &pmtypes.Range{}
	var err error
	if r.Lower != "" {
		if out.Lower, err = prop.ParseDecimal(string(r.Lower)); err != nil {
			return nil, err
		}
	}
	if r.Upper != "" {
		if out.Upper, err = prop.ParseDecimal(string(r.Upper)); err != nil {
			return nil, err
		}
	}
	if out.Lower != nil && out.Upper != nil && out.Lower.Cmp(out.Upper) > 0 {
		return nil, types.DecodeValidation("profile", "range lower %s above upper %s", r.Lower, r.Upper)
	}
	return out, nil
}

func (b *builder) metric(parent string, p Metric) error {
	kind, ok := metricKinds[p.Kind]
	if !ok {
		return types.DecodeValidation("profile", "unknown metric kind %q", p.Kind)
	}
	d, err := b.add(kind, p.Handle, parent, p.Type)
	if err != nil {
		return err
	}
	base := metricBase(d)
	base.Unit = *pmtypes.NewCodedValue(p.Unit)
	for _, site := range p.BodySites {
		base.BodySite = append(base.BodySite, pmtypes.NewCodedValue(site))
	}
	if err := setText(d, "MetricCategory", p.Category); err != nil {
		return err
	}
	if err := setText(d, "MetricAvailability", p.Availability); err != nil {
		return err
	}
	if err := setText(d, "Resolution", string(p.Resolution)); err != nil {
		return err
	}
	if err := setText(d, "SamplePeriod", p.SamplePeriod); err != nil {
		return err
	}
	if p.Range != nil {
		r, err := rangeOf(p.Range)
		if err != nil {
			return err
		}
		switch m := d.(type) {
		case *model.NumericMetricDescriptor:
			m.TechnicalRange = append(m.TechnicalRange, r)
		case *model.RealTimeSampleArrayMetricDescriptor:
			m.TechnicalRange = append(m.TechnicalRange, r)
		case *model.DistributionSampleArrayMetricDescriptor:
			m.TechnicalRange = append(m.TechnicalRange, r)
		default:
			return types.DecodeValidation("profile", "%s metrics have no technical range", p.Kind)
		}
	}
	if e, ok := d.(*model.EnumStringMetricDescriptor); ok {
		for _, v := range p.AllowedValues {
			e.AllowedValue = append(e.AllowedValue, &pmtypes.AllowedValue{Value: v})
		}
	} else if len(p.AllowedValues) > 0 {
		return types.DecodeValidation("profile", "allowed values need an enum_string metric")
	}
	if p.Simulate != nil {
		if err := b.simulate(d, p.Simulate); err != nil {
			return err
		}
	}
	if p.Initial == "" {
		return nil
	}
	return b.initial(d, p)
}

func (b *builder) initial(d model.Descriptor, p Metric) error {
	s, err := model.NewStateFor(d)
	if err != nil {
		return err
	}
	switch st := s.(type) {
	case *model.NumericMetricState:
		v, err := prop.ParseDecimal(p.Initial)
		if err != nil {
			return err
		}
		st.MetricValue = &pmtypes.NumericMetricValue{Value: v}
		st.MetricValue.MetricQuality.Validity = pmtypes.ValidityValid
	case *model.EnumStringMetricState:
		if !contains(p.AllowedValues, p.Initial) {
			return types.DecodeValidation("profile", "initial value %q is not allowed", p.Initial)
		}
		st.MetricValue = pmtypes.NewStringMetricValue(p.Initial)
	case *model.StringMetricState:
		st.MetricValue = pmtypes.NewStringMetricValue(p.Initial)
	default:
		return types.DecodeValidation("profile", "%s metrics take no initial value", p.Kind)
	}
	b.out.States = append(b.out.States, s)
	return nil
}

func (b *builder) simulate(d model.Descriptor, s *Simulate) error {
	if d.NodeType() != model.KindNumericMetricDescriptor {
		return types.DecodeValidation("profile", "only numeric metrics can be simulated")
	}
	sm := SimulatedMetric{Handle: d.DescriptorBase().Handle}
	var err error
	if sm.Min, err = prop.ParseDecimal(string(s.Min)); err != nil {
		return err
	}
	if sm.Max, err = prop.ParseDecimal(string(s.Max)); err != nil {
		return err
	}
	if sm.Step, err = prop.ParseDecimal(string(s.Step)); err != nil {
		return err
	}
	if sm.Min.Cmp(sm.Max) >= 0 || sm.Step.Sign() <= 0 {
		return types.DecodeValidation("profile", "simulation needs min < max and a positive step")
	}
	b.out.Simulated = append(b.out.Simulated, sm)
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func (b *builder) alertSystem(parent string, p *AlertSystem) error {
	if _, err := b.add(model.KindAlertSystemDescriptor, p.Handle, parent, ""); err != nil {
		return err
	}
	for _, ac := range p.Conditions {
		kind := model.KindAlertConditionDescriptor
		if ac.Limits != nil {
			kind = model.KindLimitAlertConditionDescriptor
		}
		d, err := b.add(kind, ac.Handle, p.Handle, "")
		if err != nil {
			return err
		}
		if err := setText(d, "Kind", ac.Kind); err != nil {
			return err
		}
		if err := setText(d, "Priority", ac.Priority); err != nil {
			return err
		}
		var cond *model.AlertConditionDescriptor
		switch c := d.(type) {
		case *model.AlertConditionDescriptor:
			cond = c
		case *model.LimitAlertConditionDescriptor:
			cond = &c.AlertConditionDescriptor
			r, err := rangeOf(ac.Limits)
			if err != nil {
				return err
			}
			c.MaxLimits = *r
		}
		cond.Source = append(cond.Source, ac.Sources...)
		for _, src := range ac.Sources {
			b.refs = append(b.refs, reference{from: ac.Handle, to: src, what: "source"})
		}
	}
	for _, as := range p.Signals {
		d, err := b.add(model.KindAlertSignalDescriptor, as.Handle, p.Handle, "")
		if err != nil {
			return err
		}
		if err := setText(d, "Manifestation", as.Manifestation); err != nil {
			return err
		}
		sig := d.(*model.AlertSignalDescriptor)
		condition := as.Condition
		sig.ConditionSignaled = &condition
		sig.Latching = as.Latching
		b.refs = append(b.refs, reference{from: as.Handle, to: as.Condition, what: "condition"})
	}
	return nil
}

func (b *builder) sco(parent string, p *Sco) error {
	if _, err := b.add(model.KindScoDescriptor, p.Handle, parent, ""); err != nil {
		return err
	}
	for _, op := range p.Operations {
		kind, ok := operationKinds[op.Kind]
		if !ok {
			return types.DecodeValidation("profile", "unknown operation kind %q", op.Kind)
		}
		d, err := b.add(kind, op.Handle, p.Handle, "")
		if err != nil {
			return err
		}
		if err := setText(d, "OperationTarget", op.Target); err != nil {
			return err
		}
		b.refs = append(b.refs, reference{from: op.Handle, to: op.Target, what: "target"})
	}
	return nil
}

func (b *builder) systemContext(parent string, p *SystemContext) error {
	if _, err := b.add(model.KindSystemContextDescriptor, p.Handle, parent, ""); err != nil {
		return err
	}
	single := []struct {
		handle string
		kind   model.Kind
	}{
		{p.Patient, model.KindPatientContextDescriptor},
		{p.Location, model.KindLocationContextDescriptor},
	}
	for _, s := range single {
		if s.handle == "" {
			continue
		}
		if _, err := b.add(s.kind, s.handle, p.Handle, ""); err != nil {
			return err
		}
	}
	lists := []struct {
		handles []string
		kind    model.Kind
	}{
		{p.Ensembles, model.KindEnsembleContextDescriptor},
		{p.Operators, model.KindOperatorContextDescriptor},
		{p.Workflows, model.KindWorkflowContextDescriptor},
		{p.Means, model.KindMeansContextDescriptor},
	}
	for _, l := range lists {
		for _, h := range l.handles {
			if _, err := b.add(l.kind, h, p.Handle, ""); err != nil {
				return err
			}
		}
	}
	return nil
}
