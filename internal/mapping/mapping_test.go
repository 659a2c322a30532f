package mapping

import (
	"errors"
	"testing"
	"time"

	pb "github.com/KevinKickass/OpenMDIB/api/proto"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/model/modeltest"
	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

func TestOneOfPath(t *testing.T) {
	tests := []struct {
		family, typeName string
		want             []string
	}{
		{"AbstractMetricDescriptor", "NumericMetricDescriptor", []string{"numeric_metric_descriptor"}},
		{"AbstractMetricDescriptor", "StringMetricDescriptor", []string{"string_metric_descriptor_one_of", "string_metric_descriptor"}},
		{"AbstractMetricDescriptor", "EnumStringMetricDescriptor", []string{"string_metric_descriptor_one_of", "enum_string_metric_descriptor"}},
		{"AlertConditionDescriptor", "AlertConditionDescriptor", []string{"alert_condition_descriptor"}},
		{"AbstractDescriptor", "MdsDescriptor", []string{
			"abstract_device_component_descriptor_one_of",
			"abstract_complex_device_component_descriptor_one_of",
			"mds_descriptor",
		}},
		{"AbstractState", "LimitAlertConditionState", []string{
			"abstract_alert_state_one_of",
			"alert_condition_state_one_of",
			"limit_alert_condition_state",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.family+"/"+tt.typeName, func(t *testing.T) {
			got, err := OneOfPath(tt.family, tt.typeName)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := OneOfPath("AbstractMetricDescriptor", "MdsDescriptor")
	assert.True(t, errors.Is(err, types.ErrInvariantViolation))
}

func roundTrip(t *testing.T, m *Mapper, c prop.Composite, family string) {
	t.Helper()
	msg, err := m.Encode(c)
	require.NoError(t, err)
	got, err := m.Decode(msg)
	require.NoError(t, err)
	assert.Empty(t, prop.Diff(c, got), "concrete %s", c.TypeName())

	union, err := m.EncodeUnion(c, family)
	require.NoError(t, err)
	wire, err := proto.Marshal(union)
	require.NoError(t, err)
	parsed := dynamicpb.NewMessage(union.Descriptor())
	require.NoError(t, proto.Unmarshal(wire, parsed))
	got, err = m.Decode(parsed)
	require.NoError(t, err)
	assert.Empty(t, prop.Diff(c, got), "union %s", c.TypeName())
}

func TestRoundTripEveryKind(t *testing.T) {
	m := Default()
	for _, full := range []bool{false, true} {
		for _, k := range model.DescriptorKinds() {
			roundTrip(t, m, modeltest.Descriptor(t, k, "d1", full), "AbstractDescriptor")
		}
		for _, k := range model.StateKinds() {
			roundTrip(t, m, modeltest.State(t, k, "d1", full), "AbstractState")
		}
	}
}

func TestNumericMetricScenario(t *testing.T) {
	m := Default()
	d := model.NewNumericMetricDescriptor("m1", "ch1")
	d.Resolution.Set(prop.MustDecimal("0.01"))
	d.MetricCategory = pmtypes.MetricCategoryClc
	d.Unit = *pmtypes.NewCodedValue("262688")

	msg, err := m.Encode(d)
	require.NoError(t, err)
	c, err := m.Decode(msg)
	require.NoError(t, err)
	got := c.(*model.NumericMetricDescriptor)

	assert.Nil(t, got.AveragingPeriod)
	_, ok := prop.Actual(got, "AveragingPeriod")
	assert.False(t, ok)
	assert.Equal(t, "0.01", prop.DecimalText(&got.Resolution))
	assert.Equal(t, pmtypes.MetricCategoryClc, got.MetricCategory)
	assert.Equal(t, "m1", got.Handle)
	assert.Equal(t, "", got.ParentHandle)
}

func TestImpliedAlertKindIsNotEncoded(t *testing.T) {
	m := Default()
	d := model.NewAlertConditionDescriptor("ac1", "as1")

	msg, err := m.Encode(d)
	require.NoError(t, err)
	fd := msg.Descriptor().Fields().ByName("a_kind")
	require.NotNil(t, fd)
	assert.False(t, msg.Has(fd))

	c, err := m.Decode(msg)
	require.NoError(t, err)
	got := c.(*model.AlertConditionDescriptor)
	assert.Nil(t, got.Kind)
	assert.Equal(t, pmtypes.AlertKindOther, got.KindValue())

	tec := pmtypes.AlertKindTechnical
	d.Kind = &tec
	msg, err = m.Encode(d)
	require.NoError(t, err)
	assert.True(t, msg.Has(fd))
}

func TestUnionNeedsExactlyOneVariant(t *testing.T) {
	m := Default()
	empty := m.Catalog().MustMessage("AbstractMetricDescriptorOneOfMsg")
	_, err := m.Decode(empty)
	assert.True(t, errors.Is(err, types.ErrSchemaMismatch))

	nested := m.Catalog().MustMessage("AbstractMetricDescriptorOneOfMsg")
	fd := nested.Descriptor().Fields().ByName("string_metric_descriptor_one_of")
	nested.Mutable(fd)
	_, err = m.Decode(nested)
	assert.True(t, errors.Is(err, types.ErrSchemaMismatch))
}

func TestUnknownEnumNumberIsRejected(t *testing.T) {
	m := Default()
	msg, err := m.Encode(model.NewNumericMetricDescriptor("m1", "ch1"))
	require.NoError(t, err)

	block := msg.Mutable(msg.Descriptor().Fields().ByName("abstract_metric_descriptor")).Message()
	category := block.Mutable(block.Descriptor().Fields().ByName("a_metric_category")).Message()
	category.Set(category.Descriptor().Fields().ByName(pb.EnumField), protoreflect.ValueOfEnum(99))

	_, err = m.Decode(msg)
	assert.True(t, errors.Is(err, types.ErrDecodeValidation))
}

func TestSchemaDrift(t *testing.T) {
	cat, err := pb.New(pb.Without(pb.Schema(), "NumericMetricDescriptorMsg", "a_resolution"))
	require.NoError(t, err)
	m := New(cat)

	_, err = m.Encode(model.NewNumericMetricDescriptor("m1", "ch1"))
	assert.True(t, errors.Is(err, types.ErrSchemaMismatch))

	_, err = m.Decode(cat.MustMessage(pb.MdibVersionGroupMsg))
	assert.True(t, errors.Is(err, types.ErrSchemaMismatch))

	_, err = m.EncodeUnion(model.NewAlertConditionDescriptor("ac", "as"), "AbstractMetricDescriptor")
	assert.True(t, errors.Is(err, types.ErrInvariantViolation))
}

func TestDecodeIntoChecksType(t *testing.T) {
	m := Default()
	msg, err := m.Encode(model.NewAlertConditionDescriptor("ac", "as"))
	require.NoError(t, err)
	err = m.DecodeInto(msg, model.NewNumericMetricDescriptor("m", "c"))
	assert.True(t, errors.Is(err, types.ErrDecodeValidation))
}

func descriptor(t *testing.T, k model.Kind, handle string) model.Descriptor {
	return modeltest.Descriptor(t, k, handle, false)
}

func TestTreeKeepsSlotOrder(t *testing.T) {
	m := Default()
	tree := modeltest.MapTree{}
	mds := descriptor(t, model.KindMdsDescriptor, "mds")
	// Children are added out of slot order on purpose.
	tree.Add("mds", descriptor(t, model.KindVmdDescriptor, "vmd1"))
	tree.Add("mds", descriptor(t, model.KindClockDescriptor, "clock"))
	tree.Add("mds", descriptor(t, model.KindVmdDescriptor, "vmd2"))
	tree.Add("mds", descriptor(t, model.KindAlertSystemDescriptor, "as"))
	tree.Add("as", descriptor(t, model.KindAlertSignalDescriptor, "sig"))
	tree.Add("as", descriptor(t, model.KindLimitAlertConditionDescriptor, "lac"))
	tree.Add("as", descriptor(t, model.KindAlertConditionDescriptor, "ac"))
	tree.Add("vmd1", descriptor(t, model.KindChannelDescriptor, "ch"))
	tree.Add("ch", descriptor(t, model.KindEnumStringMetricDescriptor, "es"))
	tree.Add("ch", descriptor(t, model.KindNumericMetricDescriptor, "nm"))

	msg, err := m.EncodeDescription([]model.Descriptor{mds}, tree, 3)
	require.NoError(t, err)

	var handles, parents []string
	version, err := m.DecodeDescription(msg, func(d model.Descriptor) error {
		handles = append(handles, d.DescriptorBase().Handle)
		parents = append(parents, d.DescriptorBase().ParentHandle)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), version)
	assert.Equal(t, []string{"mds", "as", "lac", "ac", "sig", "clock", "vmd1", "ch", "es", "nm", "vmd2"}, handles)
	assert.Equal(t, []string{"", "mds", "as", "as", "as", "mds", "mds", "vmd1", "ch", "ch", "mds"}, parents)
}

func TestTreeRejectsBadChildren(t *testing.T) {
	m := Default()
	tree := modeltest.MapTree{}
	mds := descriptor(t, model.KindMdsDescriptor, "mds")
	tree.Add("mds", descriptor(t, model.KindNumericMetricDescriptor, "nm"))
	_, err := m.EncodeDescription([]model.Descriptor{mds}, tree, 0)
	assert.True(t, errors.Is(err, types.ErrInvariantViolation))

	tree = modeltest.MapTree{}
	tree.Add("mds", descriptor(t, model.KindClockDescriptor, "c1"))
	tree.Add("mds", descriptor(t, model.KindClockDescriptor, "c2"))
	_, err = m.EncodeDescription([]model.Descriptor{mds}, tree, 0)
	assert.True(t, errors.Is(err, types.ErrInvariantViolation))

	_, err = m.EncodeDescription([]model.Descriptor{descriptor(t, model.KindVmdDescriptor, "v")}, tree, 0)
	assert.True(t, errors.Is(err, types.ErrInvariantViolation))
}

func TestDecodeTreeNeedsHandles(t *testing.T) {
	m := Default()
	msg, err := m.Encode(descriptor(t, model.KindMdsDescriptor, ""))
	require.NoError(t, err)
	err = m.DecodeTree(msg, "", func(model.Descriptor) error { return nil })
	assert.True(t, errors.Is(err, types.ErrDecodeValidation))
}

func TestStateListRoundTrip(t *testing.T) {
	m := Default()
	states := []model.State{
		modeltest.State(t, model.KindNumericMetricState, "nm", true),
		modeltest.State(t, model.KindPatientContextState, "pc", true),
		modeltest.State(t, model.KindAlertSignalState, "sig", false),
	}
	msg, err := m.EncodeStateList(states, 9)
	require.NoError(t, err)

	got, version, err := m.DecodeStateList(msg)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), version)
	require.Len(t, got, len(states))
	for i := range states {
		assert.Empty(t, prop.Diff(states[i], got[i]))
	}
}

func TestReportRoundTrip(t *testing.T) {
	m := Default()
	vmd := descriptor(t, model.KindVmdDescriptor, "vmd3")
	vmdState := modeltest.State(t, model.KindVmdState, "vmd3", false)
	metric := modeltest.State(t, model.KindNumericMetricState, "nm", true)
	metric.StateBase().StateVersion = 4

	in := Report{
		Version: VersionGroup{MdibVersion: 12, SequenceID: "urn:uuid:1", InstanceID: 2},
		Type:    model.DescriptionModificationReport,
		States:  []model.State{metric},
		Parts: []ReportPart{
			{ParentHandle: "mds", Modification: model.Create, Descriptors: []model.Descriptor{vmd}, States: []model.State{vmdState}},
			{ParentHandle: "ch", Modification: model.Delete, Descriptors: []model.Descriptor{descriptor(t, model.KindNumericMetricDescriptor, "old")}},
		},
	}
	msg, err := m.EncodeReport(in)
	require.NoError(t, err)
	out, err := m.DecodeReport(msg)
	require.NoError(t, err)

	assert.Equal(t, in.Version, out.Version)
	assert.Equal(t, in.Type, out.Type)
	require.Len(t, out.States, 1)
	assert.Empty(t, prop.Diff(metric, out.States[0]))
	require.Len(t, out.Parts, 2)
	assert.Equal(t, model.Create, out.Parts[0].Modification)
	assert.Equal(t, "mds", out.Parts[0].Descriptors[0].DescriptorBase().ParentHandle)
	assert.Equal(t, model.Delete, out.Parts[1].Modification)
	assert.Equal(t, "old", out.Parts[1].Descriptors[0].DescriptorBase().Handle)
	assert.Empty(t, out.Parts[1].States)
}

func TestMdibEnvelope(t *testing.T) {
	m := Default()
	desc, err := m.EncodeDescription(nil, modeltest.MapTree{}, 1)
	require.NoError(t, err)
	states, err := m.EncodeStateList(nil, 1)
	require.NoError(t, err)
	g := VersionGroup{MdibVersion: 5, SequenceID: "urn:uuid:x"}
	msg, err := m.EncodeMdib(g, desc, states)
	require.NoError(t, err)

	got, _, _, err := m.SplitMdib(msg)
	require.NoError(t, err)
	assert.Equal(t, g, got)
	assert.True(t, VersionGroup{MdibVersion: 6, SequenceID: "urn:uuid:x"}.Newer(g))
	assert.False(t, VersionGroup{MdibVersion: 6, SequenceID: "urn:uuid:y"}.Newer(g))
}

func TestDurationTruncation(t *testing.T) {
	m := Default()
	d := model.NewNumericMetricDescriptor("m1", "ch1")
	p := 1500*time.Millisecond + 7
	d.AveragingPeriod = &p
	msg, err := m.Encode(d)
	require.NoError(t, err)
	c, err := m.Decode(msg)
	require.NoError(t, err)
	assert.Equal(t, p, *c.(*model.NumericMetricDescriptor).AveragingPeriod)
}
