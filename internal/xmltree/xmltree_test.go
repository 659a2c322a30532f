package xmltree

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/model/modeltest"
	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func numericSnapshot(t *testing.T) mdib.Snapshot {
	t.Helper()
	var descriptors []model.Descriptor
	add := func(k model.Kind, handle, parent string) model.Descriptor {
		d, err := model.NewDescriptor(k, handle, parent)
		require.NoError(t, err)
		descriptors = append(descriptors, d)
		return d
	}
	add(model.KindMdsDescriptor, "mds", "")
	add(model.KindVmdDescriptor, "vmd", "mds")
	add(model.KindChannelDescriptor, "ch", "vmd")
	m := add(model.KindNumericMetricDescriptor, "m", "ch").(*model.NumericMetricDescriptor)
	m.MetricCategory = pmtypes.MetricCategoryClc
	m.Unit = *pmtypes.NewCodedValue("262688")
	m.Resolution.Set(prop.MustDecimal("0.01"))

	state, err := model.NewStateFor(m)
	require.NoError(t, err)
	ns := state.(*model.NumericMetricState)
	ns.StateVersion = 2
	ns.MetricValue = pmtypes.NewNumericMetricValue("98.5")

	return mdib.Snapshot{
		Version:            mapping.VersionGroup{MdibVersion: 3, SequenceID: "urn:uuid:golden"},
		DescriptionVersion: 1,
		StateVersion:       2,
		Descriptors:        descriptors,
		States:             []model.State{ns},
	}
}

func TestWriteSnapshotGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, numericSnapshot(t)))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "numeric_metric", buf.Bytes())
}

func TestReadSnapshotLoadsMdib(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, numericSnapshot(t)))

	snap, failed, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.Empty(t, failed)
	assert.Equal(t, uint64(3), snap.Version.MdibVersion)
	assert.Equal(t, "urn:uuid:golden", snap.Version.SequenceID)
	require.Len(t, snap.Descriptors, 4)

	m := mdib.New(zap.NewNop())
	report, err := m.Load(snap)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Applied)

	d, ok := m.Descriptor("m")
	require.True(t, ok)
	assert.Equal(t, "ch", d.DescriptorBase().ParentHandle)
	assert.Equal(t, "0.01", prop.DecimalText(&d.(*model.NumericMetricDescriptor).Resolution))

	s, ok := m.State("m")
	require.True(t, ok)
	value := s.(*model.NumericMetricState).MetricValue
	require.NotNil(t, value)
	assert.Equal(t, "98.5", prop.DecimalText(value.Value))
	assert.Equal(t, pmtypes.ValidityValid, value.MetricQuality.Validity)
}

// pathTo returns the kinds from an Mds down to k.
func pathTo(t *testing.T, k model.Kind) []model.Kind {
	t.Helper()
	if k == model.KindMdsDescriptor {
		return []model.Kind{k}
	}
	for _, p := range model.DescriptorKinds() {
		if _, _, err := model.SlotFor(p, k); err == nil {
			return append(pathTo(t, p), k)
		}
	}
	t.Fatalf("%s has no parent kind", k)
	return nil
}

func TestDescriptorRoundTripEveryKind(t *testing.T) {
	for _, k := range model.DescriptorKinds() {
		t.Run(k.String(), func(t *testing.T) {
			path := pathTo(t, k)
			tree := modeltest.MapTree{}
			var (
				root   model.Descriptor
				parent string
			)
			for i, pk := range path[:len(path)-1] {
				d := modeltest.Descriptor(t, pk, pk.String(), false)
				if i == 0 {
					root = d
				} else {
					tree.Add(parent, d)
				}
				parent = d.DescriptorBase().Handle
			}
			want := modeltest.Descriptor(t, k, "target", true)
			if root == nil {
				root = want
			} else {
				tree.Add(parent, want)
			}

			var buf bytes.Buffer
			require.NoError(t, WriteDescription(&buf, []model.Descriptor{root}, tree, 9))
			version, got, err := ReadDescription(&buf)
			require.NoError(t, err, buf.String())
			assert.Equal(t, uint64(9), version)
			require.Len(t, got, len(path))

			last := got[len(got)-1]
			assert.Equal(t, want.DescriptorBase().ParentHandle, last.DescriptorBase().ParentHandle)
			assert.Empty(t, prop.Diff(want, last), buf.String())
		})
	}
}

func TestStateRoundTripEveryKind(t *testing.T) {
	var want []model.State
	for _, k := range model.StateKinds() {
		want = append(want, modeltest.State(t, k, "d."+k.String(), true))
	}
	var buf bytes.Buffer
	require.NoError(t, WriteStates(&buf, want, 4))

	got, failed, version, err := ReadStates(&buf)
	require.NoError(t, err)
	assert.Empty(t, failed)
	assert.Equal(t, uint64(4), version)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].TypeName(), got[i].TypeName())
		assert.Empty(t, prop.Diff(want[i], got[i]), want[i].TypeName())
	}
}

const header = `<Mdib xmlns="` + Namespace + `" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" SequenceId="urn:uuid:x">`

func TestReadReportsBadStates(t *testing.T) {
	doc := header + `
  <MdDescription><Mds Handle="mds"><Vmd Handle="vmd"/></Mds></MdDescription>
  <MdState>
    <State xsi:type="VmdState" DescriptorHandle="vmd" ActivationState="Sideways"/>
    <State xsi:type="MdsState" DescriptorHandle="mds"/>
    <State xsi:type="MdsState"/>
  </MdState>
</Mdib>`
	snap, failed, err := ReadSnapshot(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, snap.States, 1)
	assert.Equal(t, "mds", snap.States[0].StateBase().DescriptorHandle)
	require.Len(t, failed, 2)
	assert.Equal(t, 0, failed[0].Index)
	assert.Equal(t, "vmd", failed[0].Handle)
	assert.Equal(t, 2, failed[1].Index)
	assert.True(t, errors.Is(failed[1].Err, types.ErrDecodeValidation))
}

func TestReadRejectsBadDescriptions(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{
			name: "missing handle",
			body: `<Mds><Vmd Handle="vmd"/></Mds>`,
			want: types.ErrDecodeValidation,
		},
		{
			name: "unknown type",
			body: `<Mds Handle="mds"><Vmd Handle="vmd"><Channel Handle="ch"><Metric xsi:type="SpectralMetricDescriptor" Handle="m"/></Channel></Vmd></Mds>`,
			want: types.ErrSchemaMismatch,
		},
		{
			name: "abstract member",
			body: `<Mds Handle="mds"><Vmd Handle="vmd"><Channel Handle="ch"><Metric Handle="m"/></Channel></Vmd></Mds>`,
			want: types.ErrDecodeValidation,
		},
		{
			name: "wrong family",
			body: `<Mds Handle="mds"><Vmd Handle="vmd"><Channel Handle="ch"><Metric xsi:type="VmdDescriptor" Handle="m"/></Channel></Vmd></Mds>`,
			want: types.ErrDecodeValidation,
		},
		{
			name: "two clocks",
			body: `<Mds Handle="mds"><Clock Handle="c1"/><Clock Handle="c2"/></Mds>`,
			want: types.ErrInvariantViolation,
		},
		{
			name: "missing required unit code",
			body: `<Mds Handle="mds"><Vmd Handle="vmd"><Channel Handle="ch"><Metric xsi:type="StringMetricDescriptor" Handle="m"><Unit/></Metric></Channel></Vmd></Mds>`,
			want: types.ErrDecodeValidation,
		},
		{
			name: "bad version",
			body: `<Mds Handle="mds" DescriptorVersion="-1"/>`,
			want: types.ErrDecodeValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := header + `<MdDescription>` + tt.body + `</MdDescription></Mdib>`
			_, _, err := ReadSnapshot(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestReadRejectsMalformedDocuments(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":        ``,
		"unclosed":     header + `<MdDescription>`,
		"wrong root":   `<MdState/>`,
		"no sequence":  `<Mdib><MdDescription/></Mdib>`,
		"no container": header + `</Mdib>`,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := ReadSnapshot(strings.NewReader(doc))
			assert.True(t, errors.Is(err, types.ErrDecodeValidation), "got %v", err)
		})
	}
}

func TestWriteRejectsMisplacedChildren(t *testing.T) {
	mds, err := model.NewDescriptor(model.KindMdsDescriptor, "mds", "")
	require.NoError(t, err)
	tree := modeltest.MapTree{}
	ch, err := model.NewDescriptor(model.KindChannelDescriptor, "ch", "")
	require.NoError(t, err)
	tree.Add("mds", ch)

	err = WriteDescription(&bytes.Buffer{}, []model.Descriptor{mds}, tree, 0)
	assert.True(t, errors.Is(err, types.ErrInvariantViolation), "got %v", err)

	vmd, err := model.NewDescriptor(model.KindVmdDescriptor, "vmd", "")
	require.NoError(t, err)
	err = WriteDescription(&bytes.Buffer{}, []model.Descriptor{vmd}, tree, 0)
	assert.True(t, errors.Is(err, types.ErrInvariantViolation), "got %v", err)
}
