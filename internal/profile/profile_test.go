package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loadMonitor(t *testing.T) *Profile {
	t.Helper()
	loader, err := NewProfileLoader([]string{"testdata"})
	require.NoError(t, err)
	p, err := loader.Load("bedside-monitor")
	require.NoError(t, err)
	return p
}

func TestLoadYAMLProfile(t *testing.T) {
	p := loadMonitor(t)
	assert.Equal(t, "bedside-monitor", p.Info.ID)
	require.Len(t, p.Mds, 1)
	require.Len(t, p.Mds[0].Vmds, 2)

	hr := p.Mds[0].Vmds[0].Channels[0].Metrics[0]
	assert.Equal(t, MetricNumeric, hr.Kind)
	assert.Equal(t, Decimal("0"), hr.Range.Lower)
	assert.Equal(t, Decimal("300"), hr.Range.Upper)
	assert.Equal(t, Decimal("60"), hr.Simulate.Min)
}

func TestLoaderCachesAndFindsJSON(t *testing.T) {
	dir := t.TempDir()
	doc := `{"device_profile":{"id":"p","vendor":"v","model":"m","version":"1"},"mds":[{"handle":"mds"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.json"), []byte(doc), 0o600))

	loader, err := NewProfileLoader([]string{dir})
	require.NoError(t, err)
	first, err := loader.Load("tiny")
	require.NoError(t, err)
	second, err := loader.Load("tiny")
	require.NoError(t, err)
	assert.Same(t, first, second)

	loader.ClearCache()
	third, err := loader.Load("tiny")
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	byPath, err := loader.Load(filepath.Join(dir, "tiny.json"))
	require.NoError(t, err)
	assert.Equal(t, "mds", byPath.Mds[0].Handle)

	_, err = loader.Load("missing")
	assert.Error(t, err)
}

func TestLoaderListsProfiles(t *testing.T) {
	dir := t.TempDir()
	doc := `{"device_profile":{"id":"p","vendor":"v","model":"m","version":"1"},"mds":[{"handle":"mds"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.json"), []byte(doc), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("mds: ["), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# profiles"), 0o600))

	loader, err := NewProfileLoader([]string{dir, filepath.Join(dir, "absent")})
	require.NoError(t, err)
	entries, errs := loader.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "tiny", entries[0].Name)
	assert.Equal(t, "p", entries[0].Info.ID)
	assert.Len(t, errs, 1)
}

func TestSchemaRejectsBadProfiles(t *testing.T) {
	loader, err := NewProfileLoader(nil)
	require.NoError(t, err)

	head := "device_profile: {id: p, vendor: v, model: m, version: \"1\"}\n"
	metric := func(body string) string {
		return head + "mds: [{handle: mds, vmds: [{handle: vmd, channels: [{handle: ch, metrics: [" + body + "]}]}]}]\n"
	}
	tests := map[string]string{
		"no mds":              head + "mds: []\n",
		"unknown field":       head + "mds: [{handle: mds, color: red}]\n",
		"bad handle":          head + "mds: [{handle: \"a b\"}]\n",
		"missing unit":        metric("{handle: m, kind: numeric}"),
		"unknown kind":        metric("{handle: m, kind: spectral, unit: u}"),
		"bad category":        metric("{handle: m, kind: numeric, unit: u, category: Guess}"),
		"enum without values": metric("{handle: m, kind: enum_string, unit: u}"),
		"waveform no period":  metric("{handle: m, kind: waveform, unit: u}"),
		"bad decimal":         metric("{handle: m, kind: numeric, unit: u, resolution: abc}"),
		"not yaml":            "mds: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loader.Parse([]byte(doc), ".yaml")
			assert.Error(t, err)
		})
	}
}

func TestComposeBuildsTree(t *testing.T) {
	comp, err := NewComposer(zap.NewNop()).Compose(loadMonitor(t))
	require.NoError(t, err)
	assert.Len(t, comp.Descriptors, 24)
	assert.Len(t, comp.States, 4)
	require.Len(t, comp.Simulated, 2)
	assert.Equal(t, "ecg.hr", comp.Simulated[0].Handle)
	assert.Equal(t, "0.5", prop.DecimalText(comp.Simulated[1].Step))

	seen := make(map[string]bool)
	for _, d := range comp.Descriptors {
		if parent := d.DescriptorBase().ParentHandle; parent != "" {
			assert.True(t, seen[parent], "%s listed before its parent", d.DescriptorBase().Handle)
		}
		seen[d.DescriptorBase().Handle] = true
	}

	for _, part := range comp.Parts() {
		for _, d := range part.Descriptors {
			assert.Equal(t, part.ParentHandle, d.DescriptorBase().ParentHandle)
		}
	}
}

func TestComposeAppliesToMdib(t *testing.T) {
	comp, err := NewComposer(zap.NewNop()).Compose(loadMonitor(t))
	require.NoError(t, err)

	m := mdib.New(zap.NewNop())
	report, err := comp.Apply(m)
	require.NoError(t, err)
	assert.Equal(t, 24, report.Applied)
	assert.Equal(t, 24, m.Len())

	d, ok := m.Descriptor("ecg.hr")
	require.True(t, ok)
	hr := d.(*model.NumericMetricDescriptor)
	assert.Equal(t, "ecg.ch", hr.ParentHandle)
	assert.Equal(t, "264864", hr.Unit.Code)
	assert.Equal(t, pmtypes.MetricCategoryMsrmt, hr.MetricCategory)
	require.Len(t, hr.TechnicalRange, 1)
	assert.Equal(t, "300", prop.DecimalText(hr.TechnicalRange[0].Upper))

	s, ok := m.State("ecg.hr")
	require.True(t, ok)
	assert.Equal(t, "72", prop.DecimalText(s.(*model.NumericMetricState).MetricValue.Value))

	lead, ok := m.State("ecg.lead")
	require.True(t, ok)
	assert.Equal(t, "II", *lead.(*model.EnumStringMetricState).MetricValue.Value)

	wave, ok := m.Descriptor("ecg.wave")
	require.True(t, ok)
	assert.Equal(t, 4*time.Millisecond, wave.(*model.RealTimeSampleArrayMetricDescriptor).SamplePeriod)

	limit, ok := m.Descriptor("ecg.hr.limit")
	require.True(t, ok)
	lc := limit.(*model.LimitAlertConditionDescriptor)
	assert.Equal(t, pmtypes.PriorityHigh, lc.Priority)
	assert.Equal(t, []string{"ecg.hr"}, lc.Source)
	assert.Equal(t, "40", prop.DecimalText(lc.MaxLimits.Lower))

	var handles []string
	for _, c := range m.Children("ecg") {
		handles = append(handles, c.DescriptorBase().Handle)
	}
	assert.Equal(t, []string{"ecg.as", "ecg.sco", "ecg.ch"}, handles)

	_, ok = m.State("mds0.sc.patient")
	assert.False(t, ok, "context states are created on association")
	_, ok = m.State("mds0.clock")
	assert.True(t, ok)
}

func TestComposeRejectsBadReferences(t *testing.T) {
	base := func() *Profile {
		return &Profile{
			Info: Info{ID: "p"},
			Mds: []Mds{{
				Handle: "mds",
				Vmds: []Vmd{{
					Handle: "vmd",
					Channels: []Channel{{
						Handle:  "ch",
						Metrics: []Metric{{Handle: "m", Kind: MetricNumeric, Unit: "u"}},
					}},
				}},
			}},
		}
	}
	tests := []struct {
		name   string
		mutate func(p *Profile)
		want   error
	}{
		{
			name: "unknown source",
			mutate: func(p *Profile) {
				p.Mds[0].AlertSystem = &AlertSystem{Handle: "as", Conditions: []AlertCondition{{Handle: "ac", Sources: []string{"nope"}}}}
			},
			want: types.ErrDecodeValidation,
		},
		{
			name: "unknown target",
			mutate: func(p *Profile) {
				p.Mds[0].Sco = &Sco{Handle: "sco", Operations: []Operation{{Handle: "op", Kind: OpSetValue, Target: "nope"}}}
			},
			want: types.ErrDecodeValidation,
		},
		{
			name:   "duplicate handle",
			mutate: func(p *Profile) { p.Mds[0].Clock = &Component{Handle: "m"} },
			want:   types.ErrInvariantViolation,
		},
		{
			name: "initial outside allowed values",
			mutate: func(p *Profile) {
				p.Mds[0].Vmds[0].Channels[0].Metrics[0] = Metric{
					Handle: "m", Kind: MetricEnumString, Unit: "u", AllowedValues: []string{"a"}, Initial: "b",
				}
			},
			want: types.ErrDecodeValidation,
		},
		{
			name: "resolution on string metric",
			mutate: func(p *Profile) {
				p.Mds[0].Vmds[0].Channels[0].Metrics[0] = Metric{Handle: "m", Kind: MetricString, Unit: "u", Resolution: "1"}
			},
			want: types.ErrDecodeValidation,
		},
		{
			name: "inverted simulation",
			mutate: func(p *Profile) {
				p.Mds[0].Vmds[0].Channels[0].Metrics[0].Simulate = &Simulate{Min: "10", Max: "5", Step: "1"}
			},
			want: types.ErrDecodeValidation,
		},
		{
			name: "unknown token",
			mutate: func(p *Profile) {
				p.Mds[0].Vmds[0].Channels[0].Metrics[0].Category = "Guess"
			},
			want: types.ErrDecodeValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(p)
			_, err := NewComposer(zap.NewNop()).Compose(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
