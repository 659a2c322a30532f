package prop

import (
	"math"
	"testing"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/types"
	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID       string
	Label    *string
	Count    uint64
	Enabled  *bool
	Scale    *apd.Decimal
	Delay    *time.Duration
	Mode     *sampleMode
	Tags     []string
	Children []*sample
	Ext      *Extension
}

type sampleMode string

var sampleModes = []sampleMode{"Auto", "Man"}

func (s *sample) TypeName() string { return "Sample" }

func (s *sample) Blocks() []Block {
	return []Block{{Type: "Sample", Props: []Property{
		Opaque("Extension", &s.Ext),
		String("ID", &s.ID).AsIdentity(),
		OptString("Label", &s.Label),
		UintDefault("Count", &s.Count),
		OptBool("Enabled", &s.Enabled).Implied(true),
		Decimal("Scale", &s.Scale),
		Duration("Delay", &s.Delay).Implied(0),
		OptEnum("Mode", &s.Mode, sampleModes).Implied("Auto"),
		Strings("Tags", &s.Tags, InTextList),
		Elements("Children", &s.Children, "Sample"),
	}}}
}

func init() {
	Register(TypeInfo{Name: "Sample", New: func() Composite { return &sample{} }})
}

func TestSplitDurationTruncatesTowardZero(t *testing.T) {
	secs, nanos := SplitDuration(-1500 * time.Millisecond)
	assert.Equal(t, int64(-1), secs)
	assert.Equal(t, int32(-500_000_000), nanos)
	d, err := JoinDuration(secs, nanos)
	require.NoError(t, err)
	assert.Equal(t, -1500*time.Millisecond, d)

	secs, nanos = SplitDuration(2*time.Second + 7)
	assert.Equal(t, int64(2), secs)
	assert.Equal(t, int32(7), nanos)
}

func TestXSDDuration(t *testing.T) {
	assert.Equal(t, "PT1.5S", FormatXSDDuration(1500*time.Millisecond))
	assert.Equal(t, "PT0S", FormatXSDDuration(0))
	assert.Equal(t, "-PT0.01S", FormatXSDDuration(-10*time.Millisecond))

	cases := map[string]time.Duration{
		"PT1.5S":          1500 * time.Millisecond,
		"P1DT2H":          26 * time.Hour,
		"PT3M":            3 * time.Minute,
		"-PT0.01S":        -10 * time.Millisecond,
		"PT0.0000000019S": 1,
	}
	for in, want := range cases {
		got, err := ParseXSDDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "P", "1S", "P1Y", "PT", "PTS", "P1H", "P-1D", "PT+1H", "PT-1.5S"} {
		_, err := ParseXSDDuration(bad)
		assert.ErrorIs(t, err, types.ErrDecodeValidation, bad)
	}
}

func TestDurationOverflowIsRejected(t *testing.T) {
	for _, in := range []string{
		"P200000D",
		"PT3000000H",
		"PT200000000000M",
		"PT9999999999S",
		"P106751DT23H47M17S",
		"-P200000D",
	} {
		_, err := ParseXSDDuration(in)
		assert.ErrorIs(t, err, types.ErrDecodeValidation, in)
	}

	d, err := ParseXSDDuration("P106751DT23H47M16S")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(9223372036)*time.Second, d)

	_, err = JoinDuration(math.MaxInt64/int64(time.Second)+1, 0)
	assert.ErrorIs(t, err, types.ErrDecodeValidation)
	_, err = JoinDuration(math.MaxInt64/int64(time.Second), 999_999_999)
	assert.ErrorIs(t, err, types.ErrDecodeValidation)
	_, err = JoinDuration(0, 1_000_000_000)
	assert.ErrorIs(t, err, types.ErrDecodeValidation)
}

func TestDecimalTextIsExact(t *testing.T) {
	d := MustDecimal("0.01")
	assert.Equal(t, "0.01", DecimalText(d))
	assert.Equal(t, "1.50", DecimalText(MustDecimal("1.50")))

	_, err := ParseDecimal("abc")
	assert.Error(t, err)
}

func TestImpliedValueIsNotStored(t *testing.T) {
	s := &sample{ID: "a"}

	assert.Equal(t, true, Value(s, "Enabled"))
	v, ok := Actual(s, "Enabled")
	assert.False(t, ok)
	assert.Nil(t, v)

	assert.Equal(t, sampleMode("Auto"), Value(s, "Mode"))
	assert.Equal(t, time.Duration(0), Value(s, "Delay"))
	assert.Nil(t, Value(s, "Scale"))
	assert.Nil(t, Value(s, "Missing"))
}

func TestDiffAndCopy(t *testing.T) {
	label := "first"
	a := &sample{ID: "a", Label: &label, Count: 3, Scale: MustDecimal("0.10"), Tags: []string{"x"},
		Children: []*sample{{ID: "c1"}}, Ext: &Extension{Content: []byte("one")}}
	b := &sample{ID: "b", Ext: &Extension{Content: []byte("two")}}

	diffs := Diff(a, b)
	assert.ElementsMatch(t, []string{"Sample.ID", "Sample.Label", "Sample.Count", "Sample.Scale", "Sample.Tags", "Sample.Children"}, diffs)

	require.NoError(t, CopyFrom(b, a))
	assert.Equal(t, "b", b.ID, "identity must survive CopyFrom")
	assert.Equal(t, []string{"Sample.ID"}, Diff(a, b))

	label = "changed"
	a.Children[0].ID = "other"
	assert.Equal(t, "first", *b.Label)
	assert.Equal(t, "c1", b.Children[0].ID)
}

func TestClone(t *testing.T) {
	mode := sampleMode("Man")
	a := &sample{ID: "a", Mode: &mode, Children: []*sample{{ID: "c"}}}

	out, err := Clone(a)
	require.NoError(t, err)
	assert.True(t, Equal(a, out))
	assert.NotSame(t, a.Children[0], out.(*sample).Children[0])
}

func TestSetTextRejectsUnknownEnum(t *testing.T) {
	s := &sample{}
	p, ok := Find(s, "Mode")
	require.True(t, ok)
	err := p.(Scalar).SetText("Bogus")
	assert.Error(t, err)
	require.NoError(t, p.(Scalar).SetText("Man"))
	assert.Equal(t, sampleMode("Man"), *s.Mode)
}

func TestChain(t *testing.T) {
	chain, err := Chain("Sample")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sample"}, chain)

	_, err = Chain("Nope")
	assert.Error(t, err)
}
