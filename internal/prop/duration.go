package prop

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/types"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// SplitDuration returns the (seconds, nanos) pair of d. Both parts carry the
// sign of d, so the split truncates toward zero.
func SplitDuration(d time.Duration) (int64, int32) {
	return int64(d / time.Second), int32(d % time.Second)
}

// JoinDuration is the inverse of SplitDuration. Pairs outside the range of
// time.Duration are rejected.
func JoinDuration(seconds int64, nanos int32) (time.Duration, error) {
	if nanos <= -1e9 || nanos >= 1e9 {
		return 0, types.DecodeValidation("decode", "duration nanos %d out of range", nanos)
	}
	d, ok := scaleDuration(seconds, time.Second)
	if ok {
		d, ok = addDuration(d, time.Duration(nanos))
	}
	if !ok {
		return 0, types.DecodeValidation("decode", "duration of %ds %dns overflows", seconds, nanos)
	}
	return d, nil
}

func scaleDuration(n int64, unit time.Duration) (time.Duration, bool) {
	limit := int64(math.MaxInt64 / unit)
	if n > limit || n < -limit {
		return 0, false
	}
	return time.Duration(n) * unit, true
}

func addDuration(a, b time.Duration) (time.Duration, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// FormatXSDDuration renders d as an xsd:duration in seconds ("PT1.5S").
func FormatXSDDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	secs, nanos := SplitDuration(d)
	if nanos == 0 {
		return fmt.Sprintf("%sPT%dS", sign, secs)
	}
	frac := strings.TrimRight(fmt.Sprintf("%09d", nanos), "0")
	return fmt.Sprintf("%sPT%d.%sS", sign, secs, frac)
}

// ParseXSDDuration parses the day/time subset of xsd:duration. Years and
// months have no fixed length and are rejected. Fractions beyond nanosecond
// precision are truncated toward zero.
func ParseXSDDuration(s string) (time.Duration, error) {
	invalid := types.DecodeValidation("decode", "invalid duration %q", s)
	neg := strings.HasPrefix(s, "-")
	rest := strings.TrimPrefix(s, "-")
	if !strings.HasPrefix(rest, "P") || len(rest) < 2 {
		return 0, invalid
	}
	rest = rest[1:]

	var (
		total time.Duration
		ok    bool
	)
	inTime, parts := false, 0
	for rest != "" {
		if rest[0] == 'T' {
			if inTime {
				return 0, invalid
			}
			inTime = true
			rest = rest[1:]
			continue
		}
		i := strings.IndexAny(rest, "YMWDHS")
		if i <= 0 {
			return 0, invalid
		}
		num, unit := rest[:i], rest[i]
		rest = rest[i+1:]
		parts++

		if unit == 'S' {
			if !inTime {
				return 0, invalid
			}
			d, err := parseSeconds(num)
			if err != nil {
				return 0, invalid
			}
			if total, ok = addDuration(total, d); !ok {
				return 0, invalid
			}
			continue
		}
		if !unsigned(num) {
			return 0, invalid
		}
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return 0, invalid
		}
		var scale time.Duration
		switch {
		case unit == 'D' && !inTime:
			scale = 24 * time.Hour
		case unit == 'H' && inTime:
			scale = time.Hour
		case unit == 'M' && inTime:
			scale = time.Minute
		default:
			return 0, invalid
		}
		var d time.Duration
		if d, ok = scaleDuration(n, scale); !ok {
			return 0, invalid
		}
		if total, ok = addDuration(total, d); !ok {
			return 0, invalid
		}
	}
	if parts == 0 {
		return 0, invalid
	}
	if neg {
		total = -total
	}
	return total, nil
}

// unsigned reports whether s is a non-empty run of decimal digits.
func unsigned(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseSeconds(s string) (time.Duration, error) {
	whole, frac, _ := strings.Cut(s, ".")
	if !unsigned(whole) || (frac != "" && !unsigned(frac)) {
		return 0, fmt.Errorf("invalid seconds %q", s)
	}
	secs, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, err
	}
	var nanos int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		frac += strings.Repeat("0", 9-len(frac))
		nanos, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, err
		}
	}
	return JoinDuration(secs, int32(nanos))
}

// DurationProp is a duration carried as google.protobuf.Duration.
type DurationProp struct {
	meta
	v        **time.Duration
	required *time.Duration
	implied  *time.Duration
}

// Duration declares an optional duration attribute.
func Duration(name string, v **time.Duration) *DurationProp {
	return &DurationProp{meta: meta{name: name, storage: InAttribute, policy: Optional}, v: v}
}

// RequiredDuration declares a duration that must be present on the wire.
func RequiredDuration(name string, v *time.Duration) *DurationProp {
	return &DurationProp{meta: meta{name: name, storage: InAttribute, policy: Required}, required: v}
}

func (p *DurationProp) Implied(d time.Duration) *DurationProp {
	p.implied = &d
	return p
}

func (p *DurationProp) value() (time.Duration, bool) {
	if p.required != nil {
		return *p.required, true
	}
	if *p.v == nil {
		return 0, false
	}
	return **p.v, true
}

func (p *DurationProp) set(d time.Duration) {
	if p.required != nil {
		*p.required = d
		return
	}
	*p.v = &d
}

func (p *DurationProp) Present() bool {
	_, ok := p.value()
	return ok
}

func (p *DurationProp) Get() any {
	if d, ok := p.value(); ok {
		return d
	}
	if p.implied != nil {
		return *p.implied
	}
	return nil
}

func (p *DurationProp) Actual() (any, bool) {
	d, ok := p.value()
	if !ok {
		return nil, false
	}
	return d, true
}

func (p *DurationProp) Text() (string, bool) {
	d, ok := p.value()
	if !ok {
		return "", false
	}
	return FormatXSDDuration(d), true
}

func (p *DurationProp) SetText(s string) error {
	d, err := ParseXSDDuration(s)
	if err != nil {
		return err
	}
	p.set(d)
	return nil
}

func (p *DurationProp) Equal(other Property) bool {
	o, ok := other.(*DurationProp)
	if !ok {
		return false
	}
	a, aok := p.value()
	b, bok := o.value()
	return aok == bok && a == b
}

func (p *DurationProp) CopyFrom(other Property) error {
	o, ok := other.(*DurationProp)
	if !ok {
		return mismatchKind(p.name, other)
	}
	if d, present := o.value(); present {
		p.set(d)
	} else if p.v != nil {
		*p.v = nil
	}
	return nil
}

func durationFields(fd protoreflect.FieldDescriptor) (protoreflect.FieldDescriptor, protoreflect.FieldDescriptor, error) {
	secs, err := subField(fd, "seconds", protoreflect.Int64Kind)
	if err != nil {
		return nil, nil, err
	}
	nanos, err := subField(fd, "nanos", protoreflect.Int32Kind)
	if err != nil {
		return nil, nil, err
	}
	return secs, nanos, nil
}

func (p *DurationProp) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	secsFd, nanosFd, err := durationFields(fd)
	if err != nil {
		return err
	}
	d, ok := p.value()
	if !ok {
		return nil
	}
	secs, nanos := SplitDuration(d)
	m := dst.Mutable(fd).Message()
	m.Set(secsFd, protoreflect.ValueOfInt64(secs))
	m.Set(nanosFd, protoreflect.ValueOfInt32(nanos))
	return nil
}

func (p *DurationProp) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	secsFd, nanosFd, err := durationFields(fd)
	if err != nil {
		return err
	}
	if !src.Has(fd) {
		if p.required != nil {
			return missingRequired(fd)
		}
		return nil
	}
	m := src.Get(fd).Message()
	d, err := JoinDuration(m.Get(secsFd).Int(), int32(m.Get(nanosFd).Int()))
	if err != nil {
		return fmt.Errorf("%s: %w", fd.Name(), err)
	}
	p.set(d)
	return nil
}
