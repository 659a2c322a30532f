package model

import "fmt"

// ReportType classifies a change for subscribers.
type ReportType int

const (
	EpisodicMetricReport ReportType = iota
	EpisodicAlertReport
	EpisodicComponentReport
	EpisodicOperationalStateReport
	EpisodicContextReport
	DescriptionModificationReport
)

var reportTypeNames = []string{
	"EpisodicMetricReport",
	"EpisodicAlertReport",
	"EpisodicComponentReport",
	"EpisodicOperationalStateReport",
	"EpisodicContextReport",
	"DescriptionModificationReport",
}

func (r ReportType) String() string {
	if r < 0 || int(r) >= len(reportTypeNames) {
		return fmt.Sprintf("ReportType(%d)", int(r))
	}
	return reportTypeNames[r]
}

// ReportTypes lists every report type in wire order.
func ReportTypes() []ReportType {
	out := make([]ReportType, len(reportTypeNames))
	for i := range out {
		out[i] = ReportType(i)
	}
	return out
}

// ParseReportType accepts the report type name as returned by String.
func ParseReportType(s string) (ReportType, error) {
	for i, n := range reportTypeNames {
		if n == s {
			return ReportType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown report type %q", s)
}

// ReportTypeOf returns the episodic report that carries states of kind k.
func ReportTypeOf(k Kind) ReportType {
	if k.IsState() {
		k = k.DescriptorKind()
	}
	switch k {
	case KindNumericMetricDescriptor, KindStringMetricDescriptor, KindEnumStringMetricDescriptor,
		KindRealTimeSampleArrayMetricDescriptor, KindDistributionSampleArrayMetricDescriptor:
		return EpisodicMetricReport
	case KindAlertSystemDescriptor, KindAlertConditionDescriptor, KindLimitAlertConditionDescriptor,
		KindAlertSignalDescriptor:
		return EpisodicAlertReport
	case KindSetValueOperationDescriptor, KindSetStringOperationDescriptor, KindActivateOperationDescriptor,
		KindSetAlertStateOperationDescriptor, KindSetComponentStateOperationDescriptor,
		KindSetContextStateOperationDescriptor, KindSetMetricStateOperationDescriptor:
		return EpisodicOperationalStateReport
	}
	if k.IsContext() {
		return EpisodicContextReport
	}
	return EpisodicComponentReport
}

// ModificationType is the action of a description modification report part.
type ModificationType int

const (
	Create ModificationType = iota
	Update
	Delete
)

func (m ModificationType) String() string {
	switch m {
	case Create:
		return "Crt"
	case Update:
		return "Upt"
	case Delete:
		return "Del"
	default:
		return fmt.Sprintf("ModificationType(%d)", int(m))
	}
}
