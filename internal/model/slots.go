package model

import (
	"github.com/KevinKickass/OpenMDIB/internal/types"
)

// Unbounded marks a slot that accepts any number of children.
const Unbounded = 0

// Slot is one entry of a descriptor's child schema.
type Slot struct {
	// Owner is the type whose wire block carries the slot.
	Owner string
	Name  string
	// Family is the union family of the members, empty when the slot holds
	// exactly one concrete kind.
	Family string
	Kinds  []Kind
	Max    int
}

func (s Slot) Allows(k Kind) bool {
	for _, a := range s.Kinds {
		if a == k {
			return true
		}
	}
	return false
}

func (s Slot) Single() bool { return s.Max == 1 }

// ElemType is the declared wire type of the slot's members.
func (s Slot) ElemType() string {
	if s.Family != "" {
		return s.Family
	}
	return s.Kinds[0].String()
}

var (
	metricKinds = []Kind{
		KindNumericMetricDescriptor,
		KindStringMetricDescriptor,
		KindEnumStringMetricDescriptor,
		KindRealTimeSampleArrayMetricDescriptor,
		KindDistributionSampleArrayMetricDescriptor,
	}
	operationKinds = []Kind{
		KindSetValueOperationDescriptor,
		KindSetStringOperationDescriptor,
		KindActivateOperationDescriptor,
		KindSetAlertStateOperationDescriptor,
		KindSetComponentStateOperationDescriptor,
		KindSetContextStateOperationDescriptor,
		KindSetMetricStateOperationDescriptor,
	}
)

func single(owner, name string, k Kind) Slot {
	return Slot{Owner: owner, Name: name, Kinds: []Kind{k}, Max: 1}
}

func many(owner, name string, k Kind) Slot {
	return Slot{Owner: owner, Name: name, Kinds: []Kind{k}, Max: Unbounded}
}

var complexSlots = []Slot{
	single("AbstractComplexDeviceComponentDescriptor", "AlertSystem", KindAlertSystemDescriptor),
	single("AbstractComplexDeviceComponentDescriptor", "Sco", KindScoDescriptor),
}

func concat(parts ...[]Slot) []Slot {
	var out []Slot
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// slotTable is the child schema of every descriptor kind that has children.
// Kinds missing from the table are leaves.
var slotTable = map[Kind][]Slot{
	KindMdsDescriptor: concat(complexSlots, []Slot{
		single("MdsDescriptor", "SystemContext", KindSystemContextDescriptor),
		single("MdsDescriptor", "Clock", KindClockDescriptor),
		many("MdsDescriptor", "Battery", KindBatteryDescriptor),
		many("MdsDescriptor", "Vmd", KindVmdDescriptor),
	}),
	KindVmdDescriptor: concat(complexSlots, []Slot{
		many("VmdDescriptor", "Channel", KindChannelDescriptor),
	}),
	KindChannelDescriptor: {
		{Owner: "ChannelDescriptor", Name: "Metric", Family: "AbstractMetricDescriptor", Kinds: metricKinds},
	},
	KindScoDescriptor: {
		{Owner: "ScoDescriptor", Name: "Operation", Family: "AbstractOperationDescriptor", Kinds: operationKinds},
	},
	KindAlertSystemDescriptor: {
		{
			Owner: "AlertSystemDescriptor", Name: "AlertCondition", Family: "AlertConditionDescriptor",
			Kinds: []Kind{KindAlertConditionDescriptor, KindLimitAlertConditionDescriptor},
		},
		many("AlertSystemDescriptor", "AlertSignal", KindAlertSignalDescriptor),
	},
	KindSystemContextDescriptor: {
		single("SystemContextDescriptor", "PatientContext", KindPatientContextDescriptor),
		single("SystemContextDescriptor", "LocationContext", KindLocationContextDescriptor),
		many("SystemContextDescriptor", "EnsembleContext", KindEnsembleContextDescriptor),
		many("SystemContextDescriptor", "OperatorContext", KindOperatorContextDescriptor),
		many("SystemContextDescriptor", "WorkflowContext", KindWorkflowContextDescriptor),
		many("SystemContextDescriptor", "MeansContext", KindMeansContextDescriptor),
	},
}

// Slots returns the ordered child schema of a descriptor kind.
func Slots(k Kind) []Slot {
	return slotTable[k]
}

// IsLeaf reports whether descriptors of kind k never have children.
func IsLeaf(k Kind) bool {
	return len(slotTable[k]) == 0
}

// SlotFor finds the slot of parent that accepts a child of kind child and
// returns it with its position in the schema.
func SlotFor(parent, child Kind) (Slot, int, error) {
	slots := slotTable[parent]
	if len(slots) == 0 {
		return Slot{}, -1, types.InvariantViolation("model.SlotFor",
			"%s is a leaf and cannot contain %s", parent, child)
	}
	for i, s := range slots {
		if s.Allows(child) {
			return s, i, nil
		}
	}
	return Slot{}, -1, types.InvariantViolation("model.SlotFor",
		"%s has no slot for %s", parent, child)
}
