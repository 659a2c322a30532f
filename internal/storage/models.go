package storage

import "time"

// DescriptorRecord is one archived version of a descriptor. Payload holds
// the binary AbstractDescriptorOneOfMsg.
type DescriptorRecord struct {
	SequenceID        string    `json:"sequence_id"`
	InstanceID        uint64    `json:"instance_id"`
	MdibVersion       uint64    `json:"mdib_version"`
	Handle            string    `json:"handle"`
	ParentHandle      string    `json:"parent_handle"`
	DescriptorVersion uint64    `json:"descriptor_version"`
	TypeName          string    `json:"type_name"`
	Modification      string    `json:"modification"`
	Payload           []byte    `json:"-"`
	RecordedAt        time.Time `json:"recorded_at"`
}

// StateRecord is one archived version of a state. Payload holds the
// binary AbstractStateOneOfMsg.
type StateRecord struct {
	SequenceID       string    `json:"sequence_id"`
	InstanceID       uint64    `json:"instance_id"`
	MdibVersion      uint64    `json:"mdib_version"`
	Handle           string    `json:"handle"`
	DescriptorHandle string    `json:"descriptor_handle"`
	StateVersion     uint64    `json:"state_version"`
	TypeName         string    `json:"type_name"`
	Payload          []byte    `json:"-"`
	RecordedAt       time.Time `json:"recorded_at"`
}

// Batch is everything recorded for one committed MDIB change.
type Batch struct {
	Descriptors []DescriptorRecord
	States      []StateRecord
}

func (b Batch) Empty() bool { return len(b.Descriptors) == 0 && len(b.States) == 0 }

// Query selects archived versions of one MDIB sequence. Empty Handles
// matches every handle; a zero To has no upper bound.
type Query struct {
	SequenceID string
	Handles    []string
	From       uint64
	To         uint64
}

func (q Query) upper() uint64 {
	if q.To == 0 {
		return 1<<63 - 1
	}
	return q.To
}

// handles never returns nil so the query parameter is an empty array, not NULL.
func (q Query) handles() []string {
	if q.Handles == nil {
		return []string{}
	}
	return q.Handles
}
