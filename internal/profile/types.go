// Package profile loads device profiles and composes them into MDIB
// descriptor trees.
package profile

import (
	"bytes"
	"encoding/json"
	"strings"
)

type Profile struct {
	Info Info  `json:"device_profile"`
	Mds  []Mds `json:"mds"`
}

type Info struct {
	ID          string `json:"id"`
	Vendor      string `json:"vendor"`
	Model       string `json:"model"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

type Mds struct {
	Handle        string         `json:"handle"`
	Type          string         `json:"type,omitempty"`
	Meta          *Meta          `json:"meta,omitempty"`
	AlertSystem   *AlertSystem   `json:"alert_system,omitempty"`
	Sco           *Sco           `json:"sco,omitempty"`
	SystemContext *SystemContext `json:"system_context,omitempty"`
	Clock         *Component     `json:"clock,omitempty"`
	Batteries     []Component    `json:"batteries,omitempty"`
	Vmds          []Vmd          `json:"vmds,omitempty"`
}

type Meta struct {
	Manufacturer string   `json:"manufacturer,omitempty"`
	ModelName    string   `json:"model_name,omitempty"`
	ModelNumber  string   `json:"model_number,omitempty"`
	SerialNumber []string `json:"serial_number,omitempty"`
}

// Component is a descriptor with nothing but a handle and a type code.
type Component struct {
	Handle string `json:"handle"`
	Type   string `json:"type,omitempty"`
}

type Vmd struct {
	Handle      string       `json:"handle"`
	Type        string       `json:"type,omitempty"`
	AlertSystem *AlertSystem `json:"alert_system,omitempty"`
	Sco         *Sco         `json:"sco,omitempty"`
	Channels    []Channel    `json:"channels,omitempty"`
}

type Channel struct {
	Handle  string   `json:"handle"`
	Type    string   `json:"type,omitempty"`
	Metrics []Metric `json:"metrics,omitempty"`
}

type MetricKind string

const (
	MetricNumeric      MetricKind = "numeric"
	MetricString       MetricKind = "string"
	MetricEnumString   MetricKind = "enum_string"
	MetricWaveform     MetricKind = "waveform"
	MetricDistribution MetricKind = "distribution"
)

type Metric struct {
	Handle string     `json:"handle"`
	Kind   MetricKind `json:"kind"`
	Type   string     `json:"type,omitempty"`
	Unit   string     `json:"unit"`
	// Category and Availability are participant model tokens ("Msrmt", "Cont").
	Category      string   `json:"category,omitempty"`
	Availability  string   `json:"availability,omitempty"`
	Resolution    Decimal  `json:"resolution,omitempty"`
	Range         *Range   `json:"range,omitempty"`
	SamplePeriod  string   `json:"sample_period,omitempty"`
	AllowedValues []string `json:"allowed_values,omitempty"`
	// Initial is the value of the metric state created with the descriptor.
	Initial   string    `json:"initial,omitempty"`
	Simulate  *Simulate `json:"simulate,omitempty"`
	BodySites []string  `json:"body_sites,omitempty"`
}

// Simulate lets the simulator walk a numeric metric between Min and Max.
type Simulate struct {
	Min  Decimal `json:"min"`
	Max  Decimal `json:"max"`
	Step Decimal `json:"step"`
}

type Range struct {
	Lower Decimal `json:"lower,omitempty"`
	Upper Decimal `json:"upper,omitempty"`
}

type AlertSystem struct {
	Handle     string           `json:"handle"`
	Conditions []AlertCondition `json:"conditions,omitempty"`
	Signals    []AlertSignal    `json:"signals,omitempty"`
}

type AlertCondition struct {
	Handle   string   `json:"handle"`
	Kind     string   `json:"kind,omitempty"`
	Priority string   `json:"priority,omitempty"`
	Sources  []string `json:"sources,omitempty"`
	// Limits makes the condition a limit alert condition.
	Limits *Range `json:"limits,omitempty"`
}

type AlertSignal struct {
	Handle        string `json:"handle"`
	Condition     string `json:"condition"`
	Manifestation string `json:"manifestation"`
	Latching      bool   `json:"latching,omitempty"`
}

type Sco struct {
	Handle     string      `json:"handle"`
	Operations []Operation `json:"operations,omitempty"`
}

type OperationKind string

const (
	OpSetValue          OperationKind = "set_value"
	OpSetString         OperationKind = "set_string"
	OpActivate          OperationKind = "activate"
	OpSetAlertState     OperationKind = "set_alert_state"
	OpSetComponentState OperationKind = "set_component_state"
	OpSetContextState   OperationKind = "set_context_state"
	OpSetMetricState    OperationKind = "set_metric_state"
)

type Operation struct {
	Handle string        `json:"handle"`
	Kind   OperationKind `json:"kind"`
	Target string        `json:"target"`
}

type SystemContext struct {
	Handle    string   `json:"handle"`
	Patient   string   `json:"patient,omitempty"`
	Location  string   `json:"location,omitempty"`
	Ensembles []string `json:"ensembles,omitempty"`
	Operators []string `json:"operators,omitempty"`
	Workflows []string `json:"workflows,omitempty"`
	Means     []string `json:"means,omitempty"`
}

// Decimal keeps the literal text of a decimal given as JSON string or number.
type Decimal string

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Decimal(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = Decimal(n.String())
	return nil
}
