package contracts

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Metric is an optional numeric indicator (dividend yield, P/E, ROE, P/B)
// ⭐ SSOT: "값 없음"과 "0"을 구분하는 유일한 타입
//
// Presence is checked by filters; OrZero is used by sort keys.
// The zero value is an absent metric.
type Metric struct {
	value float64
	set   bool
}

// Some returns a present metric
func Some(v float64) Metric {
	return Metric{value: v, set: true}
}

// None returns an absent metric
func None() Metric {
	return Metric{}
}

// Get returns the value and whether it is present
func (m Metric) Get() (float64, bool) {
	return m.value, m.set
}

// Present reports whether the metric carries a value
func (m Metric) Present() bool {
	return m.set
}

// OrZero returns the value, or 0 when absent
func (m Metric) OrZero() float64 {
	if !m.set {
		return 0
	}
	return m.value
}

// GreaterThan reports whether the metric is present and > limit
func (m Metric) GreaterThan(limit float64) bool {
	return m.set && m.value > limit
}

// LessThan reports whether the metric is present and < limit
func (m Metric) LessThan(limit float64) bool {
	return m.set && m.value < limit
}

// Ptr converts to a nullable float (nil when absent)
func (m Metric) Ptr() *float64 {
	if !m.set {
		return nil
	}
	v := m.value
	return &v
}

// MetricFromPtr converts a nullable float (e.g. a scanned NULL column)
func MetricFromPtr(p *float64) Metric {
	if p == nil {
		return None()
	}
	return Some(*p)
}

func (m Metric) String() string {
	if !m.set {
		return "n/a"
	}
	return strconv.FormatFloat(m.value, 'f', -1, 64)
}

// MarshalJSON encodes an absent metric as null
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.set {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

// UnmarshalJSON decodes null as absent
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("metric: %w", err)
	}
	*m = Some(v)
	return nil
}

// MarshalYAML encodes an absent metric as null
func (m Metric) MarshalYAML() (interface{}, error) {
	if !m.set {
		return nil, nil
	}
	return m.value, nil
}

// UnmarshalYAML decodes "~"/null as absent
func (m *Metric) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*m = None()
		return nil
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return fmt.Errorf("metric at line %d: %w", node.Line, err)
	}
	*m = Some(v)
	return nil
}
