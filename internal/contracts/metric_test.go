package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMetric_PresenceAndZero(t *testing.T) {
	absent := None()
	assert.False(t, absent.Present())
	assert.Equal(t, 0.0, absent.OrZero())
	assert.False(t, absent.GreaterThan(-1), "absent metric never passes a filter")
	assert.False(t, absent.LessThan(100))
	assert.Nil(t, absent.Ptr())

	zero := Some(0)
	assert.True(t, zero.Present())
	assert.Equal(t, 0.0, zero.OrZero())
	assert.True(t, zero.LessThan(15))

	v := Some(12.3)
	got, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, 12.3, got)
	assert.True(t, v.GreaterThan(5))
	assert.False(t, v.GreaterThan(12.3), "strictly greater")
}

func TestMetric_FromPtr(t *testing.T) {
	assert.False(t, MetricFromPtr(nil).Present())

	f := 4.2
	m := MetricFromPtr(&f)
	assert.True(t, m.Present())
	assert.Equal(t, 4.2, m.OrZero())

	// 복사본이어야 함
	p := m.Ptr()
	*p = 99
	assert.Equal(t, 4.2, m.OrZero())
}

func TestMetric_JSON(t *testing.T) {
	type holder struct {
		A Metric `json:"a"`
		B Metric `json:"b"`
	}

	data, err := json.Marshal(holder{A: Some(8.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":8.5,"b":null}`, string(data))

	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"a":null,"b":1.1}`), &h))
	assert.False(t, h.A.Present())
	assert.Equal(t, Some(1.1), h.B)

	require.NoError(t, json.Unmarshal([]byte(`{}`), &h))
	assert.Error(t, json.Unmarshal([]byte(`{"a":"x"}`), &h))
}

func TestMetric_YAML(t *testing.T) {
	var h struct {
		A Metric `yaml:"a"`
		B Metric `yaml:"b"`
		C Metric `yaml:"c"`
	}

	src := "a: 35.8\nb: ~\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &h))
	assert.Equal(t, Some(35.8), h.A)
	assert.False(t, h.B.Present())
	assert.False(t, h.C.Present(), "missing key stays absent")

	assert.Error(t, yaml.Unmarshal([]byte("a: abc\n"), &h))
}

func TestMetric_String(t *testing.T) {
	assert.Equal(t, "n/a", None().String())
	assert.Equal(t, "1.4", Some(1.4).String())
}
