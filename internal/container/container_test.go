package container

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombiz/blitz/internal/model"
)

func testRecords() []model.Record {
	return []model.Record{
		{"timeLogged": int64(1000), "value": 0.5},
		{"timeLogged": int64(2000), "value": 0.8},
		{"timeLogged": int64(3000), "value": 0.1},
	}
}

func testMeta() Metadata {
	return Metadata{
		Source:    "sqlite:test.db",
		Model:     "Reading",
		Units:     map[string]string{"value": "V"},
		CreatedAt: time.Unix(1373803527, 0),
	}
}

func TestNewCopiesInputs(t *testing.T) {
	records := testRecords()
	meta := testMeta()
	c := New(records, meta)

	// mutate the inputs after construction
	records[0]["value"] = 99.0
	meta.Units["value"] = "mV"

	assert.Equal(t, 0.5, c.Record(0)["value"])
	assert.Equal(t, "V", c.Meta().Units["value"])
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := New(testRecords(), testMeta())

	got := c.Records()
	got[1]["value"] = -1.0
	assert.Equal(t, 0.8, c.Record(1)["value"])

	m := c.Meta()
	m.Units["value"] = "mV"
	assert.Equal(t, "V", c.Meta().Units["value"])
}

func TestDeriveNeverMutatesReceiver(t *testing.T) {
	c := New(testRecords(), testMeta())
	before := c.Records()
	beforeMeta := c.Meta()

	derived := c
	for i := 0; i < 5; i++ {
		meta := derived.Meta()
		meta.Source = meta.Source + "|step"
		derived = derived.Derive(derived.Records()[:2], meta)
	}

	assert.Equal(t, before, c.Records())
	assert.Equal(t, beforeMeta, c.Meta())
	assert.Equal(t, 2, derived.Len())
}

func TestEqual(t *testing.T) {
	a := New(testRecords(), testMeta())
	b := New(testRecords(), testMeta())
	assert.True(t, a.Equal(b))

	meta := testMeta()
	meta.Source = "other"
	c := New(testRecords(), meta)
	assert.False(t, a.Equal(c))

	d := New(testRecords()[:2], testMeta())
	assert.False(t, a.Equal(d))
}

func TestSeries(t *testing.T) {
	c := New(testRecords(), testMeta())

	xs, ys, err := c.Series("timeLogged", "value")
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, 2000, 3000}, xs)
	assert.Equal(t, []float64{0.5, 0.8, 0.1}, ys)
}

func TestSeriesNonNumericField(t *testing.T) {
	c := New([]model.Record{{"name": "Brake", "value": 0.5}}, Metadata{})

	_, _, err := c.Series("name", "value")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"name" is not numeric`)
}

func TestBounds(t *testing.T) {
	c := New(testRecords(), testMeta())

	min, max, err := c.Bounds("value")
	require.NoError(t, err)
	assert.Equal(t, 0.1, min)
	assert.Equal(t, 0.8, max)

	empty := New(nil, Metadata{})
	min, max, err = empty.Bounds("value")
	require.NoError(t, err)
	assert.Zero(t, min)
	assert.Zero(t, max)
}
