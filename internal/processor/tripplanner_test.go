package processor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTripPlannerXML = `<?xml version="1.0" encoding="UTF-8"?>
<stations>
  <station station_type="launch" title="Deception Pass State Park" xid="42">
    <marker lat="48.4066" lng="-122.6437"/>
  </station>
  <station station_type="current" title="Rosario Strait" chart_title="Rosario" cid="PUG1515">
    <marker lat="48.4650" lng="-122.7550"/>
  </station>
  <tide station_type="tide" title="Port Townsend" tid="9444900">
    <marker lat="48.1117" lng="-122.7600"/>
  </tide>
  <station station_type="destination" title="Unnamed Cove">
    <marker lat="48.5000" lng="-122.9000"/>
  </station>
</stations>`

func TestParseTripPlanner(t *testing.T) {
	rows, err := ParseTripPlanner(strings.NewReader(testTripPlannerXML))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, StationRow{
		Latitude:   "48.4066",
		Longitude:  "-122.6437",
		SID:        "x_42",
		Title:      "Deception Pass State Park",
		ChartTitle: "",
		Type:       "launch",
	}, rows[0])

	assert.Equal(t, "c_PUG1515", rows[1].SID)
	assert.Equal(t, "Rosario", rows[1].ChartTitle)
	// coordinates are copied verbatim, trailing zeros included
	assert.Equal(t, "48.4650", rows[1].Latitude)

	assert.Equal(t, "t_9444900", rows[2].SID)
	assert.Equal(t, "tide", rows[2].Type)

	assert.Equal(t, "", rows[3].SID)
}

func TestParseTripPlanner_SIDPrecedence(t *testing.T) {
	input := `<root>
  <s station_type="current" title="Both" tid="7" cid="3" xid="1"><marker lat="1" lng="2"/></s>
  <s station_type="current" title="No xid" tid="7" cid="3"><marker lat="1" lng="2"/></s>
  <s station_type="tide" title="Empty xid" xid=""><marker lat="1" lng="2"/></s>
</root>`

	rows, err := ParseTripPlanner(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "x_1", rows[0].SID)
	assert.Equal(t, "c_3", rows[1].SID)
	assert.Equal(t, "x_", rows[2].SID)
}

func TestParseTripPlanner_MissingAttributes(t *testing.T) {
	tests := []struct {
		name    string
		station string
		want    string
	}{
		{"station_type", `<s title="A"><marker lat="1" lng="2"/></s>`, "station_type"},
		{"title", `<s station_type="tide"><marker lat="1" lng="2"/></s>`, "title"},
		{"marker", `<s station_type="tide" title="A"/>`, "marker"},
		{"lat", `<s station_type="tide" title="A"><marker lng="2"/></s>`, "marker lat"},
		{"lng", `<s station_type="tide" title="A"><marker lat="1"/></s>`, "marker lng"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTripPlanner(strings.NewReader("<root>" + tt.station + "</root>"))
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrMissingAttribute))
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "station 1")
		})
	}
}

func TestParseTripPlanner_Latin1(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="ISO-8859-1"?>`)
	buf.WriteString(`<root><s station_type="launch" title="Caf`)
	buf.WriteByte(0xE9) // é in Latin-1
	buf.WriteString(`" xid="1"><marker lat="1" lng="2"/></s></root>`)

	rows, err := ParseTripPlanner(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café", rows[0].Title)
}

func TestParseTripPlanner_Malformed(t *testing.T) {
	_, err := ParseTripPlanner(strings.NewReader("<root><s"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml: decode dataset")
}

func TestParseTripPlanner_Empty(t *testing.T) {
	rows, err := ParseTripPlanner(strings.NewReader("<root/>"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
