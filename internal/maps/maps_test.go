package maps

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocejet/charter-api/internal/config"
	"github.com/velocejet/charter-api/internal/domain"
)

func newTestBuilder() *URLBuilder {
	return NewURLBuilder(config.MapsConfig{
		BaseURL: "https://maps.googleapis.com/maps/api/staticmap",
		APIKey:  "test-key",
		Size:    "640x320",
		Scale:   2,
	})
}

func testLegs() []domain.FlightLeg {
	return []domain.FlightLeg{
		{
			DepartureCode: "ENGM", ArrivalCode: "EGGW",
			DepartureLat: "60.1939", DepartureLng: "11.1004",
			ArrivalLat: "51.8747", ArrivalLng: "-0.3683",
		},
		{
			DepartureCode: "EGGW", ArrivalCode: "LFPB",
			DepartureLat: "51.8747", DepartureLng: "-0.3683",
			ArrivalLat: "48.9694", ArrivalLng: "2.4414",
		},
	}
}

func TestBuildURLDeterministic(t *testing.T) {
	b := newTestBuilder()
	legs := testLegs()

	first := b.BuildURL(legs)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, b.BuildURL(legs), "same legs must produce a byte-identical URL")
	}
}

func TestBuildURLPathAndMarkers(t *testing.T) {
	b := newTestBuilder()
	raw := b.BuildURL(testLegs())

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	q := parsed.Query()

	path := q.Get("path")
	require.NotEmpty(t, path)
	assert.True(t, strings.HasPrefix(path, "color:0xd4a017ff|weight:2|geodesic:true|"))

	// Two legs with coordinates contribute two points each.
	coords := strings.Split(path, "|")[3:]
	assert.Len(t, coords, 4)
	assert.Equal(t, "60.1939,11.1004", coords[0])
	assert.Equal(t, "48.9694,2.4414", coords[3])

	markers := q["markers"]
	require.Len(t, markers, 4)
	for _, m := range markers {
		assert.True(t, strings.HasPrefix(m, "size:tiny|color:0xd4a017|"))
	}

	assert.Equal(t, "640x320", q.Get("size"))
	assert.Equal(t, "2", q.Get("scale"))
	assert.Equal(t, "test-key", q.Get("key"))
	assert.NotEmpty(t, q["style"])
}

func TestBuildURLSkipsLegsWithoutCoordinates(t *testing.T) {
	b := newTestBuilder()
	legs := testLegs()
	legs = append(legs, domain.FlightLeg{DepartureCode: "LFPB", ArrivalCode: "LSGG"})

	raw := b.BuildURL(legs)
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	coords := strings.Split(parsed.Query().Get("path"), "|")[3:]
	assert.Len(t, coords, 4, "leg without coordinates must not add points")
	assert.Len(t, parsed.Query()["markers"], 4)
}

func TestBuildURLNoResolvableLegs(t *testing.T) {
	b := newTestBuilder()

	assert.Empty(t, b.BuildURL(nil))
	assert.Empty(t, b.BuildURL([]domain.FlightLeg{
		{DepartureCode: "ENGM", ArrivalCode: "EGGW"},
		{DepartureCode: "EGGW", DepartureLat: "51.8747", DepartureLng: "-0.3683"},
	}))
}
