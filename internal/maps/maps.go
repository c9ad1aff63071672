// Package maps builds static map URLs for proposal itineraries. The URL is
// assembled by hand rather than through url.Values so that the same form
// state always produces the exact same string; the PDF renderer uses the URL
// as a cache key.
package maps

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/velocejet/charter-api/internal/config"
	"github.com/velocejet/charter-api/internal/domain"
)

const (
	pathColor   = "0xd4a017ff"
	markerColor = "0xd4a017"
)

// mapStyles is the fixed dark palette. Roads, transit and points of
// interest are hidden so the route stands alone.
var mapStyles = []string{
	"element:geometry|color:0x1d2c4d",
	"element:labels.text.fill|color:0x8ec3b9",
	"element:labels.text.stroke|color:0x1a3646",
	"feature:administrative.country|element:geometry.stroke|color:0x4b6878",
	"feature:poi|visibility:off",
	"feature:road|visibility:off",
	"feature:transit|visibility:off",
	"feature:water|element:geometry|color:0x0e1626",
	"feature:water|element:labels.text.fill|color:0x4e6d70",
}

// URLBuilder renders a Google Static Maps URL for a set of flight legs
type URLBuilder struct {
	baseURL string
	apiKey  string
	size    string
	scale   int
}

// NewURLBuilder creates a builder from the maps configuration
func NewURLBuilder(cfg config.MapsConfig) *URLBuilder {
	return &URLBuilder{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		size:    cfg.Size,
		scale:   cfg.Scale,
	}
}

// point is one resolved coordinate pair, formatted once so the path and
// marker parameters use identical text.
type point struct {
	lat string
	lng string
}

func (p point) String() string {
	return p.lat + "," + p.lng
}

// BuildURL returns the static map URL for the legs that carry coordinates.
// Legs without coordinates are skipped; if no leg resolves, the empty
// string is returned and the PDF omits the map.
func (b *URLBuilder) BuildURL(legs []domain.FlightLeg) string {
	points := resolvePoints(legs)
	if len(points) == 0 {
		return ""
	}

	// Parameter order is fixed: size, scale, maptype, styles, path,
	// markers, key. Never reorder; the output must be byte-identical
	// for identical input.
	var sb strings.Builder
	sb.WriteString(b.baseURL)
	sb.WriteString("?size=")
	sb.WriteString(url.QueryEscape(b.size))
	sb.WriteString("&scale=")
	sb.WriteString(fmt.Sprintf("%d", b.scale))
	sb.WriteString("&maptype=roadmap")

	for _, style := range mapStyles {
		sb.WriteString("&style=")
		sb.WriteString(url.QueryEscape(style))
	}

	sb.WriteString("&path=")
	sb.WriteString(url.QueryEscape(buildPath(points)))

	for _, p := range points {
		sb.WriteString("&markers=")
		sb.WriteString(url.QueryEscape("size:tiny|color:" + markerColor + "|" + p.String()))
	}

	if b.apiKey != "" {
		sb.WriteString("&key=")
		sb.WriteString(url.QueryEscape(b.apiKey))
	}

	return sb.String()
}

// resolvePoints flattens the legs into an ordered departure/arrival point
// list, dropping legs where either end lacks coordinates.
func resolvePoints(legs []domain.FlightLeg) []point {
	var points []point
	for _, leg := range legs {
		if !leg.HasCoordinates() {
			continue
		}
		points = append(points,
			point{lat: leg.DepartureLat, lng: leg.DepartureLng},
			point{lat: leg.ArrivalLat, lng: leg.ArrivalLng},
		)
	}
	return points
}

// buildPath chains all points into one geodesic path parameter
func buildPath(points []point) string {
	parts := make([]string, 0, len(points)+3)
	parts = append(parts, "color:"+pathColor, "weight:2", "geodesic:true")
	for _, p := range points {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "|")
}
