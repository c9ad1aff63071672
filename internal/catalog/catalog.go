// Package catalog serves the read-only reference data behind autocomplete:
// aircraft models, airports and jet registrations. The data lives in a
// spreadsheet; a snapshot is cached in memory with a 24h TTL and served
// stale-optimistically while a background refresh runs.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by exact-match lookups when no record matches
	ErrNotFound = errors.New("catalog record not found")
	// ErrUnavailable is returned when the upstream catalog cannot be reached
	// and no cached snapshot exists
	ErrUnavailable = errors.New("catalog unavailable")
)

// MinQueryLength is the minimum substring-search query length. Shorter
// queries return an empty result set, not an error.
const MinQueryLength = 2

// backgroundRefreshTimeout bounds the stale-serve refresh so a hung fetch
// cannot hold the single refresh slot indefinitely.
const backgroundRefreshTimeout = 2 * time.Minute

// Aircraft is one catalog aircraft model
type Aircraft struct {
	ModelName       string `json:"modelName"`
	CabinWidth      string `json:"cabinWidth,omitempty"`
	CabinHeight     string `json:"cabinHeight,omitempty"`
	BaggageVolume   string `json:"baggageVolume,omitempty"`
	PassengerCap    string `json:"passengerCapacity,omitempty"`
	DefaultInterior string `json:"defaultImageInterior,omitempty"`
	DefaultExterior string `json:"defaultImageExterior,omitempty"`
	RangeNM         string `json:"rangeNm,omitempty"`
}

// Airport is one catalog airport
type Airport struct {
	ICAO    string `json:"icao"`
	IATA    string `json:"iata,omitempty"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Lat     string `json:"lat,omitempty"`
	Lng     string `json:"lng,omitempty"`
}

// Jet is one registered tail number
type Jet struct {
	Registration string `json:"registration"`
	ModelName    string `json:"modelName"`
	SerialNumber string `json:"serialNumber,omitempty"`
	Year         string `json:"year,omitempty"`
	BaseICAO     string `json:"baseIcao,omitempty"`
}

// Snapshot is one immutable read of the whole catalog. Slices keep the
// underlying spreadsheet order; searches never re-rank.
type Snapshot struct {
	Aircraft []Aircraft
	Airports []Airport
	Jets     []Jet
}

// Source fetches a full catalog snapshot from its backing store
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
	Name() string
}

// Service answers catalog queries against the cached snapshot
type Service struct {
	source Source
	cache  *snapshotCache
	logger *zap.Logger
}

// NewService creates a catalog service over the given source
func NewService(source Source, cache *snapshotCache, logger *zap.Logger) *Service {
	return &Service{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// snapshot returns the current catalog snapshot. A fresh cache entry is
// served directly; a stale one is served as-is while one background refresh
// is kicked off; an empty cache forces a synchronous fetch.
func (s *Service) snapshot(ctx context.Context) (*Snapshot, error) {
	snap, fresh, ok := s.cache.Get()
	if ok && fresh {
		return snap, nil
	}

	if ok {
		// Serve stale optimistically, refresh in the background. The timeout
		// keeps a hung fetch from holding the refresh slot forever.
		if s.cache.BeginRefresh() {
			go func() {
				defer s.cache.EndRefresh()
				refreshCtx, cancel := context.WithTimeout(context.Background(), backgroundRefreshTimeout)
				defer cancel()
				if err := s.Refresh(refreshCtx); err != nil {
					s.logger.Warn("background catalog refresh failed", zap.Error(err))
				}
			}()
		}
		return snap, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	snap, _, _ = s.cache.Get()
	return snap, nil
}

// Refresh fetches a new snapshot from the source and replaces the cache
func (s *Service) Refresh(ctx context.Context) error {
	snap, err := s.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, s.source.Name(), err)
	}
	s.cache.Set(snap)
	s.logger.Info("catalog snapshot refreshed",
		zap.String("source", s.source.Name()),
		zap.Int("aircraft", len(snap.Aircraft)),
		zap.Int("airports", len(snap.Airports)),
		zap.Int("jets", len(snap.Jets)),
	)
	return nil
}

// Aircraft returns all catalog aircraft in spreadsheet order
func (s *Service) Aircraft(ctx context.Context) ([]Aircraft, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Aircraft, nil
}

// SearchAircraft returns aircraft whose model name contains the query,
// case-insensitively, in catalog order. Queries shorter than
// MinQueryLength return an empty slice.
func (s *Service) SearchAircraft(ctx context.Context, query string) ([]Aircraft, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < MinQueryLength {
		return []Aircraft{}, nil
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	matches := []Aircraft{}
	for _, a := range snap.Aircraft {
		if strings.Contains(strings.ToLower(a.ModelName), q) {
			matches = append(matches, a)
		}
	}
	return matches, nil
}

// AircraftByModel returns the aircraft with the exact model name
// (case-insensitive) or ErrNotFound.
func (s *Service) AircraftByModel(ctx context.Context, name string) (*Aircraft, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	for i := range snap.Aircraft {
		if strings.EqualFold(snap.Aircraft[i].ModelName, name) {
			return &snap.Aircraft[i], nil
		}
	}
	return nil, ErrNotFound
}

// Airports returns all catalog airports in spreadsheet order
func (s *Service) Airports(ctx context.Context) ([]Airport, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Airports, nil
}

// SearchAirports matches the query against ICAO, IATA, airport name and
// country, case-insensitively, in catalog order.
func (s *Service) SearchAirports(ctx context.Context, query string) ([]Airport, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < MinQueryLength {
		return []Airport{}, nil
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	matches := []Airport{}
	for _, a := range snap.Airports {
		if strings.Contains(strings.ToLower(a.ICAO), q) ||
			strings.Contains(strings.ToLower(a.IATA), q) ||
			strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.Country), q) {
			matches = append(matches, a)
		}
	}
	return matches, nil
}

// AirportByICAO returns the airport with the exact ICAO code or ErrNotFound
func (s *Service) AirportByICAO(ctx context.Context, icao string) (*Airport, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	for i := range snap.Airports {
		if strings.EqualFold(snap.Airports[i].ICAO, icao) {
			return &snap.Airports[i], nil
		}
	}
	return nil, ErrNotFound
}

// Jets returns all registered jets in spreadsheet order
func (s *Service) Jets(ctx context.Context) ([]Jet, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Jets, nil
}

// SearchJets matches the query against registration and model name
func (s *Service) SearchJets(ctx context.Context, query string) ([]Jet, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < MinQueryLength {
		return []Jet{}, nil
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	matches := []Jet{}
	for _, j := range snap.Jets {
		if strings.Contains(strings.ToLower(j.Registration), q) ||
			strings.Contains(strings.ToLower(j.ModelName), q) {
			matches = append(matches, j)
		}
	}
	return matches, nil
}

// JetByRegistration returns the jet with the exact registration or ErrNotFound
func (s *Service) JetByRegistration(ctx context.Context, registration string) (*Jet, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	for i := range snap.Jets {
		if strings.EqualFold(snap.Jets[i].Registration, registration) {
			return &snap.Jets[i], nil
		}
	}
	return nil, ErrNotFound
}

// Sample holds the connectivity diagnostic returned by /api/test-sheets
type Sample struct {
	Source        string     `json:"source"`
	AircraftCount int        `json:"aircraftCount"`
	AirportCount  int        `json:"airportCount"`
	JetCount      int        `json:"jetCount"`
	Aircraft      []Aircraft `json:"aircraftSample"`
	Airports      []Airport  `json:"airportSample"`
}

// Diagnose forces a fetch from the source (bypassing the cache) and returns
// counts plus a small data sample.
func (s *Service) Diagnose(ctx context.Context) (*Sample, error) {
	snap, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, s.source.Name(), err)
	}
	s.cache.Set(snap)

	sample := &Sample{
		Source:        s.source.Name(),
		AircraftCount: len(snap.Aircraft),
		AirportCount:  len(snap.Airports),
		JetCount:      len(snap.Jets),
	}
	sample.Aircraft = headAircraft(snap.Aircraft, 3)
	sample.Airports = headAirports(snap.Airports, 3)
	return sample, nil
}

func headAircraft(list []Aircraft, n int) []Aircraft {
	if len(list) < n {
		n = len(list)
	}
	return list[:n]
}

func headAirports(list []Airport, n int) []Airport {
	if len(list) < n {
		n = len(list)
	}
	return list[:n]
}
