package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

func NewCatalogHandler(catalogService *catalog.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalogService,
		logger:  logger,
	}
}

// ListAirports godoc
// @Summary List all airports
// @Tags Catalog
// @Produce json
// @Success 200 {array} catalog.Airport
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /airports [get]
func (h *CatalogHandler) ListAirports(w http.ResponseWriter, r *http.Request) {
	airports, err := h.catalog.Airports(r.Context())
	if err != nil {
		h.respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, airports)
}

// SearchAirports godoc
// @Summary Search airports
// @Description Case-insensitive substring search over ICAO, IATA, name and country. Queries under two characters return an empty list.
// @Tags Catalog
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {array} catalog.Airport
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /airports/search [get]
func (h *CatalogHandler) SearchAirports(w http.ResponseWriter, r *http.Request) {
	results, err := h.catalog.SearchAirports(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// GetAirport godoc
// @Summary Get an airport by ICAO code
// @Tags Catalog
// @Produce json
// @Param icao path string true "ICAO code"
// @Success 200 {object} catalog.Airport
// @Failure 404 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /airports/{icao} [get]
func (h *CatalogHandler) GetAirport(w http.ResponseWriter, r *http.Request) {
	airport, err := h.catalog.AirportByICAO(r.Context(), chi.URLParam(r, "icao"))
	if err != nil {
		h.respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, airport)
}

// ListAircraft godoc
// @Summary List all aircraft models
// @Tags Catalog
// @Produce json
// @Success 200 {array} catalog.Aircraft
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /aircraft [get]
func (h *CatalogHandler) ListAircraft(w http.ResponseWriter, r *http.Request) {
	aircraft, err := h.catalog.Aircraft(r.Context())
	if err != nil {
		h.respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, aircraft)
}

// SearchAircraft godoc
// @Summary Search aircraft models
// @Description Case-insensitive substring search over model names, in catalog order
// @Tags Catalog
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {array} catalog.Aircraft
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /aircraft/search [get]
func (h *CatalogHandler) SearchAircraft(w http.ResponseWriter, r *http.Request) {
	results, err := h.catalog.SearchAircraft(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// GetAircraftModel godoc
// @Summary Get an aircraft by exact model name
// @Tags Catalog
// @Produce json
// @Param name query string true "Exact model name"
// @Success 200 {object} catalog.Aircraft
// @Failure 404 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /aircraft/model [get]
func (h *CatalogHandler) GetAircraftModel(w http.ResponseWriter, r *http.Request) {
	aircraft, err := h.catalog.AircraftByModel(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, aircraft)
}

// ListJets godoc
// @Summary List all registered jets
// @Tags Catalog
// @Produce json
// @Success 200 {array} catalog.Jet
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /jets [get]
func (h *CatalogHandler) ListJets(w http.ResponseWriter, r *http.Request) {
	jets, err := h.catalog.Jets(r.Context())
	if err != nil {
		h.respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, jets)
}

// GetJet godoc
// @Summary Get a jet by registration
// @Tags Catalog
// @Produce json
// @Param registration path string true "Tail number"
// @Success 200 {object} catalog.Jet
// @Failure 404 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /jets/{registration} [get]
func (h *CatalogHandler) GetJet(w http.ResponseWriter, r *http.Request) {
	jet, err := h.catalog.JetByRegistration(r.Context(), chi.URLParam(r, "registration"))
	if err != nil {
		h.respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, jet)
}

// SearchJets godoc
// @Summary Search registered jets
// @Description Case-insensitive substring search over registration and model name
// @Tags Catalog
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {array} catalog.Jet
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /jets/search [get]
func (h *CatalogHandler) SearchJets(w http.ResponseWriter, r *http.Request) {
	results, err := h.catalog.SearchJets(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (h *CatalogHandler) respondCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "no matching catalog record")
	case errors.Is(err, catalog.ErrUnavailable):
		h.logger.Error("catalog unavailable", zap.Error(err))
		respondWithError(w, http.StatusBadGateway, "catalog temporarily unavailable")
	default:
		h.logger.Error("catalog lookup failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
