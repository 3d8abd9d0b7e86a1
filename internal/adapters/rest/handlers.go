package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"eri-tracker-service/internal/contextkeys"
	"eri-tracker-service/internal/core/domain"
	"eri-tracker-service/internal/core/port"
	"eri-tracker-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// HousesHandler - обработчики чтения и экспорта сохраненных объектов.
type HousesHandler struct {
	getHousesUC    usecases_port.GetHousesUseCase
	exportHousesUC usecases_port.ExportHousesUseCase
}

func NewHousesHandler(getHousesUC usecases_port.GetHousesUseCase,
	exportHousesUC usecases_port.ExportHousesUseCase) *HousesHandler {
	return &HousesHandler{
		getHousesUC:    getHousesUC,
		exportHousesUC: exportHousesUC,
	}
}

// ListHouses обрабатывает GET /api/v1/houses
func (h *HousesHandler) ListHouses(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	handlerLogger := logger.WithFields(port.Fields{"handler": "ListHouses"})
	handlerLogger.Debug("Processing request to list houses", nil)

	houses, err := h.getHousesUC.List(r.Context())
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve houses")
		return
	}

	response := HousesListResponse{
		Data:  make([]HouseResponse, len(houses)),
		Total: len(houses),
	}
	for i, house := range houses {
		response.Data[i] = houseToResponse(house)
	}

	handlerLogger.Info("Successfully listed houses", port.Fields{"total": len(houses)})
	RespondWithJSON(w, http.StatusOK, response)
}

// GetHouse обрабатывает GET /api/v1/houses/{houseID}
func (h *HousesHandler) GetHouse(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	houseIDStr := chi.URLParam(r, "houseID")
	houseID, err := strconv.ParseInt(houseIDStr, 10, 64)
	if err != nil {
		logger.Warn("Invalid house ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid house ID format")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":  "GetHouse",
		"house_id": houseID,
	})
	handlerLogger.Debug("Processing request to get house details", nil)

	house, err := h.getHousesUC.GetByID(r.Context(), houseID)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve house")
		return
	}
	if house == nil {
		handlerLogger.Warn("House not found", nil)
		WriteJSONError(w, http.StatusNotFound, "House not found")
		return
	}

	handlerLogger.Info("Successfully found house", nil)
	RespondWithJSON(w, http.StatusOK, houseToResponse(*house))
}

// ExportHouses обрабатывает GET /api/v1/houses/export
func (h *HousesHandler) ExportHouses(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	handlerLogger := logger.WithFields(port.Fields{"handler": "ExportHouses"})
	handlerLogger.Debug("Processing request to export houses", nil)

	filePath, err := h.exportHousesUC.Execute(r.Context())
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to export houses")
		return
	}

	handlerLogger.Info("Successfully exported houses", port.Fields{"file_path": filePath})
	RespondWithJSON(w, http.StatusOK, ExportResponse{FilePath: filePath})
}

// TrackerHandler - ручные запуски прогонов конвейера.
type TrackerHandler struct {
	refreshRegionUC  usecases_port.RefreshRegionUseCase
	geocodeMissingUC usecases_port.GeocodeMissingUseCase
	defaultRegion    string
}

func NewTrackerHandler(refreshRegionUC usecases_port.RefreshRegionUseCase,
	geocodeMissingUC usecases_port.GeocodeMissingUseCase,
	defaultRegion string) *TrackerHandler {
	return &TrackerHandler{
		refreshRegionUC:  refreshRegionUC,
		geocodeMissingUC: geocodeMissingUC,
		defaultRegion:    defaultRegion,
	}
}

// Refresh обрабатывает POST /api/v1/refresh. Тело опционально: без него
// прогон идет по региону из конфигурации.
func (h *TrackerHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	region := h.defaultRegion
	if r.Body != nil && r.ContentLength != 0 {
		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Region != "" {
			region = req.Region
		}
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "Refresh",
		"region":  region,
	})
	handlerLogger.Debug("Processing request to refresh region", nil)

	report, err := h.refreshRegionUC.Execute(r.Context(), region)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to refresh region")
		return
	}

	handlerLogger.Info("Refresh finished", port.Fields{
		"fetched": report.Fetched,
		"matched": report.Matched,
		"aborted": report.Aborted,
	})
	RespondWithJSON(w, http.StatusOK, refreshToResponse(report))
}

// GeocodeMissing обрабатывает POST /api/v1/geocode-missing
func (h *TrackerHandler) GeocodeMissing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	handlerLogger := logger.WithFields(port.Fields{"handler": "GeocodeMissing"})
	handlerLogger.Debug("Processing request to geocode houses without coordinates", nil)

	report, err := h.geocodeMissingUC.Execute(r.Context())
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to geocode houses")
		return
	}

	handlerLogger.Info("Geocoding finished", port.Fields{
		"processed": report.Processed,
		"resolved":  report.Resolved,
	})
	RespondWithJSON(w, http.StatusOK, GeocodeMissingResponse{
		Processed: report.Processed,
		Resolved:  report.Resolved,
	})
}

func houseToResponse(house domain.House) HouseResponse {
	return HouseResponse{
		ID:             house.ID,
		Position:       house.Position,
		StateType:      house.StateType,
		StateDate:      house.StateDate,
		InspectionDate: house.InspectionDate,
		Link:           house.Link,
		Actual:         house.Actual,
		Latitude:       house.Latitude,
		Longitude:      house.Longitude,
		Geohash:        house.Geohash,
	}
}

func refreshToResponse(report *domain.RefreshReport) RefreshResponse {
	return RefreshResponse{
		Region:  report.Region,
		Fetched: report.Fetched,
		Matched: report.Matched,
		Aborted: report.Aborted,
		Added:   report.Added,
		Updated: report.Updated,
		Deleted: report.Deleted,
	}
}
