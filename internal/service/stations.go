package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"arcadia/internal/cache"
	apperrors "arcadia/internal/errors"
	"arcadia/internal/models"
	"arcadia/internal/repository"
	"arcadia/internal/search"
	"arcadia/internal/timeslot"
)

// StationService manages the station catalog. Postgres is authoritative;
// the Elasticsearch index and the Valkey list cache are best-effort
// accelerators kept in sync on writes.
type StationService struct {
	stations repository.StationStore
	bookings repository.BookingStore
	index    *repository.StationSearchRepository
	valkey   *cache.ValkeyClient
}

func NewStationService(
	stations repository.StationStore,
	bookings repository.BookingStore,
	index *repository.StationSearchRepository,
	valkey *cache.ValkeyClient,
) *StationService {
	return &StationService{
		stations: stations,
		bookings: bookings,
		index:    index,
		valkey:   valkey,
	}
}

func (s *StationService) Create(ctx context.Context, req *models.CreateStationRequest) (*models.GamingStation, error) {
	if !validStationType(req.Type) {
		return nil, fmt.Errorf("unknown station type %q", req.Type)
	}
	if req.HourlyRate.IsNegative() {
		return nil, apperrors.ErrInvalidAmount
	}

	station := &models.GamingStation{
		Name:           req.Name,
		Type:           req.Type,
		Specifications: req.Specifications,
		Location:       req.Location,
		HourlyRate:     req.HourlyRate,
		Status:         models.StationAvailable,
	}

	if err := s.stations.Create(ctx, station); err != nil {
		return nil, err
	}

	s.reindex(ctx, station)
	s.invalidateListCache(ctx)

	slog.Info("Station created",
		"station_id", station.StationID,
		"name", station.Name,
		"type", station.Type)

	return station, nil
}

func (s *StationService) GetByID(ctx context.Context, id int64) (*models.GamingStation, error) {
	station, err := s.stations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, fmt.Errorf("station %d: %w", id, apperrors.ErrNotFound)
	}
	return station, nil
}

// List serves the station catalog through the Valkey cache when possible.
// The cached payload is the marshalled JSON of the full list.
func (s *StationService) List(ctx context.Context) ([]models.GamingStation, error) {
	if s.valkey != nil {
		if data, err := s.valkey.GetStationsList(ctx); err == nil {
			var stations []models.GamingStation
			if err := json.Unmarshal(data, &stations); err == nil {
				return stations, nil
			}
		}
	}

	stations, err := s.stations.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.valkey != nil {
		if data, err := json.Marshal(stations); err == nil {
			if err := s.valkey.SetStationsList(ctx, data); err != nil {
				slog.Warn("Failed to cache stations list", "error", err)
			}
		}
	}

	return stations, nil
}

func (s *StationService) UpdateStatus(ctx context.Context, id int64, status string) (*models.GamingStation, error) {
	switch status {
	case models.StationAvailable, models.StationOccupied, models.StationMaintenance:
	default:
		return nil, fmt.Errorf("unknown station status %q", status)
	}

	station, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.stations.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	station.Status = status

	s.reindex(ctx, station)
	s.invalidateListCache(ctx)

	return station, nil
}

func (s *StationService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.stations.Delete(ctx, id); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			slog.Warn("Failed to remove station from index", "station_id", id, "error", err)
		}
	}
	s.invalidateListCache(ctx)

	return nil
}

// Search queries the Elasticsearch index. Without an index configured it
// degrades to the Postgres list filtered in memory.
func (s *StationService) Search(ctx context.Context, query, stationType, status string, page, pageSize int) ([]search.StationDocument, error) {
	if s.index != nil {
		return s.index.Search(ctx, query, stationType, status, page, pageSize)
	}

	stations, err := s.stations.List(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(query)
	var docs []search.StationDocument
	for _, st := range stations {
		if stationType != "" && st.Type != stationType {
			continue
		}
		if status != "" && st.Status != status {
			continue
		}
		if term != "" && !stationMatches(&st, term) {
			continue
		}
		doc := search.StationDocument{
			StationID:  st.StationID,
			Name:       st.Name,
			Type:       st.Type,
			HourlyRate: st.HourlyRate.InexactFloat64(),
			Status:     st.Status,
			CreatedAt:  st.CreatedAt,
			UpdatedAt:  st.UpdatedAt,
		}
		if st.Specifications != nil {
			doc.Specifications = *st.Specifications
		}
		if st.Location != nil {
			doc.Location = *st.Location
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// Schedule lists the bookings on a station for one date.
func (s *StationService) Schedule(ctx context.Context, stationID int64, dateStr string) ([]models.Booking, error) {
	if _, err := s.GetByID(ctx, stationID); err != nil {
		return nil, err
	}

	date, err := timeslot.ParseDate(dateStr)
	if err != nil {
		return nil, apperrors.ErrInvalidInterval
	}

	return s.bookings.ListByStationDate(ctx, stationID, date)
}

func (s *StationService) reindex(ctx context.Context, station *models.GamingStation) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, station); err != nil {
		slog.Warn("Failed to index station", "station_id", station.StationID, "error", err)
	}
}

func (s *StationService) invalidateListCache(ctx context.Context) {
	if s.valkey == nil {
		return
	}
	if err := s.valkey.InvalidateStationsList(ctx); err != nil {
		slog.Warn("Failed to invalidate stations cache", "error", err)
	}
}

func stationMatches(st *models.GamingStation, term string) bool {
	if strings.Contains(strings.ToLower(st.Name), term) {
		return true
	}
	if st.Specifications != nil && strings.Contains(strings.ToLower(*st.Specifications), term) {
		return true
	}
	if st.Location != nil && strings.Contains(strings.ToLower(*st.Location), term) {
		return true
	}
	return false
}

func validStationType(t string) bool {
	switch t {
	case models.StationPC, models.StationConsole, models.StationVR, models.StationRacingSim:
		return true
	}
	return false
}
