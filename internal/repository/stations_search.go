package repository

import (
	"context"

	"arcadia/internal/models"
	"arcadia/internal/search"
)

// StationSearchRepository mirrors station writes into the Elasticsearch
// index and serves free-text queries from it.
type StationSearchRepository struct {
	es *search.ElasticsearchClient
}

func NewStationSearchRepository(es *search.ElasticsearchClient) *StationSearchRepository {
	return &StationSearchRepository{es: es}
}

func (r *StationSearchRepository) Index(ctx context.Context, station *models.GamingStation) error {
	doc := &search.StationDocument{
		StationID:  station.StationID,
		Name:       station.Name,
		Type:       station.Type,
		HourlyRate: station.HourlyRate.InexactFloat64(),
		Status:     station.Status,
		CreatedAt:  station.CreatedAt,
		UpdatedAt:  station.UpdatedAt,
	}
	if station.Specifications != nil {
		doc.Specifications = *station.Specifications
	}
	if station.Location != nil {
		doc.Location = *station.Location
	}

	return r.es.IndexStation(ctx, doc)
}

func (r *StationSearchRepository) Search(ctx context.Context, query, stationType, status string, page, pageSize int) ([]search.StationDocument, error) {
	return r.es.Search(ctx, query, stationType, status, page, pageSize)
}

func (r *StationSearchRepository) Delete(ctx context.Context, stationID int64) error {
	return r.es.DeleteStation(ctx, stationID)
}
