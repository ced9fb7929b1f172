package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakayph/fares-api/internal/ingest"
	"github.com/sakayph/fares-api/internal/logger"
	"github.com/sakayph/fares-api/internal/models"
	"github.com/sakayph/fares-api/internal/repository"
)

// FareService defines read access to the current fare tables. Every
// read reflects the last committed ingestion; there is no caching
// layer in front of the database.
type FareService interface {
	// GetJeepneyFares returns the whole jeepney matrix, shortest
	// distance first.
	GetJeepneyFares(ctx context.Context) ([]models.JeepneyFare, error)

	// GetTricycleFares returns one place's rows. Returns
	// ingest.ErrPlaceRequired when place is empty.
	GetTricycleFares(ctx context.Context, place string) ([]models.TricycleFare, error)

	// GetPlaces returns the distinct places that have tricycle fares.
	GetPlaces(ctx context.Context) ([]string, error)
}

type fareService struct {
	repo repository.FareRepository
	log  *logger.Logger
}

// NewFareService creates a new instance of FareService.
func NewFareService(repo repository.FareRepository, log *logger.Logger) FareService {
	return &fareService{
		repo: repo,
		log:  log,
	}
}

func (s *fareService) GetJeepneyFares(ctx context.Context) ([]models.JeepneyFare, error) {
	fares, err := s.repo.ListJeepneyFares(ctx)
	if err != nil {
		s.log.Error("Failed to list jeepney fares", err, nil)
		return nil, fmt.Errorf("failed to list jeepney fares: %w", err)
	}

	s.log.Debug("Listed jeepney fares", map[string]interface{}{
		"count": len(fares),
	})

	return fares, nil
}

func (s *fareService) GetTricycleFares(ctx context.Context, place string) ([]models.TricycleFare, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, ingest.ErrPlaceRequired
	}

	fares, err := s.repo.ListTricycleFares(ctx, place)
	if err != nil {
		s.log.Error("Failed to list tricycle fares", err, map[string]interface{}{
			"place": place,
		})
		return nil, fmt.Errorf("failed to list tricycle fares for %q: %w", place, err)
	}

	s.log.Debug("Listed tricycle fares", map[string]interface{}{
		"place": place,
		"count": len(fares),
	})

	return fares, nil
}

func (s *fareService) GetPlaces(ctx context.Context) ([]string, error) {
	places, err := s.repo.ListPlaces(ctx)
	if err != nil {
		s.log.Error("Failed to list places", err, nil)
		return nil, fmt.Errorf("failed to list places: %w", err)
	}

	return places, nil
}
