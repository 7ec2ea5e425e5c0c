package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/identity"
	"github.com/dealercrm/backend/internal/domain/shared"
)

// DealershipService handles dealership administration
type DealershipService struct {
	dealershipRepo identity.DealershipRepository
	logger         *zap.Logger
}

// NewDealershipService creates a new dealership service
func NewDealershipService(dealershipRepo identity.DealershipRepository, logger *zap.Logger) *DealershipService {
	return &DealershipService{
		dealershipRepo: dealershipRepo,
		logger:         logger,
	}
}

// CreateDealership creates a new dealership with a unique short code
func (s *DealershipService) CreateDealership(ctx context.Context, input CreateDealershipInput) (*identity.Dealership, error) {
	if _, err := s.dealershipRepo.FindByCode(ctx, input.Code); err == nil {
		return nil, shared.NewDomainError("CODE_TAKEN", "A dealership with this code already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check dealership code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create dealership")
	}

	dealership, err := identity.NewDealership(input.Name, input.Code)
	if err != nil {
		return nil, err
	}
	if input.Timezone != "" {
		if err := dealership.SetTimezone(input.Timezone); err != nil {
			return nil, err
		}
	}
	dealership.SetContact(input.Address, input.Phone)

	if err := s.dealershipRepo.Create(ctx, dealership); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("CODE_TAKEN", "A dealership with this code already exists")
		}
		s.logger.Error("Failed to create dealership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create dealership")
	}

	s.logger.Info("Dealership created",
		zap.String("dealership_id", dealership.ID.String()),
		zap.String("code", dealership.Code))
	return dealership, nil
}

// GetDealership retrieves a dealership by ID
func (s *DealershipService) GetDealership(ctx context.Context, id uuid.UUID) (*identity.Dealership, error) {
	dealership, err := s.dealershipRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("DEALERSHIP_NOT_FOUND", "Dealership not found")
	}
	return dealership, nil
}

// ListDealerships returns all dealerships
func (s *DealershipService) ListDealerships(ctx context.Context) ([]*identity.Dealership, error) {
	dealerships, err := s.dealershipRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list dealerships", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list dealerships")
	}
	return dealerships, nil
}

// DeactivateDealership deactivates a dealership
func (s *DealershipService) DeactivateDealership(ctx context.Context, id uuid.UUID) error {
	dealership, err := s.dealershipRepo.FindByID(ctx, id)
	if err != nil {
		return shared.NewDomainError("DEALERSHIP_NOT_FOUND", "Dealership not found")
	}

	if err := dealership.Deactivate(); err != nil {
		return err
	}

	if err := s.dealershipRepo.Update(ctx, dealership); err != nil {
		s.logger.Error("Failed to deactivate dealership", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate dealership")
	}

	s.logger.Info("Dealership deactivated", zap.String("dealership_id", id.String()))
	return nil
}
