package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/access"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service answers shop-access questions and manages grants. Ownership
// always implies access; a grant is additive and never required for the
// owner.
type Service struct {
	shops  access.ShopRepository
	grants access.GrantRepository
	logger *zap.Logger
}

// NewService creates a new access service
func NewService(shops access.ShopRepository, grants access.GrantRepository, logger *zap.Logger) *Service {
	return &Service{
		shops:  shops,
		grants: grants,
		logger: logger,
	}
}

// HasAccess reports whether the user may act on the shop, either as its
// owner or through a grant. Returns NOT_FOUND when the shop does not exist.
func (s *Service) HasAccess(ctx context.Context, userID, shopID uuid.UUID) (bool, error) {
	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil {
		return false, err
	}
	if shop.IsOwnedBy(userID) {
		return true, nil
	}

	_, err = s.grants.FindByUserAndShop(ctx, userID, shopID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ResolveAccessibleShops returns the deduplicated union of shops the user
// owns and shops granted to them. The result order is owned shops first.
func (s *Service) ResolveAccessibleShops(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	owned, err := s.shops.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	granted, err := s.grants.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(owned)+len(granted))
	ids := make([]uuid.UUID, 0, len(owned)+len(granted))
	for _, shop := range owned {
		if !seen[shop.ID] {
			seen[shop.ID] = true
			ids = append(ids, shop.ID)
		}
	}
	for _, g := range granted {
		if !seen[g.ShopID] {
			seen[g.ShopID] = true
			ids = append(ids, g.ShopID)
		}
	}
	return ids, nil
}

// Grant gives a user access to a shop. Only the shop owner may grant.
// Granting an already-granted user is idempotent and returns the existing
// grant.
func (s *Service) Grant(ctx context.Context, actorID, userID, shopID uuid.UUID) (*GrantResponse, error) {
	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !shop.IsOwnedBy(actorID) {
		return nil, shared.ErrForbidden
	}

	existing, err := s.grants.FindByUserAndShop(ctx, userID, shopID)
	if err == nil {
		return ToGrantResponse(existing), nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	grant, err := access.NewGrant(userID, shopID, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.grants.Save(ctx, grant); err != nil {
		return nil, err
	}

	s.logger.Info("shop access granted",
		zap.String("shop_id", shopID.String()),
		zap.String("user_id", userID.String()),
		zap.String("granted_by", actorID.String()),
	)
	return ToGrantResponse(grant), nil
}

// Revoke removes a user's grant on a shop. Only the shop owner may revoke.
// Returns NOT_FOUND when no grant exists for the pair.
func (s *Service) Revoke(ctx context.Context, actorID, userID, shopID uuid.UUID) error {
	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil {
		return err
	}
	if !shop.IsOwnedBy(actorID) {
		return shared.ErrForbidden
	}

	if _, err := s.grants.FindByUserAndShop(ctx, userID, shopID); err != nil {
		return err
	}
	if err := s.grants.Delete(ctx, userID, shopID); err != nil {
		return err
	}

	s.logger.Info("shop access revoked",
		zap.String("shop_id", shopID.String()),
		zap.String("user_id", userID.String()),
		zap.String("revoked_by", actorID.String()),
	)
	return nil
}

// CreateShop registers a new shop owned by the actor
func (s *Service) CreateShop(ctx context.Context, ownerID uuid.UUID, name, platform string) (*ShopResponse, error) {
	shop, err := access.NewShop(ownerID, name, platform)
	if err != nil {
		return nil, err
	}
	if err := s.shops.Save(ctx, shop); err != nil {
		return nil, err
	}
	return ToShopResponse(shop), nil
}

// GetShop loads a shop by id
func (s *Service) GetShop(ctx context.Context, shopID uuid.UUID) (*ShopResponse, error) {
	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return ToShopResponse(shop), nil
}
