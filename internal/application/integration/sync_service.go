package integration

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// Importer persists backfilled orders through the order lifecycle
type Importer interface {
	Import(ctx context.Context, spec orderapp.ImportSpec) (*order.Order, error)
}

// RetryPolicy bounds retries against a flaky remote storefront
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy retries three times with exponential backoff
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	return p.BaseDelay << attempt
}

// SyncService backfills a shop's history from a remote storefront's read
// API. A run is resumable by design: it skips orders already imported, so
// an INCOMPLETE run is simply retried later.
type SyncService struct {
	storefronts map[order.Platform]integration.RemoteStorefront
	importer    Importer
	orders      order.OrderRepository
	records     integration.SyncRecordRepository
	mappings    integration.ProductMappingRepository
	retry       RetryPolicy
	logger      *zap.Logger
}

// NewSyncService creates a new bulk sync service
func NewSyncService(
	storefronts map[order.Platform]integration.RemoteStorefront,
	importer Importer,
	orders order.OrderRepository,
	records integration.SyncRecordRepository,
	mappings integration.ProductMappingRepository,
	retry RetryPolicy,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		storefronts: storefronts,
		importer:    importer,
		orders:      orders,
		records:     records,
		mappings:    mappings,
		retry:       retry,
		logger:      logger,
	}
}

// Run executes one backfill for the credential's shop. Remote failures
// never bubble out as errors; they finish the record as INCOMPLETE so the
// caller can report partial progress.
func (s *SyncService) Run(ctx context.Context, cred integration.Credential) (*integration.SyncRecord, error) {
	client, ok := s.storefronts[cred.Platform]
	if !ok {
		return nil, shared.NewDomainError("VALIDATION", "No storefront configured for platform "+cred.Platform.String())
	}

	rec := integration.NewSyncRecord(cred.ShopID, cred.Platform)
	if err := s.records.Save(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.syncProducts(ctx, client, cred, rec); err != nil {
		return s.finish(ctx, rec, integration.SyncStatusIncomplete, err)
	}
	if err := s.syncOrders(ctx, client, cred, rec); err != nil {
		return s.finish(ctx, rec, integration.SyncStatusIncomplete, err)
	}
	return s.finish(ctx, rec, integration.SyncStatusSuccess, nil)
}

// Latest returns the most recent sync record for a shop and platform
func (s *SyncService) Latest(ctx context.Context, shopID uuid.UUID, platform order.Platform) (*integration.SyncRecord, error) {
	return s.records.FindLatest(ctx, shopID, platform)
}

func (s *SyncService) syncProducts(ctx context.Context, client integration.RemoteStorefront, cred integration.Credential, rec *integration.SyncRecord) error {
	for page := 1; ; page++ {
		var result *integration.ProductPage
		err := s.fetchWithRetry(ctx, func() error {
			var fetchErr error
			result, fetchErr = client.ListProducts(ctx, cred, page)
			return fetchErr
		})
		if err != nil {
			return err
		}

		for _, p := range result.Products {
			mapping := &integration.ProductMapping{
				BaseEntity: shared.NewBaseEntity(),
				ShopID:     cred.ShopID,
				Platform:   cred.Platform,
				ProductID:  p.ProductID,
				Name:       p.Name,
				Price:      p.Price.String(),
			}
			if err := s.mappings.Upsert(ctx, mapping); err != nil {
				return err
			}
			rec.ProductsSeen++
		}
		if !result.HasNext {
			return nil
		}
	}
}

func (s *SyncService) syncOrders(ctx context.Context, client integration.RemoteStorefront, cred integration.Credential, rec *integration.SyncRecord) error {
	for page := 1; ; page++ {
		var result *integration.OrderPage
		err := s.fetchWithRetry(ctx, func() error {
			var fetchErr error
			result, fetchErr = client.ListOrders(ctx, cred, page)
			return fetchErr
		})
		if err != nil {
			return err
		}

		for _, remote := range result.Orders {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.importOne(ctx, cred, rec, remote)
		}
		if !result.HasNext {
			return nil
		}
	}
}

// importOne imports a single remote order. Each import is atomic: a bad
// order is counted and skipped without touching the rest of the run.
func (s *SyncService) importOne(ctx context.Context, cred integration.Credential, rec *integration.SyncRecord, remote integration.RemoteOrder) {
	if _, err := s.orders.FindByRemoteID(ctx, cred.Platform, remote.RemoteOrderID); err == nil {
		rec.OrdersSkipped++
		return
	} else if !errors.Is(err, shared.ErrNotFound) {
		rec.OrdersSkipped++
		s.logger.Warn("duplicate check failed", zap.String("remote_order_id", remote.RemoteOrderID), zap.Error(err))
		return
	}

	status, err := order.ParseOrderStatus(remote.Status)
	if err != nil {
		rec.OrdersSkipped++
		s.logger.Warn("remote order has unknown status",
			zap.String("remote_order_id", remote.RemoteOrderID),
			zap.String("status", remote.Status),
		)
		return
	}

	items := make([]order.ItemSpec, 0, len(remote.Items))
	for _, ri := range remote.Items {
		name := ri.ProductName
		if name == "" {
			if mapping, err := s.mappings.FindByProduct(ctx, cred.ShopID, cred.Platform, ri.ProductID); err == nil {
				name = mapping.Name
			}
		}
		items = append(items, order.ItemSpec{
			ProductID:   ri.ProductID,
			ProductName: name,
			Quantity:    ri.Quantity,
			UnitPrice:   ri.UnitPrice,
		})
	}

	buyerID := remote.BuyerID
	if buyerID == uuid.Nil {
		buyerID = cred.UserID
	}

	_, err = s.importer.Import(ctx, orderapp.ImportSpec{
		ShopID:        cred.ShopID,
		BuyerID:       buyerID,
		Platform:      cred.Platform,
		RemoteOrderID: remote.RemoteOrderID,
		Items:         items,
		Total:         remote.Total,
		Status:        status,
		CreatedAt:     remote.CreatedAt,
	})
	if err != nil {
		rec.OrdersSkipped++
		s.logger.Warn("remote order import failed",
			zap.String("remote_order_id", remote.RemoteOrderID),
			zap.Error(err),
		)
		return
	}
	rec.OrdersImported++
}

// fetchWithRetry runs fn with bounded exponential backoff. Cancellation
// cuts the wait short and surfaces as the context error.
func (s *SyncService) fetchWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < s.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retry.backoff(attempt - 1)):
			}
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		s.logger.Warn("storefront fetch failed",
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}
	return lastErr
}

func (s *SyncService) finish(ctx context.Context, rec *integration.SyncRecord, status integration.SyncStatus, cause error) (*integration.SyncRecord, error) {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	rec.Finish(status, msg)
	// The outcome is recorded even when the run was cancelled, otherwise a
	// cancelled backfill would stay RUNNING forever.
	if err := s.records.Save(context.WithoutCancel(ctx), rec); err != nil {
		return nil, err
	}

	s.logger.Info("storefront sync finished",
		zap.String("shop_id", rec.ShopID.String()),
		zap.String("platform", rec.Platform.String()),
		zap.String("status", string(rec.Status)),
		zap.Int("imported", rec.OrdersImported),
		zap.Int("skipped", rec.OrdersSkipped),
		zap.Int("products", rec.ProductsSeen),
	)
	return rec, nil
}
