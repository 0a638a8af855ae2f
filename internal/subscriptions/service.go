// Package subscriptions enforces per-organization plan limits. The only
// metered quantity today is the item count, compared against
// organization.maxItems; a null limit means unlimited.
package subscriptions

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/rentrackhq/rentrack-backend/pkg/db"
	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
	"github.com/rentrackhq/rentrack-backend/pkg/logger"
	"github.com/rentrackhq/rentrack-backend/pkg/redis"
)

// CountCache is the slice of the redis client the service needs. A nil cache
// disables caching and every check counts from the database.
type CountCache interface {
	GetInt(ctx context.Context, key string) (int, bool, error)
	SetInt(ctx context.Context, key string, value int, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Service struct {
	db    *gorm.DB
	cache CountCache
	ttl   time.Duration
	logg  *logger.Logger
}

func NewService(gdb *gorm.DB, cache CountCache, ttl time.Duration, logg *logger.Logger) *Service {
	return &Service{db: gdb, cache: cache, ttl: ttl, logg: logg}
}

// CheckItemAllowance authorizes an item-related write. Additive writes (ones
// that add an item) require headroom under the plan limit; non-additive
// writes only require a known organization.
func (s *Service) CheckItemAllowance(ctx context.Context, organizationID int, additive bool) error {
	org := map[string]any{}
	err := s.db.WithContext(ctx).
		Table("organization").
		Select(`"maxItems"`).
		Where(`"organizationID" = ?`, organizationID).
		Take(&org).Error
	if err != nil {
		if translated := db.Translate(err); translated.Code() == pkgerrors.CodeNotFound {
			return pkgerrors.New(pkgerrors.CodeSubscription, "Organization has no active subscription")
		}
		return db.Translate(err)
	}

	limit, limited := asInt(org["maxItems"])
	if !limited || !additive {
		return nil
	}

	count, err := s.itemCount(ctx, organizationID)
	if err != nil {
		return err
	}
	if count >= limit {
		return pkgerrors.New(pkgerrors.CodeSubscription, "Subscription limit exceeded, cannot add more items").
			WithDetails(map[string]any{"maxItems": limit, "items": count})
	}
	return nil
}

// InvalidateItemCount drops the cached count after a write changes it.
func (s *Service) InvalidateItemCount(ctx context.Context, organizationID int) {
	if s.cache == nil {
		return
	}
	key := redis.CounterKey("items", strconv.Itoa(organizationID))
	if err := s.cache.Del(ctx, key); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "failed to invalidate item count cache")
	}
}

func (s *Service) itemCount(ctx context.Context, organizationID int) (int, error) {
	key := redis.CounterKey("items", strconv.Itoa(organizationID))
	if s.cache != nil {
		cached, found, err := s.cache.GetInt(ctx, key)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "item count cache read failed")
		} else if found {
			return cached, nil
		}
	}

	var count int64
	err := s.db.WithContext(ctx).
		Table("item").
		Where(`"organizationID" = ?`, organizationID).
		Count(&count).Error
	if err != nil {
		return 0, db.Translate(err)
	}

	if s.cache != nil {
		if err := s.cache.SetInt(ctx, key, int(count), s.ttl); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "item count cache write failed")
		}
	}
	return int(count), nil
}

// asInt normalizes the scan result of a nullable integer column.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
