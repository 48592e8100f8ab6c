package contacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/botfleet/console/pkg/logging"
)

// Source fetches contact data from the platform.
type Source interface {
	ListContacts(ctx context.Context, botID string) ([]Contact, error)
	SyncContacts(ctx context.Context, botID string) error
	ImportContacts(ctx context.Context, botID string, csv io.Reader) (*ImportResult, error)
}

// Cache is a read-through redis cache over the platform contact list. Bot
// contact lists are read by every campaign candidate lookup, so the list is
// cached per bot with a short TTL and invalidated on sync.
type Cache struct {
	source Source
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
	tracer trace.Tracer
}

// NewCache wraps source with a per-bot redis cache. A nil redis client
// disables caching and every read goes to the source.
func NewCache(source Source, rdb *redis.Client, ttl time.Duration, logger *logging.Logger) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Cache{
		source: source,
		redis:  rdb,
		ttl:    ttl,
		logger: logger,
		tracer: otel.Tracer("botconsole.internal.contacts"),
	}
}

// ListContacts returns the bot's contact list, served from cache when fresh.
// A cache read or write failure falls back to the source; the contact list
// must stay available when redis is not.
func (c *Cache) ListContacts(ctx context.Context, botID string) ([]Contact, error) {
	ctx, span := c.tracer.Start(ctx, "contacts.list")
	defer span.End()

	if c.redis != nil {
		data, err := c.redis.Get(ctx, contactsKey(botID)).Bytes()
		if err == nil {
			var cached []Contact
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			c.logger.Warn("dropping undecodable contact cache entry", "bot_id", botID)
			_ = c.redis.Del(ctx, contactsKey(botID)).Err()
		} else if err != redis.Nil {
			span.RecordError(err)
			c.logger.Warn("contact cache read failed", "bot_id", botID, "error", err)
		}
	}

	list, err := c.source.ListContacts(ctx, botID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if c.redis != nil {
		data, err := json.Marshal(list)
		if err == nil {
			if err := c.redis.Set(ctx, contactsKey(botID), data, c.ttl).Err(); err != nil {
				c.logger.Warn("contact cache write failed", "bot_id", botID, "error", err)
			}
		}
	}
	return list, nil
}

// SyncContacts triggers a platform-side CRM sync and invalidates the cached
// list so the next read observes the synced contacts.
func (c *Cache) SyncContacts(ctx context.Context, botID string) error {
	ctx, span := c.tracer.Start(ctx, "contacts.sync")
	defer span.End()

	if err := c.source.SyncContacts(ctx, botID); err != nil {
		span.RecordError(err)
		return err
	}
	return c.Invalidate(ctx, botID)
}

// ImportContacts forwards a CSV upload to the platform and invalidates the
// cached list when any row was imported.
func (c *Cache) ImportContacts(ctx context.Context, botID string, csv io.Reader) (*ImportResult, error) {
	ctx, span := c.tracer.Start(ctx, "contacts.import")
	defer span.End()

	res, err := c.source.ImportContacts(ctx, botID, csv)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if res.SuccessfulImports > 0 {
		if err := c.Invalidate(ctx, botID); err != nil {
			c.logger.Warn("contact cache invalidation after import failed", "bot_id", botID, "error", err)
		}
	}
	return res, nil
}

// Invalidate drops the cached contact list for one bot.
func (c *Cache) Invalidate(ctx context.Context, botID string) error {
	if c.redis == nil {
		return nil
	}
	if err := c.redis.Del(ctx, contactsKey(botID)).Err(); err != nil {
		return fmt.Errorf("contacts: invalidate cache for bot %s: %w", botID, err)
	}
	return nil
}

func contactsKey(botID string) string {
	return fmt.Sprintf("contacts:%s", botID)
}
