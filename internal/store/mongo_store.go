package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/observability"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "user:cache:"

// MongoStore persists user records in MongoDB with a Redis read cache in
// front. Mongo is the source of truth; the Redis entry is an expiring
// copy, not a write buffer.
type MongoStore struct {
	collection *mongo.Collection
	redis      *redisclient.Client
	ttl        time.Duration
	logger     *zap.Logger
}

// NewMongoStore creates the store. redis may be nil, which disables the
// read cache (used by tests and the sync binary when Redis is down).
func NewMongoStore(db *mongo.Database, collection string, redis *redisclient.Client, ttl time.Duration, logger *zap.Logger) *MongoStore {
	return &MongoStore{
		collection: db.Collection(collection),
		redis:      redis,
		ttl:        ttl,
		logger:     logger,
	}
}

// Get returns the record for a phone, or (nil, nil) when none exists.
func (s *MongoStore) Get(ctx context.Context, phone string) (*models.UserRecord, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKeyPrefix+phone).Result()
		if err == nil {
			var record models.UserRecord
			if err := json.Unmarshal([]byte(cached), &record); err == nil {
				observability.CacheHits.WithLabelValues("hit").Inc()
				return &record, nil
			}
			// Corrupt cache entry: fall through to Mongo.
			s.logger.Warn("discarding corrupt cache entry", zap.String("phone", observability.MaskPhone(phone)))
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("redis read failed, falling back to mongo", zap.Error(err))
		}
	}
	observability.CacheHits.WithLabelValues("miss").Inc()

	var record models.UserRecord
	err := s.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user record: %w", err)
	}

	s.fillCache(ctx, &record)
	return &record, nil
}

// Upsert writes the record, stamping UpdatedAt. Last write wins per key.
func (s *MongoStore) Upsert(ctx context.Context, record *models.UserRecord) error {
	record.UpdatedAt = time.Now().UTC()

	filter := bson.M{"phone": record.Phone}
	update := bson.M{"$set": record}
	opts := options.Update().SetUpsert(true)

	if _, err := s.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("upsert user record: %w", err)
	}

	s.fillCache(ctx, record)
	return nil
}

// Clear removes every cached record, durable and Redis alike.
func (s *MongoStore) Clear(ctx context.Context) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear user records: %w", err)
	}

	if s.redis != nil {
		keys, err := s.redis.Keys(ctx, cacheKeyPrefix+"*").Result()
		if err != nil {
			s.logger.Warn("failed to list cache keys on clear", zap.Error(err))
			return nil
		}
		if len(keys) > 0 {
			if err := s.redis.Del(ctx, keys...).Err(); err != nil {
				s.logger.Warn("failed to delete cache keys on clear", zap.Error(err))
			}
		}
	}
	return nil
}

func (s *MongoStore) fillCache(ctx context.Context, record *models.UserRecord) {
	if s.redis == nil {
		return
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKeyPrefix+record.Phone, string(encoded), s.ttl).Err(); err != nil {
		s.logger.Warn("failed to fill read cache",
			zap.String("phone", observability.MaskPhone(record.Phone)),
			zap.Error(err))
	}
}
