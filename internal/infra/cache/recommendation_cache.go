package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

const (
	recommendationKeyPrefix = "commute:recs:"

	DefaultRecommendationTTL = 24 * time.Hour

	scanBatchSize = 200
)

type recommendationRecord struct {
	Window          string    `json:"window"`
	SlotStart       time.Time `json:"slot_start"`
	PredictedETAMin int       `json:"predicted_eta_min"`
	Rank            int       `json:"rank"`
	Chosen          bool      `json:"chosen"`
	Assigned        bool      `json:"assigned"`
}

type recommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRecommendationCache(client *redis.Client, ttl time.Duration) domain.RecommendationCache {
	if ttl <= 0 {
		ttl = DefaultRecommendationTTL
	}

	return &recommendationCache{
		client: client,
		ttl:    ttl,
	}
}

func recommendationKey(userID int64, date time.Time) string {
	return recommendationKeyPrefix + domain.DateKey(date) + ":" + strconv.FormatInt(userID, 10)
}

func (c *recommendationCache) GetRecommendations(ctx context.Context, userID int64, date time.Time) ([]domain.Recommendation, error) {
	data, err := c.client.Get(ctx, recommendationKey(userID, date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrRecommendationMiss
		}
		return nil, fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}

	var records []recommendationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, ErrInvalidRecommendationData
	}

	day := domain.DateOf(date)
	recs := make([]domain.Recommendation, 0, len(records))
	for _, r := range records {
		recs = append(recs, domain.Recommendation{
			UserID:          userID,
			Date:            day,
			Window:          domain.Window(r.Window),
			SlotStart:       r.SlotStart,
			PredictedETAMin: r.PredictedETAMin,
			Rank:            r.Rank,
			Chosen:          r.Chosen,
			Assigned:        r.Assigned,
		})
	}

	return recs, nil
}

func (c *recommendationCache) SetRecommendations(ctx context.Context, userID int64, date time.Time, recs []domain.Recommendation) error {
	records := make([]recommendationRecord, 0, len(recs))
	for _, r := range recs {
		records = append(records, recommendationRecord{
			Window:          r.Window.String(),
			SlotStart:       r.SlotStart,
			PredictedETAMin: r.PredictedETAMin,
			Rank:            r.Rank,
			Chosen:          r.Chosen,
			Assigned:        r.Assigned,
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return ErrInvalidRecommendationData
	}

	return c.client.Set(ctx, recommendationKey(userID, date), data, c.ttl).Err()
}

// InvalidateDate drops every cached list of the date.
func (c *recommendationCache) InvalidateDate(ctx context.Context, date time.Time) error {
	pattern := recommendationKeyPrefix + domain.DateKey(date) + ":*"

	keys := make([]string, 0)
	iter := c.client.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	pipe := c.client.TxPipeline()
	for start := 0; start < len(keys); start += scanBatchSize {
		end := min(start+scanBatchSize, len(keys))
		pipe.Del(ctx, keys[start:end]...)
	}

	_, err := pipe.Exec(ctx)
	return err
}
