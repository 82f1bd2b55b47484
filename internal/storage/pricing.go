package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"printshop-bot/internal/pricing"
)

var pricingCacheKey = "pricing:" + pricing.ConfigKey

// LoadTable reads the pricing document, trying Redis first.
func (s *PostgresStorage) LoadTable(ctx context.Context) (*pricing.Table, error) {
	const operation = "storage.LoadTable"

	if cached, err := s.redis.Get(ctx, pricingCacheKey); err == nil {
		var table pricing.Table
		if err := json.Unmarshal(cached, &table); err == nil {
			return &table, nil
		}
		s.logger.Warn("Dropping unreadable cached pricing table", zap.String("operation", operation))
		_ = s.redis.Del(ctx, pricingCacheKey)
	}

	const query = `SELECT document FROM pricing_config WHERE key = $1`

	var doc []byte
	if err := s.db.GetContext(ctx, &doc, query, pricing.ConfigKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pricing.ErrNoSnapshot
		}
		return nil, fmt.Errorf("%s: failed to get pricing table: %w", operation, err)
	}

	var table pricing.Table
	if err := json.Unmarshal(doc, &table); err != nil {
		return nil, fmt.Errorf("%s: failed to decode pricing table: %w", operation, err)
	}

	if err := s.redis.Set(ctx, pricingCacheKey, doc, 0); err != nil {
		s.logger.Warn("Failed to cache pricing table",
			zap.String("operation", operation),
			zap.Error(err))
	}
	return &table, nil
}

// SaveTable replaces the whole pricing document. The last save wins.
func (s *PostgresStorage) SaveTable(ctx context.Context, t *pricing.Table) error {
	const operation = "storage.SaveTable"

	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("%s: failed to encode pricing table: %w", operation, err)
	}

	const query = `
        INSERT INTO pricing_config (key, document, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE
        SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
    `
	if _, err := s.db.ExecContext(ctx, query, pricing.ConfigKey, doc); err != nil {
		return fmt.Errorf("%s: failed to save pricing table: %w", operation, err)
	}

	if err := s.redis.Set(ctx, pricingCacheKey, doc, 0); err != nil {
		s.logger.Warn("Failed to refresh cached pricing table, evicting",
			zap.String("operation", operation),
			zap.Error(err))
		_ = s.redis.Del(ctx, pricingCacheKey)
	}
	return nil
}
