package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Postgres is a catalog backed by a Postgres cards table, populated by
// scripts/import_cards.go from a Scryfall-style CSV export.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres connects a catalog to an existing connection pool.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) *Postgres {
	return &Postgres{pool: pool, logger: logger}
}

// Connect creates a pool for the given database URL and verifies it with a
// ping before handing back a catalog.
func Connect(ctx context.Context, databaseURL string, logger *zap.Logger) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("card catalog database connected",
		zap.Int32("total_conns", pool.Stat().TotalConns()),
	)
	return &Postgres{pool: pool, logger: logger}, nil
}

// Close releases the underlying pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// ResolveNames implements Catalog. Lookup is case-insensitive on exact names;
// unresolved names come back in the missing list rather than as an error.
func (p *Postgres) ResolveNames(ctx context.Context, names []string) ([]Card, []string, error) {
	if len(names) == 0 {
		return nil, nil, nil
	}

	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = NormalizeName(name)
	}

	rows, err := p.pool.Query(ctx, `
		SELECT id, name, type_line, mana_cost, oracle_text, image_url, art_crop_url
		FROM cards
		WHERE lower(name) = ANY($1)`,
		lowered,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]Card)
	for rows.Next() {
		var c Card
		if err := rows.Scan(&c.ID, &c.Name, &c.TypeLine, &c.ManaCost, &c.OracleText, &c.ImageURL, &c.ArtCropURL); err != nil {
			return nil, nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		byName[NormalizeName(c.Name)] = c
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read card rows: %w", err)
	}

	var found []Card
	var missing []string
	for _, name := range names {
		if card, ok := byName[NormalizeName(name)]; ok {
			found = append(found, card)
		} else {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		p.logger.Debug("unresolved card names",
			zap.Int("count", len(missing)),
			zap.String("names", strings.Join(missing, ", ")),
		)
	}
	return found, missing, nil
}
