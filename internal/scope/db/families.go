package db

import (
	"context"
	"fmt"
	"time"

	"github.com/dsjohal14/fontstack/internal/loader"
	"github.com/dsjohal14/fontstack/internal/scope/catalog"
	"github.com/jackc/pgx/v5"
)

// Ensure DB can feed the loader.
var _ loader.Source = (*DB)(nil)

var familyColumns = []string{"position", "name", "slug", "classifications", "fvds", "subset", "mirrored_at"}

// Name returns "postgres"
func (d *DB) Name() string { return "postgres" }

// Fetch returns the mirrored catalog in its upstream order
func (d *DB) Fetch(ctx context.Context) ([]catalog.Family, error) {
	return d.ListFamilies(ctx)
}

// ListFamilies reads every mirrored family in upstream order
func (d *DB) ListFamilies(ctx context.Context) ([]catalog.Family, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT name, slug, classifications, fvds, subset
		FROM font_families
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	defer rows.Close()

	families := make([]catalog.Family, 0)
	for rows.Next() {
		var f catalog.Family
		var classes []string
		if err := rows.Scan(&f.Name, &f.Slug, &classes, &f.FVDs, &f.Subset); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		f.Classifications = make([]catalog.Classification, len(classes))
		for i, c := range classes {
			f.Classifications[i] = catalog.Classification(c)
		}
		families = append(families, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}

	return families, nil
}

// ReplaceFamilies swaps the mirrored catalog for families in one transaction.
// Input order is kept so equal names index the same way as upstream.
func (d *DB) ReplaceFamilies(ctx context.Context, families []catalog.Family) (int64, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM font_families`); err != nil {
		return 0, fmt.Errorf("failed to clear families: %w", err)
	}

	now := time.Now()
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"font_families"}, familyColumns,
		pgx.CopyFromSlice(len(families), func(i int) ([]any, error) {
			f := families[i]
			classes := make([]string, len(f.Classifications))
			for j, c := range f.Classifications {
				classes[j] = string(c)
			}
			fvds := f.FVDs
			if fvds == nil {
				fvds = []string{}
			}
			return []any{i, f.Name, f.Slug, classes, fvds, f.Subset, now}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy families: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit families: %w", err)
	}
	return n, nil
}
