package pgdb

import (
	"context"
	"errors"

	"github.com/hermes-labs/catalog-service/internal/domain"
	"github.com/hermes-labs/catalog-service/internal/repository/pgdb/converter"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// LookupRepo читает справочники (категории, SEO) для развёртки деталей товара.
// Справочники меняются редко и читаются напрямую через пул.
type LookupRepo struct {
	pool *pgxpool.Pool
	conv converter.LookupConverter
}

func NewLookupRepo(pool *pgxpool.Pool, conv converter.LookupConverter) *LookupRepo {
	return &LookupRepo{
		pool: pool,
		conv: conv,
	}
}

func (l *LookupRepo) CategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	var model converter.CategoryModel
	err := l.pool.QueryRow(ctx,
		`SELECT id, workspace_id, name FROM categories WHERE id = $1;`, id).
		Scan(&model.ID, &model.WorkspaceID, &model.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return l.conv.CategoryToEntity(&model), nil
}

func (l *LookupRepo) SeoByID(ctx context.Context, id int64) (*domain.Seo, error) {
	var model converter.SeoModel
	err := l.pool.QueryRow(ctx,
		`SELECT id, workspace_id, product_id, title, description FROM seos WHERE id = $1;`, id).
		Scan(&model.ID, &model.WorkspaceID, &model.ProductID, &model.Title, &model.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return l.conv.SeoToEntity(&model), nil
}
