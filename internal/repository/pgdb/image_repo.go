package pgdb

import (
	"context"
	"errors"

	"github.com/hermes-labs/catalog-service/internal/domain"
	"github.com/hermes-labs/catalog-service/internal/repository/pgdb/converter"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ImageRepo реализует репозиторий изображений поверх PostgreSQL.
type ImageRepo struct {
	pool *pgxpool.Pool
	conv converter.ImageConverter
}

func NewImageRepo(pool *pgxpool.Pool, conv converter.ImageConverter) *ImageRepo {
	return &ImageRepo{
		pool: pool,
		conv: conv,
	}
}

func (i *ImageRepo) List(ctx context.Context) ([]domain.Image, error) {
	query := `
		SELECT id, workspace_id, product_id, image_data, created_at
		FROM images
		ORDER BY id;
	`

	rows, err := i.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models, err := collectImages(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return i.conv.ToArrEntity(models), nil
}

func (i *ImageRepo) GetByID(ctx context.Context, id int64) (*domain.Image, error) {
	query := `
		SELECT id, workspace_id, product_id, image_data, created_at
		FROM images
		WHERE id = $1;
	`

	var model converter.ImageModel
	err := i.pool.QueryRow(ctx, query, id).Scan(
		&model.ID, &model.WorkspaceID, &model.ProductID, &model.ImageData, &model.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrImageNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return i.conv.ToEntity(&model), nil
}

func (i *ImageRepo) ListByProduct(ctx context.Context, productID int64) ([]domain.Image, error) {
	query := `
		SELECT id, workspace_id, product_id, image_data, created_at
		FROM images
		WHERE product_id = $1
		ORDER BY id;
	`

	rows, err := i.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models, err := collectImages(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return i.conv.ToArrEntity(models), nil
}

func (i *ImageRepo) Create(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := i.conv.ToModel(image)
	query := `
		INSERT INTO images (workspace_id, product_id, image_data, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`

	if err := tx.QueryRow(ctx, query,
		model.WorkspaceID, model.ProductID, model.ImageData, model.CreatedAt,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return i.conv.ToEntity(model), nil
}

func (i *ImageRepo) Delete(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM images WHERE id = $1;`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrImageNotFound)
	}

	return nil
}

// AssignProduct привязывает изображение к товару без транзакции из контекста:
// операция одиночная и идёт напрямую через пул. Нарушение внешнего ключа
// означает, что товара не существует.
func (i *ImageRepo) AssignProduct(ctx context.Context, imageID, productID int64) error {
	result, err := i.pool.Exec(ctx,
		`UPDATE images SET product_id = $2 WHERE id = $1;`, imageID, productID)
	if err != nil {
		// 23503 — foreign_key_violation
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrImageNotFound)
	}

	return nil
}

func collectImages(rows pgx.Rows) ([]*converter.ImageModel, error) {
	var models []*converter.ImageModel
	for rows.Next() {
		var model converter.ImageModel
		err := rows.Scan(
			&model.ID, &model.WorkspaceID, &model.ProductID, &model.ImageData, &model.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		models = append(models, &model)
	}

	return models, rows.Err()
}
