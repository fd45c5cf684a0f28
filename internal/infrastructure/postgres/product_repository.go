package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, category, price, stock, status, created_at, updated_at`

// Create persiste un producto. Lo usan la carga inicial y los tests; la gestión del
// catálogo vive fuera de este servicio.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	status := p.Status
	if status == "" {
		status = "active"
	}
	_, err := r.q.Exec(ctx, query, p.ID, p.SKU, p.Name, p.Category, p.Price, p.Stock, status)
	if err != nil {
		return wrap("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, "get product", `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID con SELECT ... FOR UPDATE; solo tiene efecto dentro de una tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, "lock product", `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) get(ctx context.Context, op, query, id string) (*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, wrap(op, err)
	}
	p, err := pgx.CollectOneRow(rows, scanProduct)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return p, nil
}

// List catálogo completo, más recientes primero.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, wrap("list products", err)
	}
	list, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, wrap("list products", err)
	}
	if list == nil {
		list = []*entity.Product{}
	}
	return list, nil
}

// UpdateStock fija el stock actual del producto.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, newStock int) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`, id, newStock)
	if err != nil {
		return wrap("update stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("producto", id)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}
