package productorepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inventario/internal/domain"
	"inventario/internal/errors"
	"inventario/internal/pkg/logger"
)

// ProductoRepository implementa as operações CRUD de productos.
type ProductoRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewProductoRepository cria e retorna uma nova instância do Repositório de Productos.
func NewProductoRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ProductoRepository {
	return &ProductoRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// CrearProducto insere um novo producto e resolve o id gerado via RETURNING.
// bodega_id é gravado como NULL quando ausente; uma referência a uma bodega
// inexistente é rejeitada pela foreign key do banco, nunca aqui.
func (r *ProductoRepository) CrearProducto(ctx context.Context, producto domain.Producto) (domain.Producto, error) {
	r.logger.Debug("Iniciando CrearProducto no repositório.", map[string]interface{}{"sku": producto.SKU})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO productos (sku, nombre, stock, precio, bodega_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		producto.SKU, producto.Nombre, producto.Stock, producto.Precio, producto.BodegaID,
	).Scan(&producto.ID)
	if err != nil {
		r.logger.Error("Falha ao inserir producto no DB.", err)
		return domain.Producto{}, errors.NewStorageError("Falha ao criar producto", err)
	}

	r.logger.Info("Producto criado com sucesso.", map[string]interface{}{"id": producto.ID, "sku": producto.SKU})
	return producto, nil
}

// ObtenerProducto busca um producto pelo ID.
func (r *ProductoRepository) ObtenerProducto(ctx context.Context, id int64) (domain.Producto, error) {
	r.logger.Debug("Iniciando ObtenerProducto no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, sku, nombre, stock, precio, bodega_id
        FROM productos
        WHERE id = $1`

	var producto domain.Producto
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&producto.ID, &producto.SKU, &producto.Nombre, &producto.Stock, &producto.Precio, &producto.BodegaID,
	)

	if err == sql.ErrNoRows {
		return domain.Producto{}, errors.NewNotFoundError(fmt.Sprintf("Producto com ID %d não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar producto no DB.", err)
		return domain.Producto{}, errors.NewStorageError("Falha ao buscar producto", err)
	}

	return producto, nil
}

// ListarProductos busca todos os productos ordenados por id ascendente.
func (r *ProductoRepository) ListarProductos(ctx context.Context) ([]domain.Producto, error) {
	r.logger.Debug("Iniciando ListarProductos no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, sku, nombre, stock, precio, bodega_id
        FROM productos
        ORDER BY id`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar ListarProductos query.", err)
		return nil, errors.NewStorageError("Falha ao buscar todos os productos", err)
	}
	defer rows.Close()

	var productos []domain.Producto
	for rows.Next() {
		var producto domain.Producto
		err := rows.Scan(
			&producto.ID, &producto.SKU, &producto.Nombre, &producto.Stock, &producto.Precio, &producto.BodegaID,
		)
		if err != nil {
			r.logger.Error("Falha ao mapear producto na iteração de ListarProductos.", err)
			return nil, errors.NewStorageError("Falha ao mapear productos do DB", err)
		}
		productos = append(productos, producto)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de productos.", err)
		return nil, errors.NewStorageError("Erro após iteração de productos", err)
	}

	r.logger.Info("ListarProductos concluído com sucesso.", map[string]interface{}{"total_productos": len(productos)})
	return productos, nil
}

// ActualizarProducto atualiza um producto existente e retorna o estado pós-mutação.
func (r *ProductoRepository) ActualizarProducto(ctx context.Context, producto domain.Producto) (domain.Producto, error) {
	r.logger.Debug("Iniciando ActualizarProducto no repositório.", map[string]interface{}{"id": producto.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE productos
        SET sku = $1, nombre = $2, stock = $3, precio = $4, bodega_id = $5
        WHERE id = $6
        RETURNING id, sku, nombre, stock, precio, bodega_id`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		producto.SKU, producto.Nombre, producto.Stock, producto.Precio, producto.BodegaID, producto.ID,
	).Scan(
		&producto.ID, &producto.SKU, &producto.Nombre, &producto.Stock, &producto.Precio, &producto.BodegaID,
	)

	if err == sql.ErrNoRows {
		return domain.Producto{}, errors.NewNotFoundError(fmt.Sprintf("Producto com ID %d não encontrado para atualização.", producto.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar producto no DB.", err)
		return domain.Producto{}, errors.NewStorageError("Falha ao atualizar producto", err)
	}

	r.logger.Info("Producto atualizado com sucesso.", map[string]interface{}{"id": producto.ID})
	return producto, nil
}

// EliminarProducto remove um producto pelo ID.
func (r *ProductoRepository) EliminarProducto(ctx context.Context, id int64) error {
	r.logger.Debug("Iniciando EliminarProducto no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar producto do DB.", err)
		return errors.NewStorageError("Falha ao deletar producto", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewStorageError("Falha ao verificar linhas afetadas", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Producto com ID %d não encontrado para exclusão.", id))
	}

	r.logger.Info("Producto eliminado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
