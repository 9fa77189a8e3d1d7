package bodegarepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inventario/internal/domain"
	"inventario/internal/errors"
	"inventario/internal/pkg/logger"
)

// BodegaRepository implementa as operações CRUD de bodegas.
type BodegaRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewBodegaRepository cria e retorna uma nova instância do Repositório de Bodegas.
func NewBodegaRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *BodegaRepository {
	return &BodegaRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// CrearBodega insere uma nova bodega e resolve o id gerado via RETURNING.
// A unicidade de codigo é garantida pela constraint do banco; uma violação
// chega aqui como StorageError com o SQLSTATE do driver preservado.
func (r *BodegaRepository) CrearBodega(ctx context.Context, bodega domain.Bodega) (domain.Bodega, error) {
	r.logger.Debug("Iniciando CrearBodega no repositório.", map[string]interface{}{"codigo": bodega.Codigo})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO bodegas (codigo, nombre, direccion)
        VALUES ($1, $2, $3)
        RETURNING id`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		bodega.Codigo, bodega.Nombre, bodega.Direccion,
	).Scan(&bodega.ID)
	if err != nil {
		r.logger.Error("Falha ao inserir bodega no DB.", err)
		return domain.Bodega{}, errors.NewStorageError("Falha ao criar bodega", err)
	}

	r.logger.Info("Bodega criada com sucesso.", map[string]interface{}{"id": bodega.ID, "codigo": bodega.Codigo})
	return bodega, nil
}

// ObtenerBodega busca uma bodega pelo ID.
func (r *BodegaRepository) ObtenerBodega(ctx context.Context, id int64) (domain.Bodega, error) {
	r.logger.Debug("Iniciando ObtenerBodega no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, codigo, nombre, direccion
        FROM bodegas
        WHERE id = $1`

	var bodega domain.Bodega
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&bodega.ID, &bodega.Codigo, &bodega.Nombre, &bodega.Direccion,
	)

	if err == sql.ErrNoRows {
		return domain.Bodega{}, errors.NewNotFoundError(fmt.Sprintf("Bodega com ID %d não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar bodega no DB.", err)
		return domain.Bodega{}, errors.NewStorageError("Falha ao buscar bodega", err)
	}

	return bodega, nil
}

// ListarBodegas busca todas as bodegas ordenadas por id ascendente.
func (r *BodegaRepository) ListarBodegas(ctx context.Context) ([]domain.Bodega, error) {
	r.logger.Debug("Iniciando ListarBodegas no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, codigo, nombre, direccion
        FROM bodegas
        ORDER BY id`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar ListarBodegas query.", err)
		return nil, errors.NewStorageError("Falha ao buscar todas as bodegas", err)
	}
	defer rows.Close()

	var bodegas []domain.Bodega
	for rows.Next() {
		var bodega domain.Bodega
		err := rows.Scan(&bodega.ID, &bodega.Codigo, &bodega.Nombre, &bodega.Direccion)
		if err != nil {
			r.logger.Error("Falha ao mapear bodega na iteração de ListarBodegas.", err)
			return nil, errors.NewStorageError("Falha ao mapear bodegas do DB", err)
		}
		bodegas = append(bodegas, bodega)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de bodegas.", err)
		return nil, errors.NewStorageError("Erro após iteração de bodegas", err)
	}

	r.logger.Info("ListarBodegas concluído com sucesso.", map[string]interface{}{"total_bodegas": len(bodegas)})
	return bodegas, nil
}

// ActualizarBodega atualiza uma bodega existente e retorna o estado pós-mutação.
func (r *BodegaRepository) ActualizarBodega(ctx context.Context, bodega domain.Bodega) (domain.Bodega, error) {
	r.logger.Debug("Iniciando ActualizarBodega no repositório.", map[string]interface{}{"id": bodega.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE bodegas
        SET codigo = $1, nombre = $2, direccion = $3
        WHERE id = $4
        RETURNING id, codigo, nombre, direccion`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		bodega.Codigo, bodega.Nombre, bodega.Direccion, bodega.ID,
	).Scan(
		&bodega.ID, &bodega.Codigo, &bodega.Nombre, &bodega.Direccion,
	)

	if err == sql.ErrNoRows {
		return domain.Bodega{}, errors.NewNotFoundError(fmt.Sprintf("Bodega com ID %d não encontrada para atualização.", bodega.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar bodega no DB.", err)
		return domain.Bodega{}, errors.NewStorageError("Falha ao atualizar bodega", err)
	}

	r.logger.Info("Bodega atualizada com sucesso.", map[string]interface{}{"id": bodega.ID})
	return bodega, nil
}

// EliminarBodega remove uma bodega resolvendo antes os productos dependentes,
// tudo dentro de uma única transação com commit manual.
//
// reasignarA == nil aplica a semântica NULLIFY (bodega_id dos dependentes vira
// NULL); caso contrário os dependentes são reapontados para *reasignarA. A
// transação só é confirmada se o DELETE afetar exatamente uma linha; qualquer
// outro resultado reverte tudo — aplicação parcial nunca é observável.
func (r *BodegaRepository) EliminarBodega(ctx context.Context, id int64, reasignarA *int64) error {
	r.logger.Debug("Iniciando EliminarBodega no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return errors.NewStorageError("Falha ao iniciar transação de eliminação", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// 1. Resolver os productos dependentes segundo a política já decidida.
	if reasignarA != nil {
		_, err = tx.ExecContext(ctxTimeout,
			`UPDATE productos SET bodega_id = $1 WHERE bodega_id = $2`, *reasignarA, id)
	} else {
		_, err = tx.ExecContext(ctxTimeout,
			`UPDATE productos SET bodega_id = NULL WHERE bodega_id = $1`, id)
	}
	if err != nil {
		r.logger.Error("Falha ao resolver productos dependentes.", err)
		return errors.NewStorageError("Falha ao resolver productos dependentes", err)
	}

	// 2. Eliminar a linha da bodega.
	var result sql.Result
	result, err = tx.ExecContext(ctxTimeout, `DELETE FROM bodegas WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar bodega do DB.", err)
		return errors.NewStorageError("Falha ao deletar bodega", err)
	}

	var rowsAffected int64
	rowsAffected, err = result.RowsAffected()
	if err != nil {
		return errors.NewStorageError("Falha ao verificar linhas afetadas", err)
	}

	// 3. Commit apenas se exatamente uma linha foi eliminada.
	if rowsAffected != 1 {
		err = errors.NewNotFoundError(fmt.Sprintf("Bodega com ID %d não encontrada para exclusão.", id))
		return err
	}

	if err = tx.Commit(); err != nil {
		r.logger.Error("Falha no commit da eliminação de bodega.", err)
		return errors.NewStorageError("Falha no commit da eliminação", err)
	}

	r.logger.Info("Bodega eliminada com sucesso.", map[string]interface{}{"id": id, "reasignada": reasignarA != nil})
	return nil
}
