// Package db persiste os metadados dos relatórios gerados.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"reportservice/models"
)

// ReportStore define a persistência dos metadados de um relatório.
type ReportStore interface {
	InsertReport(ctx context.Context, rec models.ReportRecord) error
}

// ErrNoStore indica que não há banco configurado; nenhum registro foi gravado.
var ErrNoStore = errors.New("nenhum banco configurado")

// NoOpStore é usado quando nenhum banco está configurado ou acessível.
type NoOpStore struct{}

func (NoOpStore) InsertReport(context.Context, models.ReportRecord) error { return ErrNoStore }

// PersistenceError indica falha ao gravar o registro. Quem gera relatórios
// registra e segue; o erro nunca chega ao cliente.
type PersistenceError struct {
	ReportID string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("erro ao salvar relatório %s: %v", e.ReportID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Database é um wrapper fino em torno de *sql.DB para facilitar testes (sqlmock).
type Database struct {
	conn *sql.DB
}

func NewDatabase() *Database { return &Database{} }

// Connect abre conexão PostgreSQL usando lib/pq e valida com Ping().
func (d *Database) Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open conn: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	d.conn = conn
	return conn, nil
}

func (d *Database) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}
