// Package archive persists finished evaluations to Postgres so training
// runs can be reviewed later. It is optional: binaries wire it only when a
// DSN is configured.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"autobot/internal/domain"
)

var ErrReportNotFound = errors.New("report not found")

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS evaluaciones (
			id TEXT PRIMARY KEY,
			sesion_id TEXT NOT NULL,
			personalidad TEXT NOT NULL,
			canal TEXT NOT NULL,
			escenario_id TEXT NOT NULL DEFAULT '',
			puntaje_global DOUBLE PRECISION NOT NULL,
			informe JSONB NOT NULL,
			evaluado_en TIMESTAMPTZ NOT NULL,
			creado_en TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_evaluaciones_sesion ON evaluaciones(sesion_id);`,
		`CREATE INDEX IF NOT EXISTS idx_evaluaciones_creado ON evaluaciones(creado_en);`,
		`CREATE TABLE IF NOT EXISTS transcripciones (
			id BIGSERIAL PRIMARY KEY,
			sesion_id TEXT NOT NULL,
			turno INTEGER NOT NULL,
			rol TEXT NOT NULL,
			contenido TEXT NOT NULL,
			enviado_en TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_transcripciones_sesion ON transcripciones(sesion_id, id);`,
	}

	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// SaveReport archives one evaluation with its transcript. Returns the
// archive row id.
func (s *Store) SaveReport(ctx context.Context, report *domain.EvaluationReport, historial []domain.Message) (string, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO evaluaciones(id, sesion_id, personalidad, canal, escenario_id, puntaje_global, informe, evaluado_en)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)
	`, id, report.SesionID, string(report.PersonalidadCliente), string(report.Canal),
		report.Escenario.ID, report.PuntajeGlobal, string(raw), report.TimestampEvaluacion)
	if err != nil {
		return "", err
	}

	for _, msg := range historial {
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO transcripciones(sesion_id, turno, rol, contenido, enviado_en)
			VALUES ($1, $2, $3, $4, $5)
		`, report.SesionID, msg.Turno, msg.Rol, msg.Contenido, msg.Timestamp); err != nil {
			return "", err
		}
	}
	return id, nil
}

// GetReport loads an archived evaluation by session id. The most recent
// one wins when a session was evaluated more than once.
func (s *Store) GetReport(ctx context.Context, sesionID string) (*domain.EvaluationReport, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT informe
		FROM evaluaciones
		WHERE sesion_id=$1
		ORDER BY creado_en DESC
		LIMIT 1
	`, sesionID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	var report domain.EvaluationReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetTranscript loads the archived transcript for a session in order.
func (s *Store) GetTranscript(ctx context.Context, sesionID string) ([]domain.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT turno, rol, contenido, enviado_en
		FROM transcripciones
		WHERE sesion_id=$1
		ORDER BY id ASC
	`, sesionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		var sent time.Time
		if err := rows.Scan(&m.Turno, &m.Rol, &m.Contenido, &sent); err != nil {
			return nil, err
		}
		m.Timestamp = sent
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
