package simulations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/dbx"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const sessionColumns = `id, case_id, user_id, status, start_time, end_time`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.SimulationSession, error) {
	s := &models.SimulationSession{}
	var end sql.NullTime
	if err := row.Scan(&s.ID, &s.CaseID, &s.UserID, &s.Status, &s.StartTime, &end); err != nil {
		return nil, err
	}
	if end.Valid {
		t := end.Time
		s.EndTime = &t
	}
	return s, nil
}

func isBadID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

func (r *PostgresRepository) GetOrCreate(ctx context.Context, userID, caseID string) (*models.SimulationSession, bool, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx,
		`INSERT INTO simulation_sessions (user_id, case_id, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, case_id) WHERE status = 'in_progress' DO NOTHING
		 RETURNING `+sessionColumns, userID, caseID, models.SimulationInProgress))
	if err == nil {
		return s, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("db error: %w", err)
	}

	s, err = scanSession(r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM simulation_sessions
		 WHERE user_id = $1 AND case_id = $2 AND status = $3`, userID, caseID, models.SimulationInProgress))
	if err != nil {
		return nil, false, fmt.Errorf("db error: %w", err)
	}
	return s, false, nil
}

func (r *PostgresRepository) GetForUser(ctx context.Context, id, userID string) (*models.SimulationSession, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM simulation_sessions WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isBadID(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.SimulationSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM simulation_sessions
		 WHERE user_id = $1 ORDER BY start_time DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.SimulationSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Complete(ctx context.Context, id string, end time.Time) (*models.SimulationSession, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx,
		`UPDATE simulation_sessions SET status = $1, end_time = $2
		 WHERE id = $3 AND status = $4
		 RETURNING `+sessionColumns, models.SimulationCompleted, end, id, models.SimulationInProgress))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isBadID(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) AddMessage(ctx context.Context, m *models.ChatMessage) (*models.ChatMessage, error) {
	out := *m
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO chat_messages (session_id, sender, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`, m.SessionID, m.Sender, m.Content,
	).Scan(&out.ID, &out.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &out, nil
}

func (r *PostgresRepository) Messages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, sender, content, created_at FROM chat_messages
		 WHERE session_id = $1 ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Sender, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
