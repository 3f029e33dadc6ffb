package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ustazbot/myhafiz/core/connection"
)

type connectionRow struct {
	ID          string    `db:"id"`
	Kind        string    `db:"kind"`
	RequesterID string    `db:"requester_id"`
	StudentID   string    `db:"student_id"`
	Status      string    `db:"status"`
	Message     string    `db:"message"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	RequesterName  string `db:"requester_name"`
	RequesterEmail string `db:"requester_email"`
	StudentName    string `db:"student_name"`
	StudentEmail   string `db:"student_email"`
}

func (r connectionRow) toConnection() connection.Connection {
	return connection.Connection{
		ID:             r.ID,
		Kind:           r.Kind,
		RequesterID:    r.RequesterID,
		StudentID:      r.StudentID,
		Status:         r.Status,
		Message:        r.Message,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
		RequesterName:  r.RequesterName,
		RequesterEmail: r.RequesterEmail,
		StudentName:    r.StudentName,
		StudentEmail:   r.StudentEmail,
	}
}

// selectConnection hydrates both sides' names and emails from the user rows.
const selectConnection = `
SELECT c.id, c.kind, c.requester_id, c.student_id, c.status, c.message, c.created_at, c.updated_at,
       r.name AS requester_name, r.email AS requester_email,
       s.name AS student_name, s.email AS student_email
FROM connections c
JOIN users r ON r.id = c.requester_id
JOIN users s ON s.id = c.student_id`

func filterClauses(filter connection.Filter) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	add := func(col string, val string) {
		if val != "" {
			args = append(args, val)
			clauses = append(clauses, col+" = ?")
		}
	}
	add("c.requester_id", filter.RequesterID)
	add("c.student_id", filter.StudentID)
	add("c.kind", filter.Kind)
	add("c.status", filter.Status)

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type connectionRepository struct {
	db *sqlx.DB
}

var _ connection.Repository = (*connectionRepository)(nil)

func NewConnectionRepository(db *sqlx.DB) *connectionRepository {
	return &connectionRepository{db: db}
}

func (repo *connectionRepository) CreateConnection(ctx context.Context, conn connection.Connection) (connection.Connection, error) {
	q := `
INSERT INTO connections (id, kind, requester_id, student_id, status, message, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, q,
		conn.ID, conn.Kind, conn.RequesterID, conn.StudentID, conn.Status, conn.Message, conn.CreatedAt, conn.UpdatedAt)
	if err != nil {
		return connection.Connection{}, errors.Wrap(err, "inserting connection")
	}
	return conn, nil
}

func (repo *connectionRepository) GetConnectionByID(ctx context.Context, id string) (connection.Connection, error) {
	var row connectionRow
	if err := repo.db.GetContext(ctx, &row, selectConnection+` WHERE c.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return connection.Connection{}, connection.ErrNotFound
		}
		return connection.Connection{}, errors.Wrap(err, "getting connection by id")
	}
	return row.toConnection(), nil
}

func (repo *connectionRepository) FilterConnections(ctx context.Context, filter connection.Filter) ([]connection.Connection, error) {
	where, args := filterClauses(filter)
	q := repo.db.Rebind(selectConnection + where + " ORDER BY c.created_at DESC")

	var rows []connectionRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering connections")
	}

	conns := make([]connection.Connection, 0, len(rows))
	for _, row := range rows {
		conns = append(conns, row.toConnection())
	}
	return conns, nil
}

// AcceptConnection locks the row, verifies it is still pending and flips it to
// accepted, all in one transaction.
func (repo *connectionRepository) AcceptConnection(ctx context.Context, id string) (connection.Connection, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return connection.Connection{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	if err = tx.GetContext(ctx, &status, `SELECT status FROM connections WHERE id = $1 FOR UPDATE`, id); err != nil {
		if err == sql.ErrNoRows {
			return connection.Connection{}, connection.ErrNotFound
		}
		return connection.Connection{}, errors.Wrap(err, "locking connection")
	}
	if status != connection.StatusPending {
		return connection.Connection{}, connection.ErrNotPending
	}

	q := `UPDATE connections SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err = tx.ExecContext(ctx, q, connection.StatusAccepted, time.Now().UTC(), id); err != nil {
		return connection.Connection{}, errors.Wrap(err, "updating connection status")
	}

	var row connectionRow
	if err = tx.GetContext(ctx, &row, selectConnection+` WHERE c.id = $1`, id); err != nil {
		return connection.Connection{}, errors.Wrap(err, "reloading connection")
	}

	if err = tx.Commit(); err != nil {
		return connection.Connection{}, errors.Wrap(err, "committing transaction")
	}
	return row.toConnection(), nil
}

func (repo *connectionRepository) DeleteConnection(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting connection")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return connection.ErrNotFound
	}
	return nil
}

func (repo *connectionRepository) CountConnections(ctx context.Context, filter connection.Filter) (int, error) {
	where, args := filterClauses(filter)
	q := repo.db.Rebind(`SELECT COUNT(*) FROM connections c` + where)

	var count int
	if err := repo.db.GetContext(ctx, &count, q, args...); err != nil {
		return 0, errors.Wrap(err, "counting connections")
	}
	return count, nil
}
