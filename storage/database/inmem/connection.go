package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/ustazbot/myhafiz/core/connection"
)

type connectionRepository struct {
	db    *connectionTable
	users *userTable
}

var _ connection.Repository = (*connectionRepository)(nil)

func NewConnectionRepository(db *DB) *connectionRepository {
	return &connectionRepository{db: db.connection, users: db.user}
}

func (repo *connectionRepository) hydrate(conn connection.Connection) connection.Connection {
	repo.users.mutex.RLock()
	defer repo.users.mutex.RUnlock()

	if usr, ok := repo.users.table[conn.RequesterID]; ok {
		conn.RequesterName = usr.Name
		conn.RequesterEmail = usr.Email
	}
	if usr, ok := repo.users.table[conn.StudentID]; ok {
		conn.StudentName = usr.Name
		conn.StudentEmail = usr.Email
	}
	return conn
}

func matches(conn connection.Connection, filter connection.Filter) bool {
	if filter.RequesterID != "" && conn.RequesterID != filter.RequesterID {
		return false
	}
	if filter.StudentID != "" && conn.StudentID != filter.StudentID {
		return false
	}
	if filter.Kind != "" && conn.Kind != filter.Kind {
		return false
	}
	if filter.Status != "" && conn.Status != filter.Status {
		return false
	}
	return true
}

func (repo *connectionRepository) CreateConnection(ctx context.Context, conn connection.Connection) (connection.Connection, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[conn.ID] = &conn
	return repo.hydrate(conn), nil
}

func (repo *connectionRepository) GetConnectionByID(ctx context.Context, id string) (connection.Connection, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if conn, ok := repo.db.table[id]; ok {
		return repo.hydrate(*conn), nil
	}
	return connection.Connection{}, connection.ErrNotFound
}

func (repo *connectionRepository) FilterConnections(ctx context.Context, filter connection.Filter) ([]connection.Connection, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	conns := make([]connection.Connection, 0)
	for _, conn := range repo.db.table {
		if matches(*conn, filter) {
			conns = append(conns, repo.hydrate(*conn))
		}
	}
	sort.Slice(conns, func(i, j int) bool { return conns[i].CreatedAt.After(conns[j].CreatedAt) })
	return conns, nil
}

func (repo *connectionRepository) AcceptConnection(ctx context.Context, id string) (connection.Connection, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	conn, ok := repo.db.table[id]
	if !ok {
		return connection.Connection{}, connection.ErrNotFound
	}
	if conn.Status != connection.StatusPending {
		return connection.Connection{}, connection.ErrNotPending
	}
	conn.Status = connection.StatusAccepted
	conn.UpdatedAt = time.Now().UTC()
	return repo.hydrate(*conn), nil
}

func (repo *connectionRepository) DeleteConnection(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return connection.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *connectionRepository) CountConnections(ctx context.Context, filter connection.Filter) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, conn := range repo.db.table {
		if matches(*conn, filter) {
			count++
		}
	}
	return count, nil
}
