// Package inmemdb provides map-backed repositories for tests.
package inmemdb

import (
	"sync"

	"github.com/ustazbot/myhafiz/core/connection"
	"github.com/ustazbot/myhafiz/core/progress"
	"github.com/ustazbot/myhafiz/core/user"
)

type (
	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}

	connectionTable struct {
		mutex sync.RWMutex
		table map[string]*connection.Connection
	}

	progressTable struct {
		mutex sync.RWMutex
		table map[progressKey]*progress.SurahProgress
	}

	progressKey struct {
		userID      string
		surahNumber int
	}

	DB struct {
		user       *userTable
		connection *connectionTable
		progress   *progressTable
	}
)

func NewDB() *DB {
	return &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		connection: &connectionTable{table: make(map[string]*connection.Connection)},
		progress:   &progressTable{table: make(map[progressKey]*progress.SurahProgress)},
	}
}
