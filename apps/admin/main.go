package main

import (
	"log"
	"os"

	"github.com/ustazbot/myhafiz/core"
	"github.com/ustazbot/myhafiz/core/progress"
	"github.com/ustazbot/myhafiz/core/user"
	emailsvc "github.com/ustazbot/myhafiz/services/email"
	logsvc "github.com/ustazbot/myhafiz/services/logger"
	"github.com/ustazbot/myhafiz/storage/database"
	sqlxrepos "github.com/ustazbot/myhafiz/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	svcLogger := logsvc.NewRollbarLogger(logger, conf)
	svcLogger.Enable(false)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	errAndDie(db.Ping())

	// start CLI
	cli := commandLine{
		db:      db,
		usrSvc:  user.NewService(sqlxrepos.NewUserRepository(db), emailsvc.NewConsoleService(conf), conf),
		progSvc: progress.NewService(sqlxrepos.NewProgressRepository(db), svcLogger),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
