package main

import (
	"log"
	"os"

	"github.com/Apollox9/fusion-loom-sub002/core"
	"github.com/Apollox9/fusion-loom-sub002/core/device"
	"github.com/Apollox9/fusion-loom-sub002/storage/database"
	sqlxrepos "github.com/Apollox9/fusion-loom-sub002/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	errAndDie(database.EnsureSchema(db))

	// start CLI
	cli := commandLine{
		deviceSvc: device.NewService(sqlxrepos.NewDeviceRepository(db), noopReconciler{}, core.NopLogger{}),
		staffRepo: sqlxrepos.NewStaffRepository(db),
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
