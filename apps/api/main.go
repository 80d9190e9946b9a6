package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/Apollox9/fusion-loom-sub002/apps/api/echo"
	"github.com/Apollox9/fusion-loom-sub002/core"
	"github.com/Apollox9/fusion-loom-sub002/core/device"
	"github.com/Apollox9/fusion-loom-sub002/core/notification"
	"github.com/Apollox9/fusion-loom-sub002/core/order"
	"github.com/Apollox9/fusion-loom-sub002/core/referral"
	"github.com/Apollox9/fusion-loom-sub002/core/session"
	"github.com/Apollox9/fusion-loom-sub002/core/staff"
	emailsvc "github.com/Apollox9/fusion-loom-sub002/services/email"
	logsvc "github.com/Apollox9/fusion-loom-sub002/services/logger"
	"github.com/Apollox9/fusion-loom-sub002/storage/database"
	sqlxrepos "github.com/Apollox9/fusion-loom-sub002/storage/database/sqlx"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := newLogger(conf)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database failed", err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	deviceRepo := sqlxrepos.NewDeviceRepository(db)
	orderRepo := sqlxrepos.NewOrderRepository(db)
	sessionRepo := sqlxrepos.NewSessionRepository(db)
	staffRepo := sqlxrepos.NewStaffRepository(db)
	notifRepo := sqlxrepos.NewNotificationRepository(db)
	referralRepo := sqlxrepos.NewReferralRepository(db)

	orderSvc := order.NewService(orderRepo)
	deviceSvc := device.NewService(deviceRepo, orderSvc, logger)
	sessionSvc := session.NewService(sessionRepo)
	staffSvc := staff.NewService(staffRepo, mailSvc, conf, logger)
	notifSvc := notification.NewService(notifRepo)
	referralSvc := referral.NewService(referralRepo, staffSvc, orderSvc, notifSvc, mailSvc, conf, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Notification Outbox Worker

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	worker := notification.NewWorker(notifRepo, mailSvc, conf, logger)
	go worker.Run(workerCtx)

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Conf:        conf,
		Logger:      logger,
		DeviceSvc:   deviceSvc,
		SessionSvc:  sessionSvc,
		StaffSvc:    staffSvc,
		ReferralSvc: referralSvc,
		Validate:    validate,
		Translator:  translator,
		Shutdown:    func() { shutdown <- syscall.SIGTERM },
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
		stopWorker()

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

func newLogger(conf *core.Config) core.Logger {
	if conf.RollbarToken != "" {
		logger := logsvc.NewRollbarLogger(
			log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
			conf,
		)
		logger.Enable(!conf.Debug)
		return logger
	}
	logger, err := logsvc.NewZapLogger(conf)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	return logger
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.EnsureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
