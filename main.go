package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"gpioserver/gpio"
	"gpioserver/server"
)

func main() {
	// A .env file is optional; the environment alone is enough.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := newLogger(cfg.Debug)
	log.WithFields(logrus.Fields{"host": cfg.Host, "port": cfg.Port, "debug": cfg.Debug}).Info("starting GPIO API")

	ctl := gpio.NewController(gpio.NewPlatformDriver(), log)

	if pins := parsePinList(cfg.DefaultPins, log); len(pins) > 0 {
		results := ctl.ConfigureMany(pins, gpio.Low)
		log.WithField("results", results).Info("default pins configured")
	}

	// Release on the signal path and again on the normal exit path; Release
	// is idempotent so the double call is harmless.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.WithField("signal", sig.String()).Info("shutting down")
		ctl.Release()
		os.Exit(0)
	}()
	defer ctl.Release()

	if err := server.CreateServer(ctl, log, cfg.Host, cfg.Port, cfg.Debug); err != nil {
		ctl.Release()
		log.WithError(err).Fatal("server exited")
	}
}

func newLogger(debug bool) *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logrus.NewEntry(logger)
}
