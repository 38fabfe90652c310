package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"blackjack-server/internal/config"
	"blackjack-server/internal/monitor"
	"blackjack-server/internal/mux"
	"blackjack-server/pkg/room"
	"blackjack-server/pkg/table"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address (overrides configuration)")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	mon := monitor.NewMonitor("blackjack")
	mon.StartServer(cfg.MetricsAddr)

	registry := table.NewRegistry(cfg.TableTypes, cfg.Rules, logrus.StandardLogger())
	registry.SetIdleExpiry(cfg.IdleExpiry())

	pitBoss := room.NewPitBoss(registry, mon)
	pitBoss.SetSettleDelay(cfg.SettleDelay())
	pitBoss.StartShift()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	listenAddr := cfg.ListenAddr
	if *addr != "" {
		listenAddr = *addr
	}

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, pitBoss))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
