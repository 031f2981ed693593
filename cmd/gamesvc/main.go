package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	log "github.com/sirupsen/logrus"

	appconfig "github.com/wilwaps/bingo-engine/configs"
	"github.com/wilwaps/bingo-engine/internal/diag"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/broker"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/config"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/db"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/events"
	handlers "github.com/wilwaps/bingo-engine/internal/gamesvc/handlers"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/service"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/store"
	nats "github.com/wilwaps/bingo-engine/internal/nats"
	"github.com/wilwaps/bingo-engine/internal/notify"
)

const SERVICE_NAME = "game"

func init() {
	appconfig.Logging(SERVICE_NAME + "_service")
	appconfig.LoadEnv(SERVICE_NAME)
	appconfig.CreateUniqueInstance(SERVICE_NAME)
}

func main() {
	cfg := config.Load()

	// pg connection
	dbpool, err := db.Connect(cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	roomStore := store.NewRoomStore(dbpool)
	playerStore := store.NewPlayerStore(dbpool)
	cardStore := store.NewCardStore(dbpool)
	drawStore := store.NewDrawStore(dbpool)
	winnerStore := store.NewWinnerStore(dbpool)
	walletStore := store.NewWalletStore(dbpool)
	ledgerStore := store.NewLedgerStore(dbpool)

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	emitter := events.NewEmitter(n.Conn)

	// claim diagnostics, optional
	var recorder *diag.Recorder
	if cfg.MongoURI != "" {
		rec, cancelMongo, err := diag.Connect(cfg.MongoURI, cfg.DiagRetention)
		if err != nil {
			log.Errorf("claim diagnostics disabled: %v", err)
		} else {
			recorder = rec
			defer cancelMongo()
		}
	}

	// operator alerts, optional
	var ops service.OpsNotifier
	if cfg.TelegramToken != "" {
		tn, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatIDs)
		if err != nil {
			log.Errorf("telegram alerts disabled: %v", err)
		} else {
			ops = tn
		}
	}

	roomService := service.NewRoomService(dbpool, roomStore, playerStore, cardStore,
		walletStore, ledgerStore, emitter)
	drawService := service.NewDrawService(dbpool, roomStore, playerStore, cardStore,
		drawStore, emitter)
	payoutService := service.NewPayoutService(dbpool, roomStore, playerStore, winnerStore,
		walletStore, ledgerStore, service.StaticPlatformResolver(cfg.PlatformUserID), emitter, ops)
	claimService := service.NewClaimService(dbpool, roomStore, cardStore, drawStore,
		winnerStore, payoutService, emitter, recorder, cfg.TieWindow)
	defer claimService.Close()

	monitorService := service.NewMonitorService(dbpool, roomStore, playerStore, drawStore,
		winnerStore, walletStore, ledgerStore, payoutService, emitter,
		cfg.LobbyTTL, cfg.AbandonAfter, cfg.TieWindow, cfg.SweepInterval)

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	go monitorService.Run(monitorCtx)

	// init peer message broker
	broker := broker.NewBroker(n.Conn, roomService, drawService, claimService, walletStore)

	// subscribe to socket service
	topic := "socket.service"
	sub, err := broker.SubscribSocketService(topic)
	if err != nil {
		log.Errorf("Error: unable to subscribe to queue %v", err)
		os.Exit(0)
	}

	// Setup router
	r := chi.NewRouter()
	c := appconfig.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appconfig.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(roomService, drawService, claimService, ledgerStore)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service instance %s running at port %s", SERVICE_NAME, appconfig.GetInstanceId(), server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	sub.Unsubscribe()
	stopMonitor()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
