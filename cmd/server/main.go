package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"github.com/rautela2003/realtime-chat-app/auth"
	"github.com/rautela2003/realtime-chat-app/domain"
	"github.com/rautela2003/realtime-chat-app/infrastructure/httpapi"
	"github.com/rautela2003/realtime-chat-app/infrastructure/ws"
	"github.com/rautela2003/realtime-chat-app/mailer"
	"github.com/rautela2003/realtime-chat-app/repositories"
	"github.com/rautela2003/realtime-chat-app/runtime"
	"github.com/rautela2003/realtime-chat-app/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so deferred cleanup always executes.
func run() error {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// Stores. A missing or failing durable backend is never fatal: the
	// service degrades to the bounded volatile stores.
	otps, users, messages, closeDB := buildStores(log, config)
	defer closeDB()

	tokens := auth.NewTokenService(config.JwtSecret, config.TokenDuration)

	var mail mailer.Mailer
	if config.SmtpHost != "" {
		mail = mailer.NewSMTPMailer(config.SmtpHost, config.SmtpPort, config.SmtpUser, config.SmtpPass, config.SmtpFrom)
	} else {
		log.Info("No mail relay configured, OTP delivery goes to the log")
		mail = mailer.NewLogMailer(log)
	}

	registry := runtime.NewRegistry()
	bus := runtime.NewBus(log, registry)
	typing := runtime.NewTypingDebouncer(runtime.TypingInterval)
	orchestrator := runtime.NewOrchestrator(log, registry, bus, typing, users, messages, config.RoomScopedPresence)

	authService := services.NewAuthService(otps, users, tokens, mail, log)
	chatService := services.NewChatService(orchestrator)

	mux := httpapi.NewRouter(log, authService, chatService)
	mux.Handle("/ws", ws.NewHandler(log, chatService, tokens))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Info("Program stopped cleanly")
	return nil
}

// buildStores opens BadgerDB when a path is configured and wraps every
// store in its failover pair; otherwise it returns volatile stores
// outright. Callers never branch on which backend is active.
func buildStores(log *slog.Logger, config Config) (
	repositories.IOtpRepository, repositories.IUserRepository, repositories.IMessageRepository, func()) {

	memOtps := repositories.NewMemoryOtpRepository()
	memUsers := repositories.NewMemoryUserRepository()
	memMessages := repositories.NewMemoryMessageRepository(domain.HistoryLimit)

	if config.BadgerFilepath == "" {
		log.Info("No durable backend configured, using volatile stores")
		return memOtps, memUsers, memMessages, func() {}
	}

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Warn("Database opening failed, using volatile stores", "error", err)
		return memOtps, memUsers, memMessages, func() {}
	}

	health := repositories.NewHealth(log)
	otps := repositories.NewFailoverOtpRepository(repositories.NewOtpRepository(db), memOtps, health)
	users := repositories.NewFailoverUserRepository(repositories.NewUserRepository(db), memUsers, health)
	messages := repositories.NewFailoverMessageRepository(repositories.NewMessageRepository(db), memMessages, health)

	closeDB := func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}
	return otps, users, messages, closeDB
}
