// Package app is the dependency-injection root: every component is built
// here with explicit constructor parameters, so nothing reaches for implicit
// context the way a UI tree would.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sandyadmin/internal/api"
	"sandyadmin/internal/config"
	"sandyadmin/internal/handler"
	"sandyadmin/internal/model"
	"sandyadmin/internal/nav"
	"sandyadmin/internal/notify"
	"sandyadmin/internal/orders"
	"sandyadmin/internal/platform"
	"sandyadmin/internal/push"
	"sandyadmin/internal/redis"
	"sandyadmin/internal/relay"
	"sandyadmin/internal/session"
	"sandyadmin/internal/storage"
	transport "sandyadmin/internal/transport/http"
)

// initialRoute is where the navigation tree mounts before the guard runs.
const initialRoute = "/" + nav.GroupTabs

func Run() error {
	ctx := context.Background()

	// 1. Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Device-local storage
	store, err := storage.Open(cfg.StoragePath, cfg.StorageKey)
	if err != nil {
		return fmt.Errorf("open device store: %w", err)
	}
	defer store.Close()

	// 3. Remote API client + session
	apiClient := api.NewClient(cfg.APIBaseURL)
	sessionStore := session.NewStore(store, apiClient)
	ordersService := orders.NewService(apiClient)

	// 4. Navigation
	router := nav.NewRouter()
	guard := nav.NewGuard(router, sessionStore)

	// 5. Push relay
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("create relay client: %w", err)
	}
	defer redisClient.Close()
	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("relay unreachable: %w", err)
	}
	consumer := relay.NewConsumer(redisClient.Client)
	publisher := relay.NewPublisher(redisClient.Client)

	// 6. Notification gateway
	host := platform.NewHost(cfg.DevicePlatform, cfg.VirtualDevice, cfg.NotificationsAllowed)
	provider := platform.NewPushProvider(cfg.DeviceToken, false)
	gateway := notify.NewGateway(host, provider, apiClient, router, cfg.TapRetryDelay)

	// Permission negotiation runs after authentication is established,
	// whether by sign-in or by a successful restore, never alongside a
	// sign-out.
	sessionStore.OnAuthenticated = func(ctx context.Context, _ model.Session) {
		gateway.Register(ctx)
	}

	appState := platform.NewAppStateTracker()
	dispatcher := notify.NewDispatcher(consumer, gateway, appState.Get)

	// 7. FCM sender for the test-notification action (optional)
	var sender push.Sender
	if cfg.FCMProjectID != "" && cfg.FCMClientEmail != "" && cfg.FCMPrivateKey != "" {
		fcm, err := push.NewFCMClient(ctx, cfg.FCMProjectID, cfg.FCMClientEmail, cfg.FCMPrivateKey)
		if err != nil {
			log.Printf("[App] FCM unavailable, test pushes will echo locally: %v", err)
		} else {
			sender = fcm
		}
	}
	tester := push.NewTester(sender, publisher, gateway)

	// 8. Boot: restore strictly precedes the first guard evaluation.
	sessionStore.Restore(ctx)
	router.SetReady(initialRoute)
	guard.FinishLoading()

	// 9. Consume pushes. Started after restore so cold-start taps land on
	// a mounted router.
	if err := dispatcher.Start(ctx); err != nil {
		return fmt.Errorf("start dispatcher: %w", err)
	}
	defer dispatcher.Stop()

	// 10. Control surface
	controlRouter := transport.NewRouter(transport.RouterConfig{
		AuthHandler:          handler.NewAuthHandler(apiClient, sessionStore, guard),
		OrdersHandler:        handler.NewOrdersHandler(ordersService, sessionStore),
		NotificationsHandler: handler.NewNotificationsHandler(gateway, tester, sessionStore),
		AppStateHandler:      handler.NewAppStateHandler(appState),
	})
	server := transport.NewServer(cfg.ControlAddr, controlRouter)
	serverErr := server.Start()

	// 11. Run until signalled.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigc:
		log.Printf("[App] Received %v, shutting down", sig)
	case err := <-serverErr:
		return fmt.Errorf("control server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
