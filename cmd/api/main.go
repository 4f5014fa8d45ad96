package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orgdesk.org/internal/auth"
	"orgdesk.org/internal/httpapi"
	"orgdesk.org/internal/obs"
	"orgdesk.org/internal/org"
	"orgdesk.org/internal/store/memory"
	"orgdesk.org/internal/store/mongo"
	"orgdesk.org/internal/store/pg"
	"orgdesk.org/internal/store/redis"
)

var version = "0.1.0"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("ORGDESK_COMMIT"))

	secret := os.Getenv("ORGDESK_AUTH_SECRET")
	if secret == "" {
		log.Fatal("missing ORGDESK_AUTH_SECRET")
	}

	addr := os.Getenv("ORGDESK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	// Backend selection: postgres if a DSN is set, mongo if a URI is set,
	// otherwise in-memory. Only one of DSN/URI should be set.
	var (
		users       auth.UserStore
		orgStore    org.Store
		revocations auth.RevocationLedger
		probe       httpapi.ReadyProbe
		closers     []func()
	)

	switch {
	case os.Getenv("ORGDESK_PG_DSN") != "":
		store, err := pg.Open(os.Getenv("ORGDESK_PG_DSN"))
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		users = store.Users()
		orgStore = store.Organizations()
		revocations = store.Revocations()
		probe = httpapi.ReadyProbe{Store: store}
		closers = append(closers, func() { _ = store.Close() })
	case os.Getenv("ORGDESK_MONGO_URI") != "":
		dbName := os.Getenv("ORGDESK_MONGO_DB")
		if dbName == "" {
			dbName = "orgdesk"
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := mongo.Open(ctx, os.Getenv("ORGDESK_MONGO_URI"), dbName)
		cancel()
		if err != nil {
			log.Fatalf("open mongo: %v", err)
		}
		users = store.Users()
		orgStore = store.Organizations()
		probe = httpapi.ReadyProbe{Store: store}
		closers = append(closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = store.Close(ctx)
		})
	default:
		users = memory.NewUserStore()
		orgStore = memory.NewOrganizationStore()
	}

	// A dedicated key-value ledger takes precedence over the backend's own.
	if redisAddr := os.Getenv("ORGDESK_REDIS_ADDR"); redisAddr != "" {
		ledger := redis.New(redisAddr)
		revocations = ledger
		closers = append(closers, func() { _ = ledger.Close() })
	}
	if revocations == nil {
		revocations = memory.NewRevocationLedger()
	}

	accounts, err := auth.NewAccounts(users)
	if err != nil {
		log.Fatalf("accounts: %v", err)
	}

	issuerOpts := []auth.IssuerOption{}
	if ttl := envDuration("ORGDESK_ACCESS_TTL"); ttl > 0 {
		issuerOpts = append(issuerOpts, auth.WithAccessTTL(ttl))
	}
	if ttl := envDuration("ORGDESK_REFRESH_TTL"); ttl > 0 {
		issuerOpts = append(issuerOpts, auth.WithRefreshTTL(ttl))
	}
	issuer, err := auth.NewIssuer(secret, issuerOpts...)
	if err != nil {
		log.Fatalf("issuer: %v", err)
	}

	orgs, err := org.NewService(orgStore, accounts)
	if err != nil {
		log.Fatalf("organizations: %v", err)
	}

	api := httpapi.New(probe, version, accounts, issuer, revocations, orgs)

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting orgdesk-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	for _, closeFn := range closers {
		closeFn()
	}
	log.Println("Stopped")
}

func envDuration(name string) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("%s: %v", name, err)
	}
	return d
}
