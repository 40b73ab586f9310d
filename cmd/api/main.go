package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parlor.chat/internal/admin"
	"parlor.chat/internal/httpapi"
	"parlor.chat/internal/identity"
	"parlor.chat/internal/obs"
	"parlor.chat/internal/store"
	fsstore "parlor.chat/internal/store/firestore"
	"parlor.chat/internal/store/pg"
	"parlor.chat/internal/stream"
)

// Overridden at build time via -ldflags.
var (
	version = "0.3.1"
	commit  = "none"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	ctx := context.Background()

	st, probe, closeStore, err := openStore(ctx)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	verifier, err := openVerifier(ctx)
	if err != nil {
		log.Fatalf("open verifier: %v", err)
	}

	// Nil verifier or store is allowed: the service then answers 503 on
	// every operation instead of refusing to start.
	svc := admin.NewService(verifier, st)
	api := httpapi.New(probe, version, svc, stream.New())

	addr := os.Getenv("PARLOR_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting parlor-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
	if closeStore != nil {
		_ = closeStore()
	}
	log.Println("Stopped")
}

// openStore selects the record store from PARLOR_STORE: "firestore",
// "postgres", or "memory" (default, dev only).
func openStore(ctx context.Context) (store.Store, httpapi.ReadyProbe, func() error, error) {
	switch os.Getenv("PARLOR_STORE") {
	case "firestore":
		st, err := fsstore.Open(ctx,
			os.Getenv("PARLOR_FIREBASE_PROJECT"),
			os.Getenv("PARLOR_FIREBASE_CREDENTIALS"))
		if err != nil {
			return nil, httpapi.ReadyProbe{}, nil, err
		}
		return st, httpapi.ReadyProbe{}, st.Close, nil
	case "postgres":
		st, err := pg.Open(os.Getenv("PARLOR_PG_DSN"))
		if err != nil {
			return nil, httpapi.ReadyProbe{}, nil, err
		}
		probe := httpapi.ReadyProbe{Ping: st.DB().PingContext}
		return st, probe, st.Close, nil
	case "", "memory":
		log.Println("PARLOR_STORE not set, using in-memory store (dev only)")
		return store.NewInMemory(), httpapi.ReadyProbe{}, nil, nil
	default:
		log.Printf("unknown PARLOR_STORE %q, operations will fail closed", os.Getenv("PARLOR_STORE"))
		return nil, httpapi.ReadyProbe{}, nil, nil
	}
}

// openVerifier selects the token verifier from PARLOR_AUTH_MODE:
// "firebase" (default) or "jwt" with a shared secret for local setups.
func openVerifier(ctx context.Context) (identity.Verifier, error) {
	switch os.Getenv("PARLOR_AUTH_MODE") {
	case "jwt":
		return identity.NewJWTVerifier(os.Getenv("PARLOR_AUTH_SECRET"))
	case "", "firebase":
		project := os.Getenv("PARLOR_FIREBASE_PROJECT")
		if project == "" {
			log.Println("PARLOR_FIREBASE_PROJECT not set, token verification unavailable")
			return nil, nil
		}
		return identity.NewFirebaseVerifier(ctx,
			os.Getenv("PARLOR_FIREBASE_CREDENTIALS"), project)
	default:
		log.Printf("unknown PARLOR_AUTH_MODE %q, operations will fail closed", os.Getenv("PARLOR_AUTH_MODE"))
		return nil, nil
	}
}
