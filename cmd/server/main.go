package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "dispatchsite/internal/adapters/email"
	web "dispatchsite/internal/adapters/http"
	"dispatchsite/internal/adapters/http/perf"
	"dispatchsite/internal/adapters/storage"
	accountStore "dispatchsite/internal/adapters/storage/account"
	contentStore "dispatchsite/internal/adapters/storage/content"
	messageStore "dispatchsite/internal/adapters/storage/message"
	"dispatchsite/internal/adapters/uploads"
	"dispatchsite/internal/application/orchestrators"
	accountDomain "dispatchsite/internal/domain/account"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("DISPATCH_DB", "dispatchsite.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	docStore := contentStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore: acctStore,
		ContentStore: docStore,
		MessageStore: messageStore.NewSQLiteStore(timedDB),
	}

	// Seed credentials on first boot; read-only at runtime thereafter
	seedCreds := []orchestrators.SeedCredential{
		{
			Username: envOrDefault("DISPATCH_ADMIN_USER", "admin"),
			Password: envOrDefault("DISPATCH_ADMIN_PASSWORD", "1234"),
			Role:     accountDomain.RoleAdmin,
		},
		{
			Username: envOrDefault("DISPATCH_LIMITED_USER", "user"),
			Password: envOrDefault("DISPATCH_LIMITED_PASSWORD", "7890"),
			Role:     accountDomain.RoleLimited,
		},
	}
	if err := orchestrators.ExecuteSeedAccounts(context.Background(), orchestrators.SeedAccountsDeps{AccountStore: acctStore}, seedCreds); err != nil {
		log.Fatalf("failed to seed accounts: %v", err)
	}

	// Seed the default content document so reads never see a missing one
	if err := orchestrators.ExecuteSeedContent(context.Background(), orchestrators.SeedContentDeps{ContentStore: docStore}); err != nil {
		log.Fatalf("failed to seed content: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Upload processor owns the public upload root
	uploadsDir := envOrDefault("DISPATCH_UPLOADS_DIR", "public/uploads")
	processor, err := uploads.NewProcessor(uploadsDir)
	if err != nil {
		log.Fatalf("failed to init uploads: %v", err)
	}

	// Configure email sender for contact notifications
	resendKey := os.Getenv("DISPATCH_RESEND_KEY")
	emailFrom := envOrDefault("DISPATCH_RESEND_FROM", "JTS Logistics <noreply@jtslogistics.com>")
	emailReply := envOrDefault("DISPATCH_REPLY_TO", "dispatch@jtslogistics.com")
	notifyTo := os.Getenv("DISPATCH_NOTIFY_TO")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply, notifyTo)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply, notifyTo)
		if os.Getenv("DISPATCH_ENV") == "production" {
			log.Println("WARNING: DISPATCH_RESEND_KEY is not set — contact notifications are DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set DISPATCH_RESEND_KEY for real delivery)")
		}
	}

	// Create HTTP handler with middleware (pass collector for timing + snapshot)
	mux := web.NewMux(envOrDefault("DISPATCH_PUBLIC_DIR", "public"), processor, stores, collector)

	addr := envOrDefault("DISPATCH_ADDR", ":8080")
	log.Printf("dispatchsite %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("DISPATCH_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
