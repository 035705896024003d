package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"dispatchsite/internal/adapters/email"
	"dispatchsite/internal/adapters/http/middleware"
	"dispatchsite/internal/adapters/http/perf"
	accountStore "dispatchsite/internal/adapters/storage/account"
	contentStore "dispatchsite/internal/adapters/storage/content"
	messageStore "dispatchsite/internal/adapters/storage/message"
	"dispatchsite/internal/adapters/uploads"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	ContentStore contentStore.Store
	MessageStore messageStore.Store
}

// loadCSRFKey reads the CSRF secret from DISPATCH_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("DISPATCH_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("DISPATCH_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("DISPATCH_ENV") == "production" {
		log.Fatal("DISPATCH_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key. Set DISPATCH_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global upload processor (set by NewMux)
var uploadProcessor *uploads.Processor

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string
var emailNotifyTo string

// SetEmailSender sets the global email sender and notification addressing.
func SetEmailSender(sender email.Sender, from, replyTo, notifyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
	emailNotifyTo = notifyTo
}

// NewMux wires HTTP handlers for the app.
// staticDir serves the public site; processor owns the upload root.
func NewMux(staticDir string, processor *uploads.Processor, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	uploadProcessor = processor
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("DISPATCH_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(processor.Root()))))
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}

// registerRoutes attaches the JSON API endpoints.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/admin/login", handleLogin)
	mux.HandleFunc("/api/admin/logout", handleLogout)
	mux.HandleFunc("/api/admin/me", handleMe)
	mux.HandleFunc("/api/content", handlePublicContent)
	mux.HandleFunc("/api/admin/content", handleAdminContent)
	mux.HandleFunc("/api/admin/tops/", handleTopImage)
	mux.HandleFunc("/api/admin/messages", handleMessages)
	mux.HandleFunc("/api/admin/perf", handlePerf)
	mux.HandleFunc("/api/contact", handleContact)
}
