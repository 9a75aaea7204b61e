package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"collabBack/internal/identity"
	"collabBack/internal/marketplace/idempotency"
	"collabBack/internal/marketplace/ledger"
)

// Config is the subset of runtime configuration required by the HTTP handlers.
type Config struct {
	RequestTimeout time.Duration
	MaxPageSize    int
	MaxUploadBytes int64
	MaxBodyBytes   int64
}

// Logger captures the logging contract required by the server.
type Logger interface {
	Infof(string, ...interface{})
	Errorf(string, ...interface{})
}

// MediaStore uploads submission videos and returns their public URL.
type MediaStore interface {
	Upload(ctx context.Context, ownerID, filename string, data []byte) (string, error)
}

// EventStream serves the websocket endpoint.
type EventStream interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// Server provides HTTP handlers for the marketplace.
type Server struct {
	cfg      Config
	logger   Logger
	resolver identity.Resolver
	svc      *ledger.Service
	media    MediaStore
	events   EventStream
	idem     *idempotency.Guard
	validate *validator.Validate
}

// NewServer constructs a Server instance. media, events and idem may be nil.
func NewServer(cfg Config, logger Logger, resolver identity.Resolver, svc *ledger.Service, media MediaStore, events EventStream, idem *idempotency.Guard) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 200
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 100 << 20
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 << 10
	}
	return &Server{
		cfg:      cfg,
		logger:   logger,
		resolver: resolver,
		svc:      svc,
		media:    media,
		events:   events,
		idem:     idem,
		validate: validator.New(),
	}
}

// Register mounts marketplace routes on the mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/campaigns", s.handleCampaigns)
	mux.HandleFunc("/api/v1/campaigns/", s.handleCampaignSubroutes)
	mux.HandleFunc("/api/v1/applications", s.handleApplications)
	mux.HandleFunc("/api/v1/applications/", s.handleApplicationSubroutes)
	mux.HandleFunc("/api/v1/submissions", s.handleSubmissions)
	mux.HandleFunc("/api/v1/submissions/", s.handleSubmissionSubroutes)
	mux.HandleFunc("/api/v1/payments", s.handlePayments)
	mux.HandleFunc("/api/v1/payments/", s.handlePaymentSubroutes)
	mux.HandleFunc("/api/v1/withdrawals", s.handleWithdrawals)
	mux.HandleFunc("/api/v1/withdrawals/", s.handleWithdrawalSubroutes)
	mux.HandleFunc("/api/v1/brand/stats", s.handleBrandStats)
	mux.HandleFunc("/api/v1/brand/wallet", s.handleBrandWallet)
	mux.HandleFunc("/api/v1/brand/campaigns", s.handleBrandCampaigns)
	mux.HandleFunc("/api/v1/influencer/analytics", s.handleInfluencerAnalytics)
	mux.HandleFunc("/api/v1/influencer/balance", s.handleInfluencerBalance)
	if s.events != nil {
		mux.HandleFunc("/ws/events", s.events.ServeWS)
	}
}
