package marketplace

import (
	"context"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	marketplacehttp "collabBack/internal/marketplace/http"
	"collabBack/internal/marketplace/idempotency"
	"collabBack/internal/marketplace/ledger"
	"collabBack/internal/marketplace/notify"
	"collabBack/internal/marketplace/repo"
	"collabBack/internal/marketplace/ws"
)

type moduleState struct {
	campaignsRepo    *repo.CampaignsRepo
	applicationsRepo *repo.ApplicationsRepo
	submissionsRepo  *repo.SubmissionsRepo
	paymentsRepo     *repo.PaymentsRepo
	withdrawalsRepo  *repo.WithdrawalsRepo
	hub              *ws.ActorHub
	notifier         *notify.Fanout
	service          *ledger.Service
	server           *marketplacehttp.Server
}

func ensureModule(deps *Deps) (*moduleState, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if deps.module != nil {
		return deps.module, nil
	}

	campaignsRepo := repo.NewCampaignsRepo(deps.DB, deps.Dialect)
	applicationsRepo := repo.NewApplicationsRepo(deps.DB, deps.Dialect)
	submissionsRepo := repo.NewSubmissionsRepo(deps.DB, deps.Dialect)
	paymentsRepo := repo.NewPaymentsRepo(deps.DB, deps.Dialect)
	withdrawalsRepo := repo.NewWithdrawalsRepo(deps.DB, deps.Dialect)

	hub := ws.NewActorHub(deps.Resolver, deps.Logger)
	sinks := append([]notify.Sink{notify.NewHubSink(hub)}, deps.Sinks...)
	notifier := notify.NewFanout(deps.Logger, sinks...)

	service := ledger.NewService(ledger.Stores{
		Campaigns:    campaignsRepo,
		Applications: applicationsRepo,
		Submissions:  submissionsRepo,
		Payments:     paymentsRepo,
		Withdrawals:  withdrawalsRepo,
	}, deps.Directory, notifier, ledger.Options{MinWithdrawal: deps.Config.MinWithdrawal})

	var guard *idempotency.Guard
	if deps.RDB != nil {
		guard = idempotency.NewGuard(deps.RDB, deps.Config.IdempotencyTTL)
	}

	httpCfg := marketplacehttp.Config{
		RequestTimeout: deps.Config.RequestTimeout,
		MaxPageSize:    deps.Config.MaxPageSize,
		MaxUploadBytes: deps.Config.MaxUploadBytes,
		MaxBodyBytes:   deps.Config.MaxBodyBytes,
	}
	server := marketplacehttp.NewServer(httpCfg, deps.Logger, deps.Resolver, service, deps.Media, hub, guard)

	deps.module = &moduleState{
		campaignsRepo:    campaignsRepo,
		applicationsRepo: applicationsRepo,
		submissionsRepo:  submissionsRepo,
		paymentsRepo:     paymentsRepo,
		withdrawalsRepo:  withdrawalsRepo,
		hub:              hub,
		notifier:         notifier,
		service:          service,
		server:           server,
	}
	return deps.module, nil
}

// RegisterMarketplaceRoutes wires HTTP and WebSocket routes into the provided mux.
func RegisterMarketplaceRoutes(mux *http.ServeMux, deps *Deps) error {
	module, err := ensureModule(deps)
	if err != nil {
		return err
	}
	module.server.Register(mux)
	return nil
}

// Notifier exposes the module's event fan-out so other layers can publish
// through the same hub and sinks.
func Notifier(deps *Deps) (*notify.Fanout, error) {
	module, err := ensureModule(deps)
	if err != nil {
		return nil, err
	}
	return module.notifier, nil
}

// Service exposes the marketplace service for layers that look up campaigns.
func Service(deps *Deps) (*ledger.Service, error) {
	module, err := ensureModule(deps)
	if err != nil {
		return nil, err
	}
	return module.service, nil
}

// StartMarketplaceWorkers schedules the campaign deadline sweep. The scheduler
// stops when ctx is cancelled.
func StartMarketplaceWorkers(ctx context.Context, deps *Deps) error {
	module, err := ensureModule(deps)
	if err != nil {
		return err
	}
	if deps.Config.SweepSchedule == "" || deps.Config.SweepSchedule == "off" {
		deps.Logger.Infof("marketplace: deadline sweep disabled")
		return nil
	}

	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(deps.Config.SweepSchedule, func() { module.sweep(ctx, deps.Logger) }); err != nil {
		return err
	}
	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return nil
}

func (m *moduleState) sweep(ctx context.Context, logger Logger) {
	if ctx.Err() != nil {
		return
	}
	moved, err := m.service.SweepExpiredCampaigns(ctx)
	if err != nil {
		logger.Errorf("marketplace: deadline sweep: %v", err)
	}
	if moved > 0 {
		logger.Infof("marketplace: deadline sweep completed %d campaigns", moved)
	}
}
