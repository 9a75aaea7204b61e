package marketplace

import (
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"collabBack/internal/identity"
	marketplacehttp "collabBack/internal/marketplace/http"
	"collabBack/internal/marketplace/ledger"
	"collabBack/internal/marketplace/notify"
	"collabBack/internal/marketplace/repo"
)

// Logger is the minimal logging interface required by the marketplace module.
type Logger interface {
	Infof(string, ...interface{})
	Errorf(string, ...interface{})
}

// Deps aggregates runtime dependencies for the marketplace module.
type Deps struct {
	DB        *sql.DB
	Dialect   repo.Dialect
	RDB       *redis.Client
	Logger    Logger
	Config    Config
	Resolver  identity.Resolver
	Directory ledger.Directory
	Media     marketplacehttp.MediaStore
	// Sinks receive every lifecycle event in addition to the websocket hub.
	Sinks []notify.Sink

	module *moduleState
}

// Validate ensures that the deps struct contains the essentials before bootstrapping services.
func (d *Deps) Validate() error {
	if d == nil {
		return fmt.Errorf("marketplace deps are nil")
	}
	if d.DB == nil {
		return fmt.Errorf("marketplace deps DB is required")
	}
	if d.Logger == nil {
		return fmt.Errorf("marketplace deps Logger is required")
	}
	if d.Resolver == nil {
		return fmt.Errorf("marketplace deps Resolver is required")
	}
	return nil
}
