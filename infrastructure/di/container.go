// Package di wires the application's dependencies into a single container.
package di

import (
	"context"
	"fmt"

	"lovelog-backend/domain"
	"lovelog-backend/infrastructure/config"
	"lovelog-backend/infrastructure/persistence"
	"lovelog-backend/infrastructure/persistence/dynamodb"
	"lovelog-backend/infrastructure/persistence/memory"
	"lovelog-backend/pkg/auth"
	"lovelog-backend/pkg/observability"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// usersCollection backs account storage. It is not one of the journal kinds
// and has no CRUD routes; only the auth handlers touch it.
const usersCollection = "users"

// Container holds all application dependencies.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Adapter  *dynamodb.Adapter
	Gateways map[domain.Kind]*persistence.Gateway
	Users    *persistence.Gateway
	Tokens   *auth.Service
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
}

// InitializeContainer builds the full dependency graph. The durable store
// connection is attempted exactly once here; failure leaves every gateway
// serving from its record store.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	adapter := dynamodb.NewAdapter(cfg.DynamoDBTable, cfg.AWSRegion, cfg.DynamoDBEndpoint, logger)
	adapter.Connect(ctx)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	newGateway := func(collection string) *persistence.Gateway {
		var durable persistence.Store
		if adapter.IsConnected() {
			durable = dynamodb.NewCollectionStore(adapter, collection, logger)
		}
		return persistence.NewGateway(
			collection,
			durable,
			memory.NewRecordStore(collection),
			adapter,
			metrics,
			logger,
		)
	}

	gateways := make(map[domain.Kind]*persistence.Gateway, len(domain.Kinds))
	for _, kind := range domain.Kinds {
		gateways[kind] = newGateway(kind.String())
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "development-secret-change-in-production"
	}

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Adapter:  adapter,
		Gateways: gateways,
		Users:    newGateway(usersCollection),
		Tokens:   auth.NewService(secret, cfg.JWTIssuer, cfg.TokenTTL),
		Metrics:  metrics,
		Registry: registry,
	}, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zcfg.Level = level
	}
	return zcfg.Build()
}
