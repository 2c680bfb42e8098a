// Package dynamodb implements the durable document store on AWS DynamoDB.
// All journal collections share one table and one connection lifecycle.
package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// Adapter owns the DynamoDB connection and its status. Connect is attempted
// once at startup; on failure the process stays in memory-only mode for its
// whole lifetime. There is no reconnection loop; an ops-level supervisor
// restarts the process to retry.
type Adapter struct {
	client    *awsdynamodb.Client
	tableName string
	region    string
	endpoint  string
	connected bool
	logger    *zap.Logger
}

// NewAdapter creates an adapter for the given table. No connection is made
// until Connect is called.
func NewAdapter(tableName, region, endpoint string, logger *zap.Logger) *Adapter {
	return &Adapter{
		tableName: tableName,
		region:    region,
		endpoint:  endpoint,
		logger:    logger,
	}
}

// Connect attempts the single startup connection. Failures are logged and
// recorded, never returned: the server keeps running degraded.
func (a *Adapter) Connect(ctx context.Context) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(a.region))
	if err != nil {
		a.logger.Warn("Database connection failed, running in memory-only mode", zap.Error(err))
		return
	}

	a.client = awsdynamodb.NewFromConfig(cfg, func(o *awsdynamodb.Options) {
		if a.endpoint != "" {
			o.BaseEndpoint = aws.String(a.endpoint)
		}
	})

	// Probe the table so a bad endpoint or missing table degrades at startup
	// instead of on the first user request.
	_, err = a.client.DescribeTable(ctx, &awsdynamodb.DescribeTableInput{
		TableName: aws.String(a.tableName),
	})
	if err != nil {
		a.logger.Warn("Database connection failed, running in memory-only mode",
			zap.String("table", a.tableName),
			zap.Error(err),
		)
		a.client = nil
		return
	}

	a.connected = true
	a.logger.Info("Database connected", zap.String("table", a.tableName))
}

// IsConnected reports whether the startup connection succeeded.
func (a *Adapter) IsConnected() bool {
	return a.connected
}

// Client returns the raw DynamoDB client, nil when disconnected.
func (a *Adapter) Client() *awsdynamodb.Client {
	return a.client
}

// TableName returns the shared journal table name.
func (a *Adapter) TableName() string {
	return a.tableName
}
