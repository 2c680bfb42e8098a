package persistence

import (
	"context"
	"errors"
	"sort"
	"time"

	"lovelog-backend/pkg/observability"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ConnectionStatus reports whether the durable store's startup connection
// succeeded. Injected rather than read from ambient state so the gateway is
// the only place that branches on it.
type ConnectionStatus interface {
	IsConnected() bool
}

// SortPolicy orders a listed collection by one field. Field values are ISO
// date or RFC3339 strings, so lexicographic comparison is chronological.
type SortPolicy struct {
	Field      string
	Descending bool
}

// DefaultSortPolicies gives each collection its listing order: feed-like
// collections newest-first by creation time, anniversaries by their semantic
// date ascending, moods by day descending.
var DefaultSortPolicies = map[string]SortPolicy{
	"memories":      {Field: "createdAt", Descending: true},
	"anniversaries": {Field: "date", Descending: false},
	"messages":      {Field: "createdAt", Descending: true},
	"wishes":        {Field: "createdAt", Descending: true},
	"moods":         {Field: "date", Descending: true},
}

// Gateway serves one collection, attempting the durable store and
// transparently substituting the in-memory record store on connection
// failure or any durable-store error. The availability-over-consistency
// tradeoff is deliberate: a write that lands in the memory store is lost on
// restart, and records never migrate between backends.
type Gateway struct {
	collection string
	durable    Store
	fallback   Store
	status     ConnectionStatus
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *zap.Logger
	sortPolicy SortPolicy
}

// NewGateway wires a gateway for the named collection. durable may be nil
// when the adapter never connected; every operation then goes straight to
// the fallback store.
func NewGateway(
	collection string,
	durable Store,
	fallback Store,
	status ConnectionStatus,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Gateway {
	policy, ok := DefaultSortPolicies[collection]
	if !ok {
		policy = SortPolicy{Field: "createdAt", Descending: true}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "durable-" + collection,
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.8
		},
		IsSuccessful: func(err error) bool {
			// Not-found is a legitimate outcome, not a backend failure.
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Gateway{
		collection: collection,
		durable:    durable,
		fallback:   fallback,
		status:     status,
		breaker:    breaker,
		metrics:    metrics,
		logger:     logger,
		sortPolicy: policy,
	}
}

// Collection returns the collection this gateway serves.
func (g *Gateway) Collection() string { return g.collection }

// DurableAvailable reports whether the durable store is configured and its
// startup connection succeeded.
func (g *Gateway) DurableAvailable() bool {
	return g.durable != nil && g.status.IsConnected()
}

// List returns all records ordered by the collection's sort policy.
func (g *Gateway) List(ctx context.Context) ([]Record, error) {
	res, err := g.execute(ctx, "list", func(s Store) (interface{}, error) {
		return s.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	records := res.([]Record)
	SortRecords(records, g.sortPolicy)
	return records, nil
}

// Create persists a new record on whichever backend is serving.
func (g *Gateway) Create(ctx context.Context, data Record) (Record, error) {
	res, err := g.execute(ctx, "create", func(s Store) (interface{}, error) {
		return s.Create(ctx, data)
	})
	if err != nil {
		return nil, err
	}
	return res.(Record), nil
}

// Update merges data over the record with the given id. ErrNotFound passes
// through from either backend without triggering fallback.
func (g *Gateway) Update(ctx context.Context, id string, data Record) (Record, error) {
	res, err := g.execute(ctx, "update", func(s Store) (interface{}, error) {
		return s.Update(ctx, id, data)
	})
	if err != nil {
		return nil, err
	}
	return res.(Record), nil
}

// Delete removes the record with the given id.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	_, err := g.execute(ctx, "delete", func(s Store) (interface{}, error) {
		return nil, s.Delete(ctx, id)
	})
	return err
}

// Clear empties the collection on the serving backend.
func (g *Gateway) Clear(ctx context.Context) error {
	_, err := g.execute(ctx, "clear", func(s Store) (interface{}, error) {
		return nil, s.Clear(ctx)
	})
	return err
}

// execute runs op against the durable store when it is available, falling
// back to the record store on any failure other than not-found. An open
// circuit breaker counts as a failure and routes to the fallback without
// waiting on the SDK.
func (g *Gateway) execute(ctx context.Context, op string, fn func(Store) (interface{}, error)) (interface{}, error) {
	if g.durable != nil && g.status.IsConnected() {
		res, err := g.breaker.Execute(func() (interface{}, error) {
			return fn(g.durable)
		})
		if err == nil || errors.Is(err, ErrNotFound) {
			g.metrics.Operations.WithLabelValues(g.collection, "durable", op).Inc()
			return res, err
		}
		g.logger.Warn("Durable store operation failed, using memory store",
			zap.String("collection", g.collection),
			zap.String("operation", op),
			zap.Error(err),
		)
		g.metrics.Fallbacks.WithLabelValues(g.collection, op).Inc()
	}

	res, err := fn(g.fallback)
	g.metrics.Operations.WithLabelValues(g.collection, "memory", op).Inc()
	return res, err
}

// SortRecords orders records by the policy's field. Missing fields sort
// last; ties keep the underlying store's stable order.
func SortRecords(records []Record, policy SortPolicy) {
	sort.SliceStable(records, func(i, j int) bool {
		a, aok := records[i][policy.Field].(string)
		b, bok := records[j][policy.Field].(string)
		if !aok || !bok {
			return aok && !bok
		}
		if policy.Descending {
			return a > b
		}
		return a < b
	})
}
