//go:build integration

package worker

// Runs against a real Redis from testcontainers:
//   go test -tags integration ./internal/worker/...

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"tresetapas/internal/infra"
	"tresetapas/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	c, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	url, err := c.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

// handlerFunc adapts a function to Handler.
type handlerFunc func(ctx context.Context, raw json.RawMessage) error

func (f handlerFunc) Process(ctx context.Context, raw json.RawMessage) error { return f(ctx, raw) }

func TestDispatcher_NotificarPedido(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	d := NewDispatcher(rdb, "ventas@tresetapas.co")

	email := "cliente@example.com"
	p := &model.Pedido{ID: uuid.New(), Codigo: "K3J9Q", Origen: model.OrigenWeb, Total: decimal.NewFromInt(1000), ClienteEmail: &email}
	require.NoError(t, d.NotificarPedido(ctx, p))

	raw, err := rdb.RPop(ctx, QueueRecibo).Result()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	var payload ReciboJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, p.ID.String(), payload.PedidoID)
	assert.Equal(t, email, payload.ToEmail)

	n, err := rdb.LLen(ctx, QueueEmail).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestProcessJob_ReintentaYTerminaEnDLQ(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	var llamadas int32
	handlers := &WorkerHandlers{Email: handlerFunc(func(context.Context, json.RawMessage) error {
		atomic.AddInt32(&llamadas, 1)
		return errors.New("smtp caído")
	})}

	require.NoError(t, NewDispatcher(rdb, "").EnqueueEmail(ctx, EmailJobPayload{ToEmail: "x@example.com"}))
	for i := 0; i < MaxAttempts; i++ {
		raw, err := rdb.RPop(ctx, QueueEmail).Result()
		require.NoError(t, err, "attempt %d", i+1)
		processJob(ctx, rdb, handlers, QueueEmail, raw)
	}

	assert.Equal(t, int32(MaxAttempts), atomic.LoadInt32(&llamadas))
	pendientes, err := rdb.LLen(ctx, QueueEmail).Result()
	require.NoError(t, err)
	assert.Zero(t, pendientes)

	dlq, err := DLQLengths(ctx, rdb)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dlq[QueueEmail])
	assert.Zero(t, dlq[QueueRecibo])
}

func TestStartWorkerPool_ConsumeCola(t *testing.T) {
	rdb := newRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hecho := make(chan string, 1)
	handlers := &WorkerHandlers{Email: handlerFunc(func(_ context.Context, raw json.RawMessage) error {
		var p EmailJobPayload
		_ = json.Unmarshal(raw, &p)
		hecho <- p.Subject
		return nil
	})}
	StartWorkerPool(ctx, rdb, handlers, 2)

	require.NoError(t, NewDispatcher(rdb, "").EnqueueEmail(ctx, EmailJobPayload{ToEmail: "a@b.co", Subject: "hola"}))
	select {
	case s := <-hecho:
		assert.Equal(t, "hola", s)
	case <-time.After(10 * time.Second):
		t.Fatal("job not consumed")
	}
}
