package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tresetapas/internal/metrics"
	"tresetapas/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueRecibo = "jobs:recibo"
	QueueEmail  = "jobs:email"

	// MaxAttempts is how many times a job runs before it goes to the DLQ.
	MaxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes the payload of one job. A returned error schedules a
// retry.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// WorkerHandlers maps each queue to its handler; wired in cmd/server.
type WorkerHandlers struct {
	Recibo Handler
	Email  Handler
}

func (h *WorkerHandlers) forQueue(queue string) Handler {
	switch queue {
	case QueueRecibo:
		return h.Recibo
	case QueueEmail:
		return h.Email
	}
	return nil
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb        *redis.Client
	staffEmail string
}

func NewDispatcher(rdb *redis.Client, staffEmail string) *Dispatcher {
	return &Dispatcher{rdb: rdb, staffEmail: staffEmail}
}

// EnqueueRecibo asks for the PDF receipt of an order.
func (d *Dispatcher) EnqueueRecibo(ctx context.Context, payload ReciboJobPayload) error {
	return d.enqueue(ctx, QueueRecibo, Job{Type: "recibo"}, payload)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, Job{Type: "email"}, payload)
}

// NotificarPedido queues the customer receipt (when an email was given) and a
// notice to the staff inbox.
func (d *Dispatcher) NotificarPedido(ctx context.Context, p *model.Pedido) error {
	if err := d.EnqueueRecibo(ctx, ReciboJobPayload{PedidoID: p.ID.String(), ToEmail: deref(p.ClienteEmail)}); err != nil {
		return err
	}
	if d.staffEmail == "" {
		return nil
	}
	return d.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: d.staffEmail,
		Subject: fmt.Sprintf("Nuevo pedido %s (%s)", p.Codigo, p.Origen),
		Body: fmt.Sprintf("Pedido %s por $%s, %d unidades, pago %s.",
			p.Codigo, p.Total.StringFixed(0), p.CantidadItems(), p.MetodoPago),
	})
}

// NotificarConsulta tells the staff inbox about a new advisory request.
func (d *Dispatcher) NotificarConsulta(ctx context.Context, c *model.Consulta) error {
	if d.staffEmail == "" {
		return nil
	}
	body := fmt.Sprintf("%s (%s, %s) solicita una asesoría.", c.Nombre, c.Email, c.Telefono)
	if c.Diagnostico != nil {
		body += "\n\n" + *c.Diagnostico
	}
	return d.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: d.staffEmail,
		Subject: "Nueva consulta de " + c.Nombre,
		Body:    body,
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue string, job Job, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job.Payload = data
	return push(ctx, d.rdb, queue, job)
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueRecibo, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil || len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h := handlers.forQueue(queue)
	if h == nil {
		log.Error().Str("queue", queue).Msg("no handler for queue")
		return
	}

	err := h.Process(ctx, job.Payload)
	if err == nil {
		metrics.JobsProcesados.WithLabelValues(queue, "ok").Inc()
		return
	}

	job.Attempts++
	if job.Attempts >= MaxAttempts {
		metrics.JobsProcesados.WithLabelValues(queue, "dlq").Inc()
		SendToDLQ(ctx, rdb, queue, job, err.Error())
		return
	}
	metrics.JobsProcesados.WithLabelValues(queue, "retry").Inc()
	log.Warn().Err(err).Str("queue", queue).Int("attempts", job.Attempts).Msg("job failed, requeued")
	if pushErr := push(ctx, rdb, queue, job); pushErr != nil {
		log.Error().Err(pushErr).Str("queue", queue).Msg("requeue failed")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
