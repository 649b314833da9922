package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tresetapas/internal/infra"
	"tresetapas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReciboJobPayload asks for the receipt of one order.
type ReciboJobPayload struct {
	PedidoID string `json:"pedido_id"`
	ToEmail  string `json:"to_email,omitempty"`
}

// ReciboWorker renders order receipts to disk and, when the customer left an
// email, queues it as an attachment.
type ReciboWorker struct {
	pedidos     repository.PedidoRepository
	dispatcher  *Dispatcher
	storagePath string
	tienda      string
}

func NewReciboWorker(pedidos repository.PedidoRepository, dispatcher *Dispatcher, storagePath, tienda string) *ReciboWorker {
	return &ReciboWorker{pedidos: pedidos, dispatcher: dispatcher, storagePath: storagePath, tienda: tienda}
}

func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return nil
	}
	id, err := uuid.Parse(payload.PedidoID)
	if err != nil {
		log.Error().Str("pedido_id", payload.PedidoID).Msg("recibo_worker: invalid pedido_id")
		return nil
	}

	pedido, err := w.pedidos.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Str("pedido_id", payload.PedidoID).Msg("recibo_worker: pedido not found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("recibo_worker: load pedido: %w", err)
	}

	path, err := infra.GuardarReciboPDF(pedido, w.tienda, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("codigo", pedido.Codigo).Str("path", path).Msg("recibo_worker: receipt generated")

	if payload.ToEmail == "" {
		return nil
	}
	return w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: payload.ToEmail,
		Subject: fmt.Sprintf("%s - Pedido %s", w.tienda, pedido.Codigo),
		Body: fmt.Sprintf("Gracias por tu compra. Tu código de pedido es %s.\nTotal: $%s",
			pedido.Codigo, pedido.Total.StringFixed(0)),
		PDFPath: path,
	})
}
