// Package worker consumes queued analysis jobs and runs the PDF scorer
// outside the request path.
package worker

import (
	"context"
	"encoding/json"

	"github.com/neuroexam/clinic-api/internal/model"
	"github.com/neuroexam/clinic-api/internal/service/analise"
	"github.com/neuroexam/clinic-api/pkg/logger"
	"github.com/neuroexam/clinic-api/pkg/messaging"
)

type AnaliseWorker struct {
	svc     *analise.Service
	broker  messaging.Broker
	channel string
	logger  *logger.Logger
}

func NewAnaliseWorker(svc *analise.Service, broker messaging.Broker, channel string, log *logger.Logger) *AnaliseWorker {
	return &AnaliseWorker{
		svc:     svc,
		broker:  broker,
		channel: channel,
		logger:  log.WithFields(map[string]interface{}{"component": "analise-worker"}),
	}
}

// Run subscribes to the analysis channel and processes jobs until the
// context is cancelled.
func (w *AnaliseWorker) Run(ctx context.Context) error {
	messages, err := w.broker.Subscribe(ctx, w.channel)
	if err != nil {
		return err
	}
	w.logger.Info("analise worker started", "channel", w.channel)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("analise worker stopping")
			return ctx.Err()
		case payload, ok := <-messages:
			if !ok {
				w.logger.Info("analise channel closed")
				return nil
			}
			w.handle(ctx, payload)
		}
	}
}

func (w *AnaliseWorker) handle(ctx context.Context, payload []byte) {
	var job model.AnaliseJob
	if err := json.Unmarshal(payload, &job); err != nil {
		w.logger.Error(err, "failed to decode analise job")
		return
	}

	// a failed job is already marked erro by the service; retrying here
	// would only see a record no longer in processando
	if err := w.svc.Processar(ctx, &job); err != nil {
		w.logger.Error(err, "failed to process analise job", "analise_id", job.AnaliseID)
	}
}
