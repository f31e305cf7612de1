// Package notify entrega los eventos de negocio a sus destinos (log, Redis pub/sub) fuera del
// camino de la transacción: Notify nunca bloquea y un destino caído no afecta a quien publica.
package notify

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-sedes/internal/application/ports"
)

// Sink destino de eventos.
type Sink interface {
	Name() string
	Publish(ctx context.Context, event ports.Event) error
}

var _ ports.Notifier = (*Dispatcher)(nil)

// Dispatcher cola acotada de eventos con un worker que los entrega a cada Sink.
// Si la cola está llena el evento se descarta y se registra.
type Dispatcher struct {
	queue   chan ports.Event
	sinks   []Sink
	timeout time.Duration
	log     zerolog.Logger
	dropped atomic.Int64
}

// NewDispatcher construye el despachador. buffer <= 0 usa 256; timeout <= 0 usa 5s por entrega.
func NewDispatcher(log zerolog.Logger, buffer int, timeout time.Duration, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		queue:   make(chan ports.Event, buffer),
		sinks:   sinks,
		timeout: timeout,
		log:     log,
	}
}

// Notify encola los eventos sin bloquear.
func (d *Dispatcher) Notify(_ context.Context, events ...ports.Event) {
	for _, ev := range events {
		select {
		case d.queue <- ev:
		default:
			d.dropped.Add(1)
			d.log.Warn().Str("event", string(ev.Type)).Msg("cola de notificaciones llena, evento descartado")
		}
	}
}

// Dropped devuelve cuántos eventos se descartaron por cola llena.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Run entrega eventos hasta que ctx se cancela; al cancelarse vacía lo que quede en cola.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case ev := <-d.queue:
			d.deliver(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-d.queue:
					d.deliver(ev)
				default:
					return nil
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(ev ports.Event) {
	for _, s := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := s.Publish(ctx, ev); err != nil {
			d.log.Error().Err(err).Str("sink", s.Name()).Str("event", string(ev.Type)).Msg("no se pudo entregar notificación")
		}
		cancel()
	}
}
