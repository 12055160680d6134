package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"sandyadmin/internal/model"
	"sandyadmin/internal/relay"
)

const (
	// DefaultBatchSize is the number of messages to read per batch.
	DefaultBatchSize = 10

	// DefaultBlockTimeout is how long a read blocks waiting for messages.
	DefaultBlockTimeout = 5 * time.Second
)

// Dispatcher consumes the push relay and funnels deliveries into the
// gateway. One goroutine is enough: inbound pushes for a single device are
// low-volume and ordering matters more than throughput.
type Dispatcher struct {
	consumer relay.Consumer
	gateway  *Gateway

	// appState reports the process foreground/background status at the
	// moment a message is handled. Injected so the dispatcher carries no
	// hidden global state.
	appState func() model.AppState

	consumerName string
	batchSize    int64
	blockTime    time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewDispatcher(consumer relay.Consumer, gateway *Gateway, appState func() model.AppState) *Dispatcher {
	return &Dispatcher{
		consumer:     consumer,
		gateway:      gateway,
		appState:     appState,
		consumerName: "device-main",
		batchSize:    DefaultBatchSize,
		blockTime:    DefaultBlockTimeout,
	}
}

// Start drains cold-start deliveries, then begins consuming new messages.
// Call Stop to shut down.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.ctx, d.cancel = context.WithCancel(ctx)

	if err := d.consumer.EnsureGroup(d.ctx); err != nil {
		return err
	}

	d.drainInitial()

	d.wg.Add(1)
	go d.run()

	log.Printf("[Dispatcher] Started (consumer=%s)", d.consumerName)
	return nil
}

// Stop shuts the consume loop down and blocks until it has finished.
func (d *Dispatcher) Stop() {
	d.cancel()
	d.wg.Wait()
	log.Printf("[Dispatcher] Stopped")
}

// drainInitial recovers messages delivered while the process was not
// running. The message that launched the process counts as tapped: its data
// drives the tap navigation, exactly like an initial-notification lookup.
func (d *Dispatcher) drainInitial() {
	for {
		deliveries, err := d.consumer.ReadInitial(d.ctx, d.consumerName, d.batchSize)
		if err != nil {
			log.Printf("[Dispatcher] Initial read failed: %v", err)
			return
		}
		if len(deliveries) == 0 {
			return
		}

		log.Printf("[Dispatcher] Recovered %d cold-start deliveries", len(deliveries))
		for _, delivery := range deliveries {
			d.gateway.HandleMessage(d.ctx, model.OriginColdStart, d.appState(), delivery.Message)
			d.gateway.HandleTap(d.ctx, delivery.Message.Data)
			d.ack(delivery.ID)
		}
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return
		default:
		}

		deliveries, err := d.consumer.Read(d.ctx, d.consumerName, d.batchSize, d.blockTime)
		if err != nil {
			if d.ctx.Err() != nil {
				return
			}
			log.Printf("[Dispatcher] Read failed: %v", err)
			time.Sleep(time.Second) // back off on error
			continue
		}

		for _, delivery := range deliveries {
			state := d.appState()
			origin := model.OriginForeground
			if state != model.AppStateActive {
				origin = model.OriginBackground
			}

			d.gateway.HandleMessage(d.ctx, origin, state, delivery.Message)
			d.ack(delivery.ID)
		}
	}
}

func (d *Dispatcher) ack(id string) {
	if err := d.consumer.Ack(d.ctx, id); err != nil {
		log.Printf("[Dispatcher] Ack failed id=%s: %v", id, err)
	}
}
