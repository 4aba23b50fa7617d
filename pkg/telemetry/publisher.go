package telemetry

import (
	"context"
	"encoding/json"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/photonmill/engrave.go/pkg/firmware"
)

// DeviceID retrieves the unique ID identifying the machine.
func DeviceID() string {
	id, err := machineid.ID()
	if err != nil {
		panic(err)
	}
	return id
}

// Meta describes the device on the retained meta topic.
type Meta struct {
	Model    string `json:"model"`
	MaxX     int64  `json:"max_steps_x"`
	MaxY     int64  `json:"max_steps_y"`
	BaudRate int    `json:"baud_rate"`
}

// Publisher forwards device state snapshots to the broker. It
// implements firmware.StateNotifier on the dispatch side and
// framework.Runnable on the broker side; the two meet over a buffered
// channel so the dispatch task never blocks on the network.
type Publisher struct {
	queue    *Queue
	deviceID string
	ch       chan firmware.Snapshot
}

// NewPublisher creates a publisher for one device.
func NewPublisher(queue *Queue, deviceID string) *Publisher {
	return &Publisher{
		queue:    queue,
		deviceID: deviceID,
		ch:       make(chan firmware.Snapshot, 16),
	}
}

// StateChanged implements firmware.StateNotifier. Snapshots are
// dropped rather than delaying dispatch when the publisher lags.
func (p *Publisher) StateChanged(_ context.Context, s firmware.Snapshot) {
	select {
	case p.ch <- s:
	default:
		glog.V(1).Info("telemetry: snapshot dropped")
	}
}

// Run implements framework.Runnable. It announces the device on the
// retained meta topic, then publishes snapshots until the context is
// canceled.
func (p *Publisher) Run(ctx context.Context) error {
	if err := p.queue.Connect(); err != nil {
		return err
	}
	defer p.queue.Close()

	meta, err := json.Marshal(Meta{
		Model:    "hpgl-laser-engraver",
		MaxX:     firmware.MaxStepsX,
		MaxY:     firmware.MaxStepsY,
		BaudRate: firmware.BaudRate,
	})
	if err != nil {
		return err
	}
	p.queue.Pub(p.deviceID+"/meta", meta, true)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-p.ch:
			payload, err := json.Marshal(s)
			if err != nil {
				return err
			}
			p.queue.Pub(p.deviceID+"/status", payload, true)
		}
	}
}
