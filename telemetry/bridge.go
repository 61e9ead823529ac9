package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/autovolume"
	"github.com/opd-ai/autovolume/volume"
)

// writeTimeout bounds each outgoing frame so a stalled gateway cannot
// wedge the bridge silently.
const writeTimeout = 2 * time.Second

// SnapshotFrame is one telemetry reading received from the gateway.
// Mode and Control carry the names accepted by volume.ParseMode and
// volume.ParseControlType.
type SnapshotFrame struct {
	Speed        int    `json:"speed"`
	Noise        int    `json:"noise"`
	Reverse      bool   `json:"reverse"`
	Horn         bool   `json:"horn"`
	Nav          bool   `json:"nav"`
	Mode         string `json:"mode"`
	Control      string `json:"control"`
	ManualVolume int    `json:"manual_volume"`
}

// StateFrame reports the controller state after a snapshot settled.
type StateFrame struct {
	Type          string  `json:"type"`
	TargetVolume  float64 `json:"target_volume"`
	CurrentVolume float64 `json:"current_volume"`
	Mode          string  `json:"mode"`
	Control       string  `json:"control"`
}

// EventFrame reports one named event produced by a snapshot. Volume is
// only meaningful for volume-step and target-reached events.
type EventFrame struct {
	Type   string  `json:"type"`
	Name   string  `json:"name"`
	Volume float64 `json:"volume,omitempty"`
}

// ErrorFrame reports a rejected snapshot (unknown mode or control name).
// The connection stays open; the controller keeps its previous state.
type ErrorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Bridge serves the volume controller to a telemetry gateway.
//
// The bridge owns the controller's event callback: events raised while a
// snapshot is processed are buffered and flushed to the client after the
// state frame. One gateway connection is serviced at a time, matching
// the single-cabin model; a second connection is refused.
type Bridge struct {
	control  *autovolume.VolumeControl
	upgrader websocket.Upgrader

	// Pending events for the snapshot being processed. Safe without its
	// own lock: frames are handled strictly sequentially per connection
	// and connections are serialized by busy.
	pending []volume.Event

	busy chan struct{}
}

// NewBridge creates a bridge around the given controller and takes over
// its event callback.
func NewBridge(control *autovolume.VolumeControl) *Bridge {
	b := &Bridge{
		control: control,
		busy:    make(chan struct{}, 1),
	}
	control.OnEvent(func(ev volume.Event) {
		b.pending = append(b.pending, ev)
	})

	logrus.WithFields(logrus.Fields{
		"function": "NewBridge",
	}).Info("Telemetry bridge created")

	return b
}

// ServeHTTP upgrades the request to a WebSocket connection and services
// snapshot frames until the gateway disconnects.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case b.busy <- struct{}{}:
		defer func() { <-b.busy }()
	default:
		logrus.WithFields(logrus.Fields{
			"function": "Bridge.ServeHTTP",
			"remote":   r.RemoteAddr,
		}).Warn("Refusing second gateway connection")
		http.Error(w, "gateway already connected", http.StatusConflict)
		return
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Bridge.ServeHTTP",
			"remote":   r.RemoteAddr,
			"error":    err.Error(),
		}).Error("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	logrus.WithFields(logrus.Fields{
		"function": "Bridge.ServeHTTP",
		"remote":   r.RemoteAddr,
	}).Info("Telemetry gateway connected")

	for {
		var frame SnapshotFrame
		if err := conn.ReadJSON(&frame); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Bridge.ServeHTTP",
				"remote":   r.RemoteAddr,
				"error":    err.Error(),
			}).Info("Telemetry gateway disconnected")
			return
		}

		if err := b.handleSnapshot(conn, frame); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Bridge.ServeHTTP",
				"remote":   r.RemoteAddr,
				"error":    err.Error(),
			}).Error("Failed to answer telemetry snapshot")
			return
		}
	}
}

// handleSnapshot applies one snapshot to the controller and writes the
// state frame plus buffered event frames back to the gateway.
func (b *Bridge) handleSnapshot(conn *websocket.Conn, frame SnapshotFrame) error {
	in, err := frame.snapshot()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Bridge.handleSnapshot",
			"mode":     frame.Mode,
			"control":  frame.Control,
			"error":    err.Error(),
		}).Warn("Rejecting malformed telemetry snapshot")
		return b.writeJSON(conn, ErrorFrame{Type: "error", Error: err.Error()})
	}

	b.pending = b.pending[:0]
	b.control.Update(in)
	b.control.Settle()
	events := b.pending

	st := b.control.State()
	if err := b.writeJSON(conn, StateFrame{
		Type:          "state",
		TargetVolume:  st.TargetVolume,
		CurrentVolume: st.CurrentVolume,
		Mode:          st.Mode.String(),
		Control:       st.Control.String(),
	}); err != nil {
		return err
	}

	for _, ev := range events {
		if err := b.writeJSON(conn, EventFrame{
			Type:   "event",
			Name:   ev.Type.String(),
			Volume: ev.Volume,
		}); err != nil {
			return err
		}
	}

	return nil
}

// writeJSON sends one frame with the write deadline applied.
func (b *Bridge) writeJSON(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	return conn.WriteJSON(v)
}

// snapshot converts the wire frame into an engine snapshot.
func (f SnapshotFrame) snapshot() (volume.InputSnapshot, error) {
	mode, err := volume.ParseMode(f.Mode)
	if err != nil {
		return volume.InputSnapshot{}, err
	}
	control, err := volume.ParseControlType(f.Control)
	if err != nil {
		return volume.InputSnapshot{}, err
	}
	return volume.InputSnapshot{
		Speed:        f.Speed,
		CabinNoise:   f.Noise,
		ReverseGear:  f.Reverse,
		HornActive:   f.Horn,
		NavSpeaking:  f.Nav,
		Mode:         mode,
		Control:      control,
		ManualVolume: f.ManualVolume,
	}, nil
}

// Start serves the bridge endpoint at /telemetry on the given address.
// It blocks until the server fails.
func (b *Bridge) Start(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/telemetry", b)

	logrus.WithFields(logrus.Fields{
		"function": "Bridge.Start",
		"addr":     addr,
	}).Info("Telemetry bridge listening")

	return http.ListenAndServe(addr, mux)
}
