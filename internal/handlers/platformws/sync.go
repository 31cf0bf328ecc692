// Package platformws mirrors the adjudicator's event stream to an external
// platform over a websocket, and feeds the platform's state corrections
// back through the night service.
package platformws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ravenshollow/grimoire/internal/models"
	"github.com/ravenshollow/grimoire/internal/services/night"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// correction is an inbound frame asking the adjudicator to reconcile a
// state change made on the platform side
type correction struct {
	GameID   string               `json:"game_id"`
	Kind     night.CorrectionKind `json:"kind"`
	PlayerID string               `json:"player_id"`
	Status   models.StatusFlag    `json:"status,omitempty"`
	Active   bool                 `json:"active,omitempty"`
	Source   string               `json:"source,omitempty"`
	Rule     string               `json:"rule,omitempty"`
}

// ack is the reply to a correction frame
type ack struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Desync   bool   `json:"desync,omitempty"`
}

// Sync is the websocket platform-sync collaborator
type Sync struct {
	conn    *websocket.Conn
	service night.Service
	logger  *zap.Logger

	writeMu sync.Mutex
	done    chan struct{}
}

// Config holds the configuration for the platform sync
type Config struct {
	// URL of the platform websocket endpoint
	URL string

	// Service receives inbound corrections
	Service night.Service

	Logger *zap.Logger
}

// New dials the platform and starts the read and ping loops
func New(ctx context.Context, cfg *Config) (*Sync, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.URL == "" {
		return nil, errors.New("url cannot be empty")
	}
	if cfg.Service == nil {
		return nil, errors.New("night service cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial platform at %s: %w", cfg.URL, err)
	}

	s := &Sync{
		conn:    conn,
		service: cfg.Service,
		logger:  cfg.Logger,
		done:    make(chan struct{}),
	}
	go s.readPump()
	go s.pingLoop()
	return s, nil
}

var _ night.PlatformSync = (*Sync)(nil)

// Publish pushes one event of the normalized stream to the platform
func (s *Sync) Publish(ctx context.Context, event *night.SyncEvent) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := s.conn.WriteJSON(event); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Event.ID, err)
	}
	return nil
}

// Close shuts the connection down and stops the pumps
func (s *Sync) Close() error {
	close(s.done)
	return s.conn.Close()
}

// readPump receives correction frames and replays them through the night
// service. A contradiction comes back as a desync ack; the connection
// stays up.
func (s *Sync) readPump() {
	defer s.conn.Close()
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("platform connection lost", zap.Error(err))
			}
			return
		}

		var c correction
		if err := json.Unmarshal(message, &c); err != nil {
			s.logger.Warn("unparseable correction frame", zap.Error(err))
			continue
		}
		s.handleCorrection(&c)
	}
}

func (s *Sync) handleCorrection(c *correction) {
	err := s.service.ApplyCorrection(context.Background(), &night.ApplyCorrectionInput{
		GameID:   c.GameID,
		Kind:     c.Kind,
		PlayerID: c.PlayerID,
		Status:   c.Status,
		Active:   c.Active,
		Source:   c.Source,
		Rule:     c.Rule,
	})

	reply := ack{GameID: c.GameID, PlayerID: c.PlayerID, OK: err == nil}
	if err != nil {
		reply.Error = err.Error()
		reply.Desync = errors.Is(err, night.ErrDesync)
		s.logger.Warn("correction rejected",
			zap.String("game_id", c.GameID),
			zap.String("player_id", c.PlayerID),
			zap.String("kind", string(c.Kind)),
			zap.Error(err),
		)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}
	if err := s.conn.WriteJSON(reply); err != nil {
		s.logger.Warn("failed to send correction ack", zap.Error(err))
	}
}

// pingLoop keeps the connection alive
func (s *Sync) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
