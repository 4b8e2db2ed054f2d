// Package services: services/prediction_service.go
package services

import (
	"context"
	"sync"
	"time"

	"league-predictor/logger"
	"league-predictor/models"
)

// PredictionServiceInterface is what controllers and the websocket layer need.
type PredictionServiceInterface interface {
	GetWidget(widgetID string) *Widget
	ClearWidget(widgetID string)
	ActiveWidgets() int
	League() *models.League
}

// PredictionService keeps one Widget per widget id (one per browser session).
type PredictionService struct {
	mu        sync.Mutex
	league    *models.League
	widgets   map[string]*Widget
	listeners []Listener
	boardOpts []BoardOption
	inUse     func(widgetID string) bool
}

// NewPredictionService creates an empty registry. Every board it mounts gets listeners
// subscribed, in order.
func NewPredictionService(league *models.League, listeners ...Listener) *PredictionService {
	return &PredictionService{
		league:    league,
		widgets:   make(map[string]*Widget),
		listeners: listeners,
	}
}

// WithBoardOptions sets options applied to every board mounted afterwards.
func (s *PredictionService) WithBoardOptions(opts ...BoardOption) *PredictionService {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boardOpts = opts
	return s
}

// SetInUse registers a check ReapIdle consults before dropping a widget. Widgets it
// reports as in use are kept however long they have been idle.
func (s *PredictionService) SetInUse(fn func(widgetID string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inUse = fn
}

// League returns the league every widget is built from.
func (s *PredictionService) League() *models.League {
	return s.league
}

// GetWidget returns the widget for widgetID, mounting a fresh one if none exists.
func (s *PredictionService) GetWidget(widgetID string) *Widget {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.widgets[widgetID]; ok {
		logger.Debug.Printf("[GetWidget] Retrieved existing widget=%s", widgetID)
		return w
	}

	logger.Info.Printf("[GetWidget] Mounting new widget=%s", widgetID)
	w := NewWidget(widgetID, s.league, s.boardOpts...)
	for _, l := range s.listeners {
		w.Board().Subscribe(l)
	}
	s.widgets[widgetID] = w
	return w
}

// ClearWidget drops the widget for widgetID. The next GetWidget mounts a new one.
func (s *PredictionService) ClearWidget(widgetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.widgets[widgetID]; ok {
		delete(s.widgets, widgetID)
		logger.Info.Printf("[ClearWidget] Cleared widget=%s", widgetID)
	} else {
		logger.Warn.Printf("[ClearWidget] Attempted to clear non-existent widget=%s", widgetID)
	}
}

// ActiveWidgets counts mounted widgets.
func (s *PredictionService) ActiveWidgets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.widgets)
}

// ReapIdle drops widgets whose last action is older than ttl and returns how many went.
// A widget that still has an open page is touched instead, so its idle time restarts
// once the page goes away.
func (s *PredictionService) ReapIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, w := range s.widgets {
		if nowFunc().Sub(w.LastSeen()) <= ttl {
			continue
		}
		if s.inUse != nil && s.inUse(id) {
			logger.Debug.Printf("[ReapIdle] Keeping idle widget=%s with open pages", id)
			w.Touch()
			continue
		}
		logger.Info.Printf("[ReapIdle] Removing idle widget=%s (timeout=%v)", id, ttl)
		delete(s.widgets, id)
		removed++
	}
	return removed
}

// StartReaper runs ReapIdle every interval until ctx is done.
func (s *PredictionService) StartReaper(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Debug.Println("[StartReaper] stopping")
				return
			case <-ticker.C:
				s.ReapIdle(ttl)
			}
		}
	}()
}
