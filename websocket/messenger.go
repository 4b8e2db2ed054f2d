// Package websocket: websocket/messenger.go
package websocket

import "league-predictor/models"

// Messenger pushes board updates to the pages of a widget. *Hub is the real one.
type Messenger interface {
	BroadcastState(widgetID string, state models.BoardState)
}

var _ Messenger = (*Hub)(nil)
