// Package middleware provides request filters for the application.
// File: middleware/widget_session.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"league-predictor/logger"
)

// WidgetIDKey is both the session key and the gin context key holding the widget id.
const WidgetIDKey = "widgetID"

// newWidgetID is overridden in tests.
var newWidgetID = uuid.NewString

// -------------- widget session middleware --------------

// WidgetSession makes sure every browser session owns a widget id.
// - Reads "widgetID" from the session.
// - Generates and saves a fresh uuid when it is missing.
// - Exposes the id to handlers via c.GetString(WidgetIDKey).
// Must run after sessions.Sessions.
func WidgetSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		id, _ := session.Get(WidgetIDKey).(string)
		if id == "" {
			id = newWidgetID()
			session.Set(WidgetIDKey, id)
			if err := session.Save(); err != nil {
				logger.Error.Printf("[WidgetSession] Failed to save session: %v", err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			logger.Info.Printf("[WidgetSession] Assigned widget=%s to %s", id, c.ClientIP())
		}

		c.Set(WidgetIDKey, id)
		c.Next()
	}
}

// WidgetID returns the id WidgetSession stored on the context.
func WidgetID(c *gin.Context) string {
	return c.GetString(WidgetIDKey)
}
