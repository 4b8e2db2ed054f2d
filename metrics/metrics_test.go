//go:build unit
// +build unit

// file: metrics/metrics_test.go
package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"league-predictor/models"
)

func TestObserveBoardEvent(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.ObserveBoardEvent(models.BoardEvent{Kind: models.EventPlaced, Team: "Arsenal", Rank: 1})
	c.ObserveBoardEvent(models.BoardEvent{Kind: models.EventPlaced, Team: "Chelsea", Rank: 2})
	c.ObserveBoardEvent(models.BoardEvent{Kind: models.EventReset})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.boardEvents.WithLabelValues("placed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.boardEvents.WithLabelValues("reset")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.boardEvents.WithLabelValues("swapped")))
}

func TestInvalidOperation(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.InvalidOperation("drag")
	c.InvalidOperation("drag")
	c.InvalidOperation("click")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.invalidOps.WithLabelValues("drag")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.invalidOps.WithLabelValues("click")))
}

func TestConnections(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.ConnectionOpened()
	c.ConnectionOpened()
	c.ConnectionClosed()
	c.MessageDropped()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.wsConnections))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.wsDropped))
}

func TestRegisterActiveWidgets(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	n := 3
	c.RegisterActiveWidgets(reg, func() int { return n })

	expected := `
# HELP league_predictor_widgets_active Mounted prediction widgets.
# TYPE league_predictor_widgets_active gauge
league_predictor_widgets_active 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "league_predictor_widgets_active"))
}

// Test: a nil collector is a no-op
func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveBoardEvent(models.BoardEvent{Kind: models.EventShuffled})
		c.InvalidOperation("reset")
		c.ConnectionOpened()
		c.ConnectionClosed()
		c.MessageDropped()
		c.RegisterActiveWidgets(nil, func() int { return 0 })
	})
}
