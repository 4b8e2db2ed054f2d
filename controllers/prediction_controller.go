// Package controllers file: controllers/prediction_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"league-predictor/interaction"
	"league-predictor/logger"
	"league-predictor/metrics"
	"league-predictor/middleware"
	"league-predictor/models"
	"league-predictor/services"
	"league-predictor/websocket"
)

// PredictionController struct with service dependency injection
type PredictionController struct {
	Service   services.PredictionServiceInterface
	Messenger websocket.Messenger
	Metrics   *metrics.Collector
}

// NewPredictionController creates an instance of PredictionController
func NewPredictionController(service services.PredictionServiceInterface, messenger websocket.Messenger, m *metrics.Collector) *PredictionController {
	logger.Debug.Println("NewPredictionController: Initializing PredictionController")
	return &PredictionController{Service: service, Messenger: messenger, Metrics: m}
}

// PlaceRequest is the body of POST /api/place.
type PlaceRequest struct {
	Team models.Team `json:"team" binding:"required"`
	Rank int         `json:"rank"`
}

// UnplaceRequest is the body of POST /api/unplace.
type UnplaceRequest struct {
	Team models.Team `json:"team" binding:"required"`
}

// ------ page ------

// rowView is one rank row in the rendered table.
type rowView struct {
	Rank        int
	Ordinal     string
	DroppableID string
	Team        models.Team
}

type tierView struct {
	models.Tier
	Rows []rowView
}

// Index renders the predictor for the session's widget.
func (pc *PredictionController) Index(c *gin.Context) {
	widgetID := middleware.WidgetID(c)
	widget := pc.Service.GetWidget(widgetID)
	league := pc.Service.League()
	state := widget.State()

	tiers := make([]tierView, 0, len(league.Tiers))
	for _, tier := range league.Tiers {
		tv := tierView{Tier: tier}
		for _, rank := range tier.Ranks() {
			tv.Rows = append(tv.Rows, rowView{
				Rank:        rank,
				Ordinal:     models.Ordinal(rank),
				DroppableID: interaction.PositionDroppableID(rank),
				Team:        state.Positions[rank],
			})
		}
		tiers = append(tiers, tv)
	}

	logger.Info.Printf("Index: Rendering predictor for widget=%s", widgetID)
	c.HTML(http.StatusOK, "predictor.html", gin.H{
		"League":         league,
		"Tiers":          tiers,
		"Facts":          league.Facts,
		"Season":         league.Season,
		"State":          state,
		"PoolID":         interaction.PoolDroppableID,
		"WebsocketURL":   WebsocketURL,
		"ApplicationURL": ApplicationURL,
	})
}

// League returns the static league data.
func (pc *PredictionController) League(c *gin.Context) {
	c.JSON(http.StatusOK, pc.Service.League())
}

// ------ board API ------

// Board returns the current state of the session's widget.
func (pc *PredictionController) Board(c *gin.Context) {
	c.JSON(http.StatusOK, pc.widget(c).State())
}

// Drag applies a finished drag.
func (pc *PredictionController) Drag(c *gin.Context) {
	var res interaction.DropResult
	if !bind(c, &res) {
		return
	}
	state, err := pc.widget(c).DragEnd(res)
	pc.respond(c, "drag", state, err)
}

// Click applies one click gesture.
func (pc *PredictionController) Click(c *gin.Context) {
	var cmd interaction.ClickCommand
	if !bind(c, &cmd) {
		return
	}
	state, err := pc.widget(c).Click(cmd)
	pc.respond(c, "click", state, err)
}

// Place puts a team at a rank directly.
func (pc *PredictionController) Place(c *gin.Context) {
	var req PlaceRequest
	if !bind(c, &req) {
		return
	}
	state, err := pc.widget(c).Place(req.Team, req.Rank)
	pc.respond(c, "place", state, err)
}

// Unplace sends a team back to the pool.
func (pc *PredictionController) Unplace(c *gin.Context) {
	var req UnplaceRequest
	if !bind(c, &req) {
		return
	}
	state, err := pc.widget(c).Unplace(req.Team)
	pc.respond(c, "unplace", state, err)
}

// Reset clears the board.
func (pc *PredictionController) Reset(c *gin.Context) {
	pc.respond(c, "reset", pc.widget(c).Reset(), nil)
}

// Shuffle reorders the pool.
func (pc *PredictionController) Shuffle(c *gin.Context) {
	pc.respond(c, "shuffle", pc.widget(c).Shuffle(), nil)
}

// Updates upgrades the request to the widget's WebSocket channel.
func Updates(hub *websocket.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.ServeWs(c.Writer, c.Request, middleware.WidgetID(c))
	}
}

// ------ helpers ------

func (pc *PredictionController) widget(c *gin.Context) *services.Widget {
	return pc.Service.GetWidget(middleware.WidgetID(c))
}

func bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		logger.Warn.Printf("[%s] malformed request body: %v", c.FullPath(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respond writes the outcome of one action. Rejected actions get 422 with the unchanged
// state; successful ones are pushed to the widget's other pages too.
func (pc *PredictionController) respond(c *gin.Context, action string, state models.BoardState, err error) {
	widgetID := middleware.WidgetID(c)
	if err != nil {
		if errors.Is(err, models.ErrInvalidOperation) {
			pc.Metrics.InvalidOperation(action)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "state": state})
			return
		}
		logger.Error.Printf("[%s] widget=%s unexpected error: %v", action, widgetID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if pc.Messenger != nil {
		pc.Messenger.BroadcastState(widgetID, state)
	}
	c.JSON(http.StatusOK, state)
}
