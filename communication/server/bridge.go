package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"werewolf/belief"
	"werewolf/game"
)

// Bridge exposes the baseline agent over HTTP. Each request carries a full
// observation and is answered by a fresh agent, so the bridge keeps no state
// between calls.
type Bridge struct {
	addr    string
	options []belief.Option
	router  *gin.Engine
}

// NewBridge initializes and returns a new Bridge.
func NewBridge(addr string, options ...belief.Option) *Bridge {
	b := &Bridge{
		addr:    addr,
		options: options,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/", b.handleObservation)
	r.POST("/act", b.handleObservation)
	b.router = r
	return b
}

func (b *Bridge) Handler() http.Handler {
	return b.router
}

// Start serves until ctx is cancelled.
func (b *Bridge) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    b.addr,
		Handler: b.router,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Msgf("bridge listening on %s", b.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve bridge: %w", err)
	}
	return nil
}

func (b *Bridge) handleObservation(c *gin.Context) {
	var obs game.Observation
	if err := c.ShouldBindJSON(&obs); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := game.ValidateObservation(obs); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := Respond(c.Request.Context(), obs, b.options...)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	log.Debug().Str("seat", obs.Name).Str("phase", string(obs.Phase)).Msgf("bridge answered %s", action.Type)
	c.JSON(http.StatusOK, action)
}

// Respond builds a baseline agent for the observation's seat, replays the
// seer's inspection history into it and asks it for the phase's action.
func Respond(ctx context.Context, obs game.Observation, options ...belief.Option) (game.Action, error) {
	a := belief.New(obs.Name, obs.Role, obs.Seed, options...)
	for _, check := range obs.Private.SeerChecks {
		a.UpdateSeerInspection(check.Target, check.Role)
	}

	switch obs.Phase {
	case game.PhaseDay:
		return a.Speak(ctx, obs)
	case game.PhaseDayVote:
		return a.Vote(ctx, obs)
	case game.PhaseNight:
		action, err := a.NightPower(ctx, obs)
		if err == nil && action.Target == "" {
			action = game.Action{Type: game.ActionNoop}
		}
		return action, err
	}
	return game.Action{}, fmt.Errorf("%w: unknown phase %q", game.ErrInvalidObservation, obs.Phase)
}
