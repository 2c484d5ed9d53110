// Package engine resolves player turns: it asks the narrator what happens,
// interprets and rolls the answer, applies it to the game state, and falls
// back to built-in rules whenever the narrator cannot help.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/111acge/DNDGP/internal/content"
	"github.com/111acge/DNDGP/internal/dice"
	"github.com/111acge/DNDGP/internal/models"
	"github.com/111acge/DNDGP/internal/narrator"
)

// DefaultTimeout bounds a single narrator call.
const DefaultTimeout = 30 * time.Second

var (
	ErrEmptyAction     = errors.New("empty action")
	ErrReservedCommand = errors.New("reserved command is not an action")
	ErrGameOver        = errors.New("game over")
	ErrFallbackFailed  = errors.New("fallback resolver failed")
)

// Path says which resolver produced a turn.
type Path string

const (
	PathNarrator Path = "narrator"
	PathFallback Path = "fallback"
)

// Recorder receives every resolved turn, e.g. to keep a journal.
type Recorder interface {
	Record(ctx context.Context, rec models.TurnRecord) error
}

// TurnResult describes everything that happened during one turn.
type TurnResult struct {
	Turn        int
	Action      string
	Path        Path
	Description string
	Narrative   string
	Check       *dice.Result
	Notices     []Notice
	World       []Notice
	GameOver    bool
}

// Engine owns the game state and drives turns against it. It is not safe for
// concurrent use; turns are processed one at a time.
type Engine struct {
	pack     *content.Pack
	narrator narrator.Narrator
	roller   dice.Roller
	rng      dice.Random
	timeout  time.Duration
	recorder Recorder
	logger   *slog.Logger

	fallback *Fallback
	world    *WorldTick
	state    *models.GameState
}

// Option configures an Engine.
type Option func(*Engine)

// WithNarrator enables AI narration. A nil narrator leaves the engine on its built-in rules.
func WithNarrator(n narrator.Narrator) Option {
	return func(e *Engine) { e.narrator = n }
}

// WithRoller sets the source of d20 rolls.
func WithRoller(r dice.Roller) Option {
	return func(e *Engine) { e.roller = r }
}

// WithRandom sets the source for chances and table picks.
func WithRandom(rng dice.Random) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithTimeout bounds each narrator call.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithRecorder sends every resolved turn to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithState starts the engine from an existing state instead of a new character.
func WithState(s *models.GameState) Option {
	return func(e *Engine) { e.state = s }
}

// NewEngine creates an engine over pack with a default character.
func NewEngine(pack *content.Pack, opts ...Option) (*Engine, error) {
	if pack == nil {
		return nil, errors.New("content pack is required")
	}
	e := &Engine{pack: pack, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}

	if e.rng == nil {
		rng, err := dice.NewRand(0)
		if err != nil {
			return nil, err
		}
		e.rng = rng
	}
	if e.roller == nil {
		e.roller = dice.NewD20(e.rng)
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.state == nil {
		e.state = pack.NewGameState("", "")
	}
	e.fallback = NewFallback(pack.Fallback, e.roller, e.rng)
	e.world = NewWorldTick(pack.World, e.rng)
	return e, nil
}

// Snapshot returns a copy of the current state for display.
func (e *Engine) Snapshot() *models.GameState {
	return e.state.Clone()
}

// NarratorEnabled reports whether turns are narrated by an AI.
func (e *Engine) NarratorEnabled() bool {
	return e.narrator != nil
}

// Classes lists the character classes available to Restart.
func (e *Engine) Classes() []content.Class {
	return e.pack.Classes
}

// Restart throws away the current adventure and starts a new character.
func (e *Engine) Restart(name, class string) {
	e.state = e.pack.NewGameState(name, class)
	e.logger.Info("new adventure", "name", e.state.CharacterName, "class", e.state.CharacterClass)
}

// RollD20 rolls a free d20 outside of any turn.
func (e *Engine) RollD20() (int, dice.Band) {
	roll := e.roller.Roll()
	return roll, dice.BandOf(roll)
}

// ProcessTurn resolves one player action. The narrator path either completes
// and commits all of its changes or commits none of them, in which case the
// built-in rules resolve the action instead. An error is returned only for
// input that is not an action or when the built-in rules themselves fail; in
// both cases the state is left as it was.
func (e *Engine) ProcessTurn(ctx context.Context, action string) (*TurnResult, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, ErrEmptyAction
	}
	if _, ok := ParseCommand(action); ok {
		return nil, ErrReservedCommand
	}
	if e.state.Dead() {
		return nil, ErrGameOver
	}

	prevTurn, prevAction := e.state.Turn, e.state.LastAction
	e.state.Turn++
	e.state.LastAction = action
	result := &TurnResult{Turn: e.state.Turn, Action: action}

	var (
		res     Resolution
		notices []Notice
		err     error
	)
	if e.narrator != nil {
		res, notices, err = e.narrate(ctx, action)
		if err == nil {
			result.Path = PathNarrator
		} else {
			e.logger.Warn("narrator failed, using fallback",
				"turn", result.Turn,
				"narrator", e.narrator.Name(),
				"error", err,
			)
		}
	}
	if result.Path == "" {
		res, notices, err = e.resolveFallback(action)
		if err != nil {
			e.logger.Error("fallback failed", "turn", result.Turn, "error", err)
			e.state.Turn, e.state.LastAction = prevTurn, prevAction
			return nil, fmt.Errorf("%w: %v", ErrFallbackFailed, err)
		}
		result.Path = PathFallback
	}

	result.Description = res.Description
	result.Narrative = res.Narrative
	result.Check = res.Check
	result.Notices = notices
	e.state.AppendHistory(models.StoryEntry{Action: action, Response: res.Summary})

	if e.state.Dead() {
		result.GameOver = true
	} else {
		result.World = e.world.Run(e.state)
	}

	e.record(ctx, result)
	return result, nil
}

// narrate runs the narrator path against a draft of the state and commits
// the draft only once every step has succeeded.
func (e *Engine) narrate(ctx context.Context, action string) (res Resolution, notices []Notice, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("narrator path panicked: %v", r)
		}
	}()

	messages, err := BuildPrompt(e.state, action)
	if err != nil {
		return Resolution{}, nil, fmt.Errorf("build prompt: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	text, err := e.narrator.Complete(callCtx, messages)
	if err != nil {
		return Resolution{}, nil, err
	}

	outcome, perr := ParseOutcome(text)
	switch {
	case errors.Is(perr, ErrNoOutcome):
		e.logger.Debug("narrator reply used as plain narration", "error", perr)
	case perr != nil:
		e.logger.Info("narrator reply partly malformed", "error", perr)
	}
	res = Resolve(outcome, e.roller)

	draft := e.state.Clone()
	notices = Apply(draft, res.Effects)
	*e.state = *draft
	return res, notices, nil
}

func (e *Engine) resolveFallback(action string) (res Resolution, notices []Notice, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	res = e.fallback.Resolve(e.state, action)
	draft := e.state.Clone()
	notices = Apply(draft, res.Effects)
	*e.state = *draft
	return res, notices, nil
}

func (e *Engine) record(ctx context.Context, result *TurnResult) {
	if e.recorder == nil {
		return
	}
	rec := models.TurnRecord{
		Turn:      result.Turn,
		Action:    result.Action,
		Narrative: result.Narrative,
		Path:      string(result.Path),
		Health:    e.state.Health,
		Gold:      e.state.Gold,
		Location:  e.state.Location,
		CreatedAt: time.Now(),
	}
	if result.Check != nil {
		rec.Roll = result.Check.Roll
		rec.Difficulty = result.Check.Difficulty
		rec.Success = result.Check.Success
	}
	if err := e.recorder.Record(ctx, rec); err != nil {
		e.logger.Warn("journal write failed", "turn", result.Turn, "error", err)
	}
}
