package states

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/HiveBoard/internal/game/events"
)

// ErrInvalidTransition is returned when the target phase is not reachable from the current one
var ErrInvalidTransition = errors.New("invalid phase transition")

// DefaultHistorySize bounds the transition history when no size is given
const DefaultHistorySize = 256

// State represents an interaction phase with lifecycle callbacks
type State interface {
	// Phase returns the Phase this state represents
	Phase() Phase

	// Enter is called when transitioning into this state
	Enter(ctx *SelectionContext) error

	// Exit is called when transitioning out of this state
	Exit(ctx *SelectionContext) error

	// Validate checks if the state can be entered given the context
	Validate(ctx *SelectionContext) error
}

// Transition represents a state transition in the history
type Transition struct {
	From      Phase
	To        Phase
	Timestamp time.Time
	Reason    string
}

// StateMachine manages phase transitions and history
type StateMachine struct {
	mu             sync.RWMutex
	currentPhase   Phase
	states         map[Phase]State
	context        *SelectionContext
	history        []Transition
	maxHistorySize int
	publisher      events.Publisher
}

// NewStateMachine creates a state machine in PhaseIdle. publisher may be nil.
func NewStateMachine(ctx *SelectionContext, publisher events.Publisher, historySize int) *StateMachine {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	sm := &StateMachine{
		currentPhase:   PhaseIdle,
		states:         make(map[Phase]State),
		context:        ctx,
		history:        make([]Transition, 0, min(historySize, 64)),
		maxHistorySize: historySize,
		publisher:      publisher,
	}

	sm.RegisterState(NewIdleState())
	sm.RegisterState(NewHoldingState())

	return sm
}

// RegisterState registers a state implementation
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[state.Phase()] = state
}

// CurrentPhase returns the current phase
func (sm *StateMachine) CurrentPhase() Phase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase
}

// TransitionTo attempts to transition to the specified phase
func (sm *StateMachine) TransitionTo(targetPhase Phase, reason string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.transitionLocked(targetPhase, reason)
}

func (sm *StateMachine) transitionLocked(targetPhase Phase, reason string) error {
	if !sm.currentPhase.CanTransitionTo(targetPhase) {
		return fmt.Errorf("%w: from %s to %s", ErrInvalidTransition, sm.currentPhase, targetPhase)
	}

	currentState, hasCurrentState := sm.states[sm.currentPhase]
	targetState, hasTargetState := sm.states[targetPhase]

	if !hasTargetState {
		return fmt.Errorf("no state implementation for phase %s", targetPhase)
	}

	if err := targetState.Validate(sm.context); err != nil {
		return fmt.Errorf("target state validation failed: %w", err)
	}

	if hasCurrentState {
		if err := currentState.Exit(sm.context); err != nil {
			return fmt.Errorf("failed to exit state %s: %w", sm.currentPhase, err)
		}
	}

	previousPhase := sm.currentPhase
	sm.currentPhase = targetPhase

	if err := targetState.Enter(sm.context); err != nil {
		// Rollback on enter failure
		sm.currentPhase = previousPhase
		return fmt.Errorf("failed to enter state %s: %w", targetPhase, err)
	}

	sm.addToHistory(Transition{
		From:      previousPhase,
		To:        targetPhase,
		Timestamp: time.Now(),
		Reason:    reason,
	})

	if sm.publisher != nil {
		sm.publisher.Publish(events.NewStateTransitionEvent(
			sm.context.SessionID,
			previousPhase.String(),
			targetPhase.String(),
			reason,
		))
	}

	return nil
}

// addToHistory adds a transition to the history, maintaining max size
func (sm *StateMachine) addToHistory(transition Transition) {
	sm.history = append(sm.history, transition)

	if len(sm.history) > sm.maxHistorySize {
		// Keep the most recent entries
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
}

// GetHistory returns a copy of the transition history
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (sm *StateMachine) CanTransitionTo(targetPhase Phase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase.CanTransitionTo(targetPhase)
}
