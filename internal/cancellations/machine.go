package cancellations

import "fmt"

// State is the wizard position tag.
type State string

const (
	StateInit          State = "init"
	StateFoundStep1    State = "found_step_1"
	StateFoundStep2    State = "found_step_2"
	StateFoundStep3    State = "found_step_3"
	StateFoundDone     State = "found_done"
	StateOffer         State = "offer"
	StateOfferAccepted State = "offer_accepted"
	StateSurvey        State = "survey"
	StateDreamRoles    State = "dream_roles"
	StateReason        State = "reason"
	StateStillDone     State = "still_done"
)

// Terminal reports whether the state ends the flow.
func (s State) Terminal() bool {
	return s == StateFoundDone || s == StateStillDone
}

// Event is a user action driving the wizard forward or back.
type Event string

const (
	EventChooseFound  Event = "choose_found"
	EventChooseStill  Event = "choose_still"
	EventBack         Event = "back"
	EventAcceptOffer  Event = "accept_offer"
	EventDeclineOffer Event = "decline_offer"
	EventContinue     Event = "continue"
	EventComplete     Event = "complete"
)

// Effect is a side effect the caller must execute after a transition.
type Effect string

const (
	// EffectPersistPatch writes the step's fields.
	EffectPersistPatch Effect = "persist_patch"
	// EffectAssignVariant runs only when the transition creates a record.
	EffectAssignVariant Effect = "assign_variant"
	// EffectApplyDiscount is non-fatal; its failure never rolls back the
	// transition.
	EffectApplyDiscount Effect = "apply_discount"
	// EffectMarkCompleted closes the record.
	EffectMarkCompleted Effect = "mark_completed"
)

// Transition is the outcome of applying an event to a state.
type Transition struct {
	Next    State
	Effects []Effect
}

// ErrInvalidTransition is wrapped with the offending state/event pair.
var ErrInvalidTransition = fmt.Errorf("invalid wizard transition")

// StateForPosition maps a resolved position onto a machine state, used
// when resuming from persisted fields.
func StateForPosition(p Position) State {
	switch p.Flow {
	case FlowFound:
		return StateFoundStep1
	case FlowStill:
		if p.Step == 1 {
			return StateOffer
		}
		return StateSurvey
	default:
		return StateInit
	}
}

// EventFor derives the wizard event from a reduced patch. Precedence:
// an explicit undo outranks completion, completion outranks an offer
// decision, and offer decisions outrank branch choices.
func EventFor(c *Changes) Event {
	switch {
	case c.ClearsFoundJob:
		return EventBack
	case c.CompletesFound || c.SetsReason:
		return EventComplete
	case c.AcceptsOffer:
		return EventAcceptOffer
	case c.DeclinesOffer:
		return EventDeclineOffer
	case c.ChoosesFound:
		return EventChooseFound
	case c.ChoosesStill:
		return EventChooseStill
	default:
		return EventContinue
	}
}

// Step applies an event to a state, returning the next state and the
// effects to run. The reducer has already validated the patch, so every
// known event is applicable from every non-terminal state; users jump
// around the wizard freely and each screen's write is idempotent.
// Terminal states absorb every event without effects so re-opening a
// finished wizard never re-triggers side effects.
func Step(state State, event Event) (Transition, error) {
	if state.Terminal() {
		return Transition{Next: state}, nil
	}

	switch event {
	case EventChooseFound:
		return Transition{Next: StateFoundStep1, Effects: entryEffects(state)}, nil

	case EventChooseStill:
		return Transition{Next: StateOffer, Effects: entryEffects(state)}, nil

	case EventBack:
		// compensating write: found_job goes back to null
		return Transition{Next: StateInit, Effects: []Effect{EffectPersistPatch}}, nil

	case EventAcceptOffer:
		// repeated accepts re-apply the discount, as the flow has always
		// behaved
		return Transition{
			Next:    StateOfferAccepted,
			Effects: []Effect{EffectPersistPatch, EffectApplyDiscount},
		}, nil

	case EventDeclineOffer:
		return Transition{Next: StateSurvey, Effects: []Effect{EffectPersistPatch}}, nil

	case EventContinue:
		return Transition{Next: continueTarget(state), Effects: []Effect{EffectPersistPatch}}, nil

	case EventComplete:
		next := StateStillDone
		if foundFlow(state) {
			next = StateFoundDone
		}
		return Transition{
			Next:    next,
			Effects: []Effect{EffectPersistPatch, EffectMarkCompleted},
		}, nil
	}

	return Transition{}, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, state)
}

// entryEffects adds the variant assignment when the branch choice is
// the record's first write.
func entryEffects(state State) []Effect {
	if state == StateInit {
		return []Effect{EffectAssignVariant, EffectPersistPatch}
	}
	return []Effect{EffectPersistPatch}
}

func foundFlow(state State) bool {
	switch state {
	case StateFoundStep1, StateFoundStep2, StateFoundStep3:
		return true
	}
	return false
}

func continueTarget(state State) State {
	switch state {
	case StateFoundStep1:
		return StateFoundStep2
	case StateFoundStep2, StateFoundStep3:
		return StateFoundStep3
	case StateOfferAccepted:
		return StateDreamRoles
	case StateDreamRoles, StateSurvey:
		return StateReason
	default:
		return state
	}
}
