package doubt

import "errors"

var (
	ErrRoundOver      = errors.New("round already over")
	ErrNotYourTurn    = errors.New("action out of turn")
	ErrNoPendingClaim = errors.New("no pending claim")
)

// InvalidPlayError rejects a malformed play: wrong card count, cards the
// player does not hold, or an unclaimable rank. State is never mutated.
type InvalidPlayError string

func (e InvalidPlayError) Error() string { return "invalid play: " + string(e) }

func ErrInvalidPlay(msg string) error { return InvalidPlayError(msg) }

// InvalidStateError marks an engine invariant violation, not bad input.
type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
