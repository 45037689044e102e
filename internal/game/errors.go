package game

// ErrorKind classifies engine errors
type ErrorKind int

const (
	// KindValidation covers malformed or out-of-range requests
	KindValidation ErrorKind = iota
	// KindNotFound covers unknown games and players
	KindNotFound
	// KindTurnViolation covers moves made out of turn or against the wrong seat
	KindTurnViolation
	// KindIndex covers bad card indexes and empty targets
	KindIndex
)

// String returns the string representation of an error kind
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindTurnViolation:
		return "turn_violation"
	case KindIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Error is returned by every engine operation. Message is shown to players
// verbatim.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors by code, so messages that embed a player name still match
// their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrInvalidPlayerCount = &Error{Kind: KindValidation, Code: "invalid_player_count", Message: "Invalid number of players"}
	ErrPlayerCount        = &Error{Kind: KindValidation, Code: "player_count", Message: "Number of players must be between 2 and 8."}
	ErrNameRequired       = &Error{Kind: KindValidation, Code: "name_required", Message: "Player name is required."}
	ErrGameFull           = &Error{Kind: KindValidation, Code: "game_full", Message: "Game is full (max 8 players)."}
	ErrInProgress         = &Error{Kind: KindValidation, Code: "in_progress", Message: "Game already in progress."}
	ErrAlreadyStarted     = &Error{Kind: KindValidation, Code: "already_started", Message: "Game already started."}
	ErrNotStarted         = &Error{Kind: KindValidation, Code: "not_started", Message: "Game has not started."}
	ErrGameOver           = &Error{Kind: KindValidation, Code: "game_over", Message: "Game is over."}

	ErrGameNotFound   = &Error{Kind: KindNotFound, Code: "game_not_found", Message: "Game not found."}
	ErrPlayerNotFound = &Error{Kind: KindNotFound, Code: "player_not_found", Message: "Player not found."}
	ErrTargetNotFound = &Error{Kind: KindNotFound, Code: "target_not_found", Message: "Target player not found."}

	ErrNotYourTurn = &Error{Kind: KindTurnViolation, Code: "not_your_turn", Message: "Not your turn!"}
	ErrSelfPick    = &Error{Kind: KindTurnViolation, Code: "self_pick", Message: "Cannot pick from yourself!"}
	// ErrWrongTarget matches both target checks; the message names the seat
	// the player has to pick from.
	ErrWrongTarget = &Error{Kind: KindTurnViolation, Code: "wrong_target", Message: "Wrong target."}

	ErrEmptyTarget      = &Error{Kind: KindIndex, Code: "empty_target", Message: "Target player has no cards."}
	ErrInvalidCardIndex = &Error{Kind: KindIndex, Code: "invalid_card_index", Message: "Invalid card index."}
)

// Validation builds a KindValidation error with a custom message.
func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func notNextPlayer(name string) *Error {
	return &Error{Kind: KindTurnViolation, Code: ErrWrongTarget.Code, Message: "You can only pick from the next player: " + name}
}

func notNextAvailable(name string) *Error {
	return &Error{Kind: KindTurnViolation, Code: ErrWrongTarget.Code, Message: "You must pick from the next available player: " + name}
}
