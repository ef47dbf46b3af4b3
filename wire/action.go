package wire

import (
	"encoding/json"
	"fmt"

	"gridiron/game"
)

type wireAction struct {
	ActionType string      `json:"action_type"`
	Position   *wireSquare `json:"position"`
	Player     *int        `json:"player"`
}

// DecodeAction parses a wire action and validates any player reference
// against the state's rosters. Unknown player ids are rejected, never
// guessed at.
func DecodeAction(data []byte, s *game.State) (game.Action, error) {
	var wa wireAction
	if err := json.Unmarshal(data, &wa); err != nil {
		return game.Action{}, fmt.Errorf("decode action: %w", err)
	}

	at, err := game.ParseActionType(wa.ActionType)
	if err != nil {
		return game.Action{}, fmt.Errorf("decode action: %w", err)
	}

	action := game.Action{Type: at, Position: squareFromWire(wa.Position)}
	if wa.Player != nil {
		if _, err := s.PlayerByID(*wa.Player); err != nil {
			return game.Action{}, err
		}
		action.PlayerID = *wa.Player
	}
	return action, nil
}

// EncodeAction renders an action as its wire JSON document.
func EncodeAction(a game.Action) ([]byte, error) {
	wa := wireAction{
		ActionType: a.Type.String(),
		Position:   squareToWire(a.Position),
	}
	if a.PlayerID != 0 {
		id := a.PlayerID
		wa.Player = &id
	}
	data, err := json.Marshal(wa)
	if err != nil {
		return nil, fmt.Errorf("encode action: %w", err)
	}
	return data, nil
}
