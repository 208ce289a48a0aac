package session

import (
	"errors"
	"fmt"
)

// Action is a button identifier delivered by the host platform.
type Action string

const (
	ActionNextPage        Action = "next-page"
	ActionPreviousPage    Action = "previous-page"
	ActionRandomPage      Action = "random-page"
	ActionAddFavourite    Action = "add-favorite"
	ActionRemoveFavourite Action = "remove-favorite"
	ActionDelete          Action = "delete-message"
)

var (
	// ErrInvalidAction marks an action identifier outside the known set.
	ErrInvalidAction = errors.New("invalid action")
	// ErrPermissionDenied is returned when a non-owner tries to delete a session.
	ErrPermissionDenied = errors.New("only the author can delete this message")
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrDeleted is returned for actions against a deleted session.
	ErrDeleted = errors.New("session has been deleted")
)

var knownActions = map[Action]struct{}{
	ActionNextPage:        {},
	ActionPreviousPage:    {},
	ActionRandomPage:      {},
	ActionAddFavourite:    {},
	ActionRemoveFavourite: {},
	ActionDelete:          {},
}

// ParseAction validates a raw action identifier.
func ParseAction(raw string) (Action, error) {
	action := Action(raw)
	if _, ok := knownActions[action]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, raw)
	}
	return action, nil
}

// floorMod is the non-negative remainder, so floorMod(-1, n) == n-1.
func floorMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
