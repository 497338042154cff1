package storage

import "errors"

// ErrEmptyActorID is returned when an actor without an actor URL is stored or looked up.
var ErrEmptyActorID = errors.New("empty actor id")
