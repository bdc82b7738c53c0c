package services

import "errors"

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrNotInGame      = errors.New("connection is not a player in this game")
	ErrQuestionClosed = errors.New("no question is open")
	ErrTooLate        = errors.New("question already resolved or answered")
	ErrAlreadyPlaying = errors.New("connection is already in a game")
	ErrBankTooSmall   = errors.New("question bank is smaller than a game")
)
