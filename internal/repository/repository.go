package repository

import (
	"context"
	"errors"

	"ecoquiz-duel/internal/models"
)

var ErrNoQuestions = errors.New("no questions stored")

// QuestionRepository is read once at startup to build the question bank.
type QuestionRepository interface {
	LoadQuestions(ctx context.Context) ([]models.Question, error)
	SeedQuestions(ctx context.Context, qs []models.Question) (int, error)
	Close() error
}
