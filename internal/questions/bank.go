package questions

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"ecoquiz-duel/internal/models"
)

const OptionCount = 4

var ErrInvalidQuestion = errors.New("invalid question")

// Bank is a read-only question list shared by every game.
type Bank struct {
	questions []models.Question
	byID      map[int]int
}

func NewBank(qs []models.Question) (*Bank, error) {
	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: empty bank", ErrInvalidQuestion)
	}

	b := &Bank{
		questions: make([]models.Question, 0, len(qs)),
		byID:      make(map[int]int, len(qs)),
	}
	for _, q := range qs {
		if err := Validate(q); err != nil {
			return nil, err
		}
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidQuestion, q.ID)
		}
		q.Options = append([]string(nil), q.Options...)
		b.byID[q.ID] = len(b.questions)
		b.questions = append(b.questions, q)
	}
	return b, nil
}

// Default returns the built-in bank.
func Default() *Bank {
	b, err := NewBank(builtin)
	if err != nil {
		panic(err)
	}
	return b
}

func Validate(q models.Question) error {
	if q.Text == "" {
		return fmt.Errorf("%w: question %d has no text", ErrInvalidQuestion, q.ID)
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w: question %d has %d options", ErrInvalidQuestion, q.ID, len(q.Options))
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= OptionCount {
		return fmt.Errorf("%w: question %d correct answer %d out of range", ErrInvalidQuestion, q.ID, q.CorrectAnswer)
	}
	return nil
}

func (b *Bank) Len() int {
	return len(b.questions)
}

func (b *Bank) Get(id int) (models.Question, bool) {
	i, ok := b.byID[id]
	if !ok {
		return models.Question{}, false
	}
	return b.questions[i], true
}

func (b *Bank) All() []models.Question {
	out := make([]models.Question, 0, len(b.questions))
	for _, q := range b.questions {
		q.Options = append([]string(nil), q.Options...)
		out = append(out, q)
	}
	return out
}

// Sample draws n distinct questions uniformly at random. n is capped at the
// bank size.
func (b *Bank) Sample(r *rand.Rand, n int) []models.Question {
	if n > len(b.questions) {
		n = len(b.questions)
	}
	if n < 0 {
		n = 0
	}
	perm := r.Perm(len(b.questions))
	out := make([]models.Question, 0, n)
	for _, i := range perm[:n] {
		out = append(out, b.questions[i])
	}
	return out
}
