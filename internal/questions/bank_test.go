package questions_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoquiz-duel/internal/models"
	"ecoquiz-duel/internal/questions"
)

func TestDefault(t *testing.T) {
	b := questions.Default()

	assert.GreaterOrEqual(t, b.Len(), 15)
	assert.LessOrEqual(t, b.Len(), 30)
	for _, q := range b.All() {
		assert.NoError(t, questions.Validate(q))
		assert.NotEmpty(t, q.Explanation, "question %d", q.ID)
	}
}

func TestBank_Sample(t *testing.T) {
	b := questions.Default()
	r := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 200; i++ {
		got := b.Sample(r, 5)
		require.Len(t, got, 5)

		seen := make(map[int]bool)
		for _, q := range got {
			assert.False(t, seen[q.ID], "question %d drawn twice", q.ID)
			seen[q.ID] = true

			_, ok := b.Get(q.ID)
			assert.True(t, ok)
		}
	}
}

func TestBank_SampleCoversBank(t *testing.T) {
	b := questions.Default()
	r := rand.New(rand.NewPCG(3, 4))

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		for _, q := range b.Sample(r, 5) {
			seen[q.ID] = true
		}
	}
	assert.Len(t, seen, b.Len(), "every question should eventually be drawn")
}

func TestBank_SampleCapped(t *testing.T) {
	b, err := questions.NewBank(questions.Default().All()[:3])
	require.NoError(t, err)

	r := rand.New(rand.NewPCG(5, 6))
	assert.Len(t, b.Sample(r, 5), 3)
	assert.Empty(t, b.Sample(r, -1))
}

func TestNewBank_Invalid(t *testing.T) {
	valid := models.Question{ID: 1, Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0}

	tests := map[string][]models.Question{
		"empty bank":     nil,
		"three options":  {{ID: 1, Text: "q", Options: []string{"a", "b", "c"}}},
		"answer too big": {{ID: 1, Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 4}},
		"negative":       {{ID: 1, Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: -1}},
		"no text":        {{ID: 1, Options: []string{"a", "b", "c", "d"}}},
		"duplicate id":   {valid, valid},
	}

	for name, qs := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := questions.NewBank(qs)
			assert.ErrorIs(t, err, questions.ErrInvalidQuestion)
		})
	}
}

func TestBank_IsReadOnly(t *testing.T) {
	b := questions.Default()

	all := b.All()
	all[0].Text = "changed"
	all[0].Options[0] = "changed"

	q, ok := b.Get(all[0].ID)
	require.True(t, ok)
	assert.NotEqual(t, "changed", q.Text)
	assert.NotEqual(t, "changed", q.Options[0])
}
