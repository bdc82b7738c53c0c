package models

import (
	"time"

	"github.com/google/uuid"
)

type GameState string

const (
	Waiting  GameState = "waiting"
	Playing  GameState = "playing"
	Finished GameState = "finished"
)

type Question struct {
	ID            int      `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type Player struct {
	ID     string
	Name   string
	ConnID string
	Score  int
}

// AnswerRecord tracks one connection's answer to the current question only.
type AnswerRecord struct {
	Answered    bool
	IsCorrect   *bool
	AnswerIndex *int
	TimeTakenMs int
}

// GameSession is owned by the game loop and never serialized; clients see it
// only through the message payloads.
type GameSession struct {
	ID                string
	Players           [2]*Player
	Questions         []Question
	CurrentQuestion   int
	State             GameState
	QuestionStartedAt time.Time
	Answered          map[string]*AnswerRecord
	CorrectFound      bool
	TimedOut          bool
	// Revealed is set when both players answered wrong, so a later timeout
	// signal cannot reveal the same question twice.
	Revealed  bool
	CreatedAt time.Time
}

func NewPlayer(name, connID string) *Player {
	return &Player{
		ID:     uuid.New().String(),
		Name:   name,
		ConnID: connID,
	}
}

func NewGameSession(a, b *Player, questions []Question, now time.Time) *GameSession {
	return &GameSession{
		ID:        uuid.New().String(),
		Players:   [2]*Player{a, b},
		Questions: questions,
		State:     Waiting,
		Answered:  make(map[string]*AnswerRecord),
		CreatedAt: now,
	}
}

// BeginQuestion opens the question at CurrentQuestion and clears every
// per-question guard.
func (g *GameSession) BeginQuestion(now time.Time) {
	g.State = Playing
	g.QuestionStartedAt = now
	g.CorrectFound = false
	g.TimedOut = false
	g.Revealed = false
	g.Answered = make(map[string]*AnswerRecord, len(g.Players))
	for _, p := range g.Players {
		g.Answered[p.ConnID] = &AnswerRecord{}
	}
}

func (g *GameSession) Current() (Question, bool) {
	if g.CurrentQuestion < 0 || g.CurrentQuestion >= len(g.Questions) {
		return Question{}, false
	}
	return g.Questions[g.CurrentQuestion], true
}

// HasMoreQuestions reports whether a question follows the current one.
func (g *GameSession) HasMoreQuestions() bool {
	return g.CurrentQuestion+1 < len(g.Questions)
}

// Resolved reports whether the current question no longer accepts answers.
func (g *GameSession) Resolved() bool {
	return g.CorrectFound || g.TimedOut || g.Revealed
}

func (g *GameSession) PlayerByConn(connID string) *Player {
	for _, p := range g.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (g *GameSession) Opponent(connID string) *Player {
	for _, p := range g.Players {
		if p.ConnID != connID {
			return p
		}
	}
	return nil
}

func (g *GameSession) HasAnswered(connID string) bool {
	r, ok := g.Answered[connID]
	return ok && r.Answered
}

// RecordAnswer marks connID as answered. A nil answer means the client sent
// no option index.
func (g *GameSession) RecordAnswer(connID string, answer *int, correct bool, timeTakenMs int) {
	rec := &AnswerRecord{
		Answered:    true,
		IsCorrect:   &correct,
		TimeTakenMs: timeTakenMs,
	}
	if answer != nil {
		idx := *answer
		rec.AnswerIndex = &idx
	}
	g.Answered[connID] = rec
}

func (g *GameSession) AllAnswered() bool {
	for _, p := range g.Players {
		if !g.HasAnswered(p.ConnID) {
			return false
		}
	}
	return true
}

func (g *GameSession) Scores() []Score {
	scores := make([]Score, 0, len(g.Players))
	for _, p := range g.Players {
		scores = append(scores, Score{Name: p.Name, Score: p.Score})
	}
	return scores
}

// Winner returns the first player holding the highest score, so ties go to
// the player who was waiting in the queue.
func (g *GameSession) Winner() *Player {
	winner := g.Players[0]
	for _, p := range g.Players[1:] {
		if p.Score > winner.Score {
			winner = p
		}
	}
	return winner
}

type Score struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type Stats struct {
	ActiveGames    int `json:"activeGames"`
	WaitingPlayers int `json:"waitingPlayers"`
	TotalQuestions int `json:"totalQuestions"`
}
