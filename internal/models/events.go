package models

const (
	EventNameGameMatched      = "game.matched"
	EventNameQuestionResolved = "question.resolved"
	EventNameGameEnded        = "game.ended"
	EventNameGameAbandoned    = "game.abandoned"
)

// Question resolution outcomes.
const (
	OutcomeCorrect   = "correct"
	OutcomeBothWrong = "both_wrong"
	OutcomeTimeout   = "timeout"
)

type EventGameMatched struct {
	GameID      string   `json:"gameId"`
	Players     []string `json:"players"`
	QuestionIDs []int    `json:"questionIds"`
}

func (EventGameMatched) Name() string { return EventNameGameMatched }

type EventQuestionResolved struct {
	GameID         string  `json:"gameId"`
	QuestionNumber int     `json:"questionNumber"`
	QuestionID     int     `json:"questionId"`
	Outcome        string  `json:"outcome"`
	By             string  `json:"by,omitempty"`
	Scores         []Score `json:"scores"`
}

func (EventQuestionResolved) Name() string { return EventNameQuestionResolved }

type EventGameEnded struct {
	GameID      string  `json:"gameId"`
	FinalScores []Score `json:"finalScores"`
	Winner      string  `json:"winner"`
}

func (EventGameEnded) Name() string { return EventNameGameEnded }

type EventGameAbandoned struct {
	GameID    string `json:"gameId"`
	Left      string `json:"left"`
	Remaining string `json:"remaining"`
}

func (EventGameAbandoned) Name() string { return EventNameGameAbandoned }
