package models

import "encoding/json"

// Client to server.
const (
	TypeJoinQueue       = "join-queue"
	TypeAnswerQuestion  = "answer-question"
	TypeQuestionTimeout = "question-timeout"
)

// Server to client.
const (
	TypeQueueStatus          = "queue-status"
	TypeGameMatched          = "game-matched"
	TypeQuestionStart        = "question-start"
	TypeAnswerResult         = "answer-result"
	TypeQuestionReveal       = "question-reveal"
	TypeTooLate              = "too-late"
	TypeGameEnd              = "game-end"
	TypeOpponentDisconnected = "opponent-disconnected"
)

const QueueStatusWaiting = "waiting"

// MaxTimeTakenMs bounds the client-reported answer time.
const MaxTimeTakenMs = 60000

type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type JoinQueueRequest struct {
	Name string `json:"name"`
}

// AnswerRequest leaves Answer nil when the client omits it. TimeTaken is
// client-measured milliseconds and may be fractional.
type AnswerRequest struct {
	GameID    string   `json:"gameId"`
	Answer    *int     `json:"answer"`
	TimeTaken *float64 `json:"timeTaken,omitempty"`
}

type TimeoutRequest struct {
	GameID string `json:"gameId"`
}

type QueueStatusPayload struct {
	Status   string `json:"status"`
	Position int    `json:"position"`
}

type GameMatchedPayload struct {
	GameID       string `json:"gameId"`
	YourName     string `json:"yourName"`
	OpponentName string `json:"opponentName"`
}

// PublicQuestion is the client view of a question, without the answer.
type PublicQuestion struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type QuestionStartPayload struct {
	QuestionNumber int            `json:"questionNumber"`
	TotalQuestions int            `json:"totalQuestions"`
	Question       PublicQuestion `json:"question"`
	TimeLimitMs    int64          `json:"timeLimitMs"`
}

// ResultPayload is shared by answer-result and question-reveal. By is nil on
// a reveal.
type ResultPayload struct {
	By            *string `json:"by"`
	IsCorrect     bool    `json:"isCorrect"`
	Ended         bool    `json:"ended"`
	CorrectAnswer *int    `json:"correctAnswer,omitempty"`
	Explanation   string  `json:"explanation,omitempty"`
	Scores        []Score `json:"scores"`
}

type GameEndPayload struct {
	FinalScores []Score `json:"finalScores"`
	WinnerName  string  `json:"winnerName"`
	IsWinner    bool    `json:"isWinner"`
}

type OpponentDisconnectedPayload struct {
	IsWinner bool `json:"isWinner"`
}

func NewMessage(msgType string, data any) ([]byte, error) {
	msg := Message{Type: msgType}
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = b
	}
	return json.Marshal(msg)
}

func (q Question) Public() PublicQuestion {
	return PublicQuestion{ID: q.ID, Text: q.Text, Options: q.Options}
}
