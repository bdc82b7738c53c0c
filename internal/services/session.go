package services

import (
	"log/slog"
	"time"

	"ecoquiz-duel/internal/models"
)

// startQuestion opens the question at the game's current index, or ends the
// game when none are left.
func (gs *GameService) startQuestion(gameID string) {
	g, ok := gs.games[gameID]
	if !ok {
		return
	}

	q, ok := g.Current()
	if !ok {
		gs.endGame(g)
		return
	}

	g.BeginQuestion(gs.now())
	gs.broadcast(g, models.TypeQuestionStart, models.QuestionStartPayload{
		QuestionNumber: g.CurrentQuestion + 1,
		TotalQuestions: len(g.Questions),
		Question:       q.Public(),
		TimeLimitMs:    gs.timeLimit.Milliseconds(),
	})
	gs.armDeadline(g)

	slog.Debug("game: question started", "game_id", g.ID, "number", g.CurrentQuestion+1, "question_id", q.ID)
}

// armDeadline closes the current question server-side once the time limit
// and grace period have passed without a resolution.
func (gs *GameService) armDeadline(g *models.GameSession) {
	gs.stopDeadline(g.ID)

	id, idx := g.ID, g.CurrentQuestion
	gs.deadlines[id] = gs.schedule(gs.timeLimit+gs.timeoutGrace, func() {
		gs.expire(id, idx)
	})
}

func (gs *GameService) stopDeadline(gameID string) {
	if t, ok := gs.deadlines[gameID]; ok {
		t.Stop()
		delete(gs.deadlines, gameID)
	}
}

func (gs *GameService) expire(gameID string, idx int) {
	g, ok := gs.games[gameID]
	if !ok || g.State != models.Playing || g.CurrentQuestion != idx || g.Resolved() {
		return
	}

	slog.Debug("game: question deadline passed", "game_id", gameID, "number", idx+1)
	g.TimedOut = true
	gs.reveal(g, models.OutcomeTimeout)
}

func (gs *GameService) answer(connID string, req models.AnswerRequest) error {
	g, ok := gs.games[req.GameID]
	if !ok {
		return ErrGameNotFound
	}
	player := g.PlayerByConn(connID)
	if player == nil {
		return ErrNotInGame
	}
	if g.State != models.Playing {
		return ErrQuestionClosed
	}
	q, ok := g.Current()
	if !ok {
		return ErrQuestionClosed
	}
	if g.Resolved() || g.HasAnswered(connID) {
		return ErrTooLate
	}

	// An answer with no option index is graded wrong.
	correct := req.Answer != nil && *req.Answer == q.CorrectAnswer
	g.RecordAnswer(connID, req.Answer, correct, ClampTimeTaken(req.TimeTaken))
	by := player.Name

	if !correct {
		gs.send(connID, models.TypeAnswerResult, models.ResultPayload{
			By:     &by,
			Scores: g.Scores(),
		})
		if g.AllAnswered() {
			gs.reveal(g, models.OutcomeBothWrong)
		}
		return nil
	}

	g.CorrectFound = true
	elapsed := gs.now().Sub(g.QuestionStartedAt)
	player.Score += Bonus(elapsed)

	correctAnswer := q.CorrectAnswer
	gs.broadcast(g, models.TypeAnswerResult, models.ResultPayload{
		By:            &by,
		IsCorrect:     true,
		Ended:         true,
		CorrectAnswer: &correctAnswer,
		Explanation:   q.Explanation,
		Scores:        g.Scores(),
	})

	slog.Debug("game: correct answer", "game_id", g.ID, "player", player.Name, "elapsed", elapsed.Round(time.Millisecond), "score", player.Score)
	gs.resolve(g, q, models.OutcomeCorrect, player.Name)
	return nil
}

func (gs *GameService) timeout(connID, gameID string) error {
	g, ok := gs.games[gameID]
	if !ok {
		return ErrGameNotFound
	}
	if g.PlayerByConn(connID) == nil {
		return ErrNotInGame
	}
	if g.State != models.Playing {
		return ErrQuestionClosed
	}
	if g.Resolved() {
		return ErrTooLate
	}

	g.TimedOut = true
	gs.reveal(g, models.OutcomeTimeout)
	return nil
}

// reveal closes the current question with nobody scoring and shows both
// players the correct answer.
func (gs *GameService) reveal(g *models.GameSession, outcome string) {
	g.Revealed = true

	q, _ := g.Current()
	correctAnswer := q.CorrectAnswer
	gs.broadcast(g, models.TypeQuestionReveal, models.ResultPayload{
		Ended:         true,
		CorrectAnswer: &correctAnswer,
		Explanation:   q.Explanation,
		Scores:        g.Scores(),
	})

	gs.resolve(g, q, outcome, "")
}

func (gs *GameService) resolve(g *models.GameSession, q models.Question, outcome, by string) {
	gs.stopDeadline(g.ID)

	gs.publish(models.EventQuestionResolved{
		GameID:         g.ID,
		QuestionNumber: g.CurrentQuestion + 1,
		QuestionID:     q.ID,
		Outcome:        outcome,
		By:             by,
		Scores:         g.Scores(),
	})

	id, idx := g.ID, g.CurrentQuestion
	gs.schedule(gs.revealDelay, func() {
		g, ok := gs.games[id]
		if !ok || g.CurrentQuestion != idx {
			return
		}
		if !g.HasMoreQuestions() {
			gs.endGame(g)
			return
		}
		g.CurrentQuestion++
		gs.startQuestion(id)
	})
}

func (gs *GameService) endGame(g *models.GameSession) {
	g.State = models.Finished

	winner := g.Winner()
	scores := g.Scores()
	for _, p := range g.Players {
		gs.send(p.ConnID, models.TypeGameEnd, models.GameEndPayload{
			FinalScores: scores,
			WinnerName:  winner.Name,
			IsWinner:    p == winner,
		})
	}

	gs.removeGame(g)
	gs.publish(models.EventGameEnded{
		GameID:      g.ID,
		FinalScores: scores,
		Winner:      winner.Name,
	})

	slog.Info("game: finished", "game_id", g.ID, "winner", winner.Name, "scores", scores, "duration", gs.now().Sub(g.CreatedAt).Round(time.Millisecond))
}

func (gs *GameService) disconnect(connID string) {
	if gs.waiting != nil && gs.waiting.ConnID == connID {
		slog.Info("game: waiting player left", "conn_id", connID, "name", gs.waiting.Name)
		gs.waiting = nil
		return
	}

	gameID, ok := gs.conns[connID]
	if !ok {
		return
	}
	g, ok := gs.games[gameID]
	if !ok {
		delete(gs.conns, connID)
		return
	}

	left := g.PlayerByConn(connID)
	remaining := g.Opponent(connID)
	g.State = models.Finished

	gs.send(remaining.ConnID, models.TypeOpponentDisconnected, models.OpponentDisconnectedPayload{IsWinner: true})
	gs.removeGame(g)
	gs.publish(models.EventGameAbandoned{
		GameID:    g.ID,
		Left:      left.Name,
		Remaining: remaining.Name,
	})

	slog.Info("game: abandoned", "game_id", g.ID, "left", left.Name, "remaining", remaining.Name, "duration", gs.now().Sub(g.CreatedAt).Round(time.Millisecond))
}

func (gs *GameService) removeGame(g *models.GameSession) {
	gs.stopDeadline(g.ID)
	delete(gs.games, g.ID)
	for _, p := range g.Players {
		if gs.conns[p.ConnID] == g.ID {
			delete(gs.conns, p.ConnID)
		}
	}
}
