package services

import (
	"log/slog"

	"ecoquiz-duel/internal/models"
)

// joinQueue pairs the caller with the waiting player, or takes the waiting
// slot when it is empty.
func (gs *GameService) joinQueue(connID, requested string) error {
	if _, ok := gs.conns[connID]; ok {
		return ErrAlreadyPlaying
	}

	if gs.waiting != nil && gs.waiting.ConnID == connID {
		gs.notifyWaiting()
		return nil
	}

	player := models.NewPlayer(DisplayName(gs.rng, requested), connID)

	if gs.waiting == nil {
		gs.waiting = player
		slog.Info("game: player waiting", "conn_id", connID, "name", player.Name)
		gs.notifyWaiting()
		return nil
	}

	first := gs.waiting
	gs.waiting = nil
	gs.createGame(first, player)
	return nil
}

func (gs *GameService) notifyWaiting() {
	gs.send(gs.waiting.ConnID, models.TypeQueueStatus, models.QueueStatusPayload{
		Status:   models.QueueStatusWaiting,
		Position: 1,
	})
}

func (gs *GameService) createGame(first, second *models.Player) {
	qs := gs.bank.Sample(gs.rng, gs.questionsPerGame)
	g := models.NewGameSession(first, second, qs, gs.now())

	gs.games[g.ID] = g
	gs.conns[first.ConnID] = g.ID
	gs.conns[second.ConnID] = g.ID

	for _, p := range g.Players {
		gs.send(p.ConnID, models.TypeGameMatched, models.GameMatchedPayload{
			GameID:       g.ID,
			YourName:     p.Name,
			OpponentName: g.Opponent(p.ConnID).Name,
		})
	}

	ids := make([]int, 0, len(qs))
	for _, q := range qs {
		ids = append(ids, q.ID)
	}
	gs.publish(models.EventGameMatched{
		GameID:      g.ID,
		Players:     []string{first.Name, second.Name},
		QuestionIDs: ids,
	})

	slog.Info("game: matched", "game_id", g.ID, "players", []string{first.Name, second.Name}, "questions", len(qs))

	gs.schedule(gs.matchDelay, func() {
		gs.startQuestion(g.ID)
	})
}
