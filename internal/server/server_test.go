package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoquiz-duel/internal/config"
	"ecoquiz-duel/internal/models"
	"ecoquiz-duel/internal/services"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testClient struct {
	baseURL string
	client  *http.Client
}

func newTestClient(baseURL string) *testClient {
	return &testClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (tc *testClient) Get(path string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, tc.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return tc.client.Do(req)
}

func (tc *testClient) GetJSON(path string, target any) error {
	resp, err := tc.Get(path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	return json.Unmarshal(body, target)
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func (c *wsClient) send(msgType string, data any) {
	c.t.Helper()

	b, err := models.NewMessage(msgType, data)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, b))
}

func (c *wsClient) sendRaw(data string) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, []byte(data)))
}

func (c *wsClient) read() models.Message {
	c.t.Helper()

	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg models.Message
	require.NoError(c.t, c.conn.ReadJSON(&msg))
	return msg
}

// readUntil skips messages until one of msgType arrives and decodes it.
func (c *wsClient) readUntil(msgType string, v any) {
	c.t.Helper()

	for i := 0; i < 20; i++ {
		msg := c.read()
		if msg.Type != msgType {
			continue
		}
		if v != nil {
			require.NoError(c.t, json.Unmarshal(msg.Data, v))
		}
		return
	}
	c.t.Fatalf("no %s message", msgType)
}

type testServer struct {
	*Server
	ts  *httptest.Server
	api *testClient
}

func newTestServer(t *testing.T) *testServer {
	c := config.Default()
	c.Game.MatchDelay = 5 * time.Millisecond
	c.Game.RevealDelay = 5 * time.Millisecond
	c.Game.TimeLimit = time.Hour

	s, err := Init(c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.game.Run(ctx)
		close(done)
	}()

	ts := httptest.NewServer(s.http.Handler)
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
		s.eb.Stop()
	})

	return &testServer{Server: s, ts: ts, api: newTestClient(ts.URL)}
}

func (s *testServer) dial(t *testing.T) *wsClient {
	url := "ws" + strings.TrimPrefix(s.ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &wsClient{t: t, conn: conn}
}

func (s *testServer) getStats(t *testing.T) models.Stats {
	var stats models.Stats
	require.NoError(t, s.api.GetJSON("/api/v1/stats", &stats))
	return stats
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	var body map[string]string
	require.NoError(t, s.api.GetJSON("/health", &body))
	assert.Equal(t, map[string]string{"status": "ok", "service": ServiceName}, body)
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.api.Get("/health", http.Header{"Origin": {"http://example.com"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_StatsAndMetrics(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, models.Stats{TotalQuestions: 20}, s.getStats(t))

	resp, err := s.api.Get("/metrics", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "duel_active_games")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServer_PprofDisabledByDefault(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.api.Get("/debug/pprof/", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_GameOverWebSocket(t *testing.T) {
	s := newTestServer(t)
	ada := s.dial(t)
	bob := s.dial(t)

	ada.send(models.TypeJoinQueue, models.JoinQueueRequest{Name: "Ada"})
	var status models.QueueStatusPayload
	ada.readUntil(models.TypeQueueStatus, &status)
	assert.Equal(t, models.QueueStatusWaiting, status.Status)
	assert.Equal(t, 1, s.getStats(t).WaitingPlayers)

	bob.send(models.TypeJoinQueue, models.JoinQueueRequest{Name: "Bob"})
	var matched models.GameMatchedPayload
	bob.readUntil(models.TypeGameMatched, &matched)
	assert.Equal(t, "Bob", matched.YourName)
	assert.Equal(t, "Ada", matched.OpponentName)
	ada.readUntil(models.TypeGameMatched, nil)

	var start models.QuestionStartPayload
	ada.readUntil(models.TypeQuestionStart, &start)
	bob.readUntil(models.TypeQuestionStart, nil)
	assert.Equal(t, 1, start.QuestionNumber)
	assert.Len(t, start.Question.Options, 4)

	q, ok := s.bank.Get(start.Question.ID)
	require.True(t, ok)

	ada.send(models.TypeAnswerQuestion, models.AnswerRequest{GameID: matched.GameID, Answer: &q.CorrectAnswer})

	var result models.ResultPayload
	bob.readUntil(models.TypeAnswerResult, &result)
	require.NotNil(t, result.By)
	assert.Equal(t, "Ada", *result.By)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 10, result.Scores[0].Score)

	assert.Equal(t, 1, s.getStats(t).ActiveGames)

	require.NoError(t, bob.conn.Close())

	var gone models.OpponentDisconnectedPayload
	ada.readUntil(models.TypeOpponentDisconnected, &gone)
	assert.True(t, gone.IsWinner)

	assert.Eventually(t, func() bool {
		return s.game.Stats() == models.Stats{TotalQuestions: 20}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServer_MalformedFramesAreDropped(t *testing.T) {
	s := newTestServer(t)
	c := s.dial(t)

	c.sendRaw("not json")
	c.sendRaw(`{"type":"answer-question","data":{"answer":"two"}}`)
	c.sendRaw(`{"type":"mystery"}`)
	c.sendRaw(`{"type":"join-queue"}`)

	var status models.QueueStatusPayload
	c.readUntil(models.TypeQueueStatus, &status)
	assert.Equal(t, 1, status.Position)
}

func TestServer_InitRejectsSmallBank(t *testing.T) {
	c := config.Default()
	c.Game.QuestionsPerGame = 25

	s, err := Init(c)
	require.ErrorIs(t, err, services.ErrBankTooSmall)
	assert.Nil(t, s)
}

func TestServer_FractionalTimeTaken(t *testing.T) {
	s := newTestServer(t)
	ada := s.dial(t)
	bob := s.dial(t)

	ada.send(models.TypeJoinQueue, models.JoinQueueRequest{Name: "Ada"})
	bob.send(models.TypeJoinQueue, models.JoinQueueRequest{Name: "Bob"})

	var matched models.GameMatchedPayload
	ada.readUntil(models.TypeGameMatched, &matched)

	var start models.QuestionStartPayload
	ada.readUntil(models.TypeQuestionStart, &start)
	q, ok := s.bank.Get(start.Question.ID)
	require.True(t, ok)

	ada.sendRaw(fmt.Sprintf(`{"type":"answer-question","data":{"gameId":%q,"answer":%d,"timeTaken":2300.5}}`,
		matched.GameID, q.CorrectAnswer))

	var result models.ResultPayload
	ada.readUntil(models.TypeAnswerResult, &result)
	require.NotNil(t, result.By)
	assert.Equal(t, "Ada", *result.By)
	assert.True(t, result.IsCorrect)
}

func TestServer_AnswerWithoutIndexIsWrong(t *testing.T) {
	s := newTestServer(t)
	ada := s.dial(t)
	bob := s.dial(t)

	ada.send(models.TypeJoinQueue, models.JoinQueueRequest{Name: "Ada"})
	bob.send(models.TypeJoinQueue, models.JoinQueueRequest{Name: "Bob"})

	var matched models.GameMatchedPayload
	ada.readUntil(models.TypeGameMatched, &matched)
	ada.readUntil(models.TypeQuestionStart, nil)

	ada.sendRaw(fmt.Sprintf(`{"type":"answer-question","data":{"gameId":%q}}`, matched.GameID))

	var result models.ResultPayload
	ada.readUntil(models.TypeAnswerResult, &result)
	assert.False(t, result.IsCorrect)
	assert.False(t, result.Ended)
	assert.Nil(t, result.CorrectAnswer)
}
