package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gridiron/bot"
	"gridiron/game"
	"gridiron/rules"
	"gridiron/scripted"
	"gridiron/searcher"
	"gridiron/wire"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	b := bot.New(rules.NewLocalEngine(), scripted.NewPolicy(), searcher.WithIterations(20), searcher.WithSeed(1))
	ts := httptest.NewServer(New(b, 100*time.Millisecond).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postAct(t *testing.T, ts *httptest.Server, s *game.State, budgetMS int) *http.Response {
	t.Helper()
	stateDoc, err := wire.Encode(s)
	require.NoError(t, err, "The fixture state encodes")
	body, err := json.Marshal(map[string]any{"state": json.RawMessage(stateDoc), "budget_ms": budgetMS})
	require.NoError(t, err, "The request body marshals")
	resp, err := http.Post(ts.URL+"/act", "application/json", bytes.NewReader(body))
	require.NoError(t, err, "The request reaches the server")
	return resp
}

func decodeError(t *testing.T, resp *http.Response) (string, string) {
	t.Helper()
	defer resp.Body.Close()
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body), "Error responses carry a JSON body")
	return body.Error, body.Detail
}

func TestActAnswersTheCoinToss(t *testing.T) {
	ts := newTestServer(t)
	s := rules.NewGame(rules.DefaultTeam(1), rules.DefaultTeam(2))

	resp := postAct(t, ts, s, 0)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "A scripted decision answers immediately")
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"), "Actions come back as JSON")

	var action struct {
		ActionType string `json:"action_type"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&action), "The action body decodes")
	require.Equal(t, "TAILS", action.ActionType, "The table calls tails")
}

func TestActSearchesAPlayerTurn(t *testing.T) {
	ts := newTestServer(t)

	sq := game.Sq(9, 8)
	carrier := &game.Player{ID: 11, Role: "Lineman", MA: 6, ST: 3, AG: 3, AV: 8, Position: &sq, State: game.NewPlayerState()}
	oppSq := game.Sq(24, 2)
	opponent := &game.Player{ID: 21, Role: "Lineman", MA: 6, ST: 3, AG: 3, AV: 8, Position: &oppSq, State: game.NewPlayerState()}
	s := &game.State{
		Half:               1,
		Round:              3,
		Weather:            game.WeatherNice,
		HomeTeam:           &game.Team{ID: 1, Players: map[int]*game.Player{11: carrier}},
		AwayTeam:           &game.Team{ID: 2, Players: map[int]*game.Player{21: opponent}},
		HomeDugout:         &game.Dugout{TeamID: 1},
		AwayDugout:         &game.Dugout{TeamID: 2},
		KickingFirstHalf:   2,
		ReceivingFirstHalf: 1,
		KickingThisDrive:   2,
		ReceivingThisDrive: 1,
		Procedure:          game.ProcTurn,
		CurrentTeamID:      1,
		TurnState:          game.NewTurnState(),
		Balls:              []game.Ball{{Position: &sq, Carried: true}},
	}

	resp := postAct(t, ts, s, 50)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "An open turn is searched and answered")

	var action struct {
		ActionType string `json:"action_type"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&action), "The action body decodes")
	require.NotEmpty(t, action.ActionType, "The search returns a concrete action")
}

func TestActRejectsBadRequests(t *testing.T) {
	ts := newTestServer(t)

	t.Run("garbage body", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/act", "application/json", bytes.NewReader([]byte("{not json")))
		require.NoError(t, err, "The request reaches the server")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "Unparseable bodies are the caller's fault")
		name, _ := decodeError(t, resp)
		require.Equal(t, "decode_failed", name, "The body names the failure")
	})

	t.Run("missing state", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/act", "application/json", bytes.NewReader([]byte(`{"budget_ms":10}`)))
		require.NoError(t, err, "The request reaches the server")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "A request without a state is rejected")
		name, _ := decodeError(t, resp)
		require.Equal(t, "decode_failed", name, "The body names the failure")
	})

	t.Run("wrong method", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/act")
		require.NoError(t, err, "The request reaches the server")
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, "Only POST decides")
		name, _ := decodeError(t, resp)
		require.Equal(t, "method_not_allowed", name, "The body names the failure")
	})
}

func TestActRejectsFinishedGames(t *testing.T) {
	ts := newTestServer(t)
	s := rules.NewGame(rules.DefaultTeam(1), rules.DefaultTeam(2))
	s.GameOver = true
	s.Procedure = game.ProcEndTurn

	resp := postAct(t, ts, s, 0)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "A finished game has nothing to decide")
	name, detail := decodeError(t, resp)
	require.Equal(t, "unsupported_decision", name, "The taxonomy name comes back")
	require.NotEmpty(t, detail, "The detail explains the rejection")
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err, "The probe reaches the server")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "The server reports healthy")

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body), "The health body decodes")
	require.Equal(t, "ok", body.Status, "The health body reports ok")
}
