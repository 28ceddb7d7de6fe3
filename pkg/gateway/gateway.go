package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/foolgame/foolserver/pkg/fool"
	"github.com/foolgame/foolserver/pkg/server"
)

// WSMessage is the JSON envelope for WebSocket messages.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinPayload struct {
	PlayerID string `json:"playerId"`
}

type playPayload struct {
	CardIndex int `json:"cardIndex"`
}

type resultPayload struct {
	Accepted     bool       `json:"accepted"`
	Reason       string     `json:"reason,omitempty"`
	Action       string     `json:"action,omitempty"`
	Card         *fool.Card `json:"card,omitempty"`
	NextPlayerID string     `json:"nextPlayerId,omitempty"`
	TookCards    bool       `json:"tookCards,omitempty"`
	RoundEnded   bool       `json:"roundEnded,omitempty"`
	GameOver     bool       `json:"gameOver,omitempty"`
}

type handPayload struct {
	Cards []*fool.Card `json:"cards"`
}

type transferPayload struct {
	Enabled bool `json:"enabled"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Gateway exposes rooms over HTTP and WebSocket.
type Gateway struct {
	mux *http.ServeMux
	srv *server.Server
	log slog.Logger
}

// New creates a gateway with all routes.
func New(srv *server.Server, log slog.Logger) *Gateway {
	g := &Gateway{
		mux: http.NewServeMux(),
		srv: srv,
		log: log,
	}
	g.routes()
	return g
}

func (g *Gateway) routes() {
	g.mux.HandleFunc("POST /api/rooms", g.handleCreateRoom)
	g.mux.HandleFunc("GET /api/rooms", g.handleListRooms)
	g.mux.HandleFunc("GET /api/rooms/{id}/ws", g.handleWebSocket)
	g.mux.HandleFunc("GET /api/players/{id}/stats", g.handlePlayerStats)
	g.mux.HandleFunc("GET /api/leaderboard", g.handleLeaderboard)
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mux.ServeHTTP(w, r)
}

type roomInfo struct {
	RoomID  string `json:"roomId"`
	Players int    `json:"players"`
	Started bool   `json:"started"`
	State   string `json:"state"`
}

func (g *Gateway) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	room := g.srv.CreateRoom()
	writeJSON(w, http.StatusCreated, roomInfo{
		RoomID: room.ID,
		State:  room.Game().StateString(),
	})
}

func (g *Gateway) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := g.srv.Rooms()
	out := make([]roomInfo, 0, len(rooms))
	for _, room := range rooms {
		game := room.Game()
		out = append(out, roomInfo{
			RoomID:  room.ID,
			Players: len(game.PlayerIDs()),
			Started: game.Started(),
			State:   game.StateString(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (g *Gateway) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := g.srv.DB().GetPlayerStats(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (g *Gateway) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	top, err := g.srv.DB().GetTopPlayers(20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	room, ok := g.srv.GetRoom(r.PathValue("id"))
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // allow any origin for dev
	})
	if err != nil {
		g.log.Warnf("websocket accept: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()

	// First message must be a join
	_, data, err := conn.Read(ctx)
	if err != nil {
		return
	}
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "join" {
		sendWSError(ctx, conn, "first message must be a join")
		return
	}
	var join joinPayload
	if err := json.Unmarshal(msg.Payload, &join); err != nil || join.PlayerID == "" {
		sendWSError(ctx, conn, "invalid join payload")
		return
	}
	playerID := join.PlayerID

	if err := room.Join(playerID, false); err != nil {
		// Reconnects into a running game are fine; fresh joins are not.
		if room.Game().Player(playerID) == nil {
			sendWSError(ctx, conn, err.Error())
			return
		}
		room.Game().SetPlayerOnline(playerID)
	}

	send := make(chan []byte, 64)
	done := make(chan struct{})
	defer close(done)
	notifs, cancel := room.Subscribe()
	defer cancel()

	// Writer goroutine: send messages from the channel to the websocket.
	// The send channel is never closed; done stops the writer so concurrent
	// producers can keep using non-blocking sends safely.
	go func() {
		for {
			select {
			case msg := <-send:
				if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Notification pump: room broadcasts plus a private hand snapshot after
	// every event that may have changed this player's cards.
	go func() {
		for n := range notifs {
			raw, err := json.Marshal(n.Payload)
			if err != nil {
				continue
			}
			trySend(send, WSMessage{Type: string(n.Type), Payload: raw})
			switch n.Type {
			case fool.EventRoundStarted, fool.EventRoundEnded, fool.EventCardPlayed:
				g.sendHand(send, room, playerID)
			}
		}
	}()

	sendWSMsg(send, "joined", joinPayload{PlayerID: playerID})
	g.sendHand(send, room, playerID)

	// Reader loop: handle incoming messages
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			g.log.Debugf("room %s: undecodable message from %s: %s",
				room.ID, playerID, spew.Sdump(data))
			sendWSMsg(send, "error", errorPayload{Message: "invalid message"})
			continue
		}
		g.handleMessage(room, playerID, send, msg)
	}

	g.log.Debugf("player %s disconnected from room %s", playerID, room.ID)
	if !room.Game().IsOver() {
		room.Leave(playerID)
	}
}

func (g *Gateway) handleMessage(room *server.Room, playerID string, send chan []byte, msg WSMessage) {
	switch msg.Type {
	case "start":
		if err := room.Start(); err != nil {
			sendWSMsg(send, "error", errorPayload{Message: err.Error()})
		}

	case "addRobot":
		id := "robot-" + uuid.New().String()[:8]
		if err := room.Join(id, true); err != nil {
			sendWSMsg(send, "error", errorPayload{Message: err.Error()})
		}

	case "play":
		var pp playPayload
		if err := json.Unmarshal(msg.Payload, &pp); err != nil {
			sendWSMsg(send, "error", errorPayload{Message: "invalid play payload"})
			return
		}
		res, err := room.PlayCard(playerID, pp.CardIndex)
		if err != nil {
			sendWSMsg(send, "error", errorPayload{Message: err.Error()})
			return
		}
		sendWSMsg(send, "result", toResultPayload(res))
		g.sendHand(send, room, playerID)

	case "skip":
		res, err := room.PassOrTake(playerID)
		if err != nil {
			sendWSMsg(send, "error", errorPayload{Message: err.Error()})
			return
		}
		sendWSMsg(send, "result", toResultPayload(res))
		g.sendHand(send, room, playerID)

	case "transfer":
		enabled := room.ToggleTransfer(playerID)
		sendWSMsg(send, "transfer", transferPayload{Enabled: enabled})

	case "hand":
		g.sendHand(send, room, playerID)

	default:
		sendWSMsg(send, "error", errorPayload{Message: "unknown message type: " + msg.Type})
	}
}

func (g *Gateway) sendHand(send chan []byte, room *server.Room, playerID string) {
	sendWSMsg(send, "hand", handPayload{Cards: room.Game().PlayerHand(playerID)})
}

func toResultPayload(res *fool.PlayResult) resultPayload {
	return resultPayload{
		Accepted:     res.Accepted,
		Reason:       res.Reason,
		Action:       string(res.Action),
		Card:         res.Card,
		NextPlayerID: res.NextPlayerID,
		TookCards:    res.TookCards,
		RoundEnded:   res.RoundEnded,
		GameOver:     res.GameOver,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sendWSMsg(send chan []byte, msgType string, payload any) {
	p, _ := json.Marshal(payload)
	trySend(send, WSMessage{Type: msgType, Payload: p})
}

func trySend(send chan []byte, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case send <- data:
	default:
	}
}

func sendWSError(ctx context.Context, conn *websocket.Conn, message string) {
	p, _ := json.Marshal(errorPayload{Message: message})
	msg, _ := json.Marshal(WSMessage{Type: "error", Payload: p})
	_ = conn.Write(ctx, websocket.MessageText, msg)
}
