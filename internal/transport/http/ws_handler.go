package http

import (
	"encoding/json"
	"net/http"

	"blockquest/internal/app"
	"blockquest/internal/logger"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.MiningService
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.MiningService, log *logger.Logger) *WSHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &WSHandler{
		service: service,
		log:     log.With("component", "WSHandler"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectTopicPayload struct {
	TopicID string `json:"topicId"`
}

type selectOptionPayload struct {
	Index *int `json:"index"`
}

type welcomePayload struct {
	PlayerID string       `json:"playerId"`
	Snapshot app.Snapshot `json:"snapshot"`
}

type answerResult struct {
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}

// ServeWS upgrades HTTP requests to websockets and runs one mining session per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	avatar := r.URL.Query().Get("avatar")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	player := h.service.NewPlayer(name, avatar)
	playerID := player.ID()
	defer h.service.Leave(playerID)

	updates, cancel, err := h.service.Subscribe(playerID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err.Error()))
		return
	}
	defer cancel()

	// the first snapshot on a fresh subscription is the current state
	initial := <-updates

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer: gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", "player", playerID, "error", err)
				// keep draining so producers never block on a dead connection
				for range send {
				}
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "welcome", Payload: welcomePayload{PlayerID: playerID, Snapshot: initial}}

	ctx := r.Context()
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.service.Touch(ctx, playerID)

		switch inbound.Type {
		case "selectTopic":
			var payload selectTopicPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.TopicID == "" {
				send <- errorMessage("invalid selectTopic payload")
				continue
			}
			if err := h.service.SelectTopic(ctx, playerID, payload.TopicID); err != nil {
				send <- errorMessage(err.Error())
			}
		case "selectOption":
			var payload selectOptionPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Index == nil {
				send <- errorMessage("invalid selectOption payload")
				continue
			}
			res, err := h.service.SelectOption(playerID, *payload.Index)
			if err != nil {
				send <- errorMessage(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: answerResult{
				Correct:      res.Correct,
				CorrectIndex: res.CorrectIndex,
				Explanation:  res.Explanation,
			}}
		case "retry":
			if err := h.service.Retry(ctx, playerID); err != nil {
				send <- errorMessage(err.Error())
			}
		case "abort":
			if err := h.service.Abort(playerID); err != nil {
				send <- errorMessage(err.Error())
			}
		default:
			send <- errorMessage("unsupported message type")
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
