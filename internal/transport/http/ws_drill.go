package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"selfquiz-service/internal/app"
	"selfquiz-service/internal/domain"
)

// DrillHandler runs a test session interactively over one WebSocket:
// questions are delivered one at a time and each answer advances to the
// next, with the scored results sent after the last answer. The session
// itself is the same Trainer session the JSON API uses.
type DrillHandler struct {
	trainer  *app.Trainer
	upgrader websocket.Upgrader
}

func NewDrillHandler(trainer *app.Trainer) *DrillHandler {
	return &DrillHandler{
		trainer: trainer,
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

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type startPayload struct {
	Count  string `json:"count"`
	Domain string `json:"domain"`
	Mode   string `json:"mode"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Selected   []int  `json:"selected"`
}

// questionView is a question with its answer key withheld.
type questionView struct {
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Domain   string   `json:"domain"`
}

// ServeWS upgrades the request and drives one drill run per connection.
func (h *DrillHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	user := r.URL.Query().Get("user")
	if user == "" {
		user = defaultUser
	}

	var (
		session domain.TestSession
		active  bool
		pos     int
		answers map[string][]string
	)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(conn, "invalid start payload")
				continue
			}
			session, err = h.trainer.CreateSession(r.Context(), user, app.SessionRequest{
				Count:  payload.Count,
				Domain: payload.Domain,
				Mode:   domain.SessionMode(payload.Mode),
			})
			if err != nil {
				h.sendError(conn, err.Error())
				continue
			}
			active = true
			pos = 0
			answers = make(map[string][]string)
			h.sendQuestion(conn, session, pos)
		case "answer":
			if !active {
				h.sendError(conn, domain.ErrNoActiveSession.Error())
				continue
			}
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(conn, "invalid answer payload")
				continue
			}
			if payload.QuestionID != session.Questions[pos].ID {
				h.sendError(conn, "answer does not match the current question")
				continue
			}
			selected := make([]string, 0, len(payload.Selected))
			for _, idx := range payload.Selected {
				selected = append(selected, strconv.Itoa(idx))
			}
			answers[payload.QuestionID] = selected
			pos++
			if pos < len(session.Questions) {
				h.sendQuestion(conn, session, pos)
				continue
			}
			results, err := h.trainer.Submit(r.Context(), user, answers)
			if err != nil {
				// The run is over either way: the stored session is gone
				// (expired, or consumed elsewhere), so a retry must start a
				// new drill rather than index past the last question.
				active = false
				pos = 0
				h.sendError(conn, err.Error())
				continue
			}
			active = false
			h.send(conn, outboundMessage[domain.Results]{Type: "results", Payload: results})
		default:
			h.sendError(conn, "unsupported message type")
		}
	}
}

func (h *DrillHandler) sendQuestion(conn *websocket.Conn, session domain.TestSession, pos int) {
	q := session.Questions[pos]
	h.send(conn, outboundMessage[questionView]{Type: "question", Payload: questionView{
		Index:    pos,
		Total:    len(session.Questions),
		ID:       q.ID,
		Question: q.Text,
		Choices:  q.Choices,
		Domain:   q.Domain,
	}})
}

func (h *DrillHandler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}

func (h *DrillHandler) send(conn *websocket.Conn, msg any) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("ws write error: %v", err)
	}
}
