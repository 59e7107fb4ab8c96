package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/windoze95/ingredai-api/internal/logger"
	"github.com/windoze95/ingredai-api/internal/service"
	"github.com/windoze95/ingredai-api/internal/util"
	"github.com/windoze95/ingredai-api/internal/voice"
	"go.uber.org/zap"
)

// WebSocket message types for the voice protocol.
const (
	MsgTypeStart      = "start"      // Client starts listening
	MsgTypeStop       = "stop"       // Client stops listening; buffered audio is transcribed
	MsgTypeAudio      = "audio"      // Client sends an audio chunk
	MsgTypeTranscript = "transcript" // Final transcript, either direction
	MsgTypeFeedback   = "feedback"   // Interpreted command and its feedback
	MsgTypeState      = "state"      // Workspace snapshot, broadcast to the room
	MsgTypeError      = "error"      // Error message
	MsgTypeConnected  = "connected"  // Connection confirmed
)

// operationTimeout bounds the work triggered by one message, including a
// full recipe generation.
const operationTimeout = 2 * time.Minute

// WSMessage is the envelope for all messages sent over the voice WebSocket.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AudioPayload carries one audio chunk. Data is base64 encoded in JSON.
type AudioPayload struct {
	Data []byte `json:"data"`
}

// TranscriptPayload carries a final transcript.
type TranscriptPayload struct {
	Transcript string `json:"transcript"`
}

// ErrorPayload carries an error message to the client. Code is set for
// speech recognition errors.
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ConnectedPayload confirms a successful connection.
type ConnectedPayload struct {
	Workspace string `json:"workspace"`
	ClientID  string `json:"client_id"`
}

// VoiceHandler manages WebSocket connections for voice control.
type VoiceHandler struct {
	Hub      *Hub
	Registry *service.Registry
	Speech   voice.Transcriber
}

// NewVoiceHandler returns a new VoiceHandler. Every controller the registry
// creates from now on broadcasts its state changes to its workspace room.
// speech may be nil, in which case only text transcripts are accepted.
func NewVoiceHandler(hub *Hub, registry *service.Registry, speech voice.Transcriber) *VoiceHandler {
	vh := &VoiceHandler{Hub: hub, Registry: registry, Speech: speech}
	registry.OnCreate(func(ctl *service.Controller) {
		ws := ctl.Workspace
		ctl.OnChange(func(s service.State) {
			vh.broadcastState(ws, s)
		})
	})
	return vh
}

// upgrader is configured for voice WebSocket upgrades.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		// Allow localhost for development
		if strings.HasPrefix(origin, "http://localhost:") || origin == "http://localhost" ||
			strings.HasPrefix(origin, "http://127.0.0.1:") {
			return true
		}
		return origin == "https://"+r.Host
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// connection is the per-socket state.
type connection struct {
	client  *Client
	ctl     *service.Controller
	session *voice.Session
}

// HandleVoiceSession upgrades an HTTP request to a WebSocket connection for
// voice control of the request's workspace. The workspace comes from the
// workspace middleware, which accepts a query parameter because browsers
// cannot set headers on WebSocket requests.
func (vh *VoiceHandler) HandleVoiceSession(c *gin.Context) {
	log := logger.FromGin(c)

	workspace, err := util.GetWorkspaceFromContext(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workspace is required"})
		return
	}
	ctl, release := vh.Registry.Hold(c.Request.Context(), workspace)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		release()
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		Hub:    vh.Hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		RoomID: workspace,
		ID:     uuid.NewString(),
	}
	vc := vh.newConnection(client, ctl)
	vh.Hub.Register <- client

	vh.send(client, MsgTypeConnected, ConnectedPayload{Workspace: workspace, ClientID: client.ID})
	vh.send(client, MsgTypeState, ctl.State(c.Request.Context()))

	log.Info("voice session started", zap.String("client_id", client.ID))

	go client.WritePump()
	go func() {
		client.ReadPump(func(data []byte) {
			vh.handleMessage(vc, data)
		})
		vc.session.Abort()
		release()
	}()
}

// newConnection wires a recognizer session for client to ctl.
func (vh *VoiceHandler) newConnection(client *Client, ctl *service.Controller) *connection {
	vc := &connection{client: client, ctl: ctl, session: voice.NewSession(vh.Speech)}

	vc.session.OnStateChange(func(st voice.State) {
		ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
		defer cancel()
		ctl.SetListening(ctx, st == voice.StateListening)
	})
	vc.session.OnTranscript(func(transcript string) {
		ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
		defer cancel()
		vh.send(client, MsgTypeTranscript, TranscriptPayload{Transcript: transcript})
		result := ctl.ProcessTranscript(ctx, transcript)
		vh.send(client, MsgTypeFeedback, result)
	})
	vc.session.OnError(func(code string) {
		ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
		defer cancel()
		ctl.ReportSpeechError(ctx, code)
		vh.send(client, MsgTypeError, ErrorPayload{Message: "speech recognition failed", Code: code})
	})
	return vc
}

// handleMessage parses an incoming WebSocket message and routes it to the
// appropriate handler. Work that may call an AI provider runs on its own
// goroutine so the read loop keeps draining the socket.
func (vh *VoiceHandler) handleMessage(vc *connection, data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		vh.sendError(vc.client, "invalid message format")
		return
	}

	logger.Get().Debug("received ws message",
		zap.String("type", msg.Type),
		zap.String("room_id", vc.client.RoomID),
		zap.String("client_id", vc.client.ID),
	)

	switch msg.Type {
	case MsgTypeStart:
		vc.session.Start()

	case MsgTypeAudio:
		var audio AudioPayload
		if err := json.Unmarshal(msg.Payload, &audio); err != nil || len(audio.Data) == 0 {
			vh.sendError(vc.client, "invalid audio payload")
			return
		}
		if err := vc.session.Write(audio.Data); err != nil {
			vh.send(vc.client, MsgTypeError, ErrorPayload{Message: err.Error(), Code: voice.ErrorCode(err)})
		}

	case MsgTypeStop:
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
			defer cancel()
			vc.session.Stop(ctx)
		}()

	case MsgTypeTranscript:
		var tp TranscriptPayload
		if err := json.Unmarshal(msg.Payload, &tp); err != nil {
			vh.sendError(vc.client, "invalid transcript payload")
			return
		}
		go vc.session.Submit(tp.Transcript)

	default:
		vh.sendError(vc.client, "unknown message type: "+msg.Type)
	}
}

// broadcastState sends a snapshot to every socket in the workspace room.
func (vh *VoiceHandler) broadcastState(workspace string, s service.State) {
	data, err := encode(MsgTypeState, s)
	if err != nil {
		logger.Get().Error("failed to encode state", zap.String(logger.WorkspaceKey, workspace), zap.Error(err))
		return
	}
	vh.Hub.Broadcast <- &RoomMessage{RoomID: workspace, Message: data}
}

// send queues a message for one client. A full buffer drops the message.
func (vh *VoiceHandler) send(client *Client, msgType string, payload interface{}) {
	data, err := encode(msgType, payload)
	if err != nil {
		logger.Get().Error("failed to encode ws message", zap.String("type", msgType), zap.Error(err))
		return
	}
	if client.Queue(data) {
		return
	}
	if !client.Closed() {
		logger.Get().Warn("dropping ws message for slow client",
			zap.String("type", msgType),
			zap.String("client_id", client.ID),
		)
	}
}

// sendError sends an error message to a single client.
func (vh *VoiceHandler) sendError(client *Client, message string) {
	vh.send(client, MsgTypeError, ErrorPayload{Message: message})
}

func encode(msgType string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(WSMessage{Type: msgType, Payload: raw})
}
