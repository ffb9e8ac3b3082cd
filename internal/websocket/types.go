package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"codeberg.org/algorave/errorstack/internal/parser"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// message type constants for websocket communication
const (
	// is sent to a connecting client with the current error
	TypeErrorState = "error_state"

	// is sent when the parser chain publishes a new error
	TypeErrorPublished = "error_published"

	// is sent when the current error is cleared
	TypeErrorCleared = "error_cleared"

	// is sent by clients to dismiss the current error
	TypeClearError = "clear_error"

	// is sent when a request from the client fails
	TypeError = "error"

	// is sent by clients to keep the connection alive
	TypePing = "ping"

	// is sent by server in response to ping
	TypePong = "pong"

	// is sent by server before shutdown
	TypeServerShutdown = "server_shutdown"
)

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maximum message size allowed from peer
	maxMessageSize = 4 * 1024

	// inbound message rate per client
	messagesPerSecond = 5
	messageBurst      = 10

	sendBufferSize = 64
)

const maxConnectionsPerIP = 10

// errors
var (
	ErrInvalidMessage   = errors.New("invalid message format")
	ErrConnectionClosed = errors.New("connection closed")
)

// represents a websocket message with typed payload
type Message struct {
	Type      string          `json:"type"`
	ClientID  string          `json:"-"`
	Timestamp time.Time       `json:"timestamp"`
	Sequence  uint64          `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

// carries the current error, nil when nothing is shown
type ErrorStatePayload struct {
	Error *parser.Record `json:"error"`
}

// contains information about server shutdown
type ServerShutdownPayload struct {
	Reason string `json:"reason"`
}

// the part of the error store the hub needs
type State interface {
	Current() (parser.Record, bool)
	Clear()
}

// represents a websocket client connection
type Client struct {
	// unique identifier for this client
	ID string

	// IP address of the client (for connection tracking)
	IPAddress string

	// websocket connection
	conn *websocket.Conn

	// hub reference for message routing
	hub *Hub

	// buffered channel of outbound messages
	send chan []byte

	// mutex for thread-safe operations
	mu sync.RWMutex

	// flag indicating if client is closed
	closed bool

	// token bucket for inbound messages
	limiter *rate.Limiter
}

// maintains the set of active clients and broadcasts error changes to all of them
type Hub struct {
	// registered clients by client ID
	clients map[string]*Client

	// register requests from clients
	Register chan *Client

	// unregister requests from clients
	Unregister chan *Client

	// messages received from clients
	Inbound chan *Message

	// mutex for thread-safe access to clients
	mu sync.RWMutex

	// message handlers for different message types
	handlers map[string]MessageHandler

	// error store backing error_state and clear_error
	state State

	// flag indicating if hub is running
	running bool

	// channel to signal shutdown
	shutdown     chan struct{}
	shutdownOnce sync.Once

	// closed once the run loop has exited
	done chan struct{}

	// connection tracking: IP address -> count of connections
	ipConnections map[string]int

	// sequence number for outbound broadcasts
	sequence uint64
}

// processes a specific message type
type MessageHandler func(hub *Hub, client *Client, msg *Message) error

// creates a new message with the given payload
func NewMessage(msgType string, payload any) (*Message, error) {
	var raw json.RawMessage

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}

		raw = data
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   raw,
	}, nil
}

// decodes the message payload into v
func (m *Message) UnmarshalPayload(v any) error {
	if len(m.Payload) == 0 {
		return ErrInvalidMessage
	}

	return json.Unmarshal(m.Payload, v)
}
