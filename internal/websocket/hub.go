package websocket

import (
	"context"
	"time"

	"codeberg.org/algorave/errorstack/internal/logger"
	"codeberg.org/algorave/errorstack/internal/metrics"
	"codeberg.org/algorave/errorstack/internal/store"
)

func NewHub(state State) *Hub {
	return &Hub{
		clients:       make(map[string]*Client),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		Inbound:       make(chan *Message, 256),
		handlers:      make(map[string]MessageHandler),
		state:         state,
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
		ipConnections: make(map[string]int),
	}
}

// registers a handler for a specific message type
func (h *Hub) RegisterHandler(messageType string, handler MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[messageType] = handler
}

// starts the hub's main loop
func (h *Hub) Run() {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	defer close(h.done)

	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case message := <-h.Inbound:
			h.handleMessage(message)

		case <-h.shutdown:
			h.closeAllConnections()
			return
		}
	}
}

// forwards store events to every client until the channel closes or ctx is done
func (h *Hub) Consume(ctx context.Context, events <-chan store.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}

			msg, err := eventMessage(evt)
			if err != nil {
				logger.ErrorErr(err, "failed to create error event message", "kind", evt.Kind)
				continue
			}

			h.BroadcastAll(msg)
		}
	}
}

func eventMessage(evt store.Event) (*Message, error) {
	msgType := TypeErrorPublished
	if evt.Kind == store.EventCleared {
		msgType = TypeErrorCleared
	}

	msg, err := NewMessage(msgType, ErrorStatePayload{Error: evt.Record})
	if err != nil {
		return nil, err
	}

	if !evt.At.IsZero() {
		msg.Timestamp = evt.At
	}

	return msg, nil
}

// adds a client to the hub and sends it the current error
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	if client.IPAddress != "" {
		h.ipConnections[client.IPAddress]++
	}

	metrics.WebsocketClients.Inc()

	logger.Info("client registered",
		"client_id", client.ID,
		"ip", client.IPAddress,
	)

	payload := ErrorStatePayload{}
	if h.state != nil {
		if rec, ok := h.state.Current(); ok {
			payload.Error = &rec
		}
	}

	stateMsg, err := NewMessage(TypeErrorState, payload)
	if err != nil {
		logger.ErrorErr(err, "failed to create error state message", "client_id", client.ID)
		return
	}

	if err := client.Send(stateMsg); err != nil {
		logger.ErrorErr(err, "failed to send error state", "client_id", client.ID)
	}
}

// removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client.ID]; !exists {
		return
	}

	delete(h.clients, client.ID)
	client.Close()
	metrics.WebsocketClients.Dec()

	if client.IPAddress != "" {
		h.ipConnections[client.IPAddress]--

		if h.ipConnections[client.IPAddress] <= 0 {
			delete(h.ipConnections, client.IPAddress)
		}
	}

	logger.Info("client unregistered", "client_id", client.ID)
}

// processes an incoming message
func (h *Hub) handleMessage(msg *Message) {
	h.mu.RLock()
	sender, exists := h.clients[msg.ClientID]
	handler, handled := h.handlers[msg.Type]
	h.mu.RUnlock()

	if !exists {
		logger.Warn("sender client not found for message",
			"client_id", msg.ClientID,
			"message_type", msg.Type,
		)
		return
	}

	if !handled {
		logger.Warn("unhandled message type received",
			"message_type", msg.Type,
			"client_id", sender.ID,
		)

		sender.SendError("bad_request", "unsupported message type", "message type not recognized")
		return
	}

	// run handler asynchronously to avoid blocking the hub
	go func() {
		if err := handler(h, sender, msg); err != nil {
			logger.ErrorErr(err, "handler error",
				"message_type", msg.Type,
				"client_id", sender.ID,
			)

			sender.SendError("server_error", "failed to process message", err.Error())
		}
	}()
}

// sends a message to every connected client
func (h *Hub) BroadcastAll(msg *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sequence++
	msg.Sequence = h.sequence

	for clientID, client := range h.clients {
		if err := client.Send(msg); err != nil {
			logger.ErrorErr(err, "failed to send message to client",
				"client_id", clientID,
			)
		}
	}
}

// returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// checks if a new connection from ipAddress should be allowed
func (h *Hub) CanAcceptConnection(ipAddress string) (bool, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.ipConnections[ipAddress] >= maxConnectionsPerIP {
		return false, "Maximum connections per IP address exceeded"
	}

	return true, ""
}

// stops the run loop and, when it is running, waits for it to close every connection
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() { close(h.shutdown) })

	h.mu.RLock()
	running := h.running
	h.mu.RUnlock()

	if running {
		<-h.done
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()

	logger.Info("notifying clients of server shutdown")

	shutdownMsg, err := NewMessage(TypeServerShutdown, ServerShutdownPayload{
		Reason: "server is shutting down",
	})
	if err != nil {
		logger.ErrorErr(err, "failed to create shutdown message")
	} else {
		for _, client := range h.clients {
			if err := client.Send(shutdownMsg); err != nil {
				logger.Debug("failed to send shutdown notification", "client_id", client.ID)
			}
		}
	}

	h.mu.Unlock()

	// give clients time to receive the shutdown message
	time.Sleep(200 * time.Millisecond)

	h.mu.Lock()
	defer h.mu.Unlock()

	logger.Info("closing all websocket connections")

	for clientID, client := range h.clients {
		client.Close()
		metrics.WebsocketClients.Dec()
		logger.Debug("closed client", "client_id", clientID)
	}

	h.clients = make(map[string]*Client)
	h.ipConnections = make(map[string]int)
}
