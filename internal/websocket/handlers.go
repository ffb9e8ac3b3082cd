package websocket

// handles ping messages from clients (keep-alive)
func PingHandler() MessageHandler {
	return func(_ *Hub, client *Client, _ *Message) error {
		pongMsg, err := NewMessage(TypePong, nil)
		if err != nil {
			return err
		}

		client.Send(pongMsg) //nolint:errcheck,gosec // best-effort pong
		return nil
	}
}

// handles clear_error messages; every client learns about it through the
// store's error_cleared event
func ClearErrorHandler() MessageHandler {
	return func(hub *Hub, _ *Client, _ *Message) error {
		if hub.state != nil {
			hub.state.Clear()
		}

		return nil
	}
}

// registers the handlers for every client message type
func (h *Hub) RegisterDefaultHandlers() {
	h.RegisterHandler(TypePing, PingHandler())
	h.RegisterHandler(TypeClearError, ClearErrorHandler())
}
