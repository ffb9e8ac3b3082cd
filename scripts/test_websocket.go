//go:build ignore

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

type Message struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Sequence  uint64          `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

// follows error state changes; -clear dismisses the current error after connecting
func main() {
	host := flag.String("host", "localhost:8080", "server host")
	clearError := flag.Bool("clear", false, "send clear_error after connecting")
	flag.Parse()

	u := url.URL{
		Scheme: "ws",
		Host:   *host,
		Path:   "/api/v1/ws",
	}

	fmt.Printf("Connecting to %s\n", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close()

	fmt.Println("Connected, waiting for error events")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			_, data, err := c.ReadMessage()
			if err != nil {
				log.Println("read:", err)
				return
			}

			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				fmt.Printf("Received (raw): %s\n", data)
				continue
			}

			fmt.Printf("[%d] %s %s\n", msg.Sequence, msg.Type, msg.Payload)
		}
	}()

	send := func(msgType string) {
		data, _ := json.Marshal(map[string]any{"type": msgType})
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Println("write:", err)
		}
	}

	time.Sleep(500 * time.Millisecond)
	send("ping")

	if *clearError {
		send("clear_error")
	}

	select {
	case <-done:
		return
	case <-interrupt:
		fmt.Println("\nInterrupt received, closing connection...")

		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
