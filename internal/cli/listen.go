package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newListenCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Stream match events over the websocket channel",
		Long: `Connect to the server's websocket channel and stream events in
real-time. Requires a connection token (--token or ARENA_TOKEN).

Events include:
  - list_users: Connected user list changed
  - challenge: Another player challenged you
  - your_turn: It is your turn to move
  - game_over: A game you were in finished
  - feedback: Informational notice from the server
  - error: The server rejected a message

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return fmt.Errorf("connection token is required (--token or ARENA_TOKEN)")
			}
			return streamEvents(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// streamedEvent is a parsed event envelope with a local timestamp
type streamedEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func streamEvents(jsonOutput bool) error {
	wsURL, err := socketURL(cfg.ServerURL, cfg.Token)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if !jsonOutput {
		fmt.Println("Connected")
	}

	// Close the connection on interrupt; the read loop unblocks with
	// an error and we exit cleanly
	interrupted := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		close(interrupted)
		_ = conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-interrupted:
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			default:
			}
			return fmt.Errorf("stream error: %w", err)
		}

		printEvent(raw, jsonOutput)
	}
}

func printEvent(raw []byte, jsonOutput bool) {
	now := time.Now()

	var envelope struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		// Print unparseable frames as-is rather than dropping them
		fmt.Println(string(raw))
		return
	}

	if jsonOutput {
		data, _ := json.Marshal(streamedEvent{
			Time:  now,
			Event: envelope.Event,
			Data:  envelope.Data,
		})
		fmt.Println(string(data))
	} else {
		timestamp := now.Format("2006-01-02 15:04:05")
		display := strings.ReplaceAll(string(envelope.Data), "\n", " ")
		if len(display) > 100 {
			display = display[:100] + "..."
		}
		fmt.Printf("[%s] %s: %s\n", timestamp, envelope.Event, display)
	}
}

func socketURL(serverURL, token string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
