package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var farmID string
	var connect bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream real-time events over websocket",
		Long: `Stream real-time events over websocket.

With --farm, joins that farm and prints farm-scoped events (joins, leaves,
movement, object placement). With --connect, registers the account-scope
connection and prints inventory pushes. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if farmID == "" && !connect {
				err := fmt.Errorf("nothing to stream: pass --farm and/or --connect")
				out.PrintError(err)
				return err
			}

			conn, err := dialEvents(cfg.ServerURL, cfg.Token)
			if err != nil {
				out.PrintError(err)
				return err
			}
			defer func() { _ = conn.Close() }()

			if farmID != "" {
				if err := sendCall(conn, "join_farm", map[string]string{"farmId": farmID}); err != nil {
					out.PrintError(err)
					return err
				}
			}
			if connect {
				if err := sendCall(conn, "connect", map[string]string{}); err != nil {
					out.PrintError(err)
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			done := make(chan error, 1)
			go func() {
				for {
					_, msg, err := conn.ReadMessage()
					if err != nil {
						done <- err
						return
					}
					printEvent(msg)
				}
			}()

			select {
			case <-ctx.Done():
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			case err := <-done:
				if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					return nil
				}
				out.PrintError(err)
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&farmID, "farm", "f", "", "Farm ID to join for farm-scoped events")
	cmd.Flags().BoolVar(&connect, "connect", false, "Register the account-scope connection for inventory pushes")

	return cmd
}

func dialEvents(serverURL, token string) (*websocket.Conn, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"

	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed: %w (HTTP %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

func sendCall(conn *websocket.Conn, callType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}{Type: callType, Payload: data}

	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send %s call: %w", callType, err)
	}
	return nil
}

func printEvent(msg []byte) {
	var event struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(msg, &event); err != nil {
		fmt.Fprintf(os.Stderr, "unparseable event: %s\n", string(msg))
		return
	}

	if cfg.Output == "json" {
		fmt.Println(string(msg))
		return
	}

	fmt.Printf("[%s] %s\n", event.Type, string(event.Payload))
}
