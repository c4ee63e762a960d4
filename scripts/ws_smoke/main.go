package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/roomline/roomline-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/api/room/lobby", "room WebSocket address")
	user := flag.String("user", "tester", "username query parameter")
	to := flag.String("to", "", "recipient for a test instant message (optional)")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, fmt.Sprintf("%s?username=%s", *addr, *user), nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if *to != "" {
		err := wsjson.Write(ctx, conn, proto.Inbound{
			Type:    proto.InboundTypeMessage,
			To:      *to,
			Message: *text,
		})
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}
	}

	for {
		var frame map[string]any
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		log.Printf("received: %v", frame)
	}
}
