package main

import (
	"bufio"
	"context"
	"dm-lab/client"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mama165/sdk-go/logs"
)

const usage = `commands:
  list                   refresh and show conversations
  open <user>            open the conversation with user
  send <user> <text>     send a message
  > <text>               reply in the open conversation
  show                   show the open conversation again
  close                  close the open conversation
  quit`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	me, err := subject(config.Token)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.NewHTTPClient(config.APIURL, config.Token, config.RequestTimeout)
	controller := client.NewSyncController(log, api, config.TranscriptLimit)
	out := renderer{out: os.Stdout, colours: config.Colours}

	if err := controller.RefreshConversations(ctx); err != nil {
		out.failure(err)
	}
	out.conversations(controller.Conversations())
	fmt.Println(usage)

	if config.PollInterval > 0 {
		go poll(ctx, log, controller, config.PollInterval)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := handle(ctx, controller, out, me, strings.TrimSpace(line)); quit {
				return nil
			}
		}
	}
}

func handle(ctx context.Context, controller *client.SyncController, out renderer, me, line string) bool {
	command, rest, _ := strings.Cut(line, " ")
	switch command {
	case "":
	case "quit", "exit":
		return true
	case "list":
		if err := controller.RefreshConversations(ctx); err != nil {
			out.failure(err)
		}
		out.conversations(controller.Conversations())
	case "open":
		if err := controller.OpenConversation(ctx, strings.TrimSpace(rest)); err != nil {
			out.failure(err)
		}
		showActive(controller, out, me)
	case "show":
		showActive(controller, out, me)
	case "close":
		controller.CloseConversation()
	case "send":
		recipient, content, _ := strings.Cut(rest, " ")
		send(ctx, controller, out, me, recipient, content)
	case ">":
		active, ok := controller.Active()
		if !ok {
			out.failure(fmt.Errorf("no open conversation"))
			return false
		}
		send(ctx, controller, out, me, active.Counterpart, rest)
	default:
		fmt.Println(usage)
	}
	return false
}

func send(ctx context.Context, controller *client.SyncController, out renderer, me, recipient, content string) {
	if _, err := controller.Send(ctx, recipient, content); err != nil {
		out.failure(err)
		return
	}
	if active, ok := controller.Active(); ok && active.Counterpart == recipient {
		out.transcript(me, active)
		return
	}
	out.conversations(controller.Conversations())
}

func showActive(controller *client.SyncController, out renderer, me string) {
	if active, ok := controller.Active(); ok {
		out.transcript(me, active)
	}
}

// poll keeps local state fresh between commands. Failures are only logged,
// the next tick tries again.
func poll(ctx context.Context, log *slog.Logger, controller *client.SyncController, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := controller.RefreshConversations(ctx); err != nil {
				log.Warn("Conversation poll failed", "error", err)
			}
			if err := controller.RefreshActive(ctx); err != nil {
				log.Warn("Transcript poll failed", "error", err)
			}
		}
	}
}

// subject reads the caller id from the token without verifying it: the
// server remains the only judge, this is for display only.
func subject(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("malformed DM_TOKEN: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("malformed DM_TOKEN: %w", err)
	}
	return sub, nil
}
