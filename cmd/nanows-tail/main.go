// nanows-tail subscribes to node event topics and prints the decoded
// stream, one frame per line.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nanopulse/nanows"
	"github.com/nanopulse/nanows/internal/config"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	url := flag.String("url", "", "Override node WebSocket URL")
	topics := flag.String("topics", "", "Comma-separated topics to subscribe")
	accounts := flag.String("accounts", "", "Comma-separated accounts for the confirmation filter")
	filter := flag.String("filter", "", "Only print messages for this topic")
	flag.Parse()

	godotenv.Load(".env")

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if v := os.Getenv("NANO_WS_URL"); v != "" {
		cfg.Node.URL = v
	}
	if *url != "" {
		cfg.Node.URL = *url
	}
	if *topics != "" {
		cfg.Tail.Topics = strings.Split(*topics, ",")
	}
	if *accounts != "" {
		cfg.Tail.Accounts = strings.Split(*accounts, ",")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := nanows.New(cfg.Node.URL, nanows.WithPingInterval(cfg.Node.PingInterval))
	go func() {
		// Unblock a pending Receive when a shutdown signal arrives.
		<-ctx.Done()
		client.Close()
	}()

	for _, topic := range cfg.Tail.Topics {
		var err error
		switch topic {
		case nanows.TopicConfirmation:
			err = client.SubscribeConfirmation(ctx, &nanows.ConfirmationOptions{
				Accounts: cfg.Tail.Accounts,
			})
		case nanows.TopicVote:
			err = client.SubscribeVote(ctx, nil)
		default:
			err = client.Subscribe(ctx, topic, nil)
		}
		if err != nil {
			log.Fatalf("Failed to subscribe to %s: %v", topic, err)
		}
		log.Printf("Subscribed to %s", topic)
	}

	for {
		msg, err := client.Receive(ctx, *filter)
		if err != nil {
			if errors.Is(err, nanows.ErrClientClosed) || ctx.Err() != nil {
				log.Println("Shutting down")
				return
			}
			log.Fatalf("Receive failed: %v", err)
		}
		log.Printf("[%s] %s", msg.Topic, msg.Raw())
	}
}
