// nanows-relay subscribes to block confirmations and relays them into a
// Redis queue or a MongoDB archive, resubscribing whenever the node
// connection is re-established.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jpillora/backoff"
	"github.com/nanopulse/nanows"
	"github.com/nanopulse/nanows/internal/config"
	"github.com/nanopulse/nanows/internal/sink"
)

type confirmationPayload struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
	Hash    string `json:"hash"`
}

func main() {
	configPath := flag.String("config", "", "Path to config file")
	sinkURL := flag.String("sink", "", "Override sink URL (redis:// or mongodb://)")
	accounts := flag.String("accounts", "", "Comma-separated accounts to relay")
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
	if v := os.Getenv("NANO_SINK_URL"); v != "" {
		cfg.Relay.SinkURL = v
	}
	if *sinkURL != "" {
		cfg.Relay.SinkURL = *sinkURL
	}
	if *accounts != "" {
		cfg.Relay.Accounts = strings.Split(*accounts, ",")
	}

	store, err := sink.New(cfg.Relay.SinkURL, cfg.Relay.QueueName)
	if err != nil {
		log.Fatalf("Failed to open sink: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var client *nanows.Client
	subscribe := func() error {
		return client.SubscribeConfirmation(ctx, &nanows.ConfirmationOptions{
			Accounts: cfg.Relay.Accounts,
		})
	}
	client = nanows.New(cfg.Node.URL,
		nanows.WithPingInterval(cfg.Node.PingInterval),
		nanows.WithReconnectHook(func() {
			log.Println("Reconnected, resubscribing")
			if err := subscribe(); err != nil {
				log.Printf("Resubscribe failed: %v", err)
			}
		}),
	)
	go func() {
		<-ctx.Done()
		client.Close()
	}()

	retry := &backoff.Backoff{
		Min:    time.Second,
		Max:    30 * time.Second,
		Jitter: true,
	}

	for {
		if err := subscribe(); err != nil {
			if ctx.Err() != nil {
				return
			}
			d := retry.Duration()
			log.Printf("Subscribe failed: %v (retry in %v)", err, d)
			time.Sleep(d)
			continue
		}
		retry.Reset()
		log.Printf("Relaying confirmations from %s", cfg.Node.URL)

		err := relay(ctx, client, store)
		if errors.Is(err, nanows.ErrClientClosed) || ctx.Err() != nil {
			log.Println("Shutting down")
			return
		}
		d := retry.Duration()
		log.Printf("Stream failed: %v (retry in %v)", err, d)
		time.Sleep(d)
	}
}

func relay(ctx context.Context, client *nanows.Client, store sink.Sink) error {
	for {
		msg, err := client.Receive(ctx, nanows.TopicConfirmation)
		if err != nil {
			return err
		}

		var payload confirmationPayload
		if err := msg.Decode(&payload); err != nil {
			log.Printf("Skipping undecodable confirmation: %v", err)
			continue
		}

		event := &sink.Event{
			Account: payload.Account,
			Hash:    payload.Hash,
			Amount:  payload.Amount,
			Time:    frameTime(msg.Time),
			Raw:     msg.Raw(),
		}
		if err := store.Store(ctx, event); err != nil {
			log.Printf("Failed to store confirmation %s: %v", payload.Hash, err)
		}
	}
}

// frameTime parses the node's millisecond timestamp; a missing or
// malformed value falls back to arrival time.
func frameTime(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Now()
	}
	return time.UnixMilli(ms)
}
