// The auditor tails the intent-audit topic and prints every mutation
// intent emitted by the terminals, letting operations reconstruct who
// touched which row and when.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dparedesb/servicetimes/internal/audit"
)

const groupID = "intent-audit-readers"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092"
	}
	topic := os.Getenv("AUDIT_TOPIC")
	if topic == "" {
		topic = "intent_audit"
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(brokers, ","),
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		if err := r.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing reader: %v\n", err)
		}
	}()

	fmt.Printf("auditor reading topic %q on %s\n", topic, brokers)

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			fmt.Fprintf(os.Stderr, "error reading message: %v\n", err)
			time.Sleep(5 * time.Second)
			continue
		}

		var intent audit.Intent
		if err := json.Unmarshal(m.Value, &intent); err != nil {
			fmt.Fprintf(os.Stderr, "bad audit record at offset %d: %v\n", m.Offset, err)
			continue
		}

		fmt.Printf("%s  %-22s row=%s screen=%s terminal=%s\n",
			intent.At.Format(time.RFC3339),
			intent.Event,
			intent.RowID,
			intent.Screen,
			intent.Terminal)
	}
}
