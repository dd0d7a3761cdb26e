//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/route-planner/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address")
	stream := flag.String("stream", domain.StreamRoutePlanned, "stream to follow")
	fromStart := flag.Bool("from-start", false, "replay the stream from the first entry")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	lastID := "$"
	if *fromStart {
		lastID = "0"
	}

	fmt.Printf("Following %s on %s (Ctrl+C to stop)\n", *stream, *redisAddr)

	for {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{*stream, lastID},
			Count:   10,
			Block:   5 * time.Second,
		}).Result()
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			log.Fatalf("Failed to read stream: %v", err)
		}

		for _, s := range results {
			for _, msg := range s.Messages {
				lastID = msg.ID

				dataStr, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}

				var event domain.RoutePlannedEvent
				if err := json.Unmarshal([]byte(dataStr), &event); err != nil {
					fmt.Printf("%s: malformed event: %v\n", msg.ID, err)
					continue
				}

				fmt.Printf("%s session=%s route=%s mode=%s stops=%d distance=%.0fm duration=%.0fs\n",
					msg.ID, event.SessionID, event.RouteID, event.TravelMode,
					len(event.Stops), event.DistanceMeters, event.DurationSeconds)
				for i, p := range event.Stops {
					fmt.Printf("    %d. %s\n", i+1, p)
				}
			}
		}
	}
}
