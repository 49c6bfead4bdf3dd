// Demo application for the hotcore engine.
// Seeds a small organization tree on a Redis instance and walks through
// create, search, update and delete, printing each step.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/magnusdahl/hotcore/store"
)

var (
	addr  = flag.String("addr", "localhost:6379", "Redis address")
	db    = flag.Int("db", 0, "Redis database number")
	flush = flag.Bool("flush", false, "flush the database before seeding (destructive)")
	debug = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	client := redis.NewClient(&redis.Options{Addr: *addr, DB: *db})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", *addr).Msg("redis not reachable")
	}

	cfg := store.DefaultConfig()
	cfg.Logger = &logger
	model := store.New(client, cfg)

	if *flush {
		if err := model.FlushAll(ctx); err != nil {
			logger.Fatal().Err(err).Msg("flush failed")
		}
	}

	if err := run(ctx, model); err != nil {
		logger.Fatal().Err(err).Msg("demo failed")
	}
}

func run(ctx context.Context, model *store.Model) error {
	// Containers directly under the root sentinel.
	users := store.NewEntity(map[string]string{
		"name": "Users",
		"type": "container",
	})
	if _, err := model.Create(ctx, store.RootID, users); err != nil {
		return err
	}
	locations := store.NewEntity(map[string]string{
		"name": "Locations",
		"type": "container",
	})
	if _, err := model.Create(ctx, store.RootID, locations); err != nil {
		return err
	}

	for _, u := range []map[string]string{
		{"name": "Alice", "type": "user", "role": "admin", "city": "Stockholm"},
		{"name": "Anna", "type": "user", "role": "member", "city": "Oslo"},
		{"name": "Bob", "type": "user", "role": "member", "city": "Stockholm"},
	} {
		if _, err := model.Create(ctx, users.ID, store.NewEntity(u)); err != nil {
			return err
		}
	}

	fmt.Println("== users whose name starts with A")
	if err := printFind(ctx, model, store.Wildcard("name", "A*")); err != nil {
		return err
	}

	fmt.Println("== admins among users")
	if err := printFind(ctx, model,
		store.ParentOf(users.ID),
		store.Exact("role", "admin"),
	); err != nil {
		return err
	}

	fmt.Println("== promote Bob, retire Anna's city")
	bobs, err := model.Find(ctx, store.Exact("name", "Bob"))
	if err != nil {
		return err
	}
	if len(bobs) == 1 {
		if err := model.Apply(ctx, store.NewChange(bobs[0].ID).Set("role", "admin")); err != nil {
			return err
		}
	}
	annas, err := model.Find(ctx, store.Exact("name", "Anna"))
	if err != nil {
		return err
	}
	if len(annas) == 1 {
		if err := model.Apply(ctx, store.NewChange(annas[0].ID).Unset("city")); err != nil {
			return err
		}
	}

	fmt.Println("== admins now")
	if err := printFind(ctx, model, store.Exact("role", "admin")); err != nil {
		return err
	}

	fmt.Println("== delete the Users container; users re-parent to root")
	if err := model.Delete(ctx, users); err != nil {
		return err
	}
	rootChildren, err := model.Children(ctx, store.RootID)
	if err != nil {
		return err
	}
	for _, c := range rootChildren {
		fmt.Printf("  root child: %s %v\n", c.ID, c.Attrs)
	}
	return nil
}

func printFind(ctx context.Context, model *store.Model, criteria ...store.Criterion) error {
	hits, err := model.Find(ctx, criteria...)
	if err != nil {
		return err
	}
	for _, e := range hits {
		fmt.Printf("  %s %v\n", e.ID, e.Attrs)
	}
	if len(hits) == 0 {
		fmt.Println("  (none)")
	}
	return nil
}
