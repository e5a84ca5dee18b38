package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/seedbed"
	"github.com/aretw0/seedbed/internal/logging"
	"github.com/aretw0/seedbed/pkg/adapters/memory"
	redisadapter "github.com/aretw0/seedbed/pkg/adapters/redis"
	"github.com/aretw0/seedbed/pkg/ports"
)

// scenarioConfig is the YAML shape the demo accepts: a root label and an
// ordered list of records to create. The first record is created standalone;
// each following one is created as a child of the previous.
type scenarioConfig struct {
	Root    string           `yaml:"root"`
	Records []map[string]any `yaml:"records"`
}

func defaultScenario() scenarioConfig {
	return scenarioConfig{
		Root: "account-0",
		Records: []map[string]any{
			{"kind": "account", "name": "Acme"},
			{"kind": "invoice", "amount": 42},
		},
	}
}

// exitFailer aborts the demo on the first broken step.
type exitFailer struct {
	logger *slog.Logger
}

func (f exitFailer) Fatalf(format string, args ...any) {
	f.logger.Error("scenario failed", "err", fmt.Sprintf(format, args...))
	os.Exit(1)
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a demo scenario against an in-memory or Redis record store",
	Long: `Runs a full chain (create, create-related, reassign-root, act, assert,
cleanup) against the chosen store, logging each step. Useful for smoke-testing
a Redis deployment or exploring the chain vocabulary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		redisAddr, _ := cmd.Flags().GetString("redis")
		file, _ := cmd.Flags().GetString("file")
		delay, _ := cmd.Flags().GetDuration("delay")

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		cfg := defaultScenario()
		if file != "" {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read scenario file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return fmt.Errorf("parse scenario file: %w", err)
			}
			if len(cfg.Records) == 0 {
				return fmt.Errorf("scenario file defines no records")
			}
		}

		var store ports.RecordStore[string]
		if redisAddr != "" {
			rstore := redisadapter.New[string](redisAddr, "", 0)
			defer rstore.Close()
			store = rstore
			logger.Info("using redis store", "addr", redisAddr)
		} else {
			store = memory.NewStore[string]()
			logger.Info("using in-memory store")
		}

		runDemo(logger, store, cfg, delay)
		return nil
	},
}

func runDemo(logger *slog.Logger, store ports.RecordStore[string], cfg scenarioConfig, delay time.Duration) {
	s := seedbed.New[string](exitFailer{logger: logger}, cfg.Root,
		seedbed.WithLogger[string](logger),
	)

	creator := func(record map[string]any) ports.Creator[string] {
		return func(ctx context.Context) (string, any, error) {
			id := uuid.NewString()
			return id, record, store.Put(ctx, id, record)
		}
	}
	relatedCreator := func(record map[string]any) ports.RelatedCreator[string] {
		return func(ctx context.Context, parentID string) (string, any, error) {
			id := uuid.NewString()
			record["parent"] = parentID
			return id, record, store.Put(ctx, id, record)
		}
	}

	s.Create(creator(cfg.Records[0]))
	for _, record := range cfg.Records[1:] {
		s.CreateRelated(relatedCreator(record))
	}

	s.ReassignRoot().
		If(delay > 0, func(s *seedbed.Session[string]) *seedbed.Session[string] {
			return s.Delay(delay)
		}).
		Act(func(ctx context.Context, id string) error {
			value, err := store.Get(ctx, id)
			if err != nil {
				return err
			}
			record, ok := value.(map[string]any)
			if !ok {
				return fmt.Errorf("expected map record, got %T", value)
			}
			record["touched_at"] = time.Now().UTC().Format(time.RFC3339)
			return store.Put(ctx, id, record)
		}).
		Assert(seedbed.NewSpec(
			seedbed.StoreRetriever[string](store),
			func(v any) error {
				record, ok := v.(map[string]any)
				if !ok {
					return fmt.Errorf("expected map record, got %T", v)
				}
				if record["touched_at"] == nil {
					return fmt.Errorf("record was not touched by the action")
				}
				return nil
			},
		)).
		Cleanup(seedbed.StoreCleaner[string](store))

	logger.Info("scenario complete",
		"records_created", s.Len(),
		"root", s.RootID(),
	)
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().String("redis", "", "Redis address (host:port); defaults to the in-memory store")
	demoCmd.Flags().String("file", "", "YAML file describing the records to create")
	demoCmd.Flags().Duration("delay", 0, "Optional wait between creation and action (eventual consistency drills)")
}
