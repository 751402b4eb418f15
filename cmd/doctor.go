package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"clipnote/internal/app"
	"clipnote/internal/config"
	"clipnote/internal/store"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const doctorTimeout = 10 * time.Second

var doctorCmd = &cobra.Command{
	Use:         "doctor",
	Short:       "Check configuration, database, Redis and LLM connectivity",
	Annotations: map[string]string{skipAppAnnotation: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), doctorTimeout)
		defer cancel()

		if failed := runDoctor(ctx, cmd.OutOrStdout(), cfg); failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

// runDoctor prints one line per check and returns the number of failures.
func runDoctor(ctx context.Context, out io.Writer, cfg *config.Config) int {
	failed := 0
	report := func(name string, err error) {
		if err != nil {
			failed++
			fmt.Fprintf(out, "%s %s: %v\n", color.RedString("FAIL"), name, err)
			return
		}
		fmt.Fprintf(out, "%s %s\n", color.GreenString("OK  "), name)
	}

	if err := cfg.Validate(); err != nil {
		report("configuration", err)
		return failed
	}
	report("configuration", nil)

	appInstance, err := app.NewApp(ctx, cfg)
	if err != nil {
		report("database ("+cfg.Database.Driver+")", err)
		return failed
	}
	defer appInstance.Close()
	report("database ("+cfg.Database.Driver+")", appInstance.Store.Ping(ctx))

	if cfg.Ingest.Async {
		report("redis "+cfg.Redis.Address, pingRedis(ctx, cfg))
	} else {
		fmt.Fprintf(out, "%s redis (ingest.async is off)\n", color.YellowString("SKIP"))
	}

	llm := appInstance.CompletionService
	switch status := llm.CheckAvailability(ctx); status {
	case store.ProviderStatusActive:
		report(fmt.Sprintf("llm %s/%s", llm.Name(), llm.ModelName()), nil)
	case store.ProviderStatusDisabled:
		fmt.Fprintf(out, "%s llm (disabled, local analysis only)\n", color.YellowString("SKIP"))
	default:
		report("llm "+llm.Name(), fmt.Errorf("provider status %s", status))
	}
	return failed
}

func pingRedis(ctx context.Context, cfg *config.Config) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		return err
	}
	if pong != "PONG" {
		return errors.New("unexpected reply " + pong)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
