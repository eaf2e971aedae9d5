package system

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agendaq/agendaq_backend/config"
	"github.com/agendaq/agendaq_backend/pkg/kv"
)

// seedTreatments is the demo catalog written by `agendaq system seed`.
var seedTreatments = []struct {
	Name     string
	Duration int
	Buffer   int
	Price    float64
}{
	{"Initial consultation", 45, 15, 60},
	{"Follow-up visit", 30, 15, 40},
	{"Deep tissue massage", 60, 15, 85},
	{"Physiotherapy session", 45, 0, 55},
}

func NewSeedCommand() *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed a demo tenant and treatment catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			store, err := kv.NewRedisStore(kv.FromCentralConfig(cfg.Store))
			if err != nil {
				return fmt.Errorf("failed to connect to store: %w", err)
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			now := time.Now().UTC().Format(time.RFC3339)
			for _, t := range seedTreatments {
				id := uuid.NewString()
				attrs := kv.Item{
					"id":              id,
					"tenantId":        tenantID,
					"name":            t.Name,
					"durationMinutes": strconv.Itoa(t.Duration),
					"bufferMinutes":   strconv.Itoa(t.Buffer),
					"price":           strconv.FormatFloat(t.Price, 'f', -1, 64),
					"createdAt":       now,
				}
				if err := store.PutIfAbsent(ctx, "TENANT#"+tenantID, "TREATMENT#"+id, attrs); err != nil {
					return fmt.Errorf("seed treatment %q: %w", t.Name, err)
				}
				fmt.Printf("seeded treatment %-24s %s\n", t.Name, id)
			}

			fmt.Printf("Tenant %q seeded with %d treatments.\n", tenantID, len(seedTreatments))
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "demo", "tenant to seed")

	return cmd
}
