package commands

import (
	"fmt"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/seed"
	"github.com/de-tools/ewaste-reports/pkg/store/duckdb"
	"github.com/de-tools/ewaste-reports/pkg/store/duckdb/records"
	"github.com/de-tools/ewaste-reports/pkg/store/sample"
	"github.com/spf13/cobra"
)

type SeedCmd struct {
	dbPath     string
	clientID   string
	clientName string
	industry   string
	start      string
	end        string
}

func NewSeedCmd() *cobra.Command {
	sc := &SeedCmd{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load generated sample data into a DuckDB database",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.dbPath, "db", "", "Path to the DuckDB database file")
	cmd.Flags().StringVar(&sc.clientID, "client", "sample-client", "Client id to seed")
	cmd.Flags().StringVar(&sc.clientName, "client-name", "", "Client display name")
	cmd.Flags().StringVar(&sc.industry, "industry", "", "Client industry")
	cmd.Flags().StringVar(&sc.start, "start", "", "First day to seed (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sc.end, "end", "", "Last day to seed (YYYY-MM-DD)")

	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (sc *SeedCmd) run(cmd *cobra.Command, _ []string) error {
	start, err := domain.ParseDay(sc.start)
	if err != nil {
		return err
	}
	end, err := domain.ParseDay(sc.end)
	if err != nil {
		return err
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: sc.dbPath})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	store, err := records.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create record store: %w", err)
	}
	gen := sample.NewGenerator(sample.Settings{
		ClientID:   sc.clientID,
		ClientName: sc.clientName,
		Industry:   sc.industry,
	})
	seeder, err := seed.NewSeeder(db, store, gen)
	if err != nil {
		return err
	}

	summary, err := seeder.Seed(cmd.Context(), sc.clientID, domain.DateRange{Start: start, End: end})
	if err != nil {
		return fmt.Errorf("failed to seed %s: %w", sc.dbPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d months for %s: %d pickups, %d assets\n",
		summary.Months, summary.ClientID, summary.Pickups, summary.Assets)
	return nil
}
