package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/torosent/reqbench/internal/history"
	"github.com/torosent/reqbench/internal/output"
	"github.com/torosent/reqbench/internal/store"
)

func newHistoryCommand(stdout io.Writer) *cobra.Command {
	var (
		file    string
		dbPath  string
		variant string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored benchmark reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadHistory(cmd.Context(), file, dbPath, variant)
			if err != nil {
				return err
			}
			switch format {
			case output.FormatTable:
				output.PrintHistory(stdout, entries)
				return nil
			case output.FormatJSON:
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				if entries == nil {
					entries = []history.Entry{}
				}
				return enc.Encode(entries)
			default:
				return fmt.Errorf("unsupported history format %q (table, json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&file, "history-file", "", "JSON lines history file to read")
	cmd.Flags().StringVar(&dbPath, "results-db", "", "sqlite results database to read")
	cmd.Flags().StringVar(&variant, "variant", "", "Only list runs of this variant")
	cmd.Flags().StringVarP(&format, "format", "f", output.FormatTable, "Output format: table or json")
	return cmd
}

func loadHistory(ctx context.Context, file, dbPath, variant string) ([]history.Entry, error) {
	switch {
	case file != "" && dbPath != "":
		return nil, fmt.Errorf("--history-file and --results-db are mutually exclusive")
	case file != "":
		return history.Read(file, variant)
	case dbPath != "":
		if ctx == nil {
			ctx = context.Background()
		}
		db, err := store.Open(dbPath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.Runs(ctx, variant)
	default:
		return nil, fmt.Errorf("one of --history-file or --results-db is required")
	}
}
