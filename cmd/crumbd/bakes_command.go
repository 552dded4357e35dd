package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"crumb/internal/bake"
	"crumb/internal/logging"
	"crumb/internal/storage"
)

func newBakesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bakes",
		Short: "List all bake logs across users",
		RunE:  runBakes,
	}
}

func runBakes(cmd *cobra.Command, args []string) error {
	cfg, _, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	session := bake.NewSession(db, logging.NewNop())
	rows, err := session.AdminRows(cmd.Context())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no bakes recorded")
		return nil
	}

	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		ended := "-"
		if row.EndedAt != nil {
			ended = row.EndedAt.Local().Format(time.DateTime)
		}
		tableRows = append(tableRows, []string{
			strconv.FormatInt(row.BakeLogID, 10),
			row.Username,
			row.RecipeName,
			row.Status,
			row.StartedAt.Local().Format(time.DateTime),
			ended,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"ID", "User", "Recipe", "Status", "Started", "Ended"},
		tableRows,
		0,
	))
	return nil
}
