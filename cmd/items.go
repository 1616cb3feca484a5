package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/itembank"
	"github.com/abhisek/adaptiq/internal/store"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Manage the calibrated item bank",
}

var itemsImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Validate a YAML bank file and upsert its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := itembank.ReadBankFile(args[0])
		if err != nil {
			return err
		}

		var valid []itembank.Record
		for _, r := range f.AllRecords() {
			if _, err := r.ToItem(); err != nil {
				fmt.Printf("skip %-24s %v\n", r.ID, err)
				continue
			}
			valid = append(valid, r)
		}
		if len(valid) == 0 {
			return fmt.Errorf("%s: no valid items", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		if err := s.ItemRepo().Upsert(ctx, valid); err != nil {
			return fmt.Errorf("upsert items: %w", err)
		}
		n, err := s.ItemRepo().Count(ctx)
		if err != nil {
			return fmt.Errorf("count items: %w", err)
		}
		fmt.Printf("Imported %d items (%d in bank).\n", len(valid), n)
		return nil
	},
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored items",
	RunE: func(cmd *cobra.Command, args []string) error {
		section, _ := cmd.Flags().GetString("section")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.ItemRepo().AllItems(context.Background())
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No items stored. The built-in seed bank is used.")
			return nil
		}

		fmt.Printf("%-24s  %-20s  %-24s  %6s  %6s  %6s\n",
			"ID", "Section", "Domain", "a", "b", "c")
		fmt.Println(strings.Repeat("─", 96))
		for _, r := range records {
			it, err := r.ToItem()
			if err != nil {
				fmt.Printf("%-24s  (invalid: %v)\n", truncate(r.ID, 24), err)
				continue
			}
			if section != "" && string(it.Section) != section {
				continue
			}
			fmt.Printf("%-24s  %-20s  %-24s  %6.2f  %6.2f  %6.2f\n",
				truncate(it.ID, 24),
				it.Section,
				truncate(it.Domain, 24),
				it.Params.Discrimination,
				it.Params.Difficulty,
				it.Params.Guessing,
			)
		}
		return nil
	},
}

var itemsExportCmd = &cobra.Command{
	Use:   "export <file.yaml>",
	Short: "Write the active bank as a calibrated YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		bank := itembank.Load(context.Background(), s.ItemRepo(), nil)
		var items []itembank.Item
		for _, sec := range bank.Sections() {
			items = append(items, bank.Section(sec)...)
		}
		if err := itembank.WriteBankFile(args[0], items); err != nil {
			return err
		}
		fmt.Printf("Wrote %d items to %s.\n", len(items), args[0])
		return nil
	},
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	itemsListCmd.Flags().StringP("section", "s", "", "Only show items in this section")

	itemsCmd.AddCommand(itemsImportCmd)
	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsExportCmd)
}
