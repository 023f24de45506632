// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/counsel-engine/internal/lawdb"
)

var lawdbCmd = &cobra.Command{
	Use:   "lawdb",
	Short: "Inspect the configured statute databases",
	Long: `Lawdb works with the structured statute databases the query pipeline
searches. Use subcommands to list the configured databases, validate
their files, or look up a reference directly.`,
}

// --- list subcommand ---

var lawdbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured databases and their load status",
	RunE:  runLawdbList,
}

func runLawdbList(cmd *cobra.Command, args []string) error {
	catalog, err := commandCatalog(cmd)
	if err != nil {
		return err
	}
	defer catalog.Close()

	names := catalog.Names()
	if len(names) == 0 {
		fmt.Println("No databases configured.")
		return nil
	}

	status := catalog.Validate()
	for _, name := range names {
		if err := status[name]; err != nil {
			fmt.Printf("%-24s  ERROR: %v\n", name, err)
			continue
		}
		db, _ := catalog.Database(name)
		kind := "plain"
		if db.Metadata.Enhanced {
			kind = "enhanced"
		}
		fmt.Printf("%-24s  %s, %d chapters\n", name, kind, len(db.Chapters))
	}
	return nil
}

// --- validate subcommand ---

var lawdbValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every configured database file",
	Long: `Validate loads every configured database and reports per-file problems:
missing files, garbled JSON, chapters without articles or sections, and
enhanced databases missing stable identifiers. Exits non-zero when any
database is malformed.`,
	RunE: runLawdbValidate,
}

func runLawdbValidate(cmd *cobra.Command, args []string) error {
	catalog, err := commandCatalog(cmd)
	if err != nil {
		return err
	}
	defer catalog.Close()

	status := catalog.Validate()
	names := make([]string, 0, len(status))
	for name := range status {
		names = append(names, name)
	}
	sort.Strings(names)

	var bad int
	for _, name := range names {
		if err := status[name]; err != nil {
			fmt.Printf("invalid  %s: %v\n", name, err)
			bad++
		} else {
			fmt.Printf("ok       %s\n", name)
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d database(s) malformed", bad)
	}
	return nil
}

// --- show subcommand ---

var lawdbShowCmd = &cobra.Command{
	Use:   "show [database] [query]",
	Short: "Resolve a reference or search one database",
	Long: `Show runs one query against a single database, exactly as the query
pipeline would: an exact reference like "chapter IV article 12" resolves
to that article; anything else is a keyword search over the database.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLawdbShow,
}

func runLawdbShow(cmd *cobra.Command, args []string) error {
	catalog, err := commandCatalog(cmd)
	if err != nil {
		return err
	}
	defer catalog.Close()

	name := args[0]
	query := strings.Join(args[1:], " ")

	db, err := catalog.Database(name)
	if err != nil {
		return err
	}
	index := lawdb.NewIndex(db)

	if ref, ok := index.Resolve(query); ok {
		fmt.Println(lawdb.FormatReference(ref))
		return nil
	}

	results := index.Search(query)
	if len(results) == 0 {
		fmt.Println("No matching articles.")
		return nil
	}
	fmt.Println(lawdb.FormatResults(results))
	return nil
}

// --- shared helpers ---

// commandCatalog builds a law database catalog from config, without the
// filesystem watcher: lawdb commands are one-shot.
func commandCatalog(cmd *cobra.Command) (*lawdb.Catalog, error) {
	cfg := engineConfig().Law
	cfg.Watch = false

	log, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	return lawdb.NewCatalog(cfg, log)
}

func init() {
	lawdbCmd.AddCommand(lawdbListCmd)
	lawdbCmd.AddCommand(lawdbValidateCmd)
	lawdbCmd.AddCommand(lawdbShowCmd)

	rootCmd.AddCommand(lawdbCmd)
}
