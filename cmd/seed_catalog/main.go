package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"library-catalog/internal/display"
	"library-catalog/internal/logging"
	"library-catalog/library"
)

// seed_catalog loads a YAML seed catalog into a throwaway library and reports
// what would be registered, so seed files can be checked before a session.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: seed_catalog <seed.yaml>")
		os.Exit(2)
	}
	path := filepath.Clean(os.Args[1])

	logger := logging.New(logging.Config{AppName: "seed_catalog", Level: os.Getenv("LOG_LEVEL")})

	manager, err := library.NewLibraryManager(library.DefaultPolicy(), library.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating library: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening seed: %v\n", err)
		os.Exit(1)
	}
	seed, err := library.LoadSeed(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading seed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Importing %d book(s) and %d member(s) from %s...\n", len(seed.Books), len(seed.Members), path)
	rep, err := manager.ApplySeed(seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing seed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Books imported:   %d\n", rep.BooksAdded)
	fmt.Printf("Members imported: %d\n", rep.MembersAdded)
	fmt.Printf("Skipped:          %d\n", rep.Skipped)
	for _, reason := range rep.SkippedReasons {
		fmt.Printf("  - %s\n", reason)
	}

	books, err := manager.GetAllBooks()
	if err != nil {
		fmt.Printf("Error retrieving books: %v\n", err)
		os.Exit(1)
	}
	if len(books) > 0 {
		fmt.Println("\nImported books:")
		fmt.Printf("%-12s %-50s %-30s\n", "Category", "Title", "Author")
		fmt.Println(strings.Repeat("-", 94))
		for _, b := range books {
			fmt.Printf("%-12s %-50s %-30s\n", b.Category, display.Truncate(b.Title, 50), display.Truncate(b.Author, 30))
		}
	}

	if rep.Skipped > 0 {
		os.Exit(1)
	}
}
