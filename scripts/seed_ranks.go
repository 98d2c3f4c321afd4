// seed_ranks.go applies a "Name: rank" file to a session on a running apportion server.
//
// Usage:
//
//	go run scripts/seed_ranks.go -ranks ranks.txt -api http://localhost:8700 [-session ID] [-calculate]
//
// Blank lines and lines starting with # are ignored.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Apportion/internal/client"
)

type rankLine struct {
	Name string
	Rank int
}

func main() {
	ranksPath := flag.String("ranks", "ranks.txt", "path to the Name: rank file")
	apiURL := flag.String("api", "http://localhost:8700", "apportion API base URL")
	sessionID := flag.String("session", "", "session to update; a new one is created when empty")
	calculate := flag.Bool("calculate", false, "calculate weights after seeding")
	dryRun := flag.Bool("dry-run", false, "print ranks without sending them")
	flag.Parse()

	f, err := os.Open(*ranksPath)
	if err != nil {
		log.Fatalf("open ranks file: %v", err)
	}
	defer f.Close()

	var lines []rankLine
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		name, value, ok := strings.Cut(text, ":")
		if !ok {
			log.Fatalf("line %d: expected Name: rank", n)
		}
		rank, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			log.Fatalf("line %d: %v", n, err)
		}
		lines = append(lines, rankLine{Name: strings.TrimSpace(name), Rank: rank})
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("scan ranks file: %v", err)
	}

	log.Printf("parsed %d ranks from %s", len(lines), *ranksPath)

	if *dryRun {
		for _, l := range lines {
			fmt.Printf("%s -> %d\n", l.Name, l.Rank)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c := client.NewHTTPClient(*apiURL)
	var id uuid.UUID
	if *sessionID != "" {
		id, err = uuid.Parse(*sessionID)
		if err != nil {
			log.Fatalf("invalid -session: %v", err)
		}
	} else {
		sess, err := c.CreateSession(ctx)
		if err != nil {
			log.Fatalf("create session: %v", err)
		}
		id = sess.ID
		log.Printf("created session %s", id)
	}

	applied, skipped := 0, 0
	for _, l := range lines {
		if _, err := c.UpdateRank(ctx, id, l.Name, l.Rank); err != nil {
			log.Printf("skip %s: %v", l.Name, err)
			skipped++
			continue
		}
		applied++
	}
	log.Printf("done: %d applied, %d skipped", applied, skipped)

	if *calculate {
		cats, err := c.Calculate(ctx, id)
		if err != nil {
			log.Fatalf("calculate: %v", err)
		}
		for _, cat := range cats {
			fmt.Printf("%d %s %.6f\n", cat.Rank, cat.Name, *cat.Weight)
		}
	}
}
