// Command scoreboard shows a live leaderboard of one contest in the terminal.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	api := flag.String("api", "http://localhost:8080", "contest API base URL")
	contestID := flag.String("contest", "", "contest uuid")
	limit := flag.Int("limit", 10, "number of leaderboard rows")
	interval := flag.Duration("interval", 5*time.Second, "refresh interval")
	flag.Parse()

	if *contestID == "" {
		fmt.Fprintln(os.Stderr, "usage: scoreboard -contest <uuid> [-api url] [-limit n] [-interval d]")
		os.Exit(2)
	}

	client := &leaderboardClient{
		http:      &http.Client{Timeout: 10 * time.Second},
		baseURL:   *api,
		contestID: *contestID,
		limit:     *limit,
	}

	p := tea.NewProgram(newModel(*contestID, client.fetch, *interval))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
