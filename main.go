package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"cinescintille/config"
	"cinescintille/models"
	"cinescintille/services/backend"
	"cinescintille/services/detail"
	"cinescintille/services/feed"
	"cinescintille/services/profile"
	"cinescintille/services/search"
	"cinescintille/services/session"
)

func main() {
	loginFlag := flag.String("login", "", "log in as user:password before running")
	movieFlag := flag.Int64("movie", 0, "show the detail page for a TMDB id")
	searchFlag := flag.String("search", "", "run an interactive-style search for a title")
	profileFlag := flag.Bool("profile", false, "show the profile page")
	configFlag := flag.String("config", "", "path to the settings file")
	flag.Parse()

	fmt.Println("🎬 CineScintille client starting...")

	// Load .env before reading config overrides
	_ = godotenv.Load()

	configPath := *configFlag
	if configPath == "" {
		configPath = os.Getenv("CINESCINTILLE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stderr, fileWriter))
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	client, err := backend.NewClient(settings.Server.BaseURL, backend.WithTimeout(settings.Server.Timeout()))
	if err != nil {
		log.Fatalf("failed to create backend client: %v", err)
	}
	fmt.Printf("🔗 Backend: %s\n", client.BaseURL())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	store := session.NewStore(client)
	store.Bootstrap(ctx)

	if *loginFlag != "" {
		username, password, ok := strings.Cut(*loginFlag, ":")
		if !ok {
			log.Fatalf("-login expects user:password")
		}
		user, err := store.Login(ctx, username, password)
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
		fmt.Printf("👤 Logged in as %s\n", user.Username)
	}

	guard := session.NewGuard(store)
	if guard.Admit(ctx) == session.RedirectLogin {
		fmt.Println("🔒 No session. Use -login user:password to authenticate.")
		os.Exit(1)
	}

	switch {
	case *movieFlag > 0:
		runDetail(ctx, client, store, settings, models.TMDBID(*movieFlag))
	case strings.TrimSpace(*searchFlag) != "":
		runSearch(ctx, client, settings, *searchFlag)
	case *profileFlag:
		runProfile(ctx, client, settings)
	default:
		runFeed(ctx, client)
	}
}

func runFeed(ctx context.Context, client *backend.Client) {
	view := feed.NewView(ctx, client)
	defer view.Close()
	view.Load()

	snap := view.Snapshot()
	if snap.Phase == feed.Failed {
		fmt.Println("⚠️ ", snap.Message)
		return
	}

	for _, row := range snap.Rows {
		fmt.Printf("\n== %s ==\n", row.Label)
		if row.Empty() {
			fmt.Println("  (nothing here yet)")
			continue
		}
		for _, m := range row.Items {
			fmt.Printf("  [%d] %s\n", m.ID, m.Title)
		}
	}
}

func runDetail(ctx context.Context, client *backend.Client, store *session.Store, settings config.Settings, id models.TMDBID) {
	confirm := detail.ConfirmerFunc(func(prompt string) bool {
		fmt.Printf("%s [y/N]: ", prompt)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		return strings.EqualFold(strings.TrimSpace(line), "y")
	})

	view := detail.NewView(ctx, client, store, id, detail.WithConfirmer(confirm))
	defer view.Close()
	view.Load()

	snap := view.Snapshot()
	if snap.Phase == detail.Failed {
		fmt.Println("⚠️ ", snap.Message)
		return
	}

	movie := snap.Detail.Movie
	fmt.Printf("\n%s (%s)\n", movie.Title, movie.ReleaseDate)
	if snap.Detail.Director != "" {
		fmt.Printf("Directed by %s\n", snap.Detail.Director)
	}
	fmt.Println(strings.Join(movie.Genres, " • "))
	fmt.Println(movie.Overview)
	if poster := models.PosterURL(settings.Images.PosterBaseURL, movie.PosterPath); poster != "" {
		fmt.Printf("Poster: %s\n", poster)
	}
	fmt.Printf("Watchlist: %v  Watched: %v\n", snap.Status.InWatchlist, snap.Status.Watched)

	printRow(feed.LabelCrew, snap.Crew)
	printRow("Recommended For You", snap.Hybrid)

	if len(snap.Reviews) > 0 {
		fmt.Println("\n== Reviews ==")
		for _, r := range snap.Reviews {
			fmt.Printf("  %s %s - %s\n", stars(r.Rating), r.Username, r.Comment)
		}
	}
}

func runSearch(ctx context.Context, client *backend.Client, settings config.Settings, query string) {
	o := search.New(ctx, client, nil, search.WithDebounce(settings.Search.Debounce()))
	defer o.Close()

	// Feed the query through keystroke by keystroke the way a UI would.
	for i := 1; i <= len(query); i++ {
		o.SetQuery(query[:i])
	}

	deadline := time.Now().Add(settings.Search.Debounce() + 10*time.Second)
	for time.Now().Before(deadline) {
		if results := o.Results(); len(results) > 0 {
			for _, m := range results {
				fmt.Printf("  [%d] %s\n", m.ID, m.Title)
			}
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	fmt.Println("No results.")
}

func runProfile(ctx context.Context, client *backend.Client, settings config.Settings) {
	view := profile.NewView(ctx, client)
	defer view.Close()
	view.Load()

	snap := view.Snapshot()
	if snap.Phase == profile.Failed {
		fmt.Println("⚠️ ", snap.Message)
		return
	}

	fmt.Printf("\n@%s", snap.Account.Username)
	if snap.Account.Name != "" {
		fmt.Printf(" (%s)", snap.Account.Name)
	}
	fmt.Println()
	fmt.Printf("Avatar: %s\n", models.AvatarURL(settings.Images.AvatarPath, snap.Account.Avatar))

	printRow("Your Watchlist", snap.Watchlist)
	printRow("Movies Watched", snap.Watched)

	if len(snap.Reviews) > 0 {
		fmt.Println("\n== Your Reviews ==")
		for _, r := range snap.Reviews {
			fmt.Printf("  %s %s - %s\n", stars(r.Rating), r.MovieTitle, r.Comment)
		}
	}
}

func printRow(label string, items []models.MovieSummary) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n== %s ==\n", label)
	for _, m := range items {
		fmt.Printf("  [%d] %s\n", m.ID, m.Title)
	}
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
