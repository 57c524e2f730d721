package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/ayusman/fingerspell/internal/app"
	"github.com/ayusman/fingerspell/internal/server"
	"github.com/ayusman/fingerspell/internal/store"
	"github.com/ayusman/fingerspell/internal/tray"
)

// settingEnabled persists the tray recognition toggle between sessions.
const settingEnabled = "recognition_enabled"

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cameraID := flag.Int("camera", 0, "camera device id")
	dbPath := flag.String("db", "", "sqlite database path (default ~/.fingerspell/fingerspell.db)")
	modelPath := flag.String("model", "", "letter model weights JSON (default ~/.fingerspell/model.json)")
	classesPath := flag.String("classes", "", "class list JSON (default ~/.fingerspell/classes.json)")
	heuristic := flag.Bool("heuristic", false, "use the open/closed heuristic instead of the letter model")
	useTray := flag.Bool("tray", false, "run with a system tray icon")
	staticDir := flag.String("static", "", "web UI directory (default: auto-detect)")
	flag.Parse()

	fmt.Println("Fingerspell - ASL Letter Recognition")

	dataDir, err := ensureDataDir()
	if err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	if *dbPath == "" {
		*dbPath = filepath.Join(dataDir, "fingerspell.db")
	}
	if *modelPath == "" {
		*modelPath = filepath.Join(dataDir, "model.json")
	}
	if *classesPath == "" {
		*classesPath = filepath.Join(dataDir, "classes.json")
	}

	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:       st,
		CameraID:    *cameraID,
		ModelPath:   *modelPath,
		ClassesPath: *classesPath,
		Heuristic:   *heuristic,
	})
	defer a.Stop()

	// Restore the recognition toggle from the previous session
	if value, err := st.Settings().Get(settingEnabled); err == nil {
		a.SetEnabled(value != "false")
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start frame pipeline: %v", err)
	}

	webDir := *staticDir
	if webDir == "" {
		webDir = findWebDir(dataDir)
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		App:       a,
	})
	defer srv.Close()

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *useTray {
		runTray(a, *addr)
		return
	}

	// Without the tray, block until interrupted so the deferred teardown runs
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Println("Shutting down")
}

// runTray blocks in the systray loop. Quit from the menu stops the pipeline
// before the process exits.
func runTray(a *app.App, addr string) {
	t := tray.New()

	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		if st := a.Store(); st != nil {
			if err := st.Settings().Set(settingEnabled, strconv.FormatBool(enabled)); err != nil {
				log.Printf("Failed to save toggle state: %v", err)
			}
		}
	})
	t.OnOpenUI(func() {
		openBrowser("http://localhost" + addr)
	})
	t.OnQuit(func() {
		a.Stop()
	})

	// Surface the last recognized letter in the menu
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if result := a.LastResult(); result != nil && result.Prediction != nil {
					t.SetLastLetter(result.Prediction.Label)
				}
			}
		}
	}()

	t.Run()
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch {
	case commandExists("open"):
		cmd = exec.Command("open", url)
	case commandExists("xdg-open"):
		cmd = exec.Command("xdg-open", url)
	default:
		return
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// ensureDataDir creates ~/.fingerspell if it does not exist and returns it.
func ensureDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dataDir := filepath.Join(homeDir, ".fingerspell")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web", "../../web", then <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
