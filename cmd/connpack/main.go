package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/connpack/pkg/connector"
	"github.com/platinummonkey/connpack/pkg/packager"
	"github.com/platinummonkey/connpack/pkg/validation"
)

// Validates a connector definition package on disk. With --watch, keeps
// running and re-validates whenever a file in the package changes.
func main() {
	dir := flag.String("dir", ".", "Connector package directory")
	configPath := flag.String("config", "", "Path to a connpack config file (default: search the package directory)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	watch := flag.Bool("watch", false, "Re-validate whenever a package file changes")
	debounce := flag.Duration("debounce", 500*time.Millisecond, "Delay before re-validating after a change")
	flag.Parse()

	logger := setupLogger(*logLevel)

	config, err := loadConfig(*configPath, *dir)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	validator := validation.New(config, logger)

	ok := runValidation(validator, logger, *dir)
	if !*watch {
		if !ok {
			os.Exit(1)
		}
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Close()

	if err := watcher.Add(*dir); err != nil {
		logger.Fatalf("Failed to watch %s: %v", *dir, err)
	}
	logger.Infof("Watching %s for changes", *dir)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var pending *time.Timer
	revalidate := make(chan struct{}, 1)

	for {
		select {
		case <-sigChan:
			logger.Info("Received shutdown signal, stopping")
			return

		case event, open := <-watcher.Events:
			if !open {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debugf("Change detected: %s", filepath.Base(event.Name))
			// Editors fire bursts of events; coalesce them.
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(*debounce, func() {
				select {
				case revalidate <- struct{}{}:
				default:
				}
			})

		case err, open := <-watcher.Errors:
			if !open {
				return
			}
			logger.Errorf("Watcher error: %v", err)

		case <-revalidate:
			runValidation(validator, logger, *dir)
		}
	}
}

func runValidation(validator *validation.Validator, logger *logrus.Logger, dir string) bool {
	log := logger.WithField("report_id", uuid.New().String())

	files, err := packager.Discover(dir)
	if err != nil {
		log.Errorf("Discovery failed: %v", err)
		return false
	}
	log.Infof("Validating %d connector files in %s", len(files), dir)

	buf := &validation.ViolationBuffer{}
	props := &connector.Properties{}

	ok := validator.ValidateAll(files, dir, buf, props)
	if ok {
		log.Info("Connector package is valid")
	} else {
		log.Errorf("Connector package is invalid: %d violations", buf.Len())
	}
	return ok
}

func loadConfig(configPath, dir string) (*validation.Config, error) {
	if configPath != "" {
		return validation.LoadConfig(configPath)
	}
	return validation.LoadConfigFromDir(dir)
}

func setupLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	return logger
}
