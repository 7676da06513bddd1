package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/gethiox/sourcetracker/internal/pkg/logger"
)

// DetectConfigChanges notifies about every modification of yaml files in given directories.
// Channel is closed when ctx is done.
func DetectConfigChanges(ctx context.Context, dirs ...string) <-chan bool {
	var change = make(chan bool)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Info(fmt.Sprintf("creating config watcher failed: %v", err), logger.Error)
		close(change)
		return change
	}

	for _, path := range dirs {
		err = watcher.Add(path)
		if err != nil {
			log.Info(fmt.Sprintf("watching \"%s\" failed: %v", path, err), logger.Warning)
		}
	}

	go func() {
		defer close(change)
		defer func() {
			err := watcher.Close()
			if err != nil {
				log.Info(fmt.Sprintf("closing watcher failed: %v", err), logger.Debug)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Info(fmt.Sprintf("config watcher error: %v", err), logger.Warning)
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}

				name := strings.ToLower(event.Name)
				if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
					continue
				}
				log.Info(fmt.Sprintf("config change detected: %s", event.Name), logger.Info)
				select {
				case change <- true:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return change
}
