// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package hierconf

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hierconf/hierconf/key"
	"github.com/hierconf/hierconf/tree"
)

// Watch watches and updates configuration when any backing source changes.
// It blocks until ctx is done, or a watcher returns an error.
// WARNING: All loaders passed in Load after calling Watch do not get watched.
//
// It only can be called once. Calling Watch again has no effects.
// It panics if ctx is nil.
func (c *Config) Watch(ctx context.Context) error { //nolint:cyclop,funlen,gocognit
	if ctx == nil {
		panic("cannot watch change with nil context")
	}

	c.nocopy.Check()

	if hasWatcher := slices.ContainsFunc(c.providers, func(p *provider) bool {
		_, ok := p.loader.(Watcher)

		return ok
	}); !hasWatcher {
		return nil
	}

	watched := true
	c.watchOnce.Do(func() {
		watched = false
	})
	if watched {
		c.logger.Warn("Config has been watched, call Watch again has no effects.")

		return nil
	}
	c.watched.Store(true)
	defer c.watched.Store(false)

	onChangesChannel := make(chan []func(*Config))
	defer close(onChangesChannel)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var waitGroup sync.WaitGroup
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()

		for {
			select {
			case onChanges := <-onChangesChannel:
				c.rebuild()
				c.logger.DebugContext(ctx, "Configuration has been updated with change.")

				if len(onChanges) > 0 {
					func() {
						ctx, cancel := context.WithTimeout(ctx, time.Minute)
						defer cancel()

						done := make(chan struct{})
						go func() {
							defer close(done)

							for _, onChange := range onChanges {
								onChange(c)
							}
						}()

						select {
						case <-done:
							c.logger.DebugContext(ctx, "Configuration has been applied to onChanges.")
						case <-ctx.Done():
							if errors.Is(ctx.Err(), context.DeadlineExceeded) {
								c.logger.WarnContext(ctx, "Configuration has not been fully applied to onChanges due to timeout."+
									" Please check if the onChanges is blocking or takes too long to complete.")
							}
						}
					}()
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	errChan := make(chan error, len(c.providers))
	for _, p := range c.providers {
		p := p

		watcher, ok := p.loader.(Watcher)
		if !ok {
			continue
		}

		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()

			onChange := func(root *tree.Node) {
				oldRoot := p.root
				p.root = root

				// Find the onChanges that should be triggered.
				onChanges := func() []func(*Config) {
					c.onChangesMutex.RLock()
					defer c.onChangesMutex.RUnlock()

					var callbacks []func(*Config)
					for path, onChanges := range c.onChanges {
						parsed, err := key.Parse(path, c.delimiter)
						if err != nil {
							continue
						}
						if touches(oldRoot, parsed) || touches(root, parsed) {
							callbacks = append(callbacks, onChanges...)
						}
					}

					return callbacks
				}
				onChangesChannel <- onChanges()

				c.logger.Info(
					"Configuration has been changed.",
					"loader", watcher,
				)
			}

			c.logger.DebugContext(ctx, "Watching configuration change.", "loader", watcher)
			if err := watcher.Watch(ctx, onChange); err != nil {
				errChan <- fmt.Errorf("watch configuration change: %w", err)
				cancel()
			}
		}()
	}
	waitGroup.Wait()
	close(errChan)

	var err error
	for e := range errChan {
		err = errors.Join(err, e)
	}

	return err
}

func touches(root *tree.Node, parsed key.Key) bool {
	if root == nil {
		return false
	}

	return len(tree.Query(root, parsed)) > 0
}

// OnChange registers a callback function that is executed
// when any node under one of the given keys changes.
// It requires Config.Watch has been called first.
//
// The onChange function must be non-blocking and usually completes instantly.
// If it requires a long time to complete, it should be executed in a separate goroutine.
//
// This method is concurrency-safe.
// It panics if onChange is nil.
func (c *Config) OnChange(onChange func(*Config), keys ...string) {
	if onChange == nil {
		panic("cannot register nil onChange")
	}

	c.nocopy.Check()

	c.onChangesMutex.Lock()
	defer c.onChangesMutex.Unlock()

	if c.onChanges == nil {
		c.onChanges = make(map[string][]func(*Config))
	}
	if len(keys) == 0 {
		keys = []string{""}
	}

	for _, k := range keys {
		c.onChanges[k] = append(c.onChanges[k], onChange)
	}
}
