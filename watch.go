package serialport

import (
	"context"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Used when the device directory cannot be watched
var portRescanInterval = 2 * time.Second

// WatchPorts returns a channel that receives port list snapshots. It fires
// once immediately and again whenever the list changes. Hot-plug events are
// taken from inotify on /dev where available; otherwise the list is
// rescanned periodically. The channel is closed when ctx is done.
func (s *Session) WatchPorts(ctx context.Context) <-chan []PortDescriptor {
	ch := make(chan []PortDescriptor, 1)

	go func() {
		defer close(ch)

		// Watch before the first scan so no event falls between them
		events, errs, closeWatcher := s.watchDevDir()
		defer closeWatcher()

		last := s.ListPorts()
		if !sendSnapshot(ctx, ch, last) {
			return
		}

		rescan := func() bool {
			ports := s.ListPorts()
			if slices.Equal(ports, last) {
				return true
			}
			last = ports
			return sendSnapshot(ctx, ch, ports)
		}

		var tick <-chan time.Time
		if events == nil {
			ticker := time.NewTicker(portRescanInterval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-tick:
				if !rescan() {
					return
				}
			case event, ok := <-events:
				if !ok {
					return
				}
				// Any device node counts: drivers name ports differently
				// (ttyUSB0, cu.usbserial-1410, tty.Bluetooth)
				if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if !rescan() {
					return
				}
			case err, ok := <-errs:
				if !ok {
					return
				}
				s.logger.Warn("device watcher error", "error", err)
			}
		}
	}()

	return ch
}

// watchDevDir starts inotify on the device directory. Nil channels mean the
// caller has to poll instead.
func (s *Session) watchDevDir() (<-chan fsnotify.Event, <-chan error, func()) {
	noop := func() {}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Debug("fsnotify unavailable, polling for ports", "error", err)
		return nil, nil, noop
	}
	if err := watcher.Add(devDir); err != nil {
		_ = watcher.Close()
		s.logger.Debug("cannot watch device directory, polling for ports", "dir", devDir, "error", err)
		return nil, nil, noop
	}
	return watcher.Events, watcher.Errors, func() { _ = watcher.Close() }
}

func sendSnapshot(ctx context.Context, ch chan<- []PortDescriptor, ports []PortDescriptor) bool {
	select {
	case ch <- ports:
		return true
	case <-ctx.Done():
		return false
	}
}
