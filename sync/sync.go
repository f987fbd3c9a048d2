// Package sync provides the device-side and control-system-side
// synchronization utilities: draining a manager's notification queue,
// dispatching registered listeners, and broadcasting a send across every
// sender PV a manager holds.
package sync

import (
	"context"
	"sync"
	"time"

	"github.com/jabolina/pvadapter"
	"github.com/jabolina/pvadapter/internal/logging"
)

// base holds everything DeviceSync and ControlSystemSync share: the
// wrapped manager and the name-keyed listener table.
type base struct {
	manager pvadapter.Manager
	logger  logging.Logger

	mu        sync.Mutex
	listeners map[string]pvadapter.ProcessVariableListener
}

func newBase(manager pvadapter.Manager, logger logging.Logger) *base {
	if logger == nil {
		logger = logging.Discard
	}
	return &base{
		manager:   manager,
		logger:    logger,
		listeners: make(map[string]pvadapter.ProcessVariableListener),
	}
}

// AddReceiveNotificationListener registers l to be invoked after every
// value a ReceiveAll or WaitForNotifications drain accepts for the PV
// named name. At most one listener is kept per name; a second call for
// the same name replaces the first.
func (b *base) AddReceiveNotificationListener(name string, l pvadapter.ProcessVariableListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[name] = l
}

// RemoveReceiveNotificationListener unregisters the listener for name,
// if any. A name with no registered listener is a silent no-op.
func (b *base) RemoveReceiveNotificationListener(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.listeners, name)
}

func (b *base) listenerFor(name string) (pvadapter.ProcessVariableListener, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.listeners[name]
	return l, ok
}

// ReceiveAll drains every pending notification from the manager's
// notification queue. Every send queues one notification, but one that
// finds the queue full is dropped, so a PV can have more pending values
// than queued notifications; each dequeued
// PV is drained by calling Receive repeatedly until it reports
// not-accepted, not just once; the PV's registered listener (if any) is
// invoked for every accepted value, in arrival order. Returns the
// number of accepted receives across every drained PV.
func (b *base) ReceiveAll() (accepted int, err error) {
	for {
		pv, ok := b.manager.NextNotification()
		if !ok {
			return accepted, nil
		}
		listener, hasListener := b.listenerFor(pv.Name())
		for {
			wasAccepted, recvErr := pv.Receive()
			if recvErr != nil {
				return accepted, recvErr
			}
			if !wasAccepted {
				break
			}
			accepted++
			if hasListener {
				listener.Notify(pv)
			}
		}
	}
}

// SendAll calls Send on every sender PV reachable from the wrapped
// manager, in registration order. It stops and returns the first error
// encountered; PVs after it are not sent. Returns the number of PVs
// whose send reported an overflow drop.
func (b *base) SendAll() (overflowed int, err error) {
	for _, pv := range b.manager.GetAllProcessVariables() {
		if !pv.IsSender() {
			continue
		}
		result, sendErr := pv.Send()
		if sendErr != nil {
			return overflowed, sendErr
		}
		if result.Overflowed() {
			overflowed++
		}
	}
	return overflowed, nil
}

// WaitForNotifications calls ReceiveAll, then sleeps for checkInterval
// and calls it again, repeating until timeout has elapsed since entry.
// If timeout or checkInterval is <= 0, it returns immediately after the
// first drain; it always drains at least once. Intended for test
// harnesses and simple polling loops; a production caller with its own
// event loop should drive ReceiveAll directly instead.
func (b *base) WaitForNotifications(timeout, checkInterval time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if _, err := b.ReceiveAll(); err != nil {
			return err
		}
		if timeout <= 0 || checkInterval <= 0 {
			return nil
		}
		time.Sleep(checkInterval)
		if !time.Now().Before(deadline) {
			return nil
		}
	}
}

// WaitForNotificationsUntilCanceled runs WaitForNotifications's drain
// loop on a fixed interval in the background until ctx is canceled,
// for callers that want an asynchronous poll loop rather than
// WaitForNotifications's blocking, elapsed-timeout form. The returned
// channel receives the first drain error (if any) and is then closed;
// it is also closed, with nothing sent, when ctx is canceled cleanly.
func (b *base) WaitForNotificationsUntilCanceled(ctx context.Context, checkInterval time.Duration) <-chan error {
	if checkInterval <= 0 {
		checkInterval = 5 * time.Millisecond
	}
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		ticker := time.NewTicker(checkInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := b.ReceiveAll(); err != nil {
					b.logger.Errorf("notification drain failed: %v", err)
					errCh <- err
					return
				}
			}
		}
	}()
	return errCh
}

// DeviceSync wraps a *pvadapter.DeviceManager with the synchronization
// utilities the device-side real-time loop drives on its own schedule.
type DeviceSync struct {
	*base
	manager *pvadapter.DeviceManager
}

// NewDeviceSync creates a DeviceSync over manager.
func NewDeviceSync(manager *pvadapter.DeviceManager, logger logging.Logger) *DeviceSync {
	return &DeviceSync{base: newBase(manager, logger), manager: manager}
}

// ControlSystemSync wraps a *pvadapter.ControlSystemManager with the
// synchronization utilities an event-driven control-system framework
// drives from its own event loop or timer.
type ControlSystemSync struct {
	*base
	manager *pvadapter.ControlSystemManager
}

// NewControlSystemSync creates a ControlSystemSync over manager.
func NewControlSystemSync(manager *pvadapter.ControlSystemManager, logger logging.Logger) *ControlSystemSync {
	return &ControlSystemSync{base: newBase(manager, logger), manager: manager}
}
