package balance

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const writerQueueSize = 256

// Writer persists balance updates in the background
// Updates are written one at a time in the order they were enqueued, so a
// player's balance from a later hand never lands before an earlier one.
type Writer struct {
	store   Store
	logger  logrus.FieldLogger
	timeout time.Duration

	lock   sync.RWMutex
	closed bool
	queue  chan []queuedUpdate
	done   chan struct{}

	// pending holds the newest queued amount per player until it is written
	pendingLock sync.Mutex
	pending     map[string]queuedUpdate
	seq         uint64
}

type queuedUpdate struct {
	Update
	seq uint64
}

// NewWriter starts a writer for the store
// A timeout of zero means each update runs without a deadline
func NewWriter(logger logrus.FieldLogger, store Store, timeout time.Duration) *Writer {
	w := &Writer{
		store:   store,
		logger:  logger,
		timeout: timeout,
		queue:   make(chan []queuedUpdate, writerQueueSize),
		done:    make(chan struct{}),
		pending: make(map[string]queuedUpdate),
	}

	go w.runLoop()
	return w
}

// Enqueue schedules the updates and returns immediately
// If the writer is closed or the queue is full, the updates are dropped and false is returned
func (w *Writer) Enqueue(updates ...Update) bool {
	if len(updates) == 0 {
		return true
	}

	w.lock.RLock()
	defer w.lock.RUnlock()

	if w.closed {
		w.logger.WithField("updates", len(updates)).Error("balance writer is closed")
		return false
	}

	// recorded before sending so the worker never clears an entry that is not there yet
	queued := w.track(updates)

	select {
	case w.queue <- queued:
		return true
	default:
		w.untrack(queued)
		w.logger.WithField("updates", len(updates)).Error("balance writer queue is full")
		return false
	}
}

// Pending returns the newest amount queued for the player that has not been written yet
func (w *Writer) Pending(playerID string) (int, bool) {
	w.pendingLock.Lock()
	defer w.pendingLock.Unlock()

	update, ok := w.pending[playerID]
	return update.Amount, ok
}

// Close stops accepting updates and waits for queued updates to be written
func (w *Writer) Close() {
	w.lock.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.lock.Unlock()

	<-w.done
}

func (w *Writer) track(updates []Update) []queuedUpdate {
	w.pendingLock.Lock()
	defer w.pendingLock.Unlock()

	queued := make([]queuedUpdate, len(updates))
	for i, update := range updates {
		w.seq++
		queued[i] = queuedUpdate{Update: update, seq: w.seq}
		w.pending[update.PlayerID] = queued[i]
	}

	return queued
}

// untrack forgets the updates unless a newer update for the same player was queued since
func (w *Writer) untrack(updates []queuedUpdate) {
	w.pendingLock.Lock()
	defer w.pendingLock.Unlock()

	for _, update := range updates {
		if w.pending[update.PlayerID].seq == update.seq {
			delete(w.pending, update.PlayerID)
		}
	}
}

func (w *Writer) runLoop() {
	defer close(w.done)

	for updates := range w.queue {
		for _, update := range updates {
			w.write(update.Update)
			w.untrack([]queuedUpdate{update})
		}
	}
}

func (w *Writer) write(update Update) {
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	log := w.logger.WithFields(logrus.Fields{
		"player": update.PlayerID,
		"amount": update.Amount,
	})

	ok, err := w.store.UpdateBalance(ctx, update.PlayerID, update.Amount)
	if err != nil {
		log.WithError(err).Error("could not update balance")
		return
	}

	if !ok {
		log.Warn("balance update did not change any rows")
		return
	}

	log.Debug("balance updated")
}
