package room

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"holdem-server/internal/rng"
	"holdem-server/pkg/texasholdem"
)

// closeReasonShiftEnded is sent to every connected client when the dealer stops
const closeReasonShiftEnded = "the table is closed"

// Options configures a dealer
type Options struct {
	// Name is the table name used in logs
	Name string

	// TurnTimeout folds a player who takes longer than this to act, zero disables it
	TurnTimeout time.Duration

	// Clock drives the turn timer, defaults to the real clock
	Clock quartz.Clock

	// RNG picks names for players who join without one, defaults to crypto/rand
	RNG rng.Generator
}

// Dealer runs a table
// Every table operation happens on the dealer's run loop, one at a time.
type Dealer struct {
	logger logrus.FieldLogger
	table  *texasholdem.Table
	name   string

	clients map[*Client]bool
	lock    sync.RWMutex

	rng         rng.Generator
	clock       quartz.Clock
	turnTimeout time.Duration
	turnTimer   *quartz.Timer
	turnSeq     uint64

	logMessages []*LogMessage

	ctx           context.Context
	cancel        context.CancelFunc
	execInRunLoop chan func()
	close         chan bool
	closeOnce     sync.Once
	done          chan struct{}
}

// NewDealer creates a new dealer for the table
func NewDealer(logger logrus.FieldLogger, table *texasholdem.Table, opts Options) *Dealer {
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	gen := opts.RNG
	if gen == nil {
		gen = rng.Crypto{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dealer{
		logger:        logger.WithField("table", opts.Name),
		table:         table,
		name:          opts.Name,
		clients:       make(map[*Client]bool),
		rng:           gen,
		clock:         clock,
		turnTimeout:   opts.TurnTimeout,
		logMessages:   make([]*LogMessage, 0, logMessageLimit),
		ctx:           ctx,
		cancel:        cancel,
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
		done:          make(chan struct{}),
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

// EndShift stops the run loop and closes the table
func (d *Dealer) EndShift() {
	d.closeOnce.Do(func() {
		d.cancel()
		close(d.close)
	})

	<-d.done
}

func (d *Dealer) runLoop() {
	defer close(d.done)

	d.logger.Debug("starting dealer run loop")
	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			if d.turnTimer != nil {
				d.turnTimer.Stop()
			}

			d.table.Close()
			for _, client := range d.Clients() {
				client.Disconnect(closeReasonShiftEnded)
			}

			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// exec schedules fn on the run loop
// false is returned if the dealer has ended its shift
func (d *Dealer) exec(fn func()) bool {
	select {
	case d.execInRunLoop <- fn:
		return true
	case <-d.close:
		return false
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.exec(func() {
		client.Send(&Response{Key: "gameState", Data: d.table.Snapshot()})
		if len(d.logMessages) > 0 {
			client.Send(&Response{Key: "log", Data: d.logMessages})
		}
	})
}

// RemoveClient removes the client and gives up their seat
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) {
	d.lock.Lock()
	delete(d.clients, client)
	d.lock.Unlock()

	d.exec(func() {
		before := d.mark()
		p, err := d.table.Leave(client.ID)
		if err == texasholdem.ErrPlayerNotFound {
			return
		}

		if err != nil {
			d.logger.WithError(err).WithField("client", client.String()).Error("error while removing player")
		}

		if p != nil {
			d.broadcast(&Response{Key: "playerLeft", Data: playerEvent{ID: p.ID(), Name: p.Name()}})
			d.addLogMessages(d.newLogMessage([]string{p.ID()}, "%s left the table", p.Name()))
		}

		d.afterAction(before)
	})
}

// Snapshot returns the public state of the table
func (d *Dealer) Snapshot(ctx context.Context) (texasholdem.Snapshot, error) {
	result := make(chan texasholdem.Snapshot, 1)
	if !d.exec(func() { result <- d.table.Snapshot() }) {
		return texasholdem.Snapshot{}, context.Canceled
	}

	select {
	case snap := <-result:
		return snap, nil
	case <-ctx.Done():
		return texasholdem.Snapshot{}, ctx.Err()
	}
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *PayloadIn) {
	d.exec(func() {
		d.handleMessage(c, msg)
	})
}

// broadcast sends the response to every connected client
// NOTE: must only be called from the run loop
func (d *Dealer) broadcast(res *Response) {
	for _, client := range d.Clients() {
		client.Send(res)
	}
}

// tableMark remembers enough about the table to tell what an action changed
type tableMark struct {
	handNumber int
	result     *texasholdem.HandResult
}

func (d *Dealer) mark() tableMark {
	return tableMark{
		handNumber: d.table.HandNumber(),
		result:     d.table.LastResult(),
	}
}

// afterAction tells every client what changed since the mark
// NOTE: must only be called from the run loop
func (d *Dealer) afterAction(before tableMark) {
	if result := d.table.LastResult(); result != nil && result != before.result {
		d.broadcast(&Response{Key: "gameEnded", Data: result})
		d.logResult(result)
	}

	snap := d.table.Snapshot()
	if snap.HandNumber != before.handNumber && snap.Active {
		d.broadcast(&Response{Key: "gameStarted", Data: snap})
		d.sendHoleCards()
		d.addLogMessages(d.newLogMessage(nil, "hand %d started", snap.HandNumber))
	}

	d.broadcast(&Response{Key: "totalPotUpdated", Data: potEvent{Pot: snap.Pot}})
	d.broadcast(&Response{Key: "gameState", Data: snap})
	d.armTurnTimer()
}

func (d *Dealer) logResult(result *texasholdem.HandResult) {
	if result.Reason == texasholdem.ReasonAborted {
		d.addLogMessages(d.newLogMessage(nil, "hand %d was aborted, bets were returned", result.HandNumber))
		return
	}

	messages := make([]*LogMessage, 0, len(result.Winners))
	for _, w := range result.Winners {
		messages = append(messages, d.newLogMessage([]string{w.ID}, "%s won %d", w.Name, w.Amount))
	}

	d.addLogMessages(messages...)
}

// sendHoleCards privately sends each seated client their own cards
func (d *Dealer) sendHoleCards() {
	for _, client := range d.Clients() {
		cards, err := d.table.HoleCards(client.ID)
		if err != nil || len(cards) == 0 {
			continue
		}

		client.Send(&Response{Key: "hand", Data: cards})
	}
}

// armTurnTimer restarts the turn timer for whoever acts next
// NOTE: must only be called from the run loop
func (d *Dealer) armTurnTimer() {
	if d.turnTimer != nil {
		d.turnTimer.Stop()
		d.turnTimer = nil
	}

	d.turnSeq++
	if d.turnTimeout <= 0 {
		return
	}

	id, ok := d.table.CurrentTurn()
	if !ok {
		return
	}

	seq := d.turnSeq
	d.turnTimer = d.clock.AfterFunc(d.turnTimeout, func() {
		d.exec(func() {
			d.turnExpired(seq, id)
		})
	}, "turnTimer")
}

// turnExpired folds the player if they still have not acted
func (d *Dealer) turnExpired(seq uint64, id string) {
	if seq != d.turnSeq {
		return
	}

	p, err := d.table.Player(id)
	if err != nil {
		return
	}

	log := d.logger.WithField("player", id)
	before := d.mark()
	if err := d.table.Fold(id); err != nil {
		log.WithError(err).Error("could not fold player after timeout")
		if isUserError(err) {
			return
		}
	}

	log.Info("player timed out")
	d.broadcast(&Response{Key: "playerFolded", Data: playerEvent{ID: id, Name: p.Name, Reason: "timeout"}})
	d.addLogMessages(d.newLogMessage([]string{id}, "%s ran out of time and folded", p.Name))
	d.afterAction(before)
}
