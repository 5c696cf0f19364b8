package room

import (
	"errors"
	"strings"

	"holdem-server/internal/util"
	"holdem-server/pkg/texasholdem"
)

var (
	errAmountRequired = texasholdem.UserError("amount is required")
	errUnknownAction  = texasholdem.UserError("unknown action")
)

// outcome is the result of a client action
type outcome struct {
	// reply is sent to the client who sent the action, OK is sent if nil
	reply *Response

	// event is sent to every client
	event *Response

	// log is added to the table log
	log *LogMessage

	// changed is true if the table state changed
	changed bool
}

type actionHandler func(d *Dealer, c *Client, msg *PayloadIn) (outcome, error)

var actionHandlers = map[string]actionHandler{
	"joinGame":      (*Dealer).joinGame,
	"placeBet":      (*Dealer).placeBet,
	"call":          (*Dealer).call,
	"raise":         (*Dealer).raise,
	"fold":          (*Dealer).fold,
	"dealCards":     (*Dealer).dealCards,
	"restartGame":   (*Dealer).restartGame,
	"getBalance":    (*Dealer).getBalance,
	"getPlayerName": (*Dealer).getPlayerName,
}

// handleMessage performs the action and tells the clients about it
// Rejected actions are only reported to the sender.
// NOTE: must only be called from the run loop
func (d *Dealer) handleMessage(c *Client, msg *PayloadIn) {
	handler, ok := actionHandlers[msg.Action]
	if !ok {
		d.logger.WithField("action", msg.Action).Warn("unknown message")
		c.Send(newErrorResponse(msg.Context, errUnknownAction))
		return
	}

	before := d.mark()
	out, err := handler(d, c, msg)
	if err != nil {
		if !isUserError(err) {
			d.logger.WithError(err).WithField("client", c.String()).Error("could not perform action")
		}

		c.Send(newErrorResponse(msg.Context, err))
	} else if out.reply != nil {
		out.reply.Context = msg.Context
		c.Send(out.reply)
	} else {
		c.Send(OK(msg.Context))
	}

	if out.event != nil {
		d.broadcast(out.event)
	}

	if out.log != nil {
		d.addLogMessages(out.log)
	}

	if out.changed {
		d.afterAction(before)
	}
}

// changedBy builds the outcome of an action that mutates the table
// A rejected action changes nothing. Any other error still leaves a changed table behind.
func changedBy(err error, event *Response, log *LogMessage) (outcome, error) {
	if err != nil && isUserError(err) {
		return outcome{}, err
	}

	if err != nil {
		return outcome{changed: true}, err
	}

	return outcome{event: event, log: log, changed: true}, nil
}

func (d *Dealer) joinGame(c *Client, msg *PayloadIn) (outcome, error) {
	name, _ := msg.AdditionalData.GetString("name")
	name = strings.TrimSpace(name)
	if name == "" {
		name = util.RandomName(d.rng)
	}

	p, err := d.table.Join(d.ctx, c.ID, name)
	if p == nil {
		return outcome{}, err
	}

	out, err := changedBy(err,
		&Response{Key: "playerJoined", Data: playerEvent{ID: p.ID(), Name: p.Name()}},
		d.newLogMessage([]string{p.ID()}, "%s joined the table", p.Name()),
	)

	if err == nil && d.table.IsActive() {
		if snap, _ := d.table.Player(c.ID); !snap.Active {
			out.reply = &Response{Key: "info", Value: "A hand is in progress. You will be dealt in to the next one."}
		}
	}

	return out, err
}

func (d *Dealer) placeBet(c *Client, msg *PayloadIn) (outcome, error) {
	amount, ok := msg.AdditionalData.GetInt("amount")
	if !ok {
		return outcome{}, errAmountRequired
	}

	name := d.playerName(c)
	err := d.table.PlaceBet(c.ID, amount)
	return changedBy(err,
		&Response{Key: "betPlaced", Data: playerEvent{ID: c.ID, Name: name, Amount: amount}},
		d.newLogMessage([]string{c.ID}, "%s bet %d", name, amount),
	)
}

func (d *Dealer) call(c *Client, _ *PayloadIn) (outcome, error) {
	name := d.playerName(c)
	amount := d.amountOwed(c)
	err := d.table.Call(c.ID)

	message := d.newLogMessage([]string{c.ID}, "%s called %d", name, amount)
	if amount == 0 {
		message = d.newLogMessage([]string{c.ID}, "%s checked", name)
	}

	return changedBy(err,
		&Response{Key: "playerCalled", Data: playerEvent{ID: c.ID, Name: name, Amount: amount}},
		message,
	)
}

func (d *Dealer) raise(c *Client, msg *PayloadIn) (outcome, error) {
	amount, ok := msg.AdditionalData.GetInt("amount")
	if !ok {
		return outcome{}, errAmountRequired
	}

	name := d.playerName(c)
	err := d.table.Raise(c.ID, amount)
	return changedBy(err,
		&Response{Key: "playerRaised", Data: playerEvent{ID: c.ID, Name: name, Amount: amount}},
		d.newLogMessage([]string{c.ID}, "%s raised %d", name, amount),
	)
}

func (d *Dealer) fold(c *Client, _ *PayloadIn) (outcome, error) {
	name := d.playerName(c)
	err := d.table.Fold(c.ID)
	return changedBy(err,
		&Response{Key: "playerFolded", Data: playerEvent{ID: c.ID, Name: name}},
		d.newLogMessage([]string{c.ID}, "%s folded", name),
	)
}

func (d *Dealer) dealCards(c *Client, _ *PayloadIn) (outcome, error) {
	if _, err := d.table.Player(c.ID); err != nil {
		return outcome{}, err
	}

	err := d.table.DealNext()
	community := d.table.Snapshot().CommunityCards
	return changedBy(err,
		&Response{Key: "cardsDealt", Data: community},
		d.newLogMessage(nil, "community cards: %s", community.String()),
	)
}

func (d *Dealer) restartGame(c *Client, _ *PayloadIn) (outcome, error) {
	if _, err := d.table.Player(c.ID); err != nil {
		return outcome{}, err
	}

	err := d.table.Restart(d.ctx)
	if errors.Is(err, texasholdem.ErrNotEnoughPlayers) {
		// the table was still reset and is waiting for players
		err = nil
	}

	return changedBy(err,
		&Response{Key: "gameRestarted"},
		d.newLogMessage([]string{c.ID}, "%s restarted the game", d.playerName(c)),
	)
}

func (d *Dealer) getBalance(c *Client, _ *PayloadIn) (outcome, error) {
	p, err := d.table.Player(c.ID)
	if err != nil {
		return outcome{}, err
	}

	return outcome{reply: &Response{Key: "balanceUpdated", Data: balanceEvent{Chips: p.Chips}}}, nil
}

func (d *Dealer) getPlayerName(c *Client, _ *PayloadIn) (outcome, error) {
	p, err := d.table.Player(c.ID)
	if err != nil {
		return outcome{}, err
	}

	return outcome{reply: &Response{Key: "playerName", Value: p.Name}}, nil
}

func (d *Dealer) playerName(c *Client) string {
	p, _ := d.table.Player(c.ID)
	return p.Name
}

func (d *Dealer) amountOwed(c *Client) int {
	p, _ := d.table.Player(c.ID)
	if owed := d.table.Snapshot().CurrentBet - p.CurrentBet; owed > 0 {
		return owed
	}

	return 0
}
