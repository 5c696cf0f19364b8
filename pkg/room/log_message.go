package room

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const logMessageLimit = 25

// LogMessage is a human readable account of something that happened at the table
type LogMessage struct {
	UUID      string    `json:"uuid"`
	PlayerIDs []string  `json:"playerIds"`
	Message   string    `json:"message"`
	Time      time.Time `json:"time"`
}

func (d *Dealer) newLogMessage(playerIDs []string, format string, a ...interface{}) *LogMessage {
	if playerIDs == nil {
		playerIDs = []string{}
	}

	return &LogMessage{
		UUID:      uuid.New().String(),
		PlayerIDs: playerIDs,
		Message:   fmt.Sprintf(format, a...),
		Time:      d.clock.Now(),
	}
}

// addLogMessages records the messages and sends them to every client
// Note: this must only be called from within the run loop
func (d *Dealer) addLogMessages(messages ...*LogMessage) {
	m := append(d.logMessages, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.logMessages = m
	d.broadcast(&Response{
		Key:  "log",
		Data: messages,
	})
}
