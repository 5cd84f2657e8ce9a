package domain

import "encoding/json"

// JournalEntry - одно входящее событие в журнале сессии
type JournalEntry struct {
	At      int64           `json:"at"`      // Когда пришло (мс хоста)
	Event   EventType       `json:"event"`   // Что пришло
	Payload json.RawMessage `json:"payload"` // С какими параметрами
}

// JournalSession - полная запись забега
type JournalSession struct {
	RunID     string         `json:"runId"`
	StartedAt int64          `json:"startedAt"` // unix ms
	Entries   []JournalEntry `json:"entries"`
}
