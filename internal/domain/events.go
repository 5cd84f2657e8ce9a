package domain

import "strings"

// EventType - Внутренний числовой идентификатор входящего сообщения от хоста
type EventType uint8

// Event types constants
const (
	EventUnknown EventType = iota
	EventEnteredInstance
	EventTransferInitiated
	EventFloorLoaded
	EventItemUsed
	EventAltItemUsed
	EventBonusOpened
	EventBonusItemGranted
	EventLeftInstance
	EventInteracted
	EventFrame
)

// Маппинг для конвертации JSON -> Domain
var eventStringToType = map[string]EventType{
	"ENTERED_INSTANCE":   EventEnteredInstance,
	"TRANSFER_INITIATED": EventTransferInitiated,
	"FLOOR_LOADED":       EventFloorLoaded,
	"ITEM_USED":          EventItemUsed,
	"ALT_ITEM_USED":      EventAltItemUsed,
	"BONUS_OPENED":       EventBonusOpened,
	"BONUS_ITEM_GRANTED": EventBonusItemGranted,
	"LEFT_INSTANCE":      EventLeftInstance,
	"INTERACTED":         EventInteracted,
	"FRAME":              EventFrame,
}

// Маппинг для логов Domain -> String
var eventTypeToString = map[EventType]string{
	EventEnteredInstance:   "ENTERED_INSTANCE",
	EventTransferInitiated: "TRANSFER_INITIATED",
	EventFloorLoaded:       "FLOOR_LOADED",
	EventItemUsed:          "ITEM_USED",
	EventAltItemUsed:       "ALT_ITEM_USED",
	EventBonusOpened:       "BONUS_OPENED",
	EventBonusItemGranted:  "BONUS_ITEM_GRANTED",
	EventLeftInstance:      "LEFT_INSTANCE",
	EventInteracted:        "INTERACTED",
	EventFrame:             "FRAME",
}

// ParseEvent конвертирует строку из JSON в EventType
func ParseEvent(s string) EventType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := eventStringToType[upper]; ok {
		return val
	}
	return EventUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (e EventType) String() string {
	if val, ok := eventTypeToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}
