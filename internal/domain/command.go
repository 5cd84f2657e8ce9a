package domain

import "encoding/json"

// InternalCommand - событие от хоста, уже разобранное до типа.
// Использует EventType вместо string.
type InternalCommand struct {
	Event   EventType       // Число! Быстро и безопасно.
	At      int64           // Монотонные миллисекунды хоста
	Payload json.RawMessage // Сырые данные (парсятся хендлером)
}
