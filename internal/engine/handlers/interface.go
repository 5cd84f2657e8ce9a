package handlers

import (
	"encoding/json"
	"necrolens-server/internal/session"
)

// Context передает хендлеру сессию забега и время события.
// Сессию хендлер меняет напрямую, цикл движка гарантирует, что он один.
type Context struct {
	Session *session.Session
	Now     int64 // мс хоста
}

// Result - возвращает результат обработки события.
// Хендлер НЕ пишет в логи сервиса напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст для лога
	MsgType string // INFO, WARN, DEBUG
	Publish bool   // Состояние изменилось, оверлею нужен новый снимок
}

// HandlerFunc - это контракт для любого события хоста (FRAME, ITEM_USED, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
