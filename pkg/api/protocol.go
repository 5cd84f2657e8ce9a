package api

import (
	"encoding/json"
)

// --- ТРЕКЕР -> ОВЕРЛЕЙ ---

// SnapshotView это корневой объект, который трекер рассылает подписчикам оверлея.
// Представляет собой полный "снимок" состояния забега после очередного кадра.
type SnapshotView struct {
	// Type тип сообщения. На данный момент всегда "SNAPSHOT".
	Type string `json:"type"`

	// At время хоста (мс), к которому относится снимок.
	At int64 `json:"at"`

	// State OUTSIDE, ON_FLOOR или TRANSFER_PENDING.
	State string `json:"state"`

	// Run метаданные забега. Отсутствует вне подземелья.
	Run *RunView `json:"run,omitempty"`

	// Floor состояние текущего этажа. Отсутствует вне подземелья.
	Floor *FloorView `json:"floor,omitempty"`

	// Objects все объекты последнего кадра с классификацией.
	Objects []ObjectView `json:"objects,omitempty"`
}

// RunView описывает текущий забег.
type RunView struct {
	RunID      string      `json:"runId"`
	PartyID    string      `json:"partyId,omitempty"`
	ContentID  int         `json:"contentId"`
	Variant    string      `json:"variant"`
	StartFloor int         `json:"startFloor"`
	FloorTimes []FloorTime `json:"floorTimes"`
}

// FloorTime - одна строка таблицы времени этажей.
type FloorTime struct {
	Floor   int `json:"floor"`
	Seconds int `json:"seconds"`
}

// FloorView это состояние текущего этажа.
type FloorView struct {
	Number          int      `json:"number"`
	ElapsedSeconds  int      `json:"elapsedSeconds"`
	TimeTillRespawn int      `json:"timeTillRespawn"`
	HasRespawn      bool     `json:"hasRespawn"`
	TrapStatus      string   `json:"trapStatus"` // ACTIVE, VISIBLE, INACTIVE
	ActiveEffects   []string `json:"activeEffects,omitempty"`
	NextFloor       []string `json:"nextFloor,omitempty"` // использованные эффекты, которые перейдут дальше
	BonusOpened     bool     `json:"bonusOpened"`
	Recorded        int      `json:"recorded"` // объектов в реестре этажа
}

// ObjectView это DTO для одного видимого объекта.
type ObjectView struct {
	EntityID     string  `json:"entityId"`
	DataID       uint32  `json:"dataId"`
	Name         string  `json:"name,omitempty"`
	Pos          PosView `json:"pos"`
	HitboxRadius float32 `json:"hitboxRadius"`

	// Kind MONSTER, CHEST_BRONZE, CHEST_SILVER, CHEST_GOLD, HOARD, MIMIC, TRAP, PASSAGE, RETURN, OTHER.
	Kind string `json:"kind"`

	// IdleMs сколько монстр стоит на месте. -1 - неизвестно.
	IdleMs *int64 `json:"idleMs,omitempty"`

	// ChestSafe false, если в сундуке может сидеть мимик.
	ChestSafe *bool `json:"chestSafe,omitempty"`

	// Bonus что выпадет из сундука вторым предметом.
	Bonus *BonusView `json:"bonus,omitempty"`

	Interacted bool `json:"interacted,omitempty"`
	InBattle   bool `json:"inBattle,omitempty"`
}

type PosView struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

type BonusView struct {
	Kind   string `json:"kind"`
	ItemID uint32 `json:"itemId"`
}

// IdleView ответ на /idle
type IdleView struct {
	EntityID string `json:"entityId"`
	IdleMs   int64  `json:"idleMs"`
	Known    bool   `json:"known"`
}

// --- ЭКСПОРТ ---

// ExportDocument документ, который уходит на сервер сбора данных при выходе с этажа.
// Поля с нулевыми значениями не пишутся.
type ExportDocument struct {
	Sender string    `json:"Sender,omitempty"`
	Party  string    `json:"Party,omitempty"`
	Data   []MobData `json:"Data,omitempty"`
}

// MobData один вид монстра на этаже.
// MoveTimes и AggroDistances зарезервированы и всегда пустые.
type MobData struct {
	DataID         uint32    `json:"DataId,omitempty"`
	NameID         uint32    `json:"NameId,omitempty"`
	ContentID      int       `json:"ContentId,omitempty"`
	Floor          int       `json:"Floor,omitempty"`
	HitboxRadius   float32   `json:"HitboxRadius,omitempty"`
	MoveTimes      []int64   `json:"MoveTimes"`
	AggroDistances []float32 `json:"AggroDistances"`
}

// --- ХОСТ -> ТРЕКЕР ---

// ClientMessage это корневой объект для всех сообщений от хоста.
type ClientMessage struct {
	// Type название события (ENTERED_INSTANCE, FRAME, ...).
	Type string `json:"type"`

	// At монотонное время хоста в миллисекундах. Если 0, трекер ставит своё.
	At int64 `json:"at,omitempty"`

	// Payload JSON-объект с данными события. Его структура зависит от Type.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// EnteredInstancePayload используется в ENTERED_INSTANCE.
type EnteredInstancePayload struct {
	ContentID int    `json:"contentId"`
	Floor     int    `json:"floor"`
	PartyID   string `json:"partyId,omitempty"`
}

// ItemUsedPayload используется в ITEM_USED и ALT_ITEM_USED.
type ItemUsedPayload struct {
	ItemID int `json:"itemId"`
}

// BonusItemPayload используется в BONUS_ITEM_GRANTED.
type BonusItemPayload struct {
	ItemKind  string  `json:"itemKind"` // POMANDER, MAGIC_STONE, DEMICLONE
	ItemID    int     `json:"itemId"`
	PlayerPos PosView `json:"playerPos"`
}

// InteractedPayload используется в INTERACTED.
type InteractedPayload struct {
	EntityID json.Number `json:"entityId"`
}

// FramePayload используется в FRAME: всё, что хост видит в этот тик.
type FramePayload struct {
	PlayerPos PosView         `json:"playerPos"`
	Objects   []FrameObjectIn `json:"objects"`
}

// FrameObjectIn один объект кадра.
type FrameObjectIn struct {
	EntityID     json.Number `json:"entityId"`
	DataID       uint32      `json:"dataId"`
	NameID       uint32      `json:"nameId,omitempty"`
	Name         string      `json:"name,omitempty"`
	HitboxRadius float32     `json:"hitboxRadius"`
	Pos          PosView     `json:"pos"`
	Motion       string      `json:"motion"` // APPEARED, STATIONARY, MOVING
	InBattle     bool        `json:"battle,omitempty"`
}

// ServerResponse ответ хосту на его сообщение.
type ServerResponse struct {
	Type  string `json:"type"` // ACK, ERROR
	Event string `json:"event,omitempty"`
	Msg   string `json:"msg,omitempty"`
}
