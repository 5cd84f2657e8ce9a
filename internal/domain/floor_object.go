package domain

// FloorObject - запись реестра этажа: объект, который мы увидели на этом этаже
type FloorObject struct {
	EntityID     EntityID `json:"entityId"`
	DataID       DataID   `json:"dataId"`
	NameID       NameID   `json:"nameId,omitempty"`
	Name         string   `json:"name,omitempty"`
	ContentID    int      `json:"contentId"`
	Floor        int      `json:"floor"`
	HitboxRadius float32  `json:"hitboxRadius"`
}

// ObjectSample - одно наблюдение объекта в кадре
type ObjectSample struct {
	EntityID     EntityID        `json:"entityId"`
	DataID       DataID          `json:"dataId"`
	NameID       NameID          `json:"nameId,omitempty"`
	Name         string          `json:"name,omitempty"`
	HitboxRadius float32         `json:"hitboxRadius"`
	Pos          Position        `json:"pos"`
	Motion       MotionIndicator `json:"-"`
	InBattle     bool            `json:"battle,omitempty"`
}

// IsHostile - идет ли объект в трекер покоя.
// Всё, что попало в реестр и не является сундуком, считается монстром.
func (s ObjectSample) IsHostile() bool {
	return s.EntityID.IsValid() && !IsRegistryExcluded(s.DataID)
}

// Frame - всё, что хост видел за один тик
type Frame struct {
	At        int64          `json:"at"`
	PlayerPos Position       `json:"playerPos"`
	Objects   []ObjectSample `json:"objects"`
}

// FloorDump - содержимое реестра на момент выхода с этажа (для экспорта)
type FloorDump struct {
	PartyID   string        `json:"partyId,omitempty"`
	ContentID int           `json:"contentId"`
	Floor     int           `json:"floor"`
	Objects   []FloorObject `json:"objects"`
}

// FloorRecord - строка истории: сколько длился этаж в забеге
type FloorRecord struct {
	RunID      string  `json:"runId"`
	ContentID  int     `json:"contentId"`
	Variant    Variant `json:"variant"`
	Floor      int     `json:"floor"`
	Seconds    int     `json:"seconds"`
	Cleared    bool    `json:"cleared"` // false - забег закончился на этом этаже
	FinishedAt int64   `json:"finishedAt"`
}
