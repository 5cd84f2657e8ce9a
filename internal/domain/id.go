package domain

import (
	"strconv"
)

// EntityID - идентификатор объекта в мире игры (живёт, пока объект существует на этаже).
// Хост присылает его как число; в JSON для оверлея отдаём строкой, как и раньше.
type EntityID uint32

// DataID - идентификатор "вида" объекта из игровых таблиц (BNpcBase / EObj).
// Один и тот же DataID встречается у многих сущностей.
type DataID uint32

// NameID - идентификатор имени боевого NPC.
type NameID uint32

// InvalidEntityID - так хост помечает объекты без серверного ID.
const InvalidEntityID EntityID = 0xE0000000

// IsValid проверяет, что ID можно использовать как ключ трекеров.
func (id EntityID) IsValid() bool {
	return id != 0 && id != InvalidEntityID
}

// MarshalText сериализует ID в десятичную строку (ключи map в JSON тоже работают через это).
func (id EntityID) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(id), 10)), nil
}

// UnmarshalText парсит десятичную строку.
func (id *EntityID) UnmarshalText(data []byte) error {
	val, err := strconv.ParseUint(string(data), 10, 32)
	if err != nil {
		return err
	}
	*id = EntityID(val)
	return nil
}

// UnmarshalJSON принимает и число, и строку в кавычках.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	return id.UnmarshalText(data)
}

// String для логов.
func (id EntityID) String() string {
	return "0x" + strconv.FormatUint(uint64(id), 16)
}
