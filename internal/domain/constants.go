package domain

// Параметры вывода состояния покоя (все времена - миллисекунды монотонных часов хоста)
const (
	// IdleUnknown - длительность покоя неизвестна (был разрыв в наблюдении)
	IdleUnknown int64 = -1

	// IdleRevalidationThreshold - монстр обычно идёт меньше 5 секунд.
	// Если он пропадал из вида дольше и сместился, сколько он стоит - неизвестно.
	IdleRevalidationThreshold int64 = 5000

	// IdleStaleAfter - трекер удаляется, если сущность не видели 5 минут
	IdleStaleAfter int64 = 300000

	// IdlePruneInterval - чистка трекеров не чаще раза в секунду
	IdlePruneInterval int64 = 1000

	// IdlePositionEpsilon - смещения меньше этого считаем шумом
	IdlePositionEpsilon = 0.01
)

// Параметры сессии этажа
const (
	// DoubleChestRadius - радиус поиска сундука при выдаче бонусного предмета
	DoubleChestRadius = 4.6

	// FloorTimerInterval - как часто движок обновляет таблицу времени этажей
	FloorTimerInterval int64 = 500

	// FloorsPerSet - этажей в одном наборе (один ContentID)
	FloorsPerSet = 10
)

// MotionIndicator - состояние анимации модели (TimelineIds[0] у хоста)
type MotionIndicator uint8

const (
	MotionJustAppeared MotionIndicator = iota // 0: только что попал в поле зрения
	MotionStationary                          // 3: стоит
	MotionMoving                              // 13: идёт
)

var motionToString = map[MotionIndicator]string{
	MotionJustAppeared: "APPEARED",
	MotionStationary:   "STATIONARY",
	MotionMoving:       "MOVING",
}

var motionStringToType = map[string]MotionIndicator{
	"APPEARED":   MotionJustAppeared,
	"STATIONARY": MotionStationary,
	"MOVING":     MotionMoving,
}

// ParseMotion конвертирует строку из JSON. Неизвестное значение трактуем как "только появился",
// это единственный вариант, который ничего не меняет в трекере.
func ParseMotion(s string) MotionIndicator {
	if val, ok := motionStringToType[s]; ok {
		return val
	}
	return MotionJustAppeared
}

func (m MotionIndicator) String() string {
	if val, ok := motionToString[m]; ok {
		return val
	}
	return "UNKNOWN"
}

// TrapStatus - состояние ловушек на текущем этаже
type TrapStatus uint8

const (
	TrapsActive   TrapStatus = iota // ловушки работают и скрыты
	TrapsVisible                    // ловушки подсвечены (Sight)
	TrapsInactive                   // ловушки отключены (Safety)
)

func (t TrapStatus) String() string {
	switch t {
	case TrapsVisible:
		return "VISIBLE"
	case TrapsInactive:
		return "INACTIVE"
	default:
		return "ACTIVE"
	}
}
