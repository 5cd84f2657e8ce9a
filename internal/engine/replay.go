package engine

import (
	"necrolens-server/internal/domain"
	"necrolens-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Replay прогоняет записанный журнал через сервис синхронно, без цикла и тикера.
// Между событиями таймер этажа тикает с шагом FloorTimerInterval, как в живом цикле.
// Возвращает число событий, которые хендлеры отвергли.
func (s *TrackerService) Replay(journal *domain.JournalSession) int {
	log := logger.Log.WithFields(logrus.Fields{
		"component": "replay",
		"run_id":    journal.RunID,
		"entries":   len(journal.Entries),
	})
	log.Info("Replay started")

	rejected := 0
	var tick, end int64
	for _, entry := range journal.Entries {
		if tick == 0 {
			tick = entry.At
		}
		for tick+domain.FloorTimerInterval <= entry.At {
			tick += domain.FloorTimerInterval
			s.tickTimers(tick)
		}

		cmd := domain.InternalCommand{Event: entry.Event, At: entry.At, Payload: entry.Payload}
		if _, err := s.Execute(cmd); err != nil {
			rejected++
		}
		end = entry.At
	}

	if end != 0 {
		s.publish(end)
	}
	log.WithField("rejected", rejected).Info("Replay finished")
	return rejected
}
