package session

// HasRespawnFor - есть ли респаун монстров на этаже floor в текущем подземелье
func (s *Session) HasRespawnFor(floor int) bool {
	return s.info.Variant.HasRespawnOn(floor)
}

// HasRespawn - для текущего этажа
func (s *Session) HasRespawn() bool {
	return s.HasRespawnFor(s.floor)
}

// TickFloorTimer возвращает целые секунды с начала этажа и обновляет таблицу времени.
// Если следующий респаун уже прошёл, сдвигает его ровно на один интервал,
// даже если за паузу прошло несколько интервалов.
func (s *Session) TickFloorTimer(now int64) int {
	if s.state == StateOutside {
		return 0
	}

	elapsed := int((now - s.floorStart) / 1000)
	if now > s.nextRespawn {
		s.nextRespawn += s.respawnInterval * 1000
	}
	s.floorTimes[s.floor] = elapsed
	return elapsed
}

// TimeTillRespawn - секунды относительно следующего респауна (отрицательно, пока он впереди)
func (s *Session) TimeTillRespawn(now int64) int {
	if s.state == StateOutside {
		return 0
	}
	return int((now - s.nextRespawn) / 1000)
}
