package engine

import "time"

// hostClock переводит время трекера в монотонные миллисекунды хоста.
// Пока хост не прислал ни одного события с временем, отдаём собственные часы.
// Используется только из цикла движка.
type hostClock struct {
	wall     func() time.Time
	lastHost int64
	lastWall time.Time
	synced   bool
}

func newHostClock(wall func() time.Time) *hostClock {
	if wall == nil {
		wall = time.Now
	}
	return &hostClock{wall: wall}
}

// Observe запоминает время хоста из очередного события
func (c *hostClock) Observe(at int64) {
	c.lastHost = at
	c.lastWall = c.wall()
	c.synced = true
}

func (c *hostClock) Now() int64 {
	if !c.synced {
		return c.wall().UnixMilli()
	}
	return c.lastHost + c.wall().Sub(c.lastWall).Milliseconds()
}
