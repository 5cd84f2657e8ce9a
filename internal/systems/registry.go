package systems

import "necrolens-server/internal/domain"

// FloorRegistry - все объекты, которые мы встретили на текущем этаже.
// Запись создаётся один раз: первое наблюдение побеждает.
type FloorRegistry struct {
	objects map[domain.EntityID]domain.FloorObject
	order   []domain.EntityID
}

func NewFloorRegistry() *FloorRegistry {
	return &FloorRegistry{
		objects: make(map[domain.EntityID]domain.FloorObject),
	}
}

// Record добавляет объект. Возвращает false, если объект исключён или уже записан.
func (r *FloorRegistry) Record(obj domain.FloorObject) bool {
	if !obj.EntityID.IsValid() || domain.IsRegistryExcluded(obj.DataID) {
		return false
	}
	if _, exists := r.objects[obj.EntityID]; exists {
		return false
	}
	r.objects[obj.EntityID] = obj
	r.order = append(r.order, obj.EntityID)
	return true
}

func (r *FloorRegistry) Has(id domain.EntityID) bool {
	_, ok := r.objects[id]
	return ok
}

func (r *FloorRegistry) Get(id domain.EntityID) (domain.FloorObject, bool) {
	obj, ok := r.objects[id]
	return obj, ok
}

func (r *FloorRegistry) Len() int {
	return len(r.order)
}

// Snapshot возвращает копию в порядке добавления
func (r *FloorRegistry) Snapshot() []domain.FloorObject {
	out := make([]domain.FloorObject, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.objects[id])
	}
	return out
}

func (r *FloorRegistry) Clear() {
	clear(r.objects)
	r.order = r.order[:0]
}
