package events

import (
	"fmt"
	"necrolens-server/internal/domain"
	"necrolens-server/internal/engine/handlers"
	"necrolens-server/pkg/api"
)

// HandleFrame - всё, что хост видит в этот тик. Вне подземелья кадры игнорируются.
func HandleFrame(ctx handlers.Context, p api.FramePayload) (handlers.Result, error) {
	if !ctx.Session.Inside() {
		return handlers.EmptyResult(), nil
	}

	frame, err := ToFrame(ctx.Now, p)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	ctx.Session.ObserveFrame(frame)
	return handlers.Result{Publish: true}, nil
}

// ToFrame переводит кадр из протокола в доменную модель
func ToFrame(at int64, p api.FramePayload) (domain.Frame, error) {
	frame := domain.Frame{
		At:        at,
		PlayerPos: toPosition(p.PlayerPos),
		Objects:   make([]domain.ObjectSample, 0, len(p.Objects)),
	}

	for i, in := range p.Objects {
		var id domain.EntityID
		if err := id.UnmarshalText([]byte(in.EntityID)); err != nil {
			return domain.Frame{}, fmt.Errorf("objects[%d]: %w", i, err)
		}
		// Ничего не знаем про объект без DataId (игроки, эффекты)
		if domain.IsIgnored(domain.DataID(in.DataID)) {
			continue
		}
		frame.Objects = append(frame.Objects, domain.ObjectSample{
			EntityID:     id,
			DataID:       domain.DataID(in.DataID),
			NameID:       domain.NameID(in.NameID),
			Name:         in.Name,
			HitboxRadius: in.HitboxRadius,
			Pos:          toPosition(in.Pos),
			Motion:       domain.ParseMotion(in.Motion),
			InBattle:     in.InBattle,
		})
	}
	return frame, nil
}

func toPosition(p api.PosView) domain.Position {
	return domain.Position{X: p.X, Y: p.Y, Z: p.Z}
}
