package events

import (
	"fmt"
	"necrolens-server/internal/engine/handlers"
	"necrolens-server/internal/session"
	"necrolens-server/pkg/api"
)

// HandleEnteredInstance - вход в подземелье (или загрузка этажа, если мы уже внутри)
func HandleEnteredInstance(ctx handlers.Context, p api.EnteredInstancePayload) (handlers.Result, error) {
	s := ctx.Session

	if s.Inside() {
		if p.PartyID != "" {
			s.SetParty(p.PartyID)
		}
		// Без ожидающего перехода это повтор, этаж не меняется
		if !s.Advance(ctx.Now) {
			return handlers.EmptyResult(), nil
		}
		return handlers.Result{Msg: fmt.Sprintf("Floor %d loaded", s.Floor()), MsgType: "INFO", Publish: true}, nil
	}

	if err := s.Enter(p.ContentID, p.Floor, p.PartyID, ctx.Now); err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("Entered %s, floor %d", s.Info().Variant, s.Floor()),
		MsgType: "INFO",
		Publish: true,
	}, nil
}

func HandleTransferInitiated(ctx handlers.Context) (handlers.Result, error) {
	if ctx.Session.State() != session.StateOnFloor {
		return handlers.EmptyResult(), nil
	}
	ctx.Session.BeginTransfer()
	return handlers.Result{Publish: true}, nil
}

func HandleFloorLoaded(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Session.Advance(ctx.Now) {
		return handlers.EmptyResult(), nil
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("Floor %d loaded", ctx.Session.Floor()),
		MsgType: "INFO",
		Publish: true,
	}, nil
}

func HandleLeftInstance(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Session.Inside() {
		return handlers.EmptyResult(), nil
	}
	ctx.Session.Leave(ctx.Now)
	return handlers.Result{Msg: "Left deep dungeon", MsgType: "INFO", Publish: true}, nil
}
