package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p EnteredInstancePayload) Validate() error {
	if p.ContentID <= 0 {
		return errors.New("contentId is required")
	}
	if p.Floor <= 0 {
		return errors.New("floor must be positive")
	}
	return nil
}

func (p ItemUsedPayload) Validate() error {
	if p.ItemID <= 0 || p.ItemID > 255 {
		return fmt.Errorf("itemId %d out of range", p.ItemID)
	}
	return nil
}

func (p BonusItemPayload) Validate() error {
	switch strings.ToUpper(p.ItemKind) {
	case "POMANDER", "MAGIC_STONE", "DEMICLONE":
	default:
		return fmt.Errorf("unknown itemKind %q", p.ItemKind)
	}
	if p.ItemID <= 0 {
		return errors.New("itemId is required")
	}
	return nil
}

func (p InteractedPayload) Validate() error {
	return validEntityID(string(p.EntityID))
}

func (p FramePayload) Validate() error {
	for i, obj := range p.Objects {
		if err := validEntityID(string(obj.EntityID)); err != nil {
			return fmt.Errorf("objects[%d]: %w", i, err)
		}
	}
	return nil
}

func validEntityID(s string) error {
	if s == "" {
		return errors.New("entityId is required")
	}
	if _, err := strconv.ParseUint(s, 10, 32); err != nil {
		return fmt.Errorf("entityId %q is not a 32-bit id", s)
	}
	return nil
}
