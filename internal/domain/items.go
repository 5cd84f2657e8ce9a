package domain

import (
	"fmt"
	"strings"
)

// ItemKind - таблица, из которой выдан предмет бонусного сундука
type ItemKind uint8

const (
	ItemKindUnknown ItemKind = iota
	ItemKindPomander
	ItemKindMagicStone
	ItemKindDemiclone
)

var itemKindToString = map[ItemKind]string{
	ItemKindPomander:   "POMANDER",
	ItemKindMagicStone: "MAGIC_STONE",
	ItemKindDemiclone:  "DEMICLONE",
}

var itemKindStringToType = map[string]ItemKind{
	"POMANDER":    ItemKindPomander,
	"MAGIC_STONE": ItemKindMagicStone,
	"DEMICLONE":   ItemKindDemiclone,
}

// ParseItemKind конвертирует строку из JSON в ItemKind
func ParseItemKind(s string) ItemKind {
	if val, ok := itemKindStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return ItemKindUnknown
}

func (k ItemKind) String() string {
	if val, ok := itemKindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

// MarshalText нужен, чтобы ItemKind писался в JSON строкой
func (k ItemKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ItemKind) UnmarshalText(data []byte) error {
	*k = ParseItemKind(string(data))
	if *k == ItemKindUnknown {
		return fmt.Errorf("unknown item kind %q", data)
	}
	return nil
}

// Pomander - ID строки в таблице DeepDungeonItem.
// Протомандеры EO лежат в том же листе с 23-й строки.
type Pomander uint8

const (
	PomanderSafety Pomander = iota + 1
	PomanderSight
	PomanderStrength
	PomanderSteel
	PomanderAffluence
	PomanderFlight
	PomanderAlteration
	PomanderPurity
	PomanderFortune
	PomanderWitching
	PomanderSerenity
	PomanderRage
	PomanderLust
	PomanderIntuition
	PomanderRaising
	PomanderResolution
	PomanderFrailty
	PomanderConcealment
	PomanderPetrification
)

const (
	ProtomanderSafety Pomander = iota + 23
	ProtomanderSight
	ProtomanderStrength
	ProtomanderSteel
	ProtomanderAffluence
	ProtomanderFlight
	ProtomanderAlteration
	ProtomanderPurity
	ProtomanderFortune
	ProtomanderWitching
	ProtomanderSerenity
	ProtomanderIntuition
	ProtomanderRaising
	ProtomanderLethargy
	ProtomanderStorms
	ProtomanderDread
)

var pomanderNames = map[Pomander]string{
	PomanderSafety:        "Safety",
	PomanderSight:         "Sight",
	PomanderStrength:      "Strength",
	PomanderSteel:         "Steel",
	PomanderAffluence:     "Affluence",
	PomanderFlight:        "Flight",
	PomanderAlteration:    "Alteration",
	PomanderPurity:        "Purity",
	PomanderFortune:       "Fortune",
	PomanderWitching:      "Witching",
	PomanderSerenity:      "Serenity",
	PomanderRage:          "Rage",
	PomanderLust:          "Lust",
	PomanderIntuition:     "Intuition",
	PomanderRaising:       "Raising",
	PomanderResolution:    "Resolution",
	PomanderFrailty:       "Frailty",
	PomanderConcealment:   "Concealment",
	PomanderPetrification: "Petrification",

	ProtomanderSafety:     "SafetyProtomander",
	ProtomanderSight:      "SightProtomander",
	ProtomanderStrength:   "StrengthProtomander",
	ProtomanderSteel:      "SteelProtomander",
	ProtomanderAffluence:  "AffluenceProtomander",
	ProtomanderFlight:     "FlightProtomander",
	ProtomanderAlteration: "AlterationProtomander",
	ProtomanderPurity:     "PurityProtomander",
	ProtomanderFortune:    "FortuneProtomander",
	ProtomanderWitching:   "WitchingProtomander",
	ProtomanderSerenity:   "SerenityProtomander",
	ProtomanderIntuition:  "IntuitionProtomander",
	ProtomanderRaising:    "RaisingProtomander",
	ProtomanderLethargy:   "LethargyProtomander",
	ProtomanderStorms:     "StormsProtomander",
	ProtomanderDread:      "DreadProtomander",
}

func (p Pomander) String() string {
	if name, ok := pomanderNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Pomander(%d)", uint8(p))
}

func (p Pomander) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// eoItemRemap - в EO хост сообщает ID предмета со сдвигом: протомандеры,
// повторяющие обычные помандеры, приходят под ID самих помандеров + смещение.
// Таблица возвращает их к каноническим ID помандеров.
var eoItemRemap = map[Pomander]Pomander{
	ProtomanderSafety:     PomanderSafety,
	ProtomanderSight:      PomanderSight,
	ProtomanderStrength:   PomanderStrength,
	ProtomanderSteel:      PomanderSteel,
	ProtomanderAffluence:  PomanderAffluence,
	ProtomanderFlight:     PomanderFlight,
	ProtomanderAlteration: PomanderAlteration,
	ProtomanderPurity:     PomanderPurity,
	ProtomanderFortune:    PomanderFortune,
	ProtomanderWitching:   PomanderWitching,
	ProtomanderSerenity:   PomanderSerenity,
	ProtomanderIntuition:  PomanderIntuition,
	ProtomanderRaising:    PomanderRaising,
}

// NormalizeItem приводит сырой ID, пришедший от хоста, к ID, с которым работает сессия.
// Перенумерация действует только внутри EO.
func NormalizeItem(variant Variant, raw Pomander) Pomander {
	if variant != VariantEO {
		return raw
	}
	if canonical, ok := eoItemRemap[raw]; ok {
		return canonical
	}
	return raw
}

// Base возвращает базовый вид эффекта (протомандер -> помандер).
// Для предметов без пары возвращает сам предмет.
func (p Pomander) Base() Pomander {
	if base, ok := eoItemRemap[p]; ok {
		return base
	}
	return p
}

// CarriesForward - эффект действует на СЛЕДУЮЩЕМ этаже, а не на текущем
func (p Pomander) CarriesForward() bool {
	switch p.Base() {
	case PomanderAffluence, PomanderFlight, PomanderAlteration:
		return true
	}
	return false
}

// Demiclone - ID строки в таблице DeepDungeonDemiclone
type Demiclone uint8

const (
	DemicloneUnei Demiclone = iota + 1
	DemicloneDoga
	DemicloneOnion
	DemicloneMazerootIncense
	DemicloneBarkbalm
	DemiclonePoisonfruit
)

var demicloneNames = map[Demiclone]string{
	DemicloneUnei:            "Unei",
	DemicloneDoga:            "Doga",
	DemicloneOnion:           "Onion Knight",
	DemicloneMazerootIncense: "Mazeroot Incense",
	DemicloneBarkbalm:        "Barkbalm",
	DemiclonePoisonfruit:     "Poisonfruit",
}

func (d Demiclone) String() string {
	if name, ok := demicloneNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Demiclone(%d)", uint8(d))
}

// RevealEffect - эффект помандера, который даёт демиклон (если даёт)
func (d Demiclone) RevealEffect() (Pomander, bool) {
	if d == DemicloneMazerootIncense {
		return PomanderSight, true
	}
	return 0, false
}
