package domain

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Variant - подземелье (у каждого свой диапазон ContentID и свои правила)
type Variant uint8

const (
	VariantUnknown Variant = iota
	VariantPotD            // Palace of the Dead
	VariantHoH             // Heaven-on-High
	VariantEO              // Eureka Orthos
	VariantPT              // Pilgrim's Traverse
)

var variantToString = map[Variant]string{
	VariantPotD: "potd",
	VariantHoH:  "hoh",
	VariantEO:   "eo",
	VariantPT:   "pt",
}

var variantStringToType = map[string]Variant{
	"potd": VariantPotD,
	"hoh":  VariantHoH,
	"eo":   VariantEO,
	"pt":   VariantPT,
}

func ParseVariant(s string) Variant {
	if val, ok := variantStringToType[strings.ToLower(s)]; ok {
		return val
	}
	return VariantUnknown
}

func (v Variant) String() string {
	if val, ok := variantToString[v]; ok {
		return val
	}
	return "unknown"
}

func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(data []byte) error {
	*v = ParseVariant(string(data))
	return nil
}

// EndsAt99 - подземелья, где 99-й этаж последний обычный (дальше сразу босс)
func (v Variant) EndsAt99() bool {
	return v == VariantEO || v == VariantPT
}

// HasRespawnOn - бывает ли респаун монстров на этаже.
// На каждом десятом этаже босс, а в EO и PT 99-й этаж - последний перед боссом.
func (v Variant) HasRespawnOn(floor int) bool {
	if floor%FloorsPerSet == 0 {
		return false
	}
	return !(v.EndsAt99() && floor == 99)
}

// MimicChests - в сундуках какого уровня на этом наборе этажей бывают мимики
type MimicChests uint8

const (
	MimicsNone MimicChests = iota
	MimicsSilver
	MimicsGold
)

func parseMimics(s string) (MimicChests, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return MimicsNone, nil
	case "silver":
		return MimicsSilver, nil
	case "gold":
		return MimicsGold, nil
	}
	return MimicsNone, fmt.Errorf("unknown mimic_chests value %q", s)
}

// FloorSetInfo описывает один набор из 10 этажей
type FloorSetInfo struct {
	ContentID   int
	Variant     Variant
	StartFloor  int
	RespawnTime int // секунды
	MimicChests MimicChests
}

// ChestOpenSafe - можно ли открывать сундук вида kind без риска нарваться на мимика
func (f FloorSetInfo) ChestOpenSafe(kind ChestKind) bool {
	switch {
	case f.MimicChests == MimicsSilver && kind == ChestSilver:
		return false
	case f.MimicChests == MimicsGold && kind == ChestGold:
		return false
	}
	return true
}

// Catalog - справочник наборов этажей по ContentID
type Catalog struct {
	sets map[int]FloorSetInfo
}

// Lookup возвращает набор этажей. ok=false - контент нам неизвестен.
func (c *Catalog) Lookup(contentID int) (FloorSetInfo, bool) {
	if c == nil {
		return FloorSetInfo{}, false
	}
	info, ok := c.sets[contentID]
	return info, ok
}

// Len - количество наборов в каталоге
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.sets)
}

// --- ЗАГРУЗКА ---

//go:embed content.yaml
var defaultCatalogYAML []byte

type catalogFile struct {
	Variants []variantSpec `yaml:"variants"`
}

type variantSpec struct {
	Variant        string         `yaml:"variant"`
	FirstContentID int            `yaml:"first_content_id"`
	FloorSets      int            `yaml:"floor_sets"`
	RespawnTime    int            `yaml:"respawn_time"`
	MimicChests    string         `yaml:"mimic_chests"`
	Overrides      []floorSetSpec `yaml:"overrides"`
}

type floorSetSpec struct {
	ContentID   int    `yaml:"content_id"`
	RespawnTime int    `yaml:"respawn_time"`
	MimicChests string `yaml:"mimic_chests"`
}

// DefaultCatalog разбирает встроенный content.yaml
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// LoadCatalog читает каталог из файла (переопределение встроенного)
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(raw)
}

// ParseCatalog разворачивает описания вариантов в плоский справочник ContentID -> FloorSetInfo
func ParseCatalog(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("content.yaml: %w", err)
	}

	c := &Catalog{sets: make(map[int]FloorSetInfo)}
	for _, def := range file.Variants {
		variant := ParseVariant(def.Variant)
		if variant == VariantUnknown {
			return nil, fmt.Errorf("content.yaml: unknown variant %q", def.Variant)
		}
		if def.FloorSets <= 0 || def.RespawnTime <= 0 {
			return nil, fmt.Errorf("content.yaml: variant %s needs floor_sets and respawn_time", def.Variant)
		}
		mimics, err := parseMimics(def.MimicChests)
		if err != nil {
			return nil, fmt.Errorf("content.yaml: variant %s: %w", def.Variant, err)
		}

		// 1. Наборы по умолчанию
		for i := 0; i < def.FloorSets; i++ {
			id := def.FirstContentID + i
			if _, dup := c.sets[id]; dup {
				return nil, fmt.Errorf("content.yaml: content id %d declared twice", id)
			}
			c.sets[id] = FloorSetInfo{
				ContentID:   id,
				Variant:     variant,
				StartFloor:  1 + i*FloorsPerSet,
				RespawnTime: def.RespawnTime,
				MimicChests: mimics,
			}
		}

		// 2. Точечные переопределения
		for _, o := range def.Overrides {
			info, ok := c.sets[o.ContentID]
			if !ok || info.Variant != variant {
				return nil, fmt.Errorf("content.yaml: override for content id %d outside variant %s", o.ContentID, def.Variant)
			}
			if o.RespawnTime > 0 {
				info.RespawnTime = o.RespawnTime
			}
			if o.MimicChests != "" {
				if info.MimicChests, err = parseMimics(o.MimicChests); err != nil {
					return nil, fmt.Errorf("content.yaml: content id %d: %w", o.ContentID, err)
				}
			}
			c.sets[o.ContentID] = info
		}
	}
	return c, nil
}
