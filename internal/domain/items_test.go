package domain

import "testing"

func TestNormalizeItem(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		raw     Pomander
		want    Pomander
	}{
		{"EO protomander remapped", VariantEO, ProtomanderFlight, PomanderFlight},
		{"EO plain pomander kept", VariantEO, PomanderSight, PomanderSight},
		{"EO unique protomander kept", VariantEO, ProtomanderLethargy, ProtomanderLethargy},
		{"PotD never remapped", VariantPotD, ProtomanderFlight, ProtomanderFlight},
		{"PT never remapped", VariantPT, ProtomanderSafety, ProtomanderSafety},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeItem(tt.variant, tt.raw); got != tt.want {
				t.Errorf("NormalizeItem(%v, %v) = %v, want %v", tt.variant, tt.raw, got, tt.want)
			}
		})
	}
}

func TestPomander_CarriesForward(t *testing.T) {
	tests := []struct {
		item Pomander
		want bool
	}{
		{PomanderAffluence, true},
		{PomanderFlight, true},
		{PomanderAlteration, true},
		{ProtomanderAffluence, true},
		{ProtomanderAlteration, true},
		{PomanderSight, false},
		{PomanderSafety, false},
		{ProtomanderSight, false},
		{ProtomanderDread, false},
	}

	for _, tt := range tests {
		if got := tt.item.CarriesForward(); got != tt.want {
			t.Errorf("%v.CarriesForward() = %v, want %v", tt.item, got, tt.want)
		}
	}
}

func TestParseItemKind(t *testing.T) {
	tests := []struct {
		input string
		want  ItemKind
	}{
		{"POMANDER", ItemKindPomander},
		{"magic_stone", ItemKindMagicStone},
		{"Demiclone", ItemKindDemiclone},
		{"", ItemKindUnknown},
		{"ARMOR", ItemKindUnknown},
	}

	for _, tt := range tests {
		if got := ParseItemKind(tt.input); got != tt.want {
			t.Errorf("ParseItemKind(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	var k ItemKind
	if err := k.UnmarshalText([]byte("ARMOR")); err == nil {
		t.Error("UnmarshalText should reject unknown kinds")
	}
}

func TestDemiclone_RevealEffect(t *testing.T) {
	if eff, ok := DemicloneMazerootIncense.RevealEffect(); !ok || eff != PomanderSight {
		t.Errorf("Mazeroot Incense should reveal traps, got %v %v", eff, ok)
	}
	if _, ok := DemicloneUnei.RevealEffect(); ok {
		t.Error("Unei should not give any pomander effect")
	}
}

func TestDataIDs(t *testing.T) {
	tests := []struct {
		id       DataID
		excluded bool
		chest    ChestKind
	}{
		{DataIDGoldChest, true, ChestGold},
		{DataIDSilverChest, true, ChestSilver},
		{DataIDAccursedHoardCoffer, true, ChestHoardCoffer},
		{782, true, ChestBronze},
		{2007187, true, ChestNone}, // Cairn of Return
		{2007182, true, ChestNone}, // Landmine
		{0, true, ChestNone},
		{7262, false, ChestNone}, // обычный монстр
	}

	for _, tt := range tests {
		if got := IsRegistryExcluded(tt.id); got != tt.excluded {
			t.Errorf("IsRegistryExcluded(%d) = %v, want %v", tt.id, got, tt.excluded)
		}
		if got := ClassifyChest(tt.id); got != tt.chest {
			t.Errorf("ClassifyChest(%d) = %v, want %v", tt.id, got, tt.chest)
		}
	}
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		input    string
		expected EventType
	}{
		{"FRAME", EventFrame},
		{"floor_loaded", EventFloorLoaded},
		{"Entered_Instance", EventEnteredInstance},
		{"MOVE", EventUnknown},
		{"", EventUnknown},
	}

	for _, tt := range tests {
		if got := ParseEvent(tt.input); got != tt.expected {
			t.Errorf("ParseEvent(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}

	if EventItemUsed.String() != "ITEM_USED" || EventUnknown.String() != "UNKNOWN" {
		t.Error("EventType.String mismatch")
	}
}

func TestPosition_Distance(t *testing.T) {
	a := Position{X: 0, Y: 0, Z: 0}
	b := Position{X: 3, Y: 12, Z: 4}
	if d := a.Distance2DTo(b); d != 5 {
		t.Errorf("Distance2DTo = %v, want 5", d)
	}
	if d := a.DistanceTo(b); d != 13 {
		t.Errorf("DistanceTo = %v, want 13", d)
	}
}

func TestEntityID_JSON(t *testing.T) {
	var id EntityID
	if err := id.UnmarshalJSON([]byte(`"1073741830"`)); err != nil || id != 1073741830 {
		t.Errorf("quoted id: got %d, %v", id, err)
	}
	if err := id.UnmarshalJSON([]byte(`42`)); err != nil || id != 42 {
		t.Errorf("bare id: got %d, %v", id, err)
	}
	if InvalidEntityID.IsValid() || EntityID(0).IsValid() || !EntityID(42).IsValid() {
		t.Error("IsValid mismatch")
	}
}

func TestClassifyObject(t *testing.T) {
	tests := []struct {
		id   DataID
		want string
	}{
		{4975, "MONSTER"},
		{782, "CHEST_BRONZE"},
		{DataIDSilverChest, "CHEST_SILVER"},
		{DataIDGoldChest, "CHEST_GOLD"},
		{DataIDAccursedHoard, "HOARD"},
		{DataIDAccursedHoardCoffer, "HOARD"},
		{DataIDMimicChest, "MIMIC"},
		{2007182, "TRAP"},
		{2009507, "PASSAGE"},
		{2007187, "RETURN"},
		{15898, "OTHER"},
	}

	for _, tt := range tests {
		if got := ClassifyObject(tt.id).String(); got != tt.want {
			t.Errorf("ClassifyObject(%d) = %s, want %s", tt.id, got, tt.want)
		}
	}
}
