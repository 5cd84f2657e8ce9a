package domain

// DataID известных объектов подземелий
const (
	DataIDSilverChest DataID = 2007357
	DataIDGoldChest   DataID = 2007358
	DataIDMimicChest  DataID = 2006020

	DataIDAccursedHoard       DataID = 2007542
	DataIDAccursedHoardCoffer DataID = 2007543
)

func setOf(ids ...DataID) map[DataID]struct{} {
	m := make(map[DataID]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

// ignoredDataIDs - объекты, которые вообще не интересны трекеру
var ignoredDataIDs = setOf(
	0,       // игроки
	6388,    // сработавшая ловушка
	1023070, // объект выхода
	2000608, // объект в комнате босса
	2005809, // выход
	2001168,

	// дружелюбные декорации
	15898, 15899, 15860,
	18867, 18868, 18869,
	10489, 16926, 7245,
	13961, 10487,
)

var bronzeChestIDs = setOf(
	// PotD
	782, 783, 784, 785, 786, 787, 788, 789, 790, 802, 803, 804, 805,
	// HoH
	1036, 1037, 1038, 1039, 1040, 1041, 1042, 1043, 1044, 1045, 1046, 1047, 1048, 1049,
	// EO
	1541, 1542, 1543, 1544, 1545, 1546, 1547, 1548, 1549, 1550, 1551, 1552, 1553, 1554,
	// PT
	1881, 1882, 1883, 1884, 1885, 1886, 1887, 1888, 1889, 1890, 1891, 1892, 1893, 1906, 1907, 1908,
)

var trapIDs = setOf(
	2007182, // Landmine
	2007183, // Luring Trap
	2007184, // Enfeebling Trap
	2007185, // Impeding Trap
	2007186, // Toad Trap
	2009504, // Odder Trap
	2013284, // Owlet Trap
	2014939, // Fae Trap
)

// Cairn of Passage
var passageIDs = setOf(2007188, 2009507, 2013287, 2014756)

// Cairn of Return
var returnIDs = setOf(2007187, 2009506, 2013286, 2014755)

func has(set map[DataID]struct{}, id DataID) bool {
	_, ok := set[id]
	return ok
}

// IsIgnored - объект не должен попадать ни в оверлей, ни в реестр
func IsIgnored(id DataID) bool {
	return has(ignoredDataIDs, id)
}

// IsRegistryExcluded - объект не записывается в реестр этажа:
// маркеры выхода/прохода, ловушки и сундуки отслеживаются отдельно.
func IsRegistryExcluded(id DataID) bool {
	return IsIgnored(id) ||
		has(returnIDs, id) ||
		has(passageIDs, id) ||
		has(trapIDs, id) ||
		has(bronzeChestIDs, id) ||
		id == DataIDGoldChest ||
		id == DataIDSilverChest ||
		id == DataIDMimicChest ||
		id == DataIDAccursedHoard ||
		id == DataIDAccursedHoardCoffer
}

// ChestKind - уровень сундука
type ChestKind uint8

const (
	ChestNone ChestKind = iota
	ChestBronze
	ChestSilver
	ChestGold
	ChestHoardCoffer
)

// ClassifyChest определяет вид сундука по DataID
func ClassifyChest(id DataID) ChestKind {
	switch {
	case id == DataIDGoldChest:
		return ChestGold
	case id == DataIDSilverChest:
		return ChestSilver
	case id == DataIDAccursedHoardCoffer:
		return ChestHoardCoffer
	case has(bronzeChestIDs, id):
		return ChestBronze
	}
	return ChestNone
}

// BonusChestFor - сундук какого уровня может выдать двойную награду этого вида
func BonusChestFor(kind ItemKind) (DataID, bool) {
	switch kind {
	case ItemKindPomander:
		return DataIDGoldChest, true
	case ItemKindMagicStone, ItemKindDemiclone:
		return DataIDSilverChest, true
	}
	return 0, false
}

// ObjectKind - как объект показывается в оверлее
type ObjectKind uint8

const (
	ObjectOther ObjectKind = iota
	ObjectMonster
	ObjectChestBronze
	ObjectChestSilver
	ObjectChestGold
	ObjectHoard
	ObjectMimic
	ObjectTrap
	ObjectPassage
	ObjectReturn
)

var objectKindToString = map[ObjectKind]string{
	ObjectMonster:     "MONSTER",
	ObjectChestBronze: "CHEST_BRONZE",
	ObjectChestSilver: "CHEST_SILVER",
	ObjectChestGold:   "CHEST_GOLD",
	ObjectHoard:       "HOARD",
	ObjectMimic:       "MIMIC",
	ObjectTrap:        "TRAP",
	ObjectPassage:     "PASSAGE",
	ObjectReturn:      "RETURN",
}

func (k ObjectKind) String() string {
	if val, ok := objectKindToString[k]; ok {
		return val
	}
	return "OTHER"
}

// ClassifyObject определяет вид объекта по DataID
func ClassifyObject(id DataID) ObjectKind {
	switch ClassifyChest(id) {
	case ChestBronze:
		return ObjectChestBronze
	case ChestSilver:
		return ObjectChestSilver
	case ChestGold:
		return ObjectChestGold
	case ChestHoardCoffer:
		return ObjectHoard
	}

	switch {
	case id == DataIDAccursedHoard:
		return ObjectHoard
	case id == DataIDMimicChest:
		return ObjectMimic
	case has(trapIDs, id):
		return ObjectTrap
	case has(passageIDs, id):
		return ObjectPassage
	case has(returnIDs, id):
		return ObjectReturn
	case IsIgnored(id):
		return ObjectOther
	}
	return ObjectMonster
}
