package model

// EntityKind — тип сущности, приходящий от хоста при создании.
type EntityKind int32

const (
	// KindUnknown - host sent a type tag we do not recognize
	KindUnknown EntityKind = iota
	// KindHero - player-controlled hero
	KindHero
	// KindCreep - lane or neutral creep
	KindCreep
	// KindBuilding - tower, barracks, ancient
	KindBuilding
	// KindCourier - item carrier
	KindCourier
)

// String returns human-readable kind name
func (k EntityKind) String() string {
	switch k {
	case KindHero:
		return "HERO"
	case KindCreep:
		return "CREEP"
	case KindBuilding:
		return "BUILDING"
	case KindCourier:
		return "COURIER"
	default:
		return "UNKNOWN"
	}
}

// ParseEntityKind converts a host type name to EntityKind.
func ParseEntityKind(name string) EntityKind {
	switch name {
	case "hero":
		return KindHero
	case "creep":
		return KindCreep
	case "building":
		return KindBuilding
	case "courier":
		return KindCourier
	default:
		return KindUnknown
	}
}

// Capability — битовый флаг поведения сущности.
type Capability uint8

const (
	CapAttacker Capability = 1 << iota
	CapCaster
	CapCarrier
	CapControllable
)

// Capabilities is a set of Capability flags.
type Capabilities uint8

// Has reports whether the set contains c.
func (cs Capabilities) Has(c Capability) bool {
	return uint8(cs)&uint8(c) != 0
}

// capabilityTable resolves behavior by kind. Read once in NewEntity.
var capabilityTable = map[EntityKind]Capabilities{
	KindHero:     Capabilities(CapAttacker | CapCaster | CapCarrier | CapControllable),
	KindCreep:    Capabilities(CapAttacker),
	KindBuilding: Capabilities(CapAttacker),
	KindCourier:  Capabilities(CapCarrier | CapControllable),
}

// CapabilitiesOf returns the capability set for kind (empty for unknown kinds).
func CapabilitiesOf(kind EntityKind) Capabilities {
	return capabilityTable[kind]
}
