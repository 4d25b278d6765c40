package game

import "fmt"

// Zone identifies one of the six locations a card instance can occupy.
type Zone int

const (
	ZoneLibrary Zone = iota
	ZoneHand
	ZoneBattlefield
	ZoneGraveyard
	ZoneExile
	ZoneCommand
)

var zoneNames = map[Zone]string{
	ZoneLibrary:     "library",
	ZoneHand:        "hand",
	ZoneBattlefield: "battlefield",
	ZoneGraveyard:   "graveyard",
	ZoneExile:       "exile",
	ZoneCommand:     "commandZone",
}

// String returns the wire name of the zone.
func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("Zone(%d)", int(z))
}

// ParseZone converts a wire name back into a Zone.
func ParseZone(name string) (Zone, error) {
	for z, n := range zoneNames {
		if n == name {
			return z, nil
		}
	}
	return 0, fmt.Errorf("unknown zone %q", name)
}

// MarshalJSON encodes the zone as its wire name so replicated states stay
// readable across clients.
func (z Zone) MarshalJSON() ([]byte, error) {
	name, ok := zoneNames[z]
	if !ok {
		return nil, fmt.Errorf("unknown zone %d", int(z))
	}
	return []byte(`"` + name + `"`), nil
}

// UnmarshalJSON decodes a zone from its wire name.
func (z *Zone) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid zone value %s", string(data))
	}
	parsed, err := ParseZone(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*z = parsed
	return nil
}

// OnBattlefield reports whether the zone is the battlefield.
func (z Zone) OnBattlefield() bool {
	return z == ZoneBattlefield
}
