package counters

import "fmt"

// kindCode enumerates the well-known counter kinds. The zero value is
// deliberately invalid so an uninitialized Kind never aliases a real one.
type kindCode int

const (
	codeInvalid kindCode = iota
	codePlusOnePlusOne
	codeMinusOneMinusOne
	codeCharge
	codeLoyalty
	codeLore
	codeStun
	codeShield
	codeOil
	codeTime
	codeQuest
	codeFlying
	codeCustom
)

// Kind identifies a counter kind: one of the closed set of well-known kinds,
// or a custom kind carrying its own tag. The tag field is only populated for
// custom kinds, so switching on the code stays exhaustive.
type Kind struct {
	code kindCode
	tag  string
}

var (
	PlusOnePlusOne   = Kind{code: codePlusOnePlusOne}
	MinusOneMinusOne = Kind{code: codeMinusOneMinusOne}
	Charge           = Kind{code: codeCharge}
	Loyalty          = Kind{code: codeLoyalty}
	Lore             = Kind{code: codeLore}
	Stun             = Kind{code: codeStun}
	Shield           = Kind{code: codeShield}
	Oil              = Kind{code: codeOil}
	Time             = Kind{code: codeTime}
	Quest            = Kind{code: codeQuest}
	Flying           = Kind{code: codeFlying}
)

var wellKnownNames = map[kindCode]string{
	codePlusOnePlusOne:   "+1/+1",
	codeMinusOneMinusOne: "-1/-1",
	codeCharge:           "charge",
	codeLoyalty:          "loyalty",
	codeLore:             "lore",
	codeStun:             "stun",
	codeShield:           "shield",
	codeOil:              "oil",
	codeTime:             "time",
	codeQuest:            "quest",
	codeFlying:           "flying",
}

// Custom returns a counter kind for an arbitrary user-provided tag. Tags that
// collide with a well-known name normalize to that kind so the same counter
// never exists under two identities.
func Custom(tag string) Kind {
	for code, name := range wellKnownNames {
		if name == tag {
			return Kind{code: code}
		}
	}
	return Kind{code: codeCustom, tag: tag}
}

// ParseKind resolves a wire name into a Kind. Unrecognized names become
// custom kinds rather than errors; players invent counter names freely.
func ParseKind(name string) Kind {
	return Custom(name)
}

// IsCustom reports whether the kind is a custom (user-tagged) kind.
func (k Kind) IsCustom() bool {
	return k.code == codeCustom
}

// Valid reports whether the kind has been initialized.
func (k Kind) Valid() bool {
	return k.code != codeInvalid
}

// String returns the display and wire name of the kind.
func (k Kind) String() string {
	if k.code == codeCustom {
		return k.tag
	}
	if name, ok := wellKnownNames[k.code]; ok {
		return name
	}
	return "invalid"
}

// MarshalJSON encodes the kind as its wire name.
func (k Kind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot encode invalid counter kind")
	}
	return []byte(fmt.Sprintf("%q", k.String())), nil
}

// UnmarshalJSON decodes a kind from its wire name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid counter kind value %s", string(data))
	}
	*k = ParseKind(string(data[1 : len(data)-1]))
	return nil
}
