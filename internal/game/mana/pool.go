package mana

// Color represents a type of mana.
type Color string

const (
	White     Color = "WHITE"
	Blue      Color = "BLUE"
	Black     Color = "BLACK"
	Red       Color = "RED"
	Green     Color = "GREEN"
	Colorless Color = "COLORLESS"
)

// Colors lists all pool buckets in WUBRG-C order.
var Colors = []Color{White, Blue, Black, Red, Green, Colorless}

// Pool represents a player's mana pool: six fixed buckets, each never
// negative. The pool is owned by a PlayerState and guarded by the table lock,
// so it carries no lock of its own.
type Pool struct {
	White     int `json:"white"`
	Blue      int `json:"blue"`
	Black     int `json:"black"`
	Red       int `json:"red"`
	Green     int `json:"green"`
	Colorless int `json:"colorless"`
}

// NewPool creates a new empty mana pool.
func NewPool() *Pool {
	return &Pool{}
}

func (p *Pool) bucket(color Color) *int {
	switch color {
	case White:
		return &p.White
	case Blue:
		return &p.Blue
	case Black:
		return &p.Black
	case Red:
		return &p.Red
	case Green:
		return &p.Green
	case Colorless:
		return &p.Colorless
	default:
		return nil
	}
}

// Adjust applies a signed delta to a bucket, clamping at zero. Unknown colors
// are ignored.
func (p *Pool) Adjust(color Color, delta int) {
	b := p.bucket(color)
	if b == nil {
		return
	}
	*b += delta
	if *b < 0 {
		*b = 0
	}
}

// Get returns the amount of mana in a bucket.
func (p *Pool) Get(color Color) int {
	b := p.bucket(color)
	if b == nil {
		return 0
	}
	return *b
}

// Total returns the total mana count across all buckets.
func (p *Pool) Total() int {
	return p.White + p.Blue + p.Black + p.Red + p.Green + p.Colorless
}

// Empty clears every bucket.
func (p *Pool) Empty() {
	*p = Pool{}
}

// Copy creates a deep copy of the pool.
func (p *Pool) Copy() *Pool {
	cp := *p
	return &cp
}

// Equal reports whether two pools hold identical buckets.
func (p *Pool) Equal(other *Pool) bool {
	return *p == *other
}
