package component

// WordKind classifies a text tile.
type WordKind uint8

const (
	Noun WordKind = iota
	Verb
	Property
)

func (k WordKind) String() string {
	switch k {
	case Noun:
		return "noun"
	case Verb:
		return "verb"
	case Property:
		return "property"
	}
	return "unknown"
}

// ParseWordKind maps "noun", "verb" or "property" to a WordKind.
func ParseWordKind(s string) (WordKind, bool) {
	switch s {
	case "noun":
		return Noun, true
	case "verb":
		return Verb, true
	case "property":
		return Property, true
	}
	return 0, false
}

// Word marks an entity as a text tile that can take part in a rule.
type Word struct {
	Kind WordKind
	Text string
}
