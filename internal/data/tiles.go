package data

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/babago/babago/internal/component"
)

// TileEntry maps one level-file character to a label.
type TileEntry struct {
	Char   string `yaml:"char"`
	Text   string `yaml:"text"`
	Kind   string `yaml:"kind,omitempty"`   // words only: noun, property or verb
	Object string `yaml:"object,omitempty"` // nouns only: the object the noun names
}

type tileFile struct {
	Background []TileEntry `yaml:"background"`
	Objects    []TileEntry `yaml:"objects"`
	Words      []TileEntry `yaml:"words"`
	Verb       TileEntry   `yaml:"verb"`
}

// Layer says where a decoded character belongs.
type Layer uint8

const (
	LayerNone Layer = iota
	LayerBackground
	LayerObject
)

// TileTable decodes level characters and carries the word lexicon.
type TileTable struct {
	background map[rune]string
	objects    map[rune]string
	lexicon    *Lexicon
}

// LoadTileTable loads tile_list.yaml.
func LoadTileTable(path string) (*TileTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tile list: %w", err)
	}
	t, err := ParseTileTable(raw)
	if err != nil {
		return nil, fmt.Errorf("parse tile list %s: %w", path, err)
	}
	return t, nil
}

// ParseTileTable builds a table from YAML.
func ParseTileTable(raw []byte) (*TileTable, error) {
	var f tileFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return buildTileTable(f)
}

func buildTileTable(f tileFile) (*TileTable, error) {
	t := &TileTable{
		background: make(map[rune]string, len(f.Background)),
		objects:    make(map[rune]string, len(f.Objects)+len(f.Words)+1),
		lexicon:    newLexicon(),
	}
	seen := make(map[rune]string)
	claim := func(e TileEntry) (rune, error) {
		r, size := utf8.DecodeRuneInString(e.Char)
		if e.Char == "" || size != len(e.Char) {
			return 0, fmt.Errorf("tile %q: char must be a single character, got %q", e.Text, e.Char)
		}
		if e.Text == "" {
			return 0, fmt.Errorf("tile %q: empty text", e.Char)
		}
		if prev, dup := seen[r]; dup {
			return 0, fmt.Errorf("char %q used by both %q and %q", e.Char, prev, e.Text)
		}
		seen[r] = e.Text
		return r, nil
	}

	for _, e := range f.Background {
		r, err := claim(e)
		if err != nil {
			return nil, err
		}
		t.background[r] = e.Text
	}
	for _, e := range f.Objects {
		r, err := claim(e)
		if err != nil {
			return nil, err
		}
		t.objects[r] = e.Text
	}
	for _, e := range f.Words {
		r, err := claim(e)
		if err != nil {
			return nil, err
		}
		kind, ok := component.ParseWordKind(e.Kind)
		if !ok {
			return nil, fmt.Errorf("word %q: unknown kind %q", e.Text, e.Kind)
		}
		if kind == component.Property {
			if _, ok := component.FlagForKeyword(e.Text); !ok {
				return nil, fmt.Errorf("word %q: not a known property", e.Text)
			}
		}
		t.objects[r] = e.Text
		t.lexicon.addWord(e.Text, kind, e.Object)
	}
	if f.Verb.Char != "" {
		r, err := claim(f.Verb)
		if err != nil {
			return nil, err
		}
		t.objects[r] = f.Verb.Text
		t.lexicon.addWord(f.Verb.Text, component.Verb, "")
	}
	return t, nil
}

// Decode returns the label and layer for a level character.
func (t *TileTable) Decode(ch rune) (string, Layer) {
	if label, ok := t.objects[ch]; ok {
		return label, LayerObject
	}
	if label, ok := t.background[ch]; ok {
		return label, LayerBackground
	}
	return "", LayerNone
}

// Encode returns the level character for a grid label, for writing packs.
func (t *TileTable) Encode(label string) (rune, bool) {
	for r, l := range t.objects {
		if l == label {
			return r, true
		}
	}
	for r, l := range t.background {
		if l == label {
			return r, true
		}
	}
	return 0, false
}

func (t *TileTable) Lexicon() *Lexicon { return t.lexicon }

// Count returns the number of characters the table decodes.
func (t *TileTable) Count() int {
	return len(t.objects) + len(t.background)
}

// DefaultTileTable returns the stock legend: l g h background; w r f b a v
// objects; W R F B S P V A Y X N K words; I is the verb.
func DefaultTileTable() *TileTable {
	t, err := buildTileTable(defaultTiles)
	if err != nil {
		panic(fmt.Sprintf("data: default tile table: %v", err))
	}
	return t
}

var defaultTiles = tileFile{
	Background: []TileEntry{
		{Char: "l", Text: "floor"},
		{Char: "g", Text: "grass"},
		{Char: "h", Text: "hedge"},
	},
	Objects: []TileEntry{
		{Char: "w", Text: "wall"},
		{Char: "r", Text: "rock"},
		{Char: "f", Text: "flag"},
		{Char: "b", Text: "BigBlue"},
		{Char: "a", Text: "water"},
		{Char: "v", Text: "lava"},
	},
	Words: []TileEntry{
		{Char: "W", Text: "wallname", Kind: "noun", Object: "wall"},
		{Char: "R", Text: "rockname", Kind: "noun", Object: "rock"},
		{Char: "F", Text: "flagname", Kind: "noun", Object: "flag"},
		{Char: "B", Text: "baba", Kind: "noun", Object: "BigBlue"},
		{Char: "S", Text: "stop", Kind: "property"},
		{Char: "P", Text: "push", Kind: "property"},
		{Char: "V", Text: "lavaname", Kind: "noun", Object: "lava"},
		{Char: "A", Text: "watername", Kind: "noun", Object: "water"},
		{Char: "Y", Text: "you", Kind: "property"},
		{Char: "X", Text: "win", Kind: "property"},
		{Char: "N", Text: "sink", Kind: "property"},
		{Char: "K", Text: "kill", Kind: "property"},
	},
	Verb: TileEntry{Char: "I", Text: "is"},
}

// Lexicon knows every word tile, which object each noun names and which
// tokens count as rule keywords.
type Lexicon struct {
	words       map[string]component.Word
	descriptors map[string]string // noun -> object
	objects     map[string]string // object -> noun
	keywords    map[string]struct{}
}

func newLexicon() *Lexicon {
	return &Lexicon{
		words:       make(map[string]component.Word),
		descriptors: make(map[string]string),
		objects:     make(map[string]string),
		keywords:    make(map[string]struct{}),
	}
}

func (l *Lexicon) addWord(text string, kind component.WordKind, object string) {
	l.words[text] = component.Word{Kind: kind, Text: text}
	switch kind {
	case component.Property:
		l.keywords[text] = struct{}{}
	case component.Noun:
		if object == "" {
			object = strings.TrimSuffix(text, "name")
		}
		l.descriptors[text] = object
		l.objects[object] = text
		// Nouns that don't follow the <object>name convention behave as
		// keywords in the nonsense check.
		if !strings.HasSuffix(text, "name") {
			l.keywords[text] = struct{}{}
		}
	}
}

// Classify reports whether label is a word tile.
func (l *Lexicon) Classify(label string) (component.Word, bool) {
	w, ok := l.words[label]
	return w, ok
}

// ObjectFor returns the object a noun names.
func (l *Lexicon) ObjectFor(descriptor string) (string, bool) {
	o, ok := l.descriptors[descriptor]
	return o, ok
}

// DescriptorFor returns the noun naming object.
func (l *Lexicon) DescriptorFor(object string) (string, bool) {
	d, ok := l.objects[object]
	return d, ok
}

// IsKeyword reports membership in the keyword set used to reject
// keyword-to-keyword rules.
func (l *Lexicon) IsKeyword(token string) bool {
	_, ok := l.keywords[token]
	return ok
}

// Matches reports whether a rule's target token selects an entity named
// name. Nouns select the object they name; an unknown token ending in
// "name" selects the stripped name; anything else matches exactly.
func (l *Lexicon) Matches(target, name string) bool {
	if target == "" {
		return false
	}
	if obj, ok := l.descriptors[target]; ok {
		return name == obj
	}
	if strings.HasSuffix(target, "name") && len(target) > len("name") {
		return name == strings.TrimSuffix(target, "name")
	}
	return name == target
}
