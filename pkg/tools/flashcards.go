package tools

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/observability"
)

// DefaultGenerateDelay is the simulated parse time per word.
const DefaultGenerateDelay = 1500 * time.Millisecond

// Card is one generated flashcard.
type Card struct {
	ID          uuid.UUID `json:"id"`
	Word        string    `json:"word"`
	Reading     string    `json:"reading"`
	Romaji      string    `json:"romaji"`
	Etymology   string    `json:"etymology"`
	Definition  string    `json:"jp_def"`
	Translation string    `json:"target_def"`
	WordType    string    `json:"conjugation"`
	Examples    []Example `json:"examples"`
	CreatedAt   time.Time `json:"created_at"`
}

// Example is a sentence with its translation.
type Example struct {
	Japanese    string `json:"jp"`
	Translation string `json:"cn"`
}

type fixture struct {
	reading, romaji, etymology, definition, translation, wordType string
	examples                                                      []Example
}

var cardFixtures = map[string]fixture{
	"学生": {
		reading:     "がくせい",
		romaji:      "gakusei",
		etymology:   "「学」は学ぶ、「生」は生きる・人。学ぶ人という意味から。",
		definition:  "学校などで教育を受けている人。",
		translation: "学生 / Student",
		wordType:    "名詞",
		examples: []Example{
			{"私は学生です。", "我是学生。"},
			{"彼は東京大学の学生です。", "他是东京大学的学生。"},
		},
	},
	"食べる": {
		reading:     "たべる",
		romaji:      "taberu",
		etymology:   "古語の『賜（た）ぶ』から派生。",
		definition:  "食物を口に入れ、かんで飲み込む。",
		translation: "吃 / To eat",
		wordType:    "下一段動詞",
		examples: []Example{
			{"朝ごはんを食べる。", "吃早饭。"},
			{"一緒に食べましょう。", "一起吃吧。"},
		},
	},
}

var placeholderFixture = fixture{
	reading:     "???",
	romaji:      "unknown",
	etymology:   "Demo preview. Try 学生 or 食べる.",
	definition:  "Demo Mode Data",
	translation: "示例意思",
	wordType:    "未知类型",
	examples: []Example{
		{"例文1", "例子1"},
		{"例文2", "例子2"},
	},
}

// Generator builds flashcards one word at a time. It is safe for concurrent
// use; a second Generate while one is in flight fails with BUSY.
type Generator struct {
	mu         sync.Mutex
	delay      time.Duration
	logger     *log.Logger
	cards      []Card
	selected   int
	processing bool
	status     string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithGenerateDelay overrides the simulated parse time.
func WithGenerateDelay(d time.Duration) GeneratorOption {
	return func(g *Generator) { g.delay = d }
}

// WithGeneratorLogger sets the logger for status lines.
func WithGeneratorLogger(l *log.Logger) GeneratorOption {
	return func(g *Generator) { g.logger = l }
}

func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		delay:    DefaultGenerateDelay,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		selected: -1,
		status:   "ready",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate parses word into a card and prepends it to the deck. Known words
// come from the fixture; anything else gets the demo placeholder.
func (g *Generator) Generate(ctx context.Context, word string) (Card, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return Card{}, errors.New(errors.ErrCodeInvalidInput, "word is required")
	}

	g.mu.Lock()
	if g.processing {
		g.mu.Unlock()
		return Card{}, errors.New(errors.ErrCodeBusy, "still processing")
	}
	g.processing = true
	g.setStatus(fmt.Sprintf("parsing: %s...", word))
	g.mu.Unlock()

	start := time.Now()
	err := wait(ctx, g.delay)
	observability.Tools().OnToolRun(ctx, Flashcards.String(), "generate", time.Since(start), err)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.processing = false
	if err != nil {
		g.setStatus(fmt.Sprintf("cancelled: %s", word))
		return Card{}, err
	}

	fx, ok := cardFixtures[word]
	if !ok {
		fx = placeholderFixture
	}
	card := Card{
		ID:          uuid.New(),
		Word:        word,
		Reading:     fx.reading,
		Romaji:      fx.romaji,
		Etymology:   fx.etymology,
		Definition:  fx.definition,
		Translation: fx.translation,
		WordType:    fx.wordType,
		Examples:    append([]Example(nil), fx.examples...),
		CreatedAt:   time.Now(),
	}
	g.cards = append([]Card{card}, g.cards...)
	g.selected = 0
	g.setStatus(fmt.Sprintf("done: %s", word))
	return card, nil
}

// setStatus requires g.mu.
func (g *Generator) setStatus(s string) {
	g.status = s
	g.logger.Info(s, "tool", Flashcards)
}

// Status returns the latest status line.
func (g *Generator) Status() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Processing reports whether a Generate call is in flight.
func (g *Generator) Processing() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.processing
}

// Cards returns the deck, newest first.
func (g *Generator) Cards() []Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Card(nil), g.cards...)
}

// Select previews card i. It reports false when i is out of range.
func (g *Generator) Select(i int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i < 0 || i >= len(g.cards) {
		return false
	}
	g.selected = i
	return true
}

// Selected returns the previewed card.
func (g *Generator) Selected() (Card, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selected < 0 || g.selected >= len(g.cards) {
		return Card{}, false
	}
	return g.cards[g.selected], true
}

var csvHeader = []string{"id", "word", "reading", "romaji", "type", "definition", "translation", "etymology", "example1", "example1_translation", "example2", "example2_translation"}

// CSV exports the deck in Anki-importable CSV, newest first.
func (g *Generator) CSV() ([]byte, error) {
	cards := g.Cards()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, c := range cards {
		row := []string{c.ID.String(), c.Word, c.Reading, c.Romaji, c.WordType, c.Definition, c.Translation, c.Etymology}
		for i := 0; i < 2; i++ {
			if i < len(c.Examples) {
				row = append(row, c.Examples[i].Japanese, c.Examples[i].Translation)
			} else {
				row = append(row, "", "")
			}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
