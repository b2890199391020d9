package tools

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/observability"
)

// Simulated reading coach latencies.
const (
	DefaultScriptDelay   = time.Second
	DefaultRecordDelay   = 3 * time.Second
	DefaultEvaluateDelay = 2 * time.Second
)

// maxLogs is how many status lines the coach keeps.
const maxLogs = 5

// Line is one subtitle line to practice.
type Line struct {
	ID       string  `json:"id"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// Feedback is the evaluation of one recording.
type Feedback struct {
	Rating    string    `json:"rating"`
	Feedback  string    `json:"feedback"`
	Timestamp time.Time `json:"timestamp"`
}

// LogKind classifies a coach log line.
type LogKind string

const (
	LogInfo    LogKind = "info"
	LogSuccess LogKind = "success"
	LogError   LogKind = "error"
)

// LogEntry is a timestamped status line.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
	Kind    LogKind   `json:"kind"`
}

var scriptFixture = []Line{
	{ID: "1", Duration: 3.2, Text: "こんにちは、いつきです！"},
	{ID: "2", Duration: 2.8, Text: "今日のテーマは、ズバリこれ。"},
	{ID: "3", Duration: 2.2, Text: "「なぜ、中国人の僕が」"},
}

const feedbackFixture = `| 項目 | 評価 | 改善のアドバイス |
| :--- | :--- | :--- |
| **発音** | A | 「こんにちは」の「は」の発音が少し強いです。 |
| **リズム** | S | 完璧なポーズ（間）の取り方です。 |
| **抑揚** | B | 語尾を下げる傾向を意識しましょう。 |

**Coach's Note:** 非常に自然な流れです。母音の長さをもう少し意識すると、よりネイティブに近づきます。

Rating: [A]
`

// Coach loads a practice script and evaluates recordings of its lines.
// One recording runs at a time.
type Coach struct {
	mu sync.Mutex

	scriptDelay   time.Duration
	recordDelay   time.Duration
	evaluateDelay time.Duration
	logger        *log.Logger

	lines      []Line
	history    map[string][]Feedback
	logs       []LogEntry
	processing bool
	recording  string
	evaluating string
}

// CoachOption configures a Coach.
type CoachOption func(*Coach)

// WithDelays overrides the script, record and evaluate latencies.
func WithDelays(script, record, evaluate time.Duration) CoachOption {
	return func(c *Coach) {
		c.scriptDelay, c.recordDelay, c.evaluateDelay = script, record, evaluate
	}
}

func WithCoachLogger(l *log.Logger) CoachOption {
	return func(c *Coach) { c.logger = l }
}

func NewCoach(opts ...CoachOption) *Coach {
	c := &Coach{
		scriptDelay:   DefaultScriptDelay,
		recordDelay:   DefaultRecordDelay,
		evaluateDelay: DefaultEvaluateDelay,
		logger:        log.NewWithOptions(io.Discard, log.Options{}),
		history:       make(map[string][]Feedback),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.addLog("System Ready", LogSuccess)
	return c
}

// ProcessScript parses the practice script and replaces the current lines.
func (c *Coach) ProcessScript(ctx context.Context) ([]Line, error) {
	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return nil, errors.New(errors.ErrCodeBusy, "script is already being processed")
	}
	c.processing = true
	c.addLog("Analyzing SRT script structure...", LogInfo)
	c.mu.Unlock()

	start := time.Now()
	err := wait(ctx, c.scriptDelay)
	observability.Tools().OnToolRun(ctx, Reading.String(), "script", time.Since(start), err)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.processing = false
	if err != nil {
		c.addLog("Script processing cancelled.", LogError)
		return nil, err
	}
	c.lines = append([]Line(nil), scriptFixture...)
	c.addLog(fmt.Sprintf("Success: %d lines processed.", len(c.lines)), LogSuccess)
	return append([]Line(nil), c.lines...), nil
}

// Record simulates recording lineID and evaluating the take. The feedback is
// prepended to the line's history.
func (c *Coach) Record(ctx context.Context, lineID string) (Feedback, error) {
	c.mu.Lock()
	if !c.hasLine(lineID) {
		c.mu.Unlock()
		return Feedback{}, errors.New(errors.ErrCodeNotFound, "line %q not found", lineID)
	}
	if c.recording != "" || c.evaluating != "" {
		c.mu.Unlock()
		return Feedback{}, errors.New(errors.ErrCodeBusy, "another recording is in progress")
	}
	c.recording = lineID
	c.addLog(fmt.Sprintf("Recording session started for Line #%s", lineID), LogInfo)
	c.mu.Unlock()

	start := time.Now()
	fb, err := c.recordAndEvaluate(ctx, lineID)
	observability.Tools().OnToolRun(ctx, Reading.String(), "record", time.Since(start), err)
	return fb, err
}

func (c *Coach) recordAndEvaluate(ctx context.Context, lineID string) (Feedback, error) {
	if err := wait(ctx, c.recordDelay); err != nil {
		c.mu.Lock()
		c.recording = ""
		c.addLog("Recording cancelled.", LogError)
		c.mu.Unlock()
		return Feedback{}, err
	}

	c.mu.Lock()
	c.recording = ""
	c.evaluating = lineID
	c.addLog("AI is evaluating your pronunciation...", LogInfo)
	c.mu.Unlock()

	err := wait(ctx, c.evaluateDelay)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.evaluating = ""
	if err != nil {
		c.addLog("Evaluation cancelled.", LogError)
		return Feedback{}, err
	}
	fb := Feedback{Rating: "A", Feedback: feedbackFixture, Timestamp: time.Now().UTC()}
	c.history[lineID] = append([]Feedback{fb}, c.history[lineID]...)
	c.addLog("Analysis complete. Rating: A", LogSuccess)
	return fb, nil
}

// hasLine requires c.mu.
func (c *Coach) hasLine(id string) bool {
	for _, l := range c.lines {
		if l.ID == id {
			return true
		}
	}
	return false
}

// addLog requires c.mu.
func (c *Coach) addLog(msg string, kind LogKind) {
	c.logs = append(c.logs, LogEntry{Time: time.Now(), Message: msg, Kind: kind})
	if len(c.logs) > maxLogs {
		c.logs = append([]LogEntry(nil), c.logs[len(c.logs)-maxLogs:]...)
	}
	if kind == LogError {
		c.logger.Warn(msg, "tool", Reading)
	} else {
		c.logger.Info(msg, "tool", Reading)
	}
}

// Lines returns the loaded script.
func (c *Coach) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...)
}

// History returns the feedback for lineID, newest first.
func (c *Coach) History(lineID string) []Feedback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Feedback(nil), c.history[lineID]...)
}

// Logs returns the last status lines, oldest first.
func (c *Coach) Logs() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]LogEntry(nil), c.logs...)
}

// State reports which line is being recorded or evaluated ("" when idle).
func (c *Coach) State() (recording, evaluating string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording, c.evaluating
}
