// ABOUTME: In-memory bot engine backing the local development API
// ABOUTME: Progresses levels while running, records attempts and captures screenshots with a delay

package botsim

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/markalston/autoclick-dashboard/internal/client"
)

// Errors returned for commands that do not apply in the current state
var (
	ErrAlreadyRunning    = errors.New("bot is already running")
	ErrNotRunning        = errors.New("bot is not running")
	ErrCaptureInProgress = errors.New("screenshot already in progress")
)

// BotConfig tunes the simulated bot
type BotConfig struct {
	AttemptDuration time.Duration // time to play one level
	CaptureDelay    time.Duration // time between a screenshot request and the new image
	WinRate         float64       // probability an attempt is won
	Seed            uint64
}

// DefaultBotConfig returns a bot that plays a level every few seconds
func DefaultBotConfig() BotConfig {
	return BotConfig{
		AttemptDuration: 4 * time.Second,
		CaptureDelay:    3 * time.Second,
		WinRate:         0.7,
		Seed:            1,
	}
}

// Bot is the simulated automation agent
type Bot struct {
	mu  sync.Mutex
	cfg BotConfig
	rng *rand.Rand
	now func() time.Time

	status         string
	currentLevel   int
	totalCompleted int
	targetLevel    int
	shotData       *string
	shotAt         *time.Time

	attemptStarted time.Time
	captureDue     time.Time
	capturePending bool

	logs []client.LogEntry // newest first
}

// NewBot creates an idle bot at level 1 with an unlimited target
func NewBot(cfg BotConfig) *Bot {
	if cfg.AttemptDuration <= 0 {
		cfg.AttemptDuration = DefaultBotConfig().AttemptDuration
	}
	if cfg.WinRate < 0 || cfg.WinRate > 1 {
		cfg.WinRate = DefaultBotConfig().WinRate
	}
	return &Bot{
		cfg:          cfg,
		rng:          rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		now:          time.Now,
		status:       client.StateIdle,
		currentLevel: 1,
	}
}

// Snapshot returns the current status
func (b *Bot) Snapshot() client.BotStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Bot) snapshotLocked() client.BotStatus {
	target := b.targetLevel
	st := client.BotStatus{
		Status:               b.status,
		CurrentLevel:         b.currentLevel,
		TotalLevelsCompleted: b.totalCompleted,
		TargetLevel:          &target,
	}
	if b.shotData != nil {
		data := *b.shotData
		st.LatestScreenshotData = &data
	}
	if b.shotAt != nil {
		at := *b.shotAt
		st.LatestScreenshotAt = &at
	}
	return st
}

// Control applies START, STOP or CONTINUE. START restarts from level 1,
// CONTINUE resumes at the current level.
func (b *Bot) Control(action client.Action, targetLevel *int) (client.BotStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if targetLevel != nil {
		if *targetLevel < 0 {
			return client.BotStatus{}, fmt.Errorf("target level must not be negative")
		}
		if action.CarriesTarget() {
			b.targetLevel = *targetLevel
		}
	}

	switch action {
	case client.ActionStart:
		if b.status == client.StateRunning {
			return client.BotStatus{}, ErrAlreadyRunning
		}
		b.currentLevel = 1
		b.status = client.StateRunning
		b.attemptStarted = b.now()
	case client.ActionContinue:
		if b.status == client.StateRunning {
			return client.BotStatus{}, ErrAlreadyRunning
		}
		b.status = client.StateRunning
		b.attemptStarted = b.now()
	case client.ActionStop:
		if b.status != client.StateRunning {
			return client.BotStatus{}, ErrNotRunning
		}
		b.status = client.StateStopped
	default:
		return client.BotStatus{}, fmt.Errorf("unknown action %q", action)
	}
	return b.snapshotLocked(), nil
}

// RequestScreenshot schedules a capture; the image appears after CaptureDelay
func (b *Bot) RequestScreenshot() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.capturePending {
		return ErrCaptureInProgress
	}
	b.capturePending = true
	b.captureDue = b.now().Add(b.cfg.CaptureDelay)
	return nil
}

// Logs returns one page of attempts, newest first, with the total count
func (b *Bot) Logs(limit, offset int) ([]client.LogEntry, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := len(b.logs)
	if offset >= total {
		return []client.LogEntry{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]client.LogEntry, end-offset)
	copy(page, b.logs[offset:end])
	return page, total
}

// Seed adds n completed historical attempts, oldest first
func (b *Bot) Seed(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := b.now().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		b.recordLocked(b.rng.Float64() < b.cfg.WinRate, start.Add(time.Duration(i)*time.Minute), 20+b.rng.Float64()*100)
	}
}

// Step advances the simulation to now
func (b *Bot) Step() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()

	if b.status == client.StateRunning && now.Sub(b.attemptStarted) >= b.cfg.AttemptDuration {
		won := b.rng.Float64() < b.cfg.WinRate
		b.recordLocked(won, now, now.Sub(b.attemptStarted).Seconds())
		b.attemptStarted = now
	}

	if b.capturePending && !now.Before(b.captureDue) {
		if err := b.captureLocked(now); err == nil {
			b.capturePending = false
		}
	}
}

// Run steps the bot until ctx is done
func (b *Bot) Run(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			b.Step()
		}
	}
}

func (b *Bot) recordLocked(won bool, at time.Time, durationSeconds float64) {
	result := client.ResultLoss
	if won {
		result = client.ResultWin
	}
	d := durationSeconds
	entry := client.LogEntry{
		ID:              client.LogID(uuid.NewString()),
		Result:          result,
		LevelNumber:     b.currentLevel,
		DurationSeconds: &d,
		CreatedAt:       at.UTC(),
	}
	b.logs = append([]client.LogEntry{entry}, b.logs...)

	if !won || b.status != client.StateRunning {
		return
	}
	b.totalCompleted++
	if b.targetLevel > 0 && b.currentLevel >= b.targetLevel {
		b.status = client.StateStopped
		return
	}
	b.currentLevel++
}

func (b *Bot) captureLocked(now time.Time) error {
	data, err := renderFrame(b.currentLevel, b.status, now)
	if err != nil {
		return err
	}
	at := now.UTC()
	b.shotData = &data
	b.shotAt = &at
	return nil
}

// renderFrame draws a small synthetic game frame and returns it as a PNG data URI
func renderFrame(level int, status string, now time.Time) (string, error) {
	const w, h = 96, 54
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	accent := color.RGBA{R: 16, G: 185, B: 129, A: 255}
	if status != client.StateRunning {
		accent = color.RGBA{R: 245, G: 158, B: 11, A: 255}
	}
	shift := uint8(now.Second() * 4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 2), G: uint8(y*3) + shift, B: 90, A: 255})
		}
	}
	// one column per level, capped at the frame width
	for i := 0; i < level && i*4 < w; i++ {
		for y := h - 10; y < h-2; y++ {
			for x := i * 4; x < i*4+3; x++ {
				img.Set(x, y, accent)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
