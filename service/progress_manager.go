package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/ludo-technologies/bcflow/domain"
)

// ProgressManagerImpl draws a progress bar over the methods being analyzed
// when stderr is a terminal
type ProgressManagerImpl struct {
	mu          sync.Mutex
	writer      io.Writer
	bar         *progressbar.ProgressBar
	description string
	interactive bool
	total       int
}

// NewProgressManager creates a progress manager writing to stderr
func NewProgressManager() *ProgressManagerImpl {
	return &ProgressManagerImpl{
		writer:      os.Stderr,
		description: "Analyzing methods",
		interactive: IsInteractiveEnvironment(),
	}
}

// SetDescription changes the label shown next to the bar
func (pm *ProgressManagerImpl) SetDescription(description string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.description = description
}

// Initialize records the number of units the bar counts to
func (pm *ProgressManagerImpl) Initialize(total int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.total = total
}

// Start draws the bar
func (pm *ProgressManagerImpl) Start() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.interactive && pm.bar == nil {
		pm.bar = pm.newBar(pm.total)
	}
}

// Update moves the bar to processed out of total
func (pm *ProgressManagerImpl) Update(processed, total int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if !pm.interactive {
		return
	}
	if pm.bar == nil {
		pm.bar = pm.newBar(total)
	}
	_ = pm.bar.Set(processed)
}

// Complete finishes the bar
func (pm *ProgressManagerImpl) Complete(success bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.finish()
}

// SetWriter redirects the bar; only terminals are treated as interactive
func (pm *ProgressManagerImpl) SetWriter(writer io.Writer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.writer = writer
	pm.interactive = false
	if file, ok := writer.(*os.File); ok {
		pm.interactive = term.IsTerminal(int(file.Fd()))
	}
}

// IsInteractive reports whether a bar is drawn
func (pm *ProgressManagerImpl) IsInteractive() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.interactive
}

// Close finishes the bar if one is still open
func (pm *ProgressManagerImpl) Close() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.finish()
}

func (pm *ProgressManagerImpl) finish() {
	if pm.bar != nil {
		_ = pm.bar.Finish()
		pm.bar = nil
	}
}

func (pm *ProgressManagerImpl) newBar(total int) *progressbar.ProgressBar {
	writer := pm.writer
	if writer == nil {
		writer = io.Discard
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(pm.description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)
}

// IsInteractiveEnvironment reports whether stderr is a terminal and the
// environment does not ask for plain output
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" || os.Getenv("BCFLOW_NO_PROGRESS") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// NoOpProgressManager satisfies domain.ProgressManager without output
type NoOpProgressManager struct{}

// NewNoOpProgressManager creates a progress manager that draws nothing
func NewNoOpProgressManager() *NoOpProgressManager { return &NoOpProgressManager{} }

func (NoOpProgressManager) Initialize(int)      {}
func (NoOpProgressManager) Start()              {}
func (NoOpProgressManager) Complete(bool)       {}
func (NoOpProgressManager) Update(int, int)     {}
func (NoOpProgressManager) SetWriter(io.Writer) {}
func (NoOpProgressManager) IsInteractive() bool { return false }
func (NoOpProgressManager) Close()              {}

var (
	_ domain.ProgressManager = (*ProgressManagerImpl)(nil)
	_ domain.ProgressManager = NoOpProgressManager{}
)
