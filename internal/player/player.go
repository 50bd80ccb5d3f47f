package player

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/slide-narrator/internal/logger"
	"github.com/nguyentantai21042004/slide-narrator/pkg/executor"
)

// Player plays audio files through an external command such as ffplay.
type Player struct {
	executor executor.Executor
	command  string
	args     []string
	logger   logger.Logger
}

// New creates a Player running command with args followed by the file path
func New(exec executor.Executor, command string, args []string, log logger.Logger) *Player {
	return &Player{
		executor: exec,
		command:  command,
		args:     args,
		logger:   log,
	}
}

// Play blocks until the player exits.
func (p *Player) Play(ctx context.Context, path string) error {
	args := append(append([]string{}, p.args...), path)

	p.logger.Debug(ctx, "Playing %s with %s", path, p.command)
	if _, err := p.executor.Execute(ctx, p.command, args...); err != nil {
		return fmt.Errorf("play %s: %w", path, err)
	}
	return nil
}
