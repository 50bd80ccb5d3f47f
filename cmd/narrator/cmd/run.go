package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nguyentantai21042004/slide-narrator/internal/config"
	"github.com/nguyentantai21042004/slide-narrator/internal/docstore"
	"github.com/nguyentantai21042004/slide-narrator/internal/elevenlabs"
	"github.com/nguyentantai21042004/slide-narrator/internal/logger"
	"github.com/nguyentantai21042004/slide-narrator/internal/naming"
	"github.com/nguyentantai21042004/slide-narrator/internal/pipeline"
	"github.com/nguyentantai21042004/slide-narrator/internal/player"
	"github.com/nguyentantai21042004/slide-narrator/internal/publisher"
	"github.com/nguyentantai21042004/slide-narrator/internal/segmenter"
	"github.com/nguyentantai21042004/slide-narrator/internal/session"
	"github.com/nguyentantai21042004/slide-narrator/internal/storage"
	"github.com/nguyentantai21042004/slide-narrator/internal/tui"
	"github.com/nguyentantai21042004/slide-narrator/internal/watcher"
	"github.com/nguyentantai21042004/slide-narrator/pkg/executor"
	"github.com/spf13/cobra"
)

const inboxSettle = 500 * time.Millisecond

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		printError("load config", err)
		return err
	}

	if err := ensureDirectories(cfg); err != nil {
		printError("create directories", err)
		return err
	}

	logFile, err := logger.OpenFile(cfg.Logging.File)
	if err != nil {
		printError("open log", err)
		return err
	}
	defer logFile.Close()
	log := logger.NewWithWriter(cfg.Logging.Level, logFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Slide Narrator starting")
	log.Info(ctx, "Bucket: %s, document: %s/%s", cfg.Storage.Bucket, cfg.Firestore.Collection, cfg.Firestore.DocumentID)
	log.Info(ctx, "Segmenter: %s, voice: %s", cfg.Segmenter.Provider, cfg.ElevenLabs.VoiceID)
	log.Info(ctx, "========================================")

	bucket, err := storage.Open(ctx, cfg.Storage.Bucket, cfg.Storage.CredentialsFile)
	if err != nil {
		printError("open storage", err)
		return err
	}
	defer bucket.Close()

	docs, err := docstore.Open(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile, cfg.Firestore.Collection, cfg.Firestore.GuardConcurrentUpdates)
	if err != nil {
		printError("open firestore", err)
		return err
	}
	defer docs.Close()

	seg, err := newSegmenter(cfg, log)
	if err != nil {
		printError("create segmenter", err)
		return err
	}

	confirmer := session.NewChannelConfirmer()
	sess := session.New(session.Deps{
		Segmenter: seg,
		Resolver:  naming.New(bucket, cfg.Storage.Prefix, log),
		Pipeline:  pipeline.New(newSpeechClient(cfg), cfg.Paths.AudioDir, log),
		Publisher: publisher.New(bucket, docs, confirmer, publisher.Options{
			LocalDir:     cfg.Paths.AudioDir,
			RemoteRoot:   cfg.Storage.Prefix,
			SignedURLTTL: cfg.Storage.SignedURLTTL,
		}, log),
		Documents:  docs,
		Player:     player.New(executor.New(), cfg.Player.Command, cfg.Player.Args, log),
		Logger:     log,
		AudioDir:   cfg.Paths.AudioDir,
		DocumentID: cfg.Firestore.DocumentID,
		MinWords:   cfg.Segmenter.MinWords,
	})

	p := tea.NewProgram(
		tui.NewModel(ctx, sess, confirmer, tui.Options{ExportDir: cfg.Paths.Exports}, log),
		tea.WithAltScreen(),
	)

	w, err := watcher.New(cfg.Paths.Inbox, func(ctx context.Context, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		p.Send(tui.ScriptLoaded(path, string(data)))
		return nil
	}, log, inboxSettle)
	if err != nil {
		printError("watch inbox", err)
		return err
	}
	defer w.Stop()

	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error(ctx, "Inbox watcher stopped: %v", err)
		}
	}()

	if _, err := p.Run(); err != nil {
		printError("run terminal UI", err)
		return err
	}

	log.Info(ctx, "Slide Narrator stopped")
	return nil
}

func newSpeechClient(cfg *config.Config) *elevenlabs.Client {
	return elevenlabs.New(elevenlabs.Options{
		BaseURL: cfg.ElevenLabs.BaseURL,
		APIKey:  cfg.ElevenLabs.APIKey,
		VoiceID: cfg.ElevenLabs.VoiceID,
		ModelID: cfg.ElevenLabs.ModelID,
		Settings: elevenlabs.VoiceSettings{
			Stability:       cfg.ElevenLabs.Stability,
			SimilarityBoost: cfg.ElevenLabs.SimilarityBoost,
		},
		Timeout: cfg.ElevenLabs.Timeout,
	})
}

func newSegmenter(cfg *config.Config, log logger.Logger) (segmenter.Segmenter, error) {
	var completer segmenter.Completer
	switch cfg.Segmenter.Provider {
	case config.ProviderGemini:
		completer = segmenter.NewGemini(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)
	case config.ProviderAzure:
		completer = segmenter.NewAzure(cfg.Azure.Endpoint, cfg.Azure.Deployment, cfg.Azure.APIVersion, cfg.Azure.APIKey,
			&http.Client{Timeout: cfg.Segmenter.Timeout})
	default:
		return nil, fmt.Errorf("unsupported segmenter provider %q", cfg.Segmenter.Provider)
	}
	return segmenter.New(completer, cfg.Segmenter.Timeout, log), nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.AudioDir,
		cfg.Paths.Inbox,
		cfg.Paths.Exports,
		filepath.Dir(cfg.Logging.File),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
