package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/bedtime-stories/internal/config"
	"github.com/snappy-loop/bedtime-stories/internal/llm"
	"github.com/snappy-loop/bedtime-stories/internal/logging"
	"github.com/snappy-loop/bedtime-stories/internal/markup"
	"github.com/snappy-loop/bedtime-stories/internal/narration"
	"github.com/snappy-loop/bedtime-stories/internal/retry"
	"github.com/snappy-loop/bedtime-stories/internal/speech"
	"github.com/snappy-loop/bedtime-stories/internal/storyclient"
	flag "github.com/spf13/pflag"
)

func main() {
	cfg := config.Load()

	name := flag.StringP("name", "n", "", "child's name")
	age := flag.StringP("age", "a", "", "child's age")
	storyType := flag.StringP("type", "t", "", "story type (adventure, fantasy, mystery, ...)")
	relayURL := flag.String("relay", cfg.RelayURL, "story relay base URL")
	narrate := flag.Bool("narrate", false, "read the story aloud into a WAV file")
	voiceDir := flag.String("voice-dir", cfg.NarrationDir, "directory for narration audio")
	htmlOut := flag.String("html", "", "also write the story as an HTML page to this file")
	plain := flag.Bool("plain", false, "strip markdown from the printed story")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level")
	flag.Parse()

	logging.Setup(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	form := storyclient.NewForm(storyclient.NewRelayClient(*relayURL, cfg.RelayTimeout), func(s storyclient.FormState) {
		if s.Loading {
			log.Info().Str("relay", *relayURL).Msg("Generating story...")
		}
	})
	form.SetName(*name)
	form.SetAge(*age)
	form.SetStoryType(*storyType)

	if !form.CanSubmit() {
		fmt.Fprintln(os.Stderr, "name, age and type are all required")
		flag.Usage()
		os.Exit(2)
	}

	form.GenerateStory(ctx)
	story := form.State().Story
	if *plain {
		fmt.Println(markup.Plain(story))
	} else {
		fmt.Println(story)
	}

	if *htmlOut != "" {
		title := fmt.Sprintf("A %s story for %s", *storyType, *name)
		if err := os.WriteFile(*htmlOut, []byte(markup.Page(title, story)), 0o644); err != nil {
			log.Error().Err(err).Str("path", *htmlOut).Msg("Failed to write story page")
		}
	}

	if !*narrate || story == storyclient.MsgGenerateFailed {
		return
	}
	if err := narrateStory(ctx, cfg, *voiceDir, story); err != nil {
		log.Fatal().Err(err).Msg("Narration failed")
	}
}

func narrateStory(ctx context.Context, cfg *config.Config, dir, story string) error {
	llmClient, err := llm.NewClient(ctx, llm.Options{
		APIKey:   cfg.GeminiAPIKey,
		Endpoint: cfg.GeminiAPIEndpoint,
		Model:    cfg.GeminiModel,
		ModelTTS: cfg.GeminiModelTTS,
	})
	if err != nil {
		return fmt.Errorf("init TTS client: %w", err)
	}
	sink, err := speech.NewFileSink(dir)
	if err != nil {
		return err
	}

	engine := speech.NewGeminiEngine(llmClient, sink)
	engine.Start(speech.GeminiVoices)

	catalog := narration.NewCatalog(engine, retry.Policy{
		Initial:     cfg.VoicePollInterval,
		MaxAttempts: cfg.VoicePollMaxAttempts,
	})
	if err := catalog.Load(ctx); err != nil {
		return fmt.Errorf("load voices: %w", err)
	}
	go catalog.Watch(ctx)

	narrator := narration.NewNarrator(engine, catalog, narration.Options{
		Retry: retry.Policy{
			Initial:     cfg.NarrateRetryDelay,
			Multiplier:  2,
			MaxInterval: cfg.RetryMaxInterval,
			MaxAttempts: cfg.NarrateMaxAttempts,
		},
		SpeakDelay: cfg.SpeakDelay,
	})
	defer narrator.Stop()

	task := narrator.Narrate(ctx, story)
	if err := task.Wait(ctx); err != nil {
		return err
	}
	if path := sink.LastPath(); path != "" {
		fmt.Fprintf(os.Stderr, "narration written to %s\n", path)
	}
	return nil
}
