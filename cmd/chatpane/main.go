package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"chatpane/internal/config"
	"chatpane/internal/events"
	"chatpane/internal/history"
	"chatpane/internal/logger"
	"chatpane/internal/transcript"
	"chatpane/internal/tui"
)

var log = logger.Named("main")

func main() {
	cfgPath := flag.String("config", "", "config file path (default ~/.chatpane/config.toml)")
	logFile := flag.String("log-file", "", "log file path")
	noMouse := flag.Bool("no-mouse", false, "disable pointer capture (selection unavailable)")
	prompt := flag.String("prompt", "", "seed the transcript with an initial prompt")
	flag.Parse()

	logger.Configure()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *noMouse {
		cfg.Mouse = false
	}
	if closer, path, err := logger.SetupFile(cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "chatpane: cannot open log file: %v\n", err)
	} else {
		defer closer.Close()
		log.WithField("path", path).Info("log file ready")
	}

	histStore, err := history.NewDefault()
	if err != nil {
		log.WithField("error", err).Warn("prompt history unavailable")
		histStore = nil
	}

	queue := events.NewQueue(0)
	defer queue.Close()

	initial := []transcript.Cell{
		{Kind: transcript.CellSystemInfo, Text: "chatpane: wire a session backend with tui.Responder. This build echoes your prompts."},
	}
	if *prompt != "" {
		initial = append(initial, transcript.Cell{Kind: transcript.CellUserPrompt, Text: *prompt})
	}

	opts := tui.Options{
		Config:       cfg,
		Queue:        queue,
		Responder:    echoResponder{},
		History:      histStore,
		InitialCells: initial,
	}
	if err := tui.Run(opts, os.Stdout); err != nil {
		logger.Fatalf("tui: %v", err)
	}
}

// echoResponder 是占位的会话后端：把用户输入按词回流，模拟流式响应。
type echoResponder struct{}

func (echoResponder) Respond(ctx context.Context, prompt string, q *events.Queue) {
	sub := events.NewSubmissionID()
	if err := q.Publish(ctx, events.Event{Kind: events.KindResponseBegin, SubmissionID: sub}); err != nil {
		return
	}
	words := strings.Fields("you said: " + prompt)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		if err := q.Publish(ctx, events.Event{Kind: events.KindResponseChunk, SubmissionID: sub, Text: chunk}); err != nil {
			return
		}
		select {
		case <-time.After(40 * time.Millisecond):
		case <-ctx.Done():
			return
		}
	}
	_ = q.Publish(ctx, events.Event{Kind: events.KindResponseEnd, SubmissionID: sub})
}
