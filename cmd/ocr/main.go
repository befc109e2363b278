package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vision-ocr/config"
	"vision-ocr/internal/container"
	"vision-ocr/internal/domain/entity"
	"vision-ocr/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run возвращает код выхода, чтобы отложенные вызовы успели отработать
func run(args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet("ocr", flag.ContinueOnError)
	mode := flags.String("mode", string(entity.ModeFreeForm), "recognition mode: text or label")
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "Usage: ocr [-mode text|label] <image>")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}

	if flags.NArg() != 1 {
		flags.Usage()
		return 2
	}
	imagePath := flags.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	// Логи в stderr, в stdout только результат
	logger := logging.NewWithWriter(os.Stderr, "ocr-cli", cfg.LogLevel)

	appContainer, err := container.New(cfg, logger)
	if err != nil {
		log.Printf("Failed to build services: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
	}

	var result any
	switch entity.Mode(*mode) {
	case entity.ModeFreeForm:
		result, err = appContainer.OCRService.ExtractText(ctx, imagePath)
	case entity.ModeLabel:
		result, err = appContainer.OCRService.ExtractLabel(ctx, imagePath)
	default:
		log.Printf("Unknown mode %q, expected text or label", *mode)
		return 1
	}
	if err != nil {
		log.Printf("Recognition failed: %v", err)
		return 1
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Printf("Failed to encode result: %v", err)
		return 1
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}
