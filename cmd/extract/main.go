// Command extract reads text from stdin (or the command line) and extracts
// structured data from it via DeepSeek, guided by a JSON schema descriptor.
//
// Usage:
//
//	export DEEPSEEK_API_KEY=sk-...
//	echo "John is a 30 year old software engineer." | extract
//	extract -schema person.json "John works at Acme."
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/NihilDigit/DeepSeek-Structured-Output-for-LangChain/config"
	"github.com/NihilDigit/DeepSeek-Structured-Output-for-LangChain/llm/providers/deepseek"
	"github.com/NihilDigit/DeepSeek-Structured-Output-for-LangChain/structured"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "extract:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	schemaPath := flag.String("schema", "", "path to JSON schema descriptor (default: person example)")
	timeout := flag.Duration("timeout", 60*time.Second, "overall request timeout")
	flag.Parse()

	// .env is optional; real deployments export the key directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	provider, err := deepseek.New(cfg.DeepSeek, logger)
	if err != nil {
		return err
	}

	schema, err := loadSchema(*schemaPath)
	if err != nil {
		return err
	}

	out, err := structured.NewWithSchema[map[string]any](provider, schema)
	if err != nil {
		return err
	}
	out.WithLogger(logger)

	prompt, err := readPrompt()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := out.Invoke(ctx, prompt)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func buildLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zcfg.Build()
}

func loadSchema(path string) (*structured.Schema, error) {
	if path == "" {
		return structured.NewObjectSchema().
			AddProperty("name", structured.NewStringSchema().WithDescription("the person's full name")).
			AddProperty("age", structured.NewIntegerSchema().WithDescription("the person's age in years")).
			AddProperty("occupation", structured.NewStringSchema().WithDescription("the person's occupation")).
			AddRequired("name", "age", "occupation"), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return structured.FromJSON(data)
}

func readPrompt() (string, error) {
	if args := flag.Args(); len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("empty prompt: pass text as arguments or on stdin")
	}
	return prompt, nil
}
