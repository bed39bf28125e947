package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"stale-issues-notifier/internal/config"
	"stale-issues-notifier/internal/ghclient"
	"stale-issues-notifier/internal/logger"
	"stale-issues-notifier/internal/notifier"
	"stale-issues-notifier/internal/tracker"
	"stale-issues-notifier/pkg/models"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	// Configuration is read again on every invocation; this load only sets up logging
	cfg, err := config.Load(os.Getenv(config.PathEnv))
	if err != nil {
		slog.Error("Error loading configuration, logging with defaults", "error", err)
		cfg = config.Default()
	}
	logger.Init(cfg)

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		slog.Info("Stale issue notifier started", "runtime", "lambda")
		lambda.Start(handler)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resp, err := handler(ctx, nil)
	if err != nil {
		slog.Error("Invocation failed", "error", err)
		os.Exit(1)
	}

	if err := printResponse(os.Stdout, resp); err != nil {
		slog.Error("Error writing response", "error", err)
		os.Exit(1)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		os.Exit(1)
	}
}

// handler is the function entrypoint. The trigger payload carries nothing the
// notifier needs.
func handler(ctx context.Context, _ json.RawMessage) (events.APIGatewayProxyResponse, error) {
	cfg, err := config.Load(os.Getenv(config.PathEnv))
	if err != nil {
		slog.Error("Error loading configuration", "error", err)
		return toResponse(models.MessageResult(http.StatusBadRequest, err.Error())), nil
	}

	result, err := run(ctx, cfg)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	slog.Info("Invocation finished", "status", result.StatusCode)
	return toResponse(result), nil
}

// run wires the GitHub client and notifiers for one invocation
func run(ctx context.Context, cfg *config.Config) (models.Result, error) {
	client, err := ghclient.NewClient(cfg)
	if err != nil {
		slog.Error("Error creating GitHub client", "error", err)
		return models.MessageResult(http.StatusBadRequest, err.Error()), nil
	}

	mailer, err := notifier.New(cfg)
	if err != nil {
		slog.Error("Error creating notifier", "error", err)
		return models.MessageResult(http.StatusBadRequest, err.Error()), nil
	}

	return tracker.New(cfg, client, mailer, notifier.Extras(cfg)...).Run(ctx)
}

// printResponse writes the response as one JSON line, for local runs
func printResponse(w io.Writer, resp events.APIGatewayProxyResponse) error {
	out, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("error encoding response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func toResponse(result models.Result) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: result.StatusCode,
		Headers:    result.Headers,
		Body:       result.Body,
	}
}
