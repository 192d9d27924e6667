package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/athapong/plasticity-go/pkg/metrics"
	"github.com/athapong/plasticity-go/prompts"
	"github.com/athapong/plasticity-go/tools"
)

func main() {
	envFile := flag.String("env", ".env", "Path to environment file")
	enableSSE := flag.Bool("sse", false, "Enable SSE server")
	sseAddr := flag.String("sse-addr", ":8080", "Address for SSE server to listen on")
	sseBaseURL := flag.String("sse-base-url", "", "Public base URL of the SSE server (default http://localhost<sse-addr>)")
	metricsAddr := flag.String("metrics-addr", "", "Address for the Prometheus metrics server; empty disables it")
	logLevel := flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
	flag.Parse()

	// stdout carries the stdio transport
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)

	if err := godotenv.Load(*envFile); err != nil {
		logger.Warnf("Error loading env file %s: %v", *envFile, err)
	}

	mcpServer := server.NewMCPServer(
		"plasticity-mcp",
		"1.0.0",
		server.WithLogging(),
		server.WithPromptCapabilities(true),
	)

	tools.RegisterToolManagerTool(mcpServer)
	registered := tools.RegisterEnabledTools(mcpServer)
	logger.WithField("tools", strings.Join(registered, ",")).Info("Registered tool groups")

	prompts.RegisterAnalysisPrompts(mcpServer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		metricsServer := metrics.NewServer(*metricsAddr)
		go metrics.CollectSystemMetrics(ctx, 15*time.Second)
		go func() {
			logger.Infof("Serving metrics on %s", *metricsAddr)
			if err := metricsServer.Start(); err != nil {
				logger.Errorf("Metrics server failed: %v", err)
			}
		}()
		defer shutdown(logger, "metrics", metricsServer.Shutdown)
	}

	if *enableSSE || os.Getenv("ENABLE_SSE") == "true" {
		baseURL := *sseBaseURL
		if baseURL == "" {
			baseURL = "http://localhost" + *sseAddr
		}
		sseServer := server.NewSSEServer(mcpServer, server.WithBaseURL(baseURL))

		go func() {
			logger.Infof("Starting SSE server on %s with base URL %s", *sseAddr, baseURL)
			if err := sseServer.Start(*sseAddr); err != nil {
				logger.Errorf("SSE server failed: %v", err)
				stop()
			}
		}()

		<-ctx.Done()
		logger.Info("Shutting down...")
		shutdown(logger, "SSE", sseServer.Shutdown)
		return
	}

	if err := server.ServeStdio(mcpServer); err != nil {
		panic(fmt.Sprintf("Server error: %v", err))
	}
}

func shutdown(logger *logrus.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := fn(ctx); err != nil {
		logger.Errorf("Error during %s server shutdown: %v", name, err)
		return
	}
	logger.Infof("%s server shutdown complete", name)
}
