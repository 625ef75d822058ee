package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"symphony-copilot/internal/agent"
	"symphony-copilot/internal/logger"
	"symphony-copilot/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = logger.Shutdown(context.Background()) }()
	defer func() { _ = trace.Shutdown(context.Background()) }()

	cfg, err := loadConfig(ctx)
	must(err)

	compressOldLogs(ctx)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		fmt.Println("\nShutting down...")
		cancel()
	}()

	assistant := agent.NewAssistant(ctx, cfg.LLM.Provider, cfg.LLM.Model)
	registry := buildRegistry(ctx, cfg, assistant)

	a := agent.New(assistant, registry, agent.Params{
		MaxTurns:    cfg.Agent.MaxTurns,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})

	fmt.Println("symphony-copilot ready. Describe a strategy, or type 'exit' to quit, 'reset' to start over.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return
		case line == "reset":
			a.Reset()
			fmt.Println("Conversation cleared.")
			continue
		}

		answer, err := a.Run(ctx, line)
		if err != nil {
			logger.ErrorWithErr(ctx, "Agent turn failed", err)
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Println(answer)
	}
}
