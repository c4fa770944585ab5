// Command docworker runs the job execution engine worker: it consumes
// queued job ids and drives them through the pipeline stage machine.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/app"
)

func main() {
	fmt.Println("docworker starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config, err := app.ConfigFromEnv(os.Args[1:])
	if err != nil {
		log.Fatalf("error loading configuration: %s", err)
	}

	worker, err := app.New(config)
	if err != nil {
		log.Fatalf("error initializing worker: %s", err)
	}

	if err := worker.Run(ctx); err != nil {
		log.Fatalf("worker exited with error: %s", err)
	}
}
