// Command monitor follows one sending job from the terminal, polling the
// studio server the way the job page does.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/campaign-studio/internal/charts"
	"github.com/ignite/campaign-studio/internal/config"
	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/jobs"
	"github.com/ignite/campaign-studio/internal/monitor"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	jobID := flag.Int64("job", 0, "job id to follow")
	smtpID := flag.Int64("test-smtp", 0, "run a connection test for this SMTP config id and exit")
	baseURL := flag.String("base-url", "", "studio server URL (overrides config)")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(cfg.Logging.ShouldRedact())

	if *baseURL != "" {
		cfg.Monitor.BaseURL = *baseURL
	}
	client := monitor.NewClient(cfg.Monitor.BaseURL, &http.Client{Timeout: cfg.Monitor.Timeout()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *smtpID > 0 {
		res, err := client.TestSMTP(ctx, *smtpID)
		if err != nil {
			log.Fatalf("SMTP test request failed: %v", err)
		}
		if !res.Success {
			fmt.Printf("Connection test failed: %s\n", res.Message)
			os.Exit(1)
		}
		fmt.Println("Connection test successful")
		return
	}

	if *jobID <= 0 {
		fmt.Fprintln(os.Stderr, "usage: monitor -job <id> | -test-smtp <id>")
		os.Exit(2)
	}

	reg := charts.NewRegistry(domain.JobSnapshot{})
	poller := monitor.NewPoller(client, *jobID, cfg.Monitor.Interval(), monitor.NewConsoleView(os.Stdout), reg)
	snap, err := poller.Start(ctx)
	if err != nil {
		log.Fatalf("Failed to load job %d: %v", *jobID, err)
	}
	if jobs.ShouldPoll(snap.Status) {
		<-ctx.Done()
	}
	poller.Stop()

	for _, c := range []charts.Chart{reg.Opens(), reg.Clicks(), reg.SendingRate()} {
		fmt.Printf("%s: %v\n", c.Datasets[0].Label, charts.TooltipLabels(c))
	}
	fmt.Printf("Stopped following job %d (last status %s) at %s\n", *jobID, poller.Status(), time.Now().Format(time.Kitchen))
}
