package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trader-bot/config"
	"trader-bot/discord"
	"trader-bot/models"
	"trader-bot/scheduler"
	"trader-bot/scraper/trader"
	"trader-bot/services"
	"trader-bot/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Trader price bot starting ===")
	logger.Info("Config — interval: %dh | history limit: %d | run timeout: %dm | reserved slots: %d",
		cfg.RunIntervalHours, cfg.HistoryLimit, cfg.RunTimeoutMin, cfg.ReservedSlots)

	if cfg.DiscordToken == "" || cfg.DiscordChannelID == "" {
		logger.Error("DISCORD_TOKEN and DISCORD_CHANNEL_ID must be set")
		os.Exit(1)
	}

	client, err := discord.New(cfg.DiscordToken, cfg.DiscordChannelID, logger)
	if err != nil {
		logger.Error("Failed to connect to Discord: %v", err)
		os.Exit(1)
	}
	defer client.Close()

	scraper := trader.New(cfg, logger)
	history := services.NewHistoryService(client, client.BotID(), cfg.HistoryLimit, logger)
	reconciler := services.NewReconciler(logger)
	renderer := services.NewRenderer()

	run := func(ctx context.Context) error {
		report, err := runPipeline(ctx, cfg, scraper, history, reconciler, renderer, client)
		if err != nil {
			return err
		}
		logger.Info("Run report — offers: %d (dropped %d) | history: %d offers from %d reports (dropped %d) | new: %d | favorable: %d",
			report.TodayOffers, report.DroppedOfferRows,
			report.HistoryOffers, report.HistoryMessages, report.DroppedHistoryRows,
			report.NewItems, report.Favorable)
		return nil
	}

	sched := scheduler.New(run,
		time.Duration(cfg.RunIntervalHours)*time.Hour,
		time.Duration(cfg.RunTimeoutMin)*time.Minute,
		logger)
	if err := sched.Start(); err != nil {
		logger.Error("Failed to start scheduler: %v", err)
		os.Exit(1)
	}
	defer sched.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("Shutting down")
}

// runPipeline executes one scrape → history → reconcile → render → post
// cycle. Any failure aborts the cycle; the next scheduled run proceeds
// independently.
func runPipeline(
	ctx context.Context,
	cfg *config.Config,
	scraper *trader.Scraper,
	history *services.HistoryService,
	reconciler *services.Reconciler,
	renderer *services.Renderer,
	poster discord.ReportPoster,
) (models.RunReport, error) {
	var report models.RunReport

	offers, droppedOffers, err := scraper.Scrape(ctx)
	if err != nil {
		return report, err
	}

	// The leading slots are reserved by the site and never sellable.
	if len(offers) > cfg.ReservedSlots {
		offers = offers[cfg.ReservedSlots:]
	} else {
		offers = nil
	}

	past, err := history.Collect(ctx)
	if err != nil {
		return report, err
	}

	rows := reconciler.Reconcile(offers, past.Records)

	report.TodayOffers = len(offers)
	report.DroppedOfferRows = droppedOffers
	report.HistoryMessages = past.Messages
	report.HistoryOffers = len(past.Records)
	report.DroppedHistoryRows = past.Dropped
	for _, row := range rows {
		if row.Stats == nil {
			report.NewItems++
		}
		if row.Favorable {
			report.Favorable++
		}
	}

	if err := poster.Post(ctx, renderer.Render(rows, time.Now())); err != nil {
		return report, err
	}
	return report, nil
}
