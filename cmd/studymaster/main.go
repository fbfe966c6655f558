package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study-master/internal/api"
	"study-master/internal/config"
	"study-master/internal/notify"
	"study-master/internal/repository"
	"study-master/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	store := repository.NewStore(repository.NewSQLiteKV(db))
	store.EnsureInitialized(ctx)

	streakSvc := service.NewStreakService(store)
	statsSvc := service.NewStatsService(store)
	achievementSvc := service.NewAchievementService(store, streakSvc)

	var notifier notify.Notifier = notify.Disabled{}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("[warn] telegram notifier unavailable: %v", err)
		} else {
			notifier = tg
		}
	}
	reminderSvc := service.NewReminderService(store, notifier)

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.PollInterval, func() {
		tickCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		reminderSvc.Tick(tickCtx)
	}); err != nil {
		log.Fatalf("schedule reminder poll: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := api.NewServer(store, streakSvc, statsSvc, achievementSvc)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}()

	log.Printf("[info] study master engine listening on %s", cfg.HTTPAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		// Plain return so the deferred scheduler stop and DB close run.
		log.Printf("http server stopped with error: %v", err)
		return
	}
	log.Println("Shutdown complete.")
}
