package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"agenda-backend/config"
	"agenda-backend/models"
	"agenda-backend/routes"
	"agenda-backend/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.ConnectDB(cfg); err != nil {
		log.Fatal(err)
	}
	if err := config.DB.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	if err := services.EnsureOperator(ctx, config.DB, cfg.AppUsername, cfg.AppPassword); err != nil {
		log.Fatalf("Failed to seed operator: %v", err)
	}
	if err := services.EnsureDefaultReminderTemplate(ctx, config.DB); err != nil {
		log.Printf("Failed to seed reminder template: %v", err)
	}

	renewal := services.NewRenewalService(config.DB)
	var reminders *services.ReminderService
	if cfg.TwilioConfigured() {
		sender := services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.TwilioWhatsAppNumber)
		reminders = services.NewReminderService(config.DB, sender, sender.SupportsWhatsApp())
	}

	// One-shot batch commands: `renew-sessions`, `send-reminders`.
	if len(os.Args) > 1 {
		if err := runCommand(ctx, os.Args[1], renewal, reminders); err != nil {
			log.Fatal(err)
		}
		return
	}

	svc := routes.NewServices(cfg, config.DB)
	renewal.OnChange(svc.Dashboard.Invalidate)

	scheduler, err := services.StartScheduler(cfg.RenewalCron, renewal, cfg.ReminderCron, reminders)
	if err != nil {
		log.Fatal(err)
	}
	defer scheduler.Stop()

	r := routes.SetupRouter(cfg, svc)
	printRoutes(r)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func runCommand(ctx context.Context, name string, renewal *services.RenewalService, reminders *services.ReminderService) error {
	switch name {
	case "renew-sessions":
		report, err := renewal.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Renewed %d group(s): %d created, %d already booked, %d conflicting\n",
			report.Groups, report.Created, report.SkippedExisting, report.SkippedConflict)
		return nil
	case "send-reminders":
		if reminders == nil {
			return fmt.Errorf("twilio is not configured")
		}
		report, err := reminders.SendDailyReminders(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Reminders: %d sent, %d failed, %d skipped\n", report.Sent, report.Failed, report.Skipped)
		return nil
	default:
		return fmt.Errorf("unknown command %q (expected renew-sessions or send-reminders)", name)
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
