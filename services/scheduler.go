package services

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// StartScheduler registers the periodic jobs and starts the cron runner. An
// empty spec or a nil service leaves that job out.
func StartScheduler(renewalSpec string, renewal *RenewalService, reminderSpec string, reminders *ReminderService) (*cron.Cron, error) {
	c := cron.New()

	if renewalSpec != "" && renewal != nil {
		if _, err := c.AddFunc(renewalSpec, func() {
			if _, err := renewal.Run(context.Background()); err != nil {
				log.Printf("[RENEWAL] run failed: %v", err)
			}
		}); err != nil {
			return nil, fmt.Errorf("invalid RENEWAL_CRON %q: %w", renewalSpec, err)
		}
	}

	if reminderSpec != "" && reminders != nil {
		if _, err := c.AddFunc(reminderSpec, func() {
			if _, err := reminders.SendDailyReminders(context.Background()); err != nil {
				log.Printf("[REMINDER] run failed: %v", err)
			}
		}); err != nil {
			return nil, fmt.Errorf("invalid REMINDER_CRON %q: %w", reminderSpec, err)
		}
	}

	c.Start()
	log.Printf("Scheduler started with %d job(s)", len(c.Entries()))
	return c, nil
}
