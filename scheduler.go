package main

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// runReminderDigest logs how many events are coming up, on an interval,
// until ctx is cancelled.
func runReminderDigest(ctx context.Context, svc *EventService, interval time.Duration) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			sum, err := svc.Summary(ctx)
			if err != nil {
				log.Error().Err(err).Msg("reminder digest failed")
				return
			}
			log.Info().Int("upcoming", sum.Upcoming).Int("today", sum.Today).Msg("🔔 event reminder digest")
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	<-ctx.Done()
	return scheduler.Shutdown()
}
