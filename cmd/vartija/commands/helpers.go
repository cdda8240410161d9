package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/jnylund/vartija/internal/aws"
	"github.com/jnylund/vartija/internal/engine"
	"github.com/jnylund/vartija/internal/logger"
)

// buildEngine wires the AWS collaborators into a lifecycle engine.
func buildEngine(ctx context.Context, log logger.Logger) (*engine.Engine, error) {
	clients, err := aws.NewClients(ctx, aws.ClientConfig{
		Region:     cfg.AWS.Region,
		Profile:    cfg.AWS.Profile,
		MaxRetries: cfg.AWS.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS clients: %w", err)
	}
	if err := clients.ValidateCredentials(ctx); err != nil {
		return nil, err
	}

	service := aws.NewService(clients, log)

	var notifier engine.Notifier
	if cfg.Notify.TopicARN != "" {
		notifier = aws.NewNotifier(clients.SNS, cfg.Notify.TopicARN)
	}

	return engine.New(service, notifier, log), nil
}

// runParams assembles engine parameters from the loaded configuration.
// now is captured once per run by the caller.
func runParams(now time.Time, dryRun bool) engine.Params {
	return engine.Params{
		Now:                   now,
		VolumeIDs:             cfg.Volumes,
		CreationSchedules:     cfg.Schedules.Creation,
		PurgeSchedules:        cfg.Schedules.Purge,
		ContinueOnVolumeError: cfg.Run.ContinueOnVolumeError,
		DryRun:                dryRun,
		Description:           cfg.Run.Description,
		Subject:               cfg.Notify.Subject,
	}
}
