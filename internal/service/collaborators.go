package service

import (
	"context"
	"fmt"
	"io"

	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ContentRepositories groups the stores holding team content
type ContentRepositories struct {
	Messages repository.MessageRepositoryInterface
	Events   repository.EventRepositoryInterface
	Files    repository.FileRepositoryInterface
}

// FileStore keeps uploaded team files
type FileStore interface {
	Save(teamID uuid.UUID, name string, r io.Reader) (string, error)
	Open(location string) (afero.File, error)
	RemoveTeam(teamID uuid.UUID) error
}

// DescriptionRenderer turns a markdown description into safe HTML
type DescriptionRenderer interface {
	Render(src string) (string, error)
}

// purgeTeamContent deletes everything hanging off the given teams except the team rows.
// Must run inside the caller's transaction.
func purgeTeamContent(ctx context.Context, content ContentRepositories, memberships repository.MembershipRepositoryInterface, teamIDs []uuid.UUID) error {
	if len(teamIDs) == 0 {
		return nil
	}
	if err := content.Messages.DeleteByTeams(ctx, teamIDs); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if err := content.Events.DeleteByTeams(ctx, teamIDs); err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	if err := content.Files.DeleteByTeams(ctx, teamIDs); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	if err := memberships.DeleteTeamMemberships(ctx, teamIDs); err != nil {
		return fmt.Errorf("failed to delete team memberships: %w", err)
	}
	return nil
}

// removeTeamFiles drops stored uploads of deleted teams. Failures leave orphaned files only, so they are logged.
func removeTeamFiles(ctx context.Context, store FileStore, teamIDs []uuid.UUID) {
	if store == nil {
		return
	}
	for _, id := range teamIDs {
		if err := store.RemoveTeam(id); err != nil {
			logger.WithContext(ctx).WithError(err).WithField("team_id", id).Warn("Failed to remove team uploads")
		}
	}
}

func renderDescription(ctx context.Context, renderer DescriptionRenderer, src string) string {
	if renderer == nil || src == "" {
		return ""
	}
	html, err := renderer.Render(src)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Warn("Failed to render description")
		return ""
	}
	return html
}
