package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/model"
	"stagepass/internal/repository"
	"stagepass/pkg/apierror"
)

// allowedRoleTransitions is the explicit role state machine. Becoming an
// artist is only legal from the plain user role; reverting to user is legal
// from any role and never touches the artist profile link.
var allowedRoleTransitions = map[model.Role]map[model.Role]bool{
	model.RoleUser:   {model.RoleArtist: true, model.RoleUser: true},
	model.RoleArtist: {model.RoleUser: true},
}

func canTransition(from model.Role, to model.Role) bool {
	return allowedRoleTransitions[from][to]
}

// ArtistService owns the role state machine and the one-time artist profile
// creation that links a performer profile to the account.
type ArtistService struct {
	users   repository.UserRepository
	artists repository.ArtistRepository
	audit   *AuditService
}

func NewArtistService(users repository.UserRepository, artists repository.ArtistRepository, audit *AuditService) *ArtistService {
	return &ArtistService{users: users, artists: artists, audit: audit}
}

func (s *ArtistService) BecomeArtist(ctx context.Context, userID string) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}

	if !canTransition(user.Role, model.RoleArtist) {
		return model.PublicUser{}, model.ErrAlreadyArtist
	}

	updated, err := s.users.UpdateRole(ctx, userID, model.RoleArtist)
	if err != nil {
		return model.PublicUser{}, err
	}

	s.audit.Record(ctx, "role.become_artist", userID, "")
	return updated.Public(), nil
}

// BecomeUser flips the role back without preconditions. The artist profile
// reference survives the transition; the role is a capability flag, not
// profile ownership.
func (s *ArtistService) BecomeUser(ctx context.Context, userID string) (model.PublicUser, error) {
	updated, err := s.users.UpdateRole(ctx, userID, model.RoleUser)
	if err != nil {
		return model.PublicUser{}, err
	}

	s.audit.Record(ctx, "role.become_user", userID, "")
	return updated.Public(), nil
}

// GetProfile returns the caller's artist profile, independent of the current
// role; a reverted artist can still read the profile it created.
func (s *ArtistService) GetProfile(ctx context.Context, userID string) (model.ArtistProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.ArtistProfile{}, err
	}

	if user.ArtistProfileID == nil {
		return model.ArtistProfile{}, model.ErrProfileNotFound
	}

	return s.artists.FindByID(ctx, *user.ArtistProfileID)
}

func (s *ArtistService) CreateShow(ctx context.Context, userID string, req model.CreateShowRequest) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}

	if user.Role != model.RoleArtist {
		return model.PublicUser{}, model.ErrNotArtist
	}

	profile, err := buildArtistProfile(userID, req)
	if err != nil {
		return model.PublicUser{}, err
	}

	// Profile first, link second: a failure between the two leaves an
	// orphaned profile row, never a user pointing at a missing profile.
	if err := s.artists.Create(ctx, profile); err != nil {
		return model.PublicUser{}, err
	}

	updated, err := s.users.LinkArtistProfile(ctx, userID, profile.ID)
	if err != nil {
		return model.PublicUser{}, err
	}

	s.audit.Record(ctx, "artist.create_show", userID, profile.ID)
	return updated.Public(), nil
}

func buildArtistProfile(userID string, req model.CreateShowRequest) (model.ArtistProfile, error) {
	artistName := strings.TrimSpace(req.ArtistName)
	location := strings.TrimSpace(req.Location)
	bio := strings.TrimSpace(req.Bio)

	if artistName == "" || location == "" || bio == "" || req.StartDate == "" ||
		req.ShowsPerformed == nil || len(req.Genres) == 0 {
		return model.ArtistProfile{}, apierror.New("VALIDATION_ERROR", "all fields are required", "", http.StatusBadRequest)
	}

	if *req.ShowsPerformed < 0 {
		return model.ArtistProfile{}, apierror.New("VALIDATION_ERROR", "shows_performed must not be negative", "shows_performed", http.StatusBadRequest)
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return model.ArtistProfile{}, apierror.New("VALIDATION_ERROR", "start_date must be formatted YYYY-MM-DD", "start_date", http.StatusBadRequest)
	}

	genres := make([]string, 0, len(req.Genres))
	for _, genre := range req.Genres {
		trimmed := strings.TrimSpace(genre)
		if trimmed == "" {
			continue
		}
		genres = append(genres, trimmed)
	}
	if len(genres) == 0 {
		return model.ArtistProfile{}, apierror.New("VALIDATION_ERROR", "at least one genre is required", "genres", http.StatusBadRequest)
	}

	return model.ArtistProfile{
		ID:             uuid.NewString(),
		ArtistName:     artistName,
		Location:       location,
		Bio:            bio,
		StartDate:      startDate,
		ShowsPerformed: *req.ShowsPerformed,
		Genres:         genres,
		OwnerUserID:    userID,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
