package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"talenthub/internal/domain"
	"talenthub/internal/domain/dto"
)

type ProfileService struct {
	profileRepo domain.CandidateProfileRepository
	sanitizer   *domain.Sanitizer
}

func NewProfileService(profileRepo domain.CandidateProfileRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		sanitizer:   domain.NewSanitizer(),
	}
}

// Get returns the caller's profile, or an empty one when none has been
// saved yet.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*domain.CandidateProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if profile == nil {
		profile = &domain.CandidateProfile{UserID: userID, Skills: []string{}}
	}
	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req *dto.ProfileUpdateRequest) (*domain.CandidateProfile, error) {
	if errs := domain.ValidateStruct(req); errs != nil {
		return nil, errs
	}

	existing, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	skills := make([]string, 0, len(req.Skills))
	for _, skill := range req.Skills {
		skill = strings.TrimSpace(s.sanitizer.Sanitize(skill))
		if skill != "" {
			skills = append(skills, skill)
		}
	}

	profile := &domain.CandidateProfile{
		UserID:       userID,
		Phone:        strings.TrimSpace(req.Phone),
		Location:     strings.TrimSpace(req.Location),
		ResumeURL:    existing.ResumeURL,
		LinkedInURL:  req.LinkedInURL,
		GithubURL:    req.GithubURL,
		PortfolioURL: req.PortfolioURL,
		Skills:       skills,
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}
