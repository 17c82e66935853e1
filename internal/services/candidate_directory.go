package services

import (
	"context"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/repositories"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// CandidateDirectory fronts the candidate repository with a short-lived
// cache. Candidate profiles change rarely but are read on every disclosure
// endpoint. Writers must call Invalidate after mutating a candidate.
type CandidateDirectory struct {
	repo  repositories.CandidateRepository
	cache *cache.Cache
}

func NewCandidateDirectory(repo repositories.CandidateRepository, c *cache.Cache) *CandidateDirectory {
	return &CandidateDirectory{repo: repo, cache: c}
}

func (d *CandidateDirectory) Get(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	key := id.String()
	if cached, ok := d.cache.Get(key); ok {
		return cached.(*models.Candidate), nil
	}
	c, err := d.repo.GetByID(ctx, id)
	if err != nil || c == nil {
		return c, err
	}
	d.cache.Set(key, c, cache.DefaultExpiration)
	return c, nil
}

func (d *CandidateDirectory) Invalidate(id uuid.UUID) {
	d.cache.Delete(id.String())
}
