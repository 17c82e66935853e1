package app

import (
	"context"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/repositories"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/google/uuid"
)

// SeedTestData inserts a fixed set of employers and candidates for local
// development and staging. Existing rows (matched by email) are left
// alone, so the seed is safe to run on every boot.
func SeedTestData(
	ctx context.Context,
	empRepo repositories.EmployerRepository,
	candRepo repositories.CandidateRepository,
) {
	employers := []models.Employer{
		{
			ID:          uuid.New(),
			CompanyName: "Kigali Homecare Ltd",
			ContactName: "Aline Uwase",
			Email:       "aline@kigalihomecare.test",
			PhoneNumber: utils.Ptr("+250788100001"),
		},
		{
			ID:          uuid.New(),
			CompanyName: "Nyarutarama Residences",
			ContactName: "Eric Mugisha",
			Email:       "eric@nyarutarama.test",
			PhoneNumber: utils.Ptr("+250788100002"),
		},
	}
	for i := range employers {
		e := &employers[i]
		existing, err := empRepo.GetByEmail(ctx, e.Email)
		if err != nil {
			utils.Logger.WithError(err).Warn("Seed: employer lookup failed")
			continue
		}
		if existing != nil {
			continue
		}
		if err := empRepo.Create(ctx, e); err != nil {
			utils.Logger.WithError(err).Warnf("Seed: failed to create employer %s", e.Email)
		}
	}

	existing, err := candRepo.ListAvailable(ctx)
	if err != nil {
		utils.Logger.WithError(err).Warn("Seed: candidate lookup failed")
		return
	}
	if len(existing) > 0 {
		utils.Logger.Info("Seed: candidates already present, skipping")
		return
	}

	candidates := []models.Candidate{
		{
			ID:           uuid.New(),
			FullName:     "Claudine Mukamana",
			Headline:     "Experienced housekeeper",
			Summary:      "8 years of housekeeping and childcare experience in Kigali.",
			PhotoURL:     "https://cdn.example.test/photos/claudine.jpg",
			ContactPhone: "+250788200001",
			ContactEmail: "claudine@example.test",
			Available:    true,
		},
		{
			ID:           uuid.New(),
			FullName:     "Jean Bosco Niyonzima",
			Headline:     "Professional driver",
			Summary:      "Category B and D licenses, 5 years with private families.",
			PhotoURL:     "https://cdn.example.test/photos/jeanbosco.jpg",
			ContactPhone: "+250788200002",
			ContactEmail: "jeanbosco@example.test",
			Available:    true,
		},
		{
			ID:           uuid.New(),
			FullName:     "Diane Ingabire",
			Headline:     "Live-in nanny",
			Summary:      "First-aid certified, references available on request.",
			PhotoURL:     "https://cdn.example.test/photos/diane.jpg",
			ContactPhone: "+250788200003",
			ContactEmail: "diane@example.test",
			Available:    true,
		},
	}
	for i := range candidates {
		c := &candidates[i]
		if err := candRepo.Create(ctx, c); err != nil {
			utils.Logger.WithError(err).Warnf("Seed: failed to create candidate %s", c.FullName)
		}
	}

	utils.Logger.Info("Test data seeding complete")
}
