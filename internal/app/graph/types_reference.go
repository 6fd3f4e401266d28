package graph

import (
	"github.com/dalemusser/yelpcamp/internal/domain/models"
	graphql "github.com/graph-gophers/graphql-go"
)

type CountryResolver struct {
	c models.Country
}

func (c *CountryResolver) ID() graphql.ID                  { return graphql.ID(c.c.ID.Hex()) }
func (c *CountryResolver) ContinentCode() *string          { return optString(c.c.ContinentCode) }
func (c *CountryResolver) ContinentName() *string          { return optString(c.c.ContinentName) }
func (c *CountryResolver) CountryName() string             { return c.c.CountryName }
func (c *CountryResolver) ThreeLetterCountryCode() *string { return optString(c.c.ThreeLetterCountryCode) }
func (c *CountryResolver) TwoLetterCountryCode() *string   { return optString(c.c.TwoLetterCountryCode) }

func (c *CountryResolver) CountryNumber() *int32 {
	if c.c.CountryNumber == 0 {
		return nil
	}
	return &c.c.CountryNumber
}

type AmenityResolver struct {
	a models.Amenity
}

func (a *AmenityResolver) ID() *graphql.ID {
	if a.a.ID.IsZero() {
		return nil
	}
	id := graphql.ID(a.a.ID.Hex())
	return &id
}

func (a *AmenityResolver) Name() *string  { return optString(a.a.Name) }
func (a *AmenityResolver) Group() *string { return optString(a.a.Group) }

// LevelResolver serves the fitness, hiking and trek grading types, which
// share one shape.
type LevelResolver struct {
	l models.DifficultyLevel
}

func level(l *models.DifficultyLevel) *LevelResolver {
	if l == nil {
		return nil
	}
	return &LevelResolver{l: *l}
}

func levels(ls []models.DifficultyLevel) []*LevelResolver {
	out := make([]*LevelResolver, 0, len(ls))
	for i := range ls {
		out = append(out, &LevelResolver{l: ls[i]})
	}
	return out
}

func (l *LevelResolver) Level() int32      { return l.l.Level }
func (l *LevelResolver) LevelName() string { return l.l.LevelName }
func (l *LevelResolver) LevelDesc() string { return l.l.LevelDesc }

type BestSeasonsResolver struct {
	s models.BestSeasons
}

func (b *BestSeasonsResolver) Vasanta() bool  { return b.s.Vasanta }
func (b *BestSeasonsResolver) Grishma() bool  { return b.s.Grishma }
func (b *BestSeasonsResolver) Varsha() bool   { return b.s.Varsha }
func (b *BestSeasonsResolver) Sharat() bool   { return b.s.Sharat }
func (b *BestSeasonsResolver) Hemant() bool   { return b.s.Hemant }
func (b *BestSeasonsResolver) Shishira() bool { return b.s.Shishira }

type SeasonResolver struct {
	s models.Season
}

func (s *SeasonResolver) ID() int32           { return s.s.ID }
func (s *SeasonResolver) IndianName() string  { return s.s.IndianName }
func (s *SeasonResolver) EnglishName() string { return s.s.EnglishName }

// HikeResolver serves Hike and, with the lookup lists attached,
// CreateCampgroundStaticData.
type HikeResolver struct {
	h         models.Hike
	countries []models.Country
	amenities []models.Amenity
}

func (h *HikeResolver) Seasons() []*SeasonResolver {
	out := make([]*SeasonResolver, 0, len(h.h.Seasons))
	for _, s := range h.h.Seasons {
		out = append(out, &SeasonResolver{s: s})
	}
	return out
}

func (h *HikeResolver) HikingLevels() []*LevelResolver        { return levels(h.h.HikingLevels) }
func (h *HikeResolver) TrekTechnicalGrades() []*LevelResolver { return levels(h.h.TrekTechnicalGrades) }
func (h *HikeResolver) FitnessLevels() []*LevelResolver       { return levels(h.h.FitnessLevels) }

func (h *HikeResolver) CountriesList() []*CountryResolver {
	out := make([]*CountryResolver, 0, len(h.countries))
	for _, c := range h.countries {
		out = append(out, &CountryResolver{c: c})
	}
	return out
}

func (h *HikeResolver) AmenitiesList() []*AmenityResolver {
	out := make([]*AmenityResolver, 0, len(h.amenities))
	for _, a := range h.amenities {
		out = append(out, &AmenityResolver{a: a})
	}
	return out
}
