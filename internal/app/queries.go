package app

import (
	"context"
	"time"

	"guest_portal/internal/domain"
)

type QueryService struct {
	repo     domain.PortalRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.PortalRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func propertyCacheKey(id string) string { return "property:" + id }

func (s *QueryService) GetProperty(ctx context.Context, id string) (domain.PropertyView, error) {
	key := propertyCacheKey(id)
	var pv domain.PropertyView
	if ok, _ := s.cache.Get(ctx, key, &pv); ok {
		return pv, nil
	}
	p, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return domain.PropertyView{}, err
	}
	pv = p.View()
	_ = s.cache.Set(ctx, key, pv, int(s.cacheTTL.Seconds()))
	return pv, nil
}
