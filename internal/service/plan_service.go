package service

import (
	"context"
	"strings"

	"parkspotter-admin/internal/entities"
	apperrors "parkspotter-admin/internal/errors"
	"parkspotter-admin/internal/session"
)

type PlanService struct {
	backend Backend
	res     *Resources
}

func NewPlanService(b Backend, res *Resources) *PlanService {
	return &PlanService{backend: b, res: res}
}

func normalizePlan(p entities.SubscriptionPackage) (entities.SubscriptionPackage, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := validate.Struct(p); err != nil {
		return p, validationError(err)
	}
	return p, nil
}

func (s *PlanService) Create(ctx context.Context, sess session.Session, p entities.SubscriptionPackage) (entities.SubscriptionPackage, error) {
	p, err := normalizePlan(p)
	if err != nil {
		return p, err
	}
	created, err := s.backend.CreateSubscriptionPackage(ctx, sess.Token, p)
	if err != nil {
		return entities.SubscriptionPackage{}, backendFailure("could not create subscription package", err)
	}
	s.res.Packages.Update(sess.ID, func(in []entities.SubscriptionPackage) []entities.SubscriptionPackage {
		return UpsertPlan(in, created)
	})
	return created, nil
}

func (s *PlanService) Update(ctx context.Context, sess session.Session, id int, p entities.SubscriptionPackage) (entities.SubscriptionPackage, error) {
	if id <= 0 {
		return p, apperrors.ErrBadRequest("invalid package id")
	}
	p, err := normalizePlan(p)
	if err != nil {
		return p, err
	}
	updated, err := s.backend.UpdateSubscriptionPackage(ctx, sess.Token, id, p)
	if err != nil {
		return entities.SubscriptionPackage{}, backendFailure("could not update subscription package", err)
	}
	s.res.Packages.Update(sess.ID, func(in []entities.SubscriptionPackage) []entities.SubscriptionPackage {
		return UpsertPlan(in, updated)
	})
	return updated, nil
}

// UpsertPlan returns a copy of plans with p replacing the entry of the same id, or appended.
func UpsertPlan(plans []entities.SubscriptionPackage, p entities.SubscriptionPackage) []entities.SubscriptionPackage {
	out := make([]entities.SubscriptionPackage, 0, len(plans)+1)
	replaced := false
	for _, cur := range plans {
		if cur.ID == p.ID {
			out = append(out, p)
			replaced = true
			continue
		}
		out = append(out, cur)
	}
	if !replaced {
		out = append(out, p)
	}
	return out
}
