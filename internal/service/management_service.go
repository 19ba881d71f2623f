package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"parkspotter-admin/internal/entities"
	apperrors "parkspotter-admin/internal/errors"
	"parkspotter-admin/internal/listing"
	"parkspotter-admin/internal/repository"
)

const managementPageSize = 10

var managementSpec = listing.Spec[entities.ManagementItem]{
	Fields: func(it entities.ManagementItem) []string {
		return []string{it.Name, it.Description, it.Value}
	},
	Less:     func(a, b entities.ManagementItem) bool { return a.ID < b.ID },
	PageSize: managementPageSize,
}

type ManagementView struct {
	Kind entities.ManagementKind `json:"kind"`
	listing.Result[entities.ManagementItem]
}

type ManagementService struct {
	repo repository.ManagementRepository
}

func NewManagementService(repo repository.ManagementRepository) *ManagementService {
	return &ManagementService{repo: repo}
}

func parseKind(kind string) (entities.ManagementKind, error) {
	k := entities.ManagementKind(strings.ToLower(kind))
	if !k.Valid() {
		return "", apperrors.ErrNotFound(fmt.Sprintf("unknown management section %q", kind))
	}
	return k, nil
}

func repoError(err error, action string) error {
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		return apperrors.ErrNotFound("item not found")
	case errors.Is(err, repository.ErrDuplicateItem):
		return apperrors.NewHTTPError(http.StatusConflict, "an item with this name already exists")
	}
	return apperrors.Wrap(http.StatusInternalServerError, "could not "+action+" item", err)
}

func (s *ManagementService) List(ctx context.Context, kind string, st listing.State) (ManagementView, error) {
	k, err := parseKind(kind)
	if err != nil {
		return ManagementView{}, err
	}
	items, err := s.repo.List(ctx, k)
	if err != nil {
		return ManagementView{}, repoError(err, "list")
	}
	return ManagementView{Kind: k, Result: listing.Apply(items, st, managementSpec)}, nil
}

func normalizeItem(kind string, it entities.ManagementItem) (entities.ManagementItem, error) {
	k, err := parseKind(kind)
	if err != nil {
		return it, err
	}
	it.Kind = k
	it.Name = strings.TrimSpace(it.Name)
	it.Description = strings.TrimSpace(it.Description)
	if err := validate.Struct(it); err != nil {
		return it, validationError(err)
	}
	return it, nil
}

func (s *ManagementService) Create(ctx context.Context, kind string, it entities.ManagementItem) (entities.ManagementItem, error) {
	it, err := normalizeItem(kind, it)
	if err != nil {
		return it, err
	}
	created, err := s.repo.Create(ctx, it)
	if err != nil {
		return entities.ManagementItem{}, repoError(err, "create")
	}
	return created, nil
}

func (s *ManagementService) Update(ctx context.Context, kind string, id int64, it entities.ManagementItem) (entities.ManagementItem, error) {
	if id <= 0 {
		return it, apperrors.ErrBadRequest("invalid item id")
	}
	it, err := normalizeItem(kind, it)
	if err != nil {
		return it, err
	}
	it.ID = id
	updated, err := s.repo.Update(ctx, it)
	if err != nil {
		return entities.ManagementItem{}, repoError(err, "update")
	}
	return updated, nil
}

func (s *ManagementService) Delete(ctx context.Context, kind string, id int64) error {
	k, err := parseKind(kind)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, k, id); err != nil {
		return repoError(err, "delete")
	}
	return nil
}
