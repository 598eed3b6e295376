package inventory

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidCategory = errors.New("unknown component category")
	ErrInvalidStatus   = errors.New("unknown component status")
	ErrQuantityRange   = errors.New("available quantity must be between 0 and total quantity")
	ErrHasActiveLoans  = errors.New("component has active transactions")
)

// LoanGuard reports whether any pending/approved/issued transaction still
// references a component. Implemented by lending.Repo.
type LoanGuard interface {
	HasActiveLoans(ctx context.Context, componentID uint64) (bool, error)
}

type Service struct {
	repo  *Repo
	guard LoanGuard
}

func NewService(repo *Repo, guard LoanGuard) *Service {
	return &Service{repo: repo, guard: guard}
}

type CreateInput struct {
	Name              string
	Description       string
	Category          string
	TotalQuantity     int
	AvailableQuantity int
	Location          string
	Specifications    map[string]any
	ImageURL          string
	Tags              []string
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (s *Service) Create(ctx context.Context, in CreateInput, createdBy uint64) (*Component, error) {
	if !ValidCategory(in.Category) {
		return nil, ErrInvalidCategory
	}
	if in.TotalQuantity < 0 || in.AvailableQuantity < 0 || in.AvailableQuantity > in.TotalQuantity {
		return nil, ErrQuantityRange
	}

	status := StatusAvailable
	if in.AvailableQuantity == 0 {
		status = StatusIssued
	}

	c := &Component{
		Name:              in.Name,
		Description:       in.Description,
		Category:          in.Category,
		TotalQuantity:     in.TotalQuantity,
		AvailableQuantity: in.AvailableQuantity,
		Status:            status,
		Location:          in.Location,
		Specifications:    in.Specifications,
		ImageURL:          in.ImageURL,
		Tags:              normalizeTags(in.Tags),
		CreatedBy:         createdBy,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type UpdateInput struct {
	Name              *string
	Description       *string
	Category          *string
	TotalQuantity     *int
	AvailableQuantity *int
	Status            *string
	Location          *string
	Specifications    map[string]any
	ImageURL          *string
	Tags              []string
}

func (s *Service) Update(ctx context.Context, id uint64, in UpdateInput) (*Component, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Category != nil {
		if !ValidCategory(*in.Category) {
			return nil, ErrInvalidCategory
		}
		c.Category = *in.Category
	}
	if in.TotalQuantity != nil {
		c.TotalQuantity = *in.TotalQuantity
	}
	if in.AvailableQuantity != nil {
		c.AvailableQuantity = *in.AvailableQuantity
	}
	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		c.Status = *in.Status
	}
	if in.Location != nil {
		c.Location = *in.Location
	}
	if in.Specifications != nil {
		c.Specifications = in.Specifications
	}
	if in.ImageURL != nil {
		c.ImageURL = *in.ImageURL
	}
	if in.Tags != nil {
		c.Tags = normalizeTags(in.Tags)
	}

	if c.TotalQuantity < 0 || c.AvailableQuantity < 0 || c.AvailableQuantity > c.TotalQuantity {
		return nil, ErrQuantityRange
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete refuses while any transaction still holds or awaits stock of this
// component; returned/rejected history is no obstacle.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	active, err := s.guard.HasActiveLoans(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return ErrHasActiveLoans
	}
	_, err = s.repo.Delete(ctx, id)
	return err
}

func (s *Service) Get(ctx context.Context, id uint64) (*Component, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Component, int64, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	return s.repo.CategoryCounts(ctx)
}
