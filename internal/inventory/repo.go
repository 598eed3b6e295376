package inventory

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

type ListFilter struct {
	Category  string
	Status    string
	Search    string
	InStock   bool // only rows with available_quantity > 0
	Page      int
	PageSize  int
	OrderExpr string // defaults to name ASC
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]Component, int64, error) {
	q := r.db.WithContext(ctx).Model(&Component{})

	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.InStock {
		q = q.Where("available_quantity > 0")
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		// Tags are stored as a JSON array of lowercased strings, so an exact
		// tag match is a quoted-substring match.
		tagLike := `%"` + strings.ToLower(f.Search) + `"%`
		q = q.Where("name LIKE ? OR description LIKE ? OR tags LIKE ?", like, like, tagLike)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := f.OrderExpr
	if order == "" {
		order = "name ASC"
	}
	q = q.Order(order)

	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.PageSize).Limit(f.PageSize)
	}

	var out []Component
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repo) Get(ctx context.Context, id uint64) (*Component, error) {
	var c Component
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Create(ctx context.Context, c *Component) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repo) Save(ctx context.Context, c *Component) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *Repo) Delete(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Component{}, id)
	return res.RowsAffected, res.Error
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

func (r *Repo) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	var out []CategoryCount
	err := r.db.WithContext(ctx).Model(&Component{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category ASC").
		Scan(&out).Error
	return out, err
}
