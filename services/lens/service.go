package lens

import (
	"context"
	"net/http"

	"lenz-rewards/pkg/db/option"
	"lenz-rewards/pkg/errutil"
	"lenz-rewards/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	node   *snowflake.Node
	lenses repository.Repository[Lens]
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:     p.DB,
		node:   p.Node,
		lenses: repository.ProvideStore[Lens](p.DB),
	}
}

type CreateLensRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Creator     string `json:"creator" binding:"required"`
	SnapLensID  string `json:"snap_lens_id" binding:"required"`
	SnapGroupID string `json:"snap_group_id"`
	Category    string `json:"category"`
}

func (s *Service) CreateLens(ctx context.Context, req *CreateLensRequest) (*Lens, error) {
	id := req.ID
	if id == "" {
		id = s.node.Generate().String()
	}

	if exist, err := s.lenses.FindOne(ctx, &Lens{ID: id}); err != nil {
		return nil, err
	} else if exist != nil {
		return nil, errutil.Conflict("lens already exists", nil)
	}

	category := req.Category
	if category == "" {
		category = "all"
	}

	record := &Lens{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Creator:     req.Creator,
		SnapLensID:  req.SnapLensID,
		SnapGroupID: req.SnapGroupID,
		Category:    category,
		IsActive:    true,
	}

	if err := s.lenses.Create(ctx, record); err != nil {
		zap.L().Error("failed to create lens", zap.String("lens_id", id), zap.Error(err))
		return nil, err
	}

	return record, nil
}

func (s *Service) GetLens(ctx context.Context, id string) (*Lens, error) {
	record, err := s.lenses.FindOne(ctx, &Lens{ID: id})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errutil.NotFound("lens not found", nil)
	}
	return record, nil
}

func (s *Service) ListLenses(ctx context.Context, category, creator string) ([]*Lens, error) {
	query := &Lens{IsActive: true}
	if category != "" && category != "all" {
		query.Category = category
	}
	if creator != "" {
		query.Creator = creator
	}

	return s.lenses.Find(ctx, query, option.WithSortBy(option.QuerySortBy{
		SortBy:  "created_at",
		OrderBy: "desc",
		Allow:   map[string]bool{"created_at": true},
	}))
}

// CreatorOf resolves the owning creator name for a lens. Used by the
// interaction aggregator join.
func (s *Service) CreatorOf(ctx context.Context, lensID string) (string, error) {
	record, err := s.GetLens(ctx, lensID)
	if err != nil {
		return "", err
	}
	return record.Creator, nil
}

func (s *Service) createLensHandler(c *gin.Context) {
	var req CreateLensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.ValidationFailed("invalid lens payload", err))
		return
	}

	record, err := s.CreateLens(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lens": record})
}

func (s *Service) getLensHandler(c *gin.Context) {
	record, err := s.GetLens(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lens": record})
}

func (s *Service) listLensesHandler(c *gin.Context) {
	records, err := s.ListLenses(c.Request.Context(), c.Query("category"), c.Query("creator"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lenses": records})
}
