package interaction

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"lenz-rewards/pkg/db/option"
	"lenz-rewards/pkg/errutil"
	"lenz-rewards/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db           *gorm.DB
	node         *snowflake.Node
	interactions repository.Repository[Interaction]
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:           p.DB,
		node:         p.Node,
		interactions: repository.ProvideStore[Interaction](p.DB),
	}
}

type TrackRequest struct {
	LensID   string          `json:"lens_id" binding:"required"`
	UserID   string          `json:"user_id"`
	Kind     Kind            `json:"kind" binding:"required"`
	Metadata json.RawMessage `json:"metadata"`
}

// Track appends one interaction fact. Lens existence is deliberately not
// checked here; the reward aggregation joins against the lens registry and
// orphan rows fall out of the join.
func (s *Service) Track(ctx context.Context, req *TrackRequest) (*Interaction, error) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	if !req.Kind.Valid() {
		return nil, errutil.ValidationFailed("unsupported interaction kind", nil)
	}

	record := &Interaction{
		ID:       s.node.Generate().String(),
		LensID:   req.LensID,
		UserID:   req.UserID,
		Kind:     req.Kind,
		Metadata: datatypes.JSON(req.Metadata),
	}

	if err := s.interactions.Create(ctx, record); err != nil {
		zap.L().Error("failed to track interaction",
			zap.String("lens_id", req.LensID),
			zap.String("kind", string(req.Kind)),
			zap.Error(err),
		)
		return nil, err
	}

	return record, nil
}

// Recent returns interactions for one lens, or all interactions inside the
// last N days when no lens is given.
func (s *Service) Recent(ctx context.Context, lensID string, days int) ([]*Interaction, error) {
	sort := option.WithSortBy(option.QuerySortBy{
		SortBy:  "created_at",
		OrderBy: "desc",
		Allow:   map[string]bool{"created_at": true},
	})

	if lensID != "" {
		return s.interactions.Find(ctx, &Interaction{LensID: lensID}, sort)
	}

	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	return s.interactions.Find(ctx, &Interaction{},
		option.ApplyOperator(option.Condition{Field: "created_at", Operator: option.GTE, Value: since}),
		sort,
	)
}

func (s *Service) trackHandler(c *gin.Context) {
	var req TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.ValidationFailed("invalid interaction payload", err))
		return
	}

	record, err := s.Track(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"interaction": record})
}

func (s *Service) listHandler(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	records, err := s.Recent(c.Request.Context(), c.Query("lens_id"), days)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"interactions": records})
}
