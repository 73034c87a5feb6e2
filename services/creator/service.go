package creator

import (
	"context"
	"net/http"
	"regexp"

	"lenz-rewards/pkg/errutil"
	"lenz-rewards/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

type Service struct {
	db       *gorm.DB
	node     *snowflake.Node
	creators repository.Repository[Creator]
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		node:     p.Node,
		creators: repository.ProvideStore[Creator](p.DB),
	}
}

// PayoutAddress resolves a creator name to its registered payout address.
// The lookup fails closed: no mapping or an empty address is an error, so an
// unmapped creator drops out of a reward run instead of being paid to a
// shared default.
func (s *Service) PayoutAddress(ctx context.Context, name string) (string, error) {
	record, err := s.creators.FindOne(ctx, &Creator{Name: name, IsActive: true})
	if err != nil {
		return "", err
	}

	if record == nil || record.PayoutAddress == "" {
		return "", errutil.NotFound("no payout address registered for creator", nil)
	}

	return record.PayoutAddress, nil
}

type UpsertAddressRequest struct {
	PayoutAddress string `json:"payout_address" binding:"required"`
}

// UpsertAddress registers or replaces the payout address for a creator name.
func (s *Service) UpsertAddress(ctx context.Context, name, address string) (*Creator, error) {
	if !addressPattern.MatchString(address) {
		return nil, errutil.ValidationFailed("payout address must be a 0x-prefixed 20-byte hex address", nil)
	}

	record, err := s.creators.FindOne(ctx, &Creator{Name: name})
	if err != nil {
		return nil, err
	}

	if record == nil {
		record = &Creator{
			ID:            s.node.Generate().String(),
			Name:          name,
			PayoutAddress: address,
			IsActive:      true,
		}
		if err := s.creators.Create(ctx, record); err != nil {
			return nil, err
		}

		zap.L().Info("registered creator payout address", zap.String("creator", name))
		return record, nil
	}

	if err := s.creators.Update(ctx, record.ID, &Creator{PayoutAddress: address, IsActive: true}); err != nil {
		return nil, err
	}

	record.PayoutAddress = address
	record.IsActive = true
	return record, nil
}

func (s *Service) List(ctx context.Context) ([]*Creator, error) {
	return s.creators.Find(ctx, &Creator{IsActive: true})
}

func (s *Service) upsertAddressHandler(c *gin.Context) {
	var req UpsertAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.ValidationFailed("invalid creator payload", err))
		return
	}

	record, err := s.UpsertAddress(c.Request.Context(), c.Param("name"), req.PayoutAddress)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"creator": record})
}

func (s *Service) listHandler(c *gin.Context) {
	records, err := s.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"creators": records})
}
