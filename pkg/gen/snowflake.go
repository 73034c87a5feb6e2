package gen

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

// Module provides the shared snowflake node all services draw IDs from.
var Module = fx.Module("gen", fx.Provide(NewSnowflakeNode))

func NewSnowflakeNode() (*snowflake.Node, error) {
	// TODO: derive the node ID from the deployment topology once there is
	// more than one instance writing IDs.
	return snowflake.NewNode(1)
}
