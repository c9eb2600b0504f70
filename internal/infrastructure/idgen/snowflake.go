// Package idgen issues financial transaction references from a snowflake node.
package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// ReferencePrefix starts every transaction reference
const ReferencePrefix = "FT-"

// SnowflakeReferences produces time-ordered references such as FT-1773241532417314816.
// Each running instance needs its own node ID.
type SnowflakeReferences struct {
	node *snowflake.Node
}

// NewSnowflakeReferences creates a generator for nodeID (0 to 1023)
func NewSnowflakeReferences(nodeID int64) (*SnowflakeReferences, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node %d: %w", nodeID, err)
	}
	return &SnowflakeReferences{node: node}, nil
}

// NextReference returns a new unique reference
func (g *SnowflakeReferences) NextReference() string {
	return ReferencePrefix + g.node.Generate().String()
}
