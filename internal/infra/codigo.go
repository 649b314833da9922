package infra

import (
	"strings"

	"github.com/bwmarrin/snowflake"
)

// GeneradorCodigos issues the human-readable order codes shown to customers.
// Codes are snowflake IDs in upper-case base36, unique per node.
type GeneradorCodigos struct {
	node *snowflake.Node
}

func NewGeneradorCodigos(nodoID int64) (*GeneradorCodigos, error) {
	node, err := snowflake.NewNode(nodoID)
	if err != nil {
		return nil, err
	}
	return &GeneradorCodigos{node: node}, nil
}

func (g *GeneradorCodigos) Nuevo() string {
	return strings.ToUpper(g.node.Generate().Base36())
}
