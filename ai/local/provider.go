package local

import (
	"fmt"
	"log/slog"

	"github.com/poiesic/kbsearch/ai"
)

// Provider is the local variant. It is always ready and has no generator.
type Provider struct {
	embedder *HashEmbedder
	logger   *slog.Logger
}

var _ ai.AIProvider = (*Provider)(nil)

// NewProvider creates the local provider using config.Dimension.
func NewProvider(config *ai.Config) (*Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Provider{
		embedder: NewHashEmbedder(config.Dimension),
		logger:   slog.Default().With("component", "local-provider"),
	}, nil
}

func (p *Provider) Kind() ai.Kind {
	return ai.KindLocal
}

// ModelID returns ai.LocalModelID. A non-default dimension is appended as
// "/<dim>" so that vectors of different lengths never share a model ID.
func (p *Provider) ModelID() string {
	if p.embedder.Dimension() == ai.DefaultDimension {
		return ai.LocalModelID
	}
	return fmt.Sprintf("%s/%d", ai.LocalModelID, p.embedder.Dimension())
}

func (p *Provider) Ready() bool {
	return true
}

func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

func (p *Provider) Generator() ai.Generator {
	return nil
}

func (p *Provider) Close() error {
	p.logger.Debug("closing local provider")
	return nil
}
