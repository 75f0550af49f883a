package osmparser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"go.uber.org/zap"
)

var (
	ErrPlaceNotFound          = errors.New("no openstreetmap extract configured for place")
	ErrUnsupportedNetworkType = errors.New("unsupported network type")
	ErrUnknownRetainMode      = errors.New("unknown component retain mode")
)

const (
	// RETAIN_ALL keeps every parsed vertex.
	RETAIN_ALL = "all"
	// RETAIN_WEAK keeps the largest weakly connected component.
	RETAIN_WEAK = "weak"
	// RETAIN_STRONG keeps the largest strongly connected component, every vertex reaches every other.
	RETAIN_STRONG = "strong"
)

// Provider loads a fresh road graph for a place name from the extract configured for it.
type Provider struct {
	logger  *zap.Logger
	places  map[string]string
	timeout time.Duration
	retain  string
}

type ProviderOption func(*Provider)

func WithRetain(mode string) ProviderOption {
	return func(p *Provider) {
		p.retain = mode
	}
}

// NewProvider. places maps a place name, compared case-insensitively, to an .osm.pbf or .osm file. By default
// only the largest weakly connected component of a graph is kept.
func NewProvider(places map[string]string, timeout time.Duration, logger *zap.Logger, opts ...ProviderOption) *Provider {
	normalized := make(map[string]string, len(places))
	for place, file := range places {
		normalized[normalizePlace(place)] = file
	}
	p := &Provider{
		logger:  logger,
		places:  normalized,
		timeout: timeout,
		retain:  RETAIN_WEAK,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func normalizePlace(place string) string {
	return strings.ToLower(strings.TrimSpace(place))
}

func (p *Provider) HasPlace(place string) bool {
	_, ok := p.places[normalizePlace(place)]
	return ok
}

// GraphForPlace parses the extract of place on every call. The returned graph is owned by the caller.
func (p *Provider) GraphForPlace(ctx context.Context, place, networkType string) (*datastructure.Graph, error) {
	if networkType != NETWORK_DRIVE && networkType != NETWORK_ALL {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedNetworkType, networkType)
	}
	if p.retain != RETAIN_ALL && p.retain != RETAIN_WEAK && p.retain != RETAIN_STRONG {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRetainMode, p.retain)
	}
	mapFile, ok := p.places[normalizePlace(place)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlaceNotFound, place)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	p.logger.Info("loading road graph", zap.String("place", place), zap.String("file", mapFile))
	graph, err := NewOSMParser(networkType, p.logger).Parse(ctx, mapFile)
	if err != nil {
		return nil, fmt.Errorf("load graph for %q: %w", place, err)
	}
	return p.retainComponent(graph), nil
}

func (p *Provider) retainComponent(graph *datastructure.Graph) *datastructure.Graph {
	var components [][]datastructure.Index
	switch p.retain {
	case RETAIN_WEAK:
		components = graph.WeaklyConnectedComponents()
	case RETAIN_STRONG:
		components = graph.StronglyConnectedComponents()
	default:
		return graph
	}
	if len(components) <= 1 {
		return graph
	}

	largest := datastructure.LargestComponent(components)
	pruned := graph.InducedSubgraph(largest)
	p.logger.Info("kept largest connected component",
		zap.String("retain", p.retain),
		zap.Int("components", len(components)),
		zap.Int("dropped_vertices", graph.NumberOfVertices()-pruned.NumberOfVertices()),
	)
	return pruned
}
