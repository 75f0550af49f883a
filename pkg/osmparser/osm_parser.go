package osmparser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported openstreetmap extract format")

type nodeType uint8

const (
	END_NODE nodeType = iota + 1
	BETWEEN_NODE
	JUNCTION_NODE
)

type nodeCoord struct {
	lat float64
	lon float64
}

type osmWay struct {
	id       int64
	nodes    []int64
	forward  bool
	backward bool
}

// OsmParser builds a road graph from an OpenStreetMap extract in two scans: ways first, to learn which
// nodes are needed and which of them are junctions, then nodes.
type OsmParser struct {
	logger          *zap.Logger
	networkType     string
	ways            []osmWay
	wayNodeMap      map[int64]nodeType
	acceptedNodeMap map[int64]nodeCoord
}

func NewOSMParser(networkType string, logger *zap.Logger) *OsmParser {
	return &OsmParser{
		logger:          logger,
		networkType:     networkType,
		wayNodeMap:      make(map[int64]nodeType),
		acceptedNodeMap: make(map[int64]nodeCoord),
	}
}

type scannerFactory func(ctx context.Context, r io.Reader) osm.Scanner

func scannerFor(mapFile string) (scannerFactory, error) {
	name := strings.ToLower(mapFile)
	switch {
	case strings.HasSuffix(name, ".osm.pbf") || strings.HasSuffix(name, ".pbf"):
		return func(ctx context.Context, r io.Reader) osm.Scanner {
			return osmpbf.New(ctx, r, 1)
		}, nil
	case strings.HasSuffix(name, ".osm") || strings.HasSuffix(name, ".xml"):
		return func(ctx context.Context, r io.Reader) osm.Scanner {
			return osmxml.New(ctx, r)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(mapFile))
	}
}

func (p *OsmParser) Parse(ctx context.Context, mapFile string) (*datastructure.Graph, error) {
	newScanner, err := scannerFor(mapFile)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := p.scanWays(newScanner(ctx, f)); err != nil {
		return nil, err
	}

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if err := p.scanNodes(newScanner(ctx, f)); err != nil {
		return nil, err
	}

	graph, err := p.BuildGraph()
	if err != nil {
		return nil, err
	}
	p.logger.Info("road graph built",
		zap.String("file", filepath.Base(mapFile)),
		zap.String("network_type", p.networkType),
		zap.Int("ways", len(p.ways)),
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()),
	)
	return graph, nil
}

func (p *OsmParser) scanWays(scanner osm.Scanner) error {
	// must not be parallel
	defer scanner.Close()

	countWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || len(way.Nodes) < 2 || !acceptOsmWay(way, p.networkType) {
			continue
		}
		if (countWays+1)%50000 == 0 {
			p.logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
		}
		countWays++

		forward, backward := wayDirection(way)
		if p.networkType == NETWORK_ALL {
			forward, backward = true, true
		}
		nodes := make([]int64, 0, len(way.Nodes))
		for i, n := range way.Nodes {
			id := int64(n.ID)
			nodes = append(nodes, id)
			if _, ok := p.wayNodeMap[id]; !ok {
				if i == 0 || i == len(way.Nodes)-1 {
					p.wayNodeMap[id] = END_NODE
				} else {
					p.wayNodeMap[id] = BETWEEN_NODE
				}
			} else {
				p.wayNodeMap[id] = JUNCTION_NODE
			}
		}
		p.ways = append(p.ways, osmWay{
			id:       int64(way.ID),
			nodes:    nodes,
			forward:  forward,
			backward: backward,
		})
	}
	return scanner.Err()
}

func (p *OsmParser) scanNodes(scanner osm.Scanner) error {
	defer scanner.Close()

	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, used := p.wayNodeMap[int64(node.ID)]; used {
			p.acceptedNodeMap[int64(node.ID)] = nodeCoord{lat: node.Lat, lon: node.Lon}
		}
	}
	return scanner.Err()
}

func (p *OsmParser) isJunctionNode(nodeID int64) bool {
	return p.wayNodeMap[nodeID] == JUNCTION_NODE
}

// BuildGraph splits every accepted way at its junction nodes and adds one edge per segment, in way
// order. Only segment endpoints become vertices; an edge's length is the sum of its s2 segment
// lengths. Vertex indices follow first appearance. A node missing from the extract cuts the way.
func (p *OsmParser) BuildGraph() (*datastructure.Graph, error) {
	graph := datastructure.NewGraphWithSize(len(p.acceptedNodeMap))

	for _, way := range p.ways {
		waySegment := make([]int64, 0, len(way.nodes))
		for _, nodeID := range way.nodes {
			if _, ok := p.acceptedNodeMap[nodeID]; !ok {
				if err := p.processSegment(graph, way, waySegment); err != nil {
					return nil, err
				}
				waySegment = waySegment[:0]
				continue
			}

			waySegment = append(waySegment, nodeID)
			if p.isJunctionNode(nodeID) && len(waySegment) > 1 {
				if err := p.processSegment(graph, way, waySegment); err != nil {
					return nil, err
				}
				waySegment = append(waySegment[:0], nodeID)
			}
		}
		if err := p.processSegment(graph, way, waySegment); err != nil {
			return nil, err
		}
	}
	return graph, nil
}

func (p *OsmParser) processSegment(graph *datastructure.Graph, way osmWay, segment []int64) error {
	switch {
	case len(segment) < 2:
		return nil
	case len(segment) == 2 && segment[0] == segment[1]:
		return nil
	case segment[0] == segment[len(segment)-1]:
		// loop, split before its last node so it does not become a self edge.
		if err := p.addEdge(graph, way, segment[:len(segment)-1]); err != nil {
			return err
		}
		return p.addEdge(graph, way, segment[len(segment)-2:])
	default:
		return p.addEdge(graph, way, segment)
	}
}

func (p *OsmParser) addEdge(graph *datastructure.Graph, way osmWay, segment []int64) error {
	length := 0.0
	for i := 0; i+1 < len(segment); i++ {
		a, b := p.acceptedNodeMap[segment[i]], p.acceptedNodeMap[segment[i+1]]
		length += geo.SegmentLengthMeter(a.lat, a.lon, b.lat, b.lon)
	}

	fromID, toID := segment[0], segment[len(segment)-1]
	fromCoord, toCoord := p.acceptedNodeMap[fromID], p.acceptedNodeMap[toID]
	from := graph.AddOsmVertex(fromID, fromCoord.lat, fromCoord.lon)
	to := graph.AddOsmVertex(toID, toCoord.lat, toCoord.lon)

	if way.forward {
		if _, err := graph.AddWayEdge(from, to, length, way.id); err != nil {
			return fmt.Errorf("way %d: %w", way.id, err)
		}
	}
	if way.backward {
		if _, err := graph.AddWayEdge(to, from, length, way.id); err != nil {
			return fmt.Errorf("way %d: %w", way.id, err)
		}
	}
	return nil
}
