package osmparser

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleOsm = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="45.0350" lon="38.9750"/>
  <node id="2" lat="45.0360" lon="38.9750"/>
  <node id="3" lat="45.0370" lon="38.9750"/>
  <node id="4" lat="45.0370" lon="38.9770"/>
  <node id="5" lat="45.0380" lon="38.9770"/>
  <node id="6" lat="45.0390" lon="38.9770"/>
  <way id="100">
    <nd ref="1"/>
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="residential"/>
    <tag k="name" v="Krasnaya"/>
  </way>
  <way id="101">
    <nd ref="3"/>
    <nd ref="4"/>
    <tag k="highway" v="primary"/>
    <tag k="oneway" v="yes"/>
  </way>
  <way id="102">
    <nd ref="4"/>
    <nd ref="5"/>
    <tag k="highway" v="footway"/>
  </way>
  <way id="103">
    <nd ref="5"/>
    <nd ref="6"/>
    <tag k="highway" v="service"/>
    <tag k="oneway" v="-1"/>
  </way>
</osm>`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "krasnodar.osm")
	require.NoError(t, os.WriteFile(path, []byte(sampleOsm), 0o644))
	return path
}

func vertexOf(t *testing.T, g *datastructure.Graph, osmID int64) datastructure.Index {
	t.Helper()
	id, ok := g.GetVertexByOsmID(osmID)
	require.True(t, ok, "osm node %d", osmID)
	return id
}

func TestParseDriveNetwork(t *testing.T) {
	path := writeSample(t)

	g, err := NewOSMParser(NETWORK_DRIVE, zap.NewNop()).Parse(context.Background(), path)
	require.NoError(t, err)

	// footway 102 is dropped, node 2 lies between way ends and is not a vertex.
	assert.Equal(t, 5, g.NumberOfVertices())
	assert.Equal(t, 4, g.NumberOfEdges())

	_, ok := g.GetVertexByOsmID(2)
	assert.False(t, ok)

	n1, n3, n4 := vertexOf(t, g, 1), vertexOf(t, g, 3), vertexOf(t, g, 4)
	n5, n6 := vertexOf(t, g, 5), vertexOf(t, g, 6)
	assert.Equal(t, datastructure.Index(0), n1)

	assert.True(t, g.HasEdge(n1, n3))
	assert.True(t, g.HasEdge(n3, n1))
	assert.True(t, g.HasEdge(n3, n4))
	assert.False(t, g.HasEdge(n4, n3))
	assert.False(t, g.HasEdge(n4, n5))
	assert.True(t, g.HasEdge(n6, n5))
	assert.False(t, g.HasEdge(n5, n6))

	e, ok := g.GetEdge(datastructure.NewEdgeKey(n1, n3, 0))
	require.True(t, ok)
	// 0.002 degree of latitude is about 222 meters.
	assert.InDelta(t, 222.4, e.GetLength(), 1.0)
	assert.Equal(t, int64(100), e.GetOsmWayID())
}

func TestParseAllNetworkKeepsFootways(t *testing.T) {
	path := writeSample(t)

	g, err := NewOSMParser(NETWORK_ALL, zap.NewNop()).Parse(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, g.HasEdge(vertexOf(t, g, 4), vertexOf(t, g, 5)))
	assert.True(t, g.HasEdge(vertexOf(t, g, 4), vertexOf(t, g, 3)))
}

func TestProviderGraphForPlace(t *testing.T) {
	path := writeSample(t)
	p := NewProvider(map[string]string{"Krasnodar, Russia": path}, 0, zap.NewNop(), WithRetain(RETAIN_ALL))

	g, err := p.GraphForPlace(context.Background(), "krasnodar, russia", NETWORK_DRIVE)
	require.NoError(t, err)
	assert.Equal(t, 5, g.NumberOfVertices())

	// every call returns a fresh graph.
	g2, err := p.GraphForPlace(context.Background(), "Krasnodar, Russia", NETWORK_DRIVE)
	require.NoError(t, err)
	require.NoError(t, g.SetCustomWeight(datastructure.NewEdgeKey(0, 1, 0), 1000))
	e, _ := g2.GetEdge(datastructure.NewEdgeKey(0, 1, 0))
	_, set := e.GetCustomWeight()
	assert.False(t, set)

	_, err = p.GraphForPlace(context.Background(), "Moscow", NETWORK_DRIVE)
	assert.ErrorIs(t, err, ErrPlaceNotFound)

	_, err = p.GraphForPlace(context.Background(), "Krasnodar, Russia", "bike")
	assert.ErrorIs(t, err, ErrUnsupportedNetworkType)
}

func TestParseRejectsUnknownFormat(t *testing.T) {
	_, err := NewOSMParser(NETWORK_DRIVE, zap.NewNop()).Parse(context.Background(), "map.geojson")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestProviderRetainsLargestComponent(t *testing.T) {
	path := writeSample(t)

	tests := []struct {
		retain       string
		wantVertices int
		wantOsmIDs   []int64
	}{
		{retain: RETAIN_ALL, wantVertices: 5, wantOsmIDs: []int64{1, 3, 4, 5, 6}},
		// footway 102 is dropped, 5 and 6 form their own component.
		{retain: RETAIN_WEAK, wantVertices: 3, wantOsmIDs: []int64{1, 3, 4}},
		// 3 -> 4 is oneway, 4 cannot reach back.
		{retain: RETAIN_STRONG, wantVertices: 2, wantOsmIDs: []int64{1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.retain, func(t *testing.T) {
			p := NewProvider(map[string]string{"Krasnodar, Russia": path}, 0, zap.NewNop(), WithRetain(tt.retain))
			g, err := p.GraphForPlace(context.Background(), "Krasnodar, Russia", NETWORK_DRIVE)
			require.NoError(t, err)
			assert.Equal(t, tt.wantVertices, g.NumberOfVertices())
			for _, id := range tt.wantOsmIDs {
				vertexOf(t, g, id)
			}
		})
	}

	p := NewProvider(map[string]string{"Krasnodar, Russia": path}, 0, zap.NewNop(), WithRetain("biggest"))
	_, err := p.GraphForPlace(context.Background(), "Krasnodar, Russia", NETWORK_DRIVE)
	assert.ErrorIs(t, err, ErrUnknownRetainMode)
}

// 10 and 13 are junctions shared with the crossing ways, 11 and 12 are shape points.
const junctionOsm = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="10" lat="45.0300" lon="38.9700"/>
  <node id="11" lat="45.0310" lon="38.9700"/>
  <node id="12" lat="45.0320" lon="38.9700"/>
  <node id="13" lat="45.0330" lon="38.9700"/>
  <node id="20" lat="45.0300" lon="38.9680"/>
  <node id="21" lat="45.0300" lon="38.9720"/>
  <node id="30" lat="45.0330" lon="38.9680"/>
  <node id="31" lat="45.0330" lon="38.9720"/>
  <node id="40" lat="45.0340" lon="38.9710"/>
  <node id="41" lat="45.0350" lon="38.9710"/>
  <way id="200">
    <nd ref="10"/>
    <nd ref="11"/>
    <nd ref="12"/>
    <nd ref="13"/>
    <tag k="highway" v="residential"/>
  </way>
  <way id="201">
    <nd ref="20"/>
    <nd ref="10"/>
    <nd ref="21"/>
    <tag k="highway" v="residential"/>
  </way>
  <way id="202">
    <nd ref="30"/>
    <nd ref="13"/>
    <nd ref="31"/>
    <tag k="highway" v="residential"/>
  </way>
  <way id="203">
    <nd ref="31"/>
    <nd ref="40"/>
    <nd ref="41"/>
    <nd ref="31"/>
    <tag k="highway" v="residential"/>
    <tag k="oneway" v="yes"/>
  </way>
</osm>`

func TestBuildGraphSplitsWaysAtJunctions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junctions.osm")
	require.NoError(t, os.WriteFile(path, []byte(junctionOsm), 0o644))

	g, err := NewOSMParser(NETWORK_DRIVE, zap.NewNop()).Parse(context.Background(), path)
	require.NoError(t, err)

	for _, shape := range []int64{11, 12, 40} {
		_, ok := g.GetVertexByOsmID(shape)
		assert.False(t, ok, "osm node %d", shape)
	}

	j1, j2 := vertexOf(t, g, 10), vertexOf(t, g, 13)
	require.True(t, g.HasEdge(j1, j2))
	require.True(t, g.HasEdge(j2, j1))
	assert.Len(t, g.GetParallelEdges(j1, j2), 1)

	e, ok := g.GetEdge(datastructure.NewEdgeKey(j1, j2, 0))
	require.True(t, ok)
	// three 0.001 degree latitude steps.
	assert.InDelta(t, 333.6, e.GetLength(), 1.5)
	assert.Equal(t, int64(200), e.GetOsmWayID())

	// crossing ways are split at the junction too.
	assert.True(t, g.HasEdge(vertexOf(t, g, 20), j1))
	assert.True(t, g.HasEdge(j1, vertexOf(t, g, 21)))
	assert.False(t, g.HasEdge(vertexOf(t, g, 20), vertexOf(t, g, 21)))

	// the closed oneway loop 31-40-41-31 is cut before its last node instead of becoming a self edge.
	n31, n41 := vertexOf(t, g, 31), vertexOf(t, g, 41)
	assert.False(t, g.HasEdge(n31, n31))
	assert.True(t, g.HasEdge(n31, n41))
	assert.True(t, g.HasEdge(n41, n31))
	assert.False(t, g.HasEdge(n41, n41))
}

func TestBuildGraphReportsBrokenSegment(t *testing.T) {
	p := NewOSMParser(NETWORK_DRIVE, zap.NewNop())
	p.ways = []osmWay{{id: 300, nodes: []int64{1, 2}, forward: true, backward: true}}
	p.wayNodeMap = map[int64]nodeType{1: END_NODE, 2: END_NODE}
	p.acceptedNodeMap = map[int64]nodeCoord{
		1: {lat: 45.03, lon: 38.97},
		2: {lat: math.NaN(), lon: 38.97},
	}

	_, err := p.BuildGraph()
	assert.ErrorIs(t, err, datastructure.ErrNegativeLength)
	assert.ErrorContains(t, err, "way 300")
}
