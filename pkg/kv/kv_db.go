// Package kv caches the parsed road graph in a badger key-value store so
// the openstreetmap extract only has to be parsed once. The graph is
// flattened, binary encoded and zstd compressed into a single entry.
package kv

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/madnav/madnav/pkg/datastructure"
)

const roadGraphKey = "road_graph"

var ErrGraphNotFound = errors.New("road graph not found in kv store")

type KVDB struct {
	db *badger.DB
}

func NewKVDB(db *badger.DB) *KVDB {
	return &KVDB{db}
}

func (k *KVDB) Close() error {
	return k.db.Close()
}

// SaveGraph persists g, replacing any previously cached graph.
func (k *KVDB) SaveGraph(g *datastructure.Graph[int64]) error {
	blob := flattenGraph(g)
	bb, err := encodeGraph(blob)
	if err != nil {
		return fmt.Errorf("encode road graph: %w", err)
	}
	compressed, err := compress(bb)
	if err != nil {
		return fmt.Errorf("compress road graph: %w", err)
	}

	return k.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(roadGraphKey), compressed)
	})
}

// LoadGraph rebuilds the cached graph, or reports ErrGraphNotFound when
// nothing was saved yet.
func (k *KVDB) LoadGraph() (*datastructure.Graph[int64], error) {
	var compressed []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(roadGraphKey))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrGraphNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read road graph: %w", err)
	}

	bb, err := decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress road graph: %w", err)
	}
	blob, err := decodeGraph(bb)
	if err != nil {
		return nil, fmt.Errorf("decode road graph: %w", err)
	}
	return unflattenGraph(blob)
}

func flattenGraph(g *datastructure.Graph[int64]) graphBlob {
	blob := graphBlob{
		Nodes: make([]graphNode, 0, g.NumNodes()),
		Edges: make([]graphEdge, 0, g.NumEdges()),
	}
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		blob.Nodes = append(blob.Nodes, graphNode{ID: n.ID, X: n.X, Y: n.Y})
	}
	for _, e := range g.Edges() {
		attrs, _ := g.EdgeBetween(e[0], e[1])
		blob.Edges = append(blob.Edges, graphEdge{
			From:       e[0],
			To:         e[1],
			StreetName: attrs.StreetName,
			Dist:       attrs.Dist,
			RoadClass:  attrs.RoadClass,
			MaxSpeed:   attrs.MaxSpeed,
		})
	}
	return blob
}

func unflattenGraph(blob graphBlob) (*datastructure.Graph[int64], error) {
	g := datastructure.NewGraph[int64]()
	for _, n := range blob.Nodes {
		g.AddNode(n.ID, n.X, n.Y)
	}
	for _, e := range blob.Edges {
		attrs := datastructure.NewEdgeAttributes(e.StreetName, e.Dist, e.RoadClass, e.MaxSpeed)
		if err := g.AddEdge(e.From, e.To, attrs); err != nil {
			return nil, fmt.Errorf("rebuild edge (%d, %d): %w", e.From, e.To, err)
		}
	}
	return g, nil
}
