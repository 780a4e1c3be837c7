package kv

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

// graphNode and graphEdge are the flat encodable forms of the road graph.
type graphNode struct {
	ID   int64
	X, Y float64
}

type graphEdge struct {
	From       int64
	To         int64
	StreetName string
	Dist       float64
	RoadClass  string
	MaxSpeed   string
}

type graphBlob struct {
	Nodes []graphNode
	Edges []graphEdge
}

func encodeGraph(blob graphBlob) ([]byte, error) {
	return binary.Marshal(blob)
}

func decodeGraph(bb []byte) (graphBlob, error) {
	var blob graphBlob
	err := binary.Unmarshal(bb, &blob)
	return blob, err
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}
