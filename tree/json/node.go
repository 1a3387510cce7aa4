package json

import (
	"encoding/json"
	"fmt"

	"github.com/pmoros/arbol/feature"
	"github.com/pmoros/arbol/tree"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {

	//Encode receives a *tree.Node
	//and returns a slice of bytes with the node
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Node) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Node decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Node, error)
}

type nodeEncodeDecoder struct {
	schema *feature.Schema
}

type node struct {
	ID         string          `json:"id"`
	ParentID   string          `json:"pId,omitempty"`
	LeftID     string          `json:"lId,omitempty"`
	RightID    string          `json:"rId,omitempty"`
	Depth      int             `json:"d"`
	Criterion  *jsonCriterion  `json:"c,omitempty"`
	Prediction *jsonPrediction `json:"pred,omitempty"`
}

type jsonCriterion struct {
	Column     int      `json:"col"`
	Threshold  *float64 `json:"t,omitempty"`
	Categories []int    `json:"cats,omitempty"`
}

type jsonPrediction struct {
	Probabilities map[int]float64 `json:"probs,omitempty"`
	Mean          *float64        `json:"mean,omitempty"`
	Variance      float64         `json:"var,omitempty"`
	Weight        int             `json:"w,omitempty"`
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder that resolves the
features referenced by nodes' criteria against the given schema.
*/
func NewNodeEncodeDecoder(schema *feature.Schema) NodeEncodeDecoder {
	return &nodeEncodeDecoder{schema}
}

func (ned *nodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	jn := &node{
		ID:       n.ID,
		ParentID: n.ParentID,
		LeftID:   n.LeftID,
		RightID:  n.RightID,
		Depth:    n.Depth,
	}
	if n.Criterion != nil {
		jc, err := encodeCriterion(n.Criterion)
		if err != nil {
			return nil, err
		}
		jn.Criterion = jc
	}
	if n.Prediction != nil {
		jn.Prediction = encodePrediction(n.Prediction)
	}
	return json.Marshal(jn)
}

func (ned *nodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	n := &tree.Node{
		ID:       jn.ID,
		ParentID: jn.ParentID,
		LeftID:   jn.LeftID,
		RightID:  jn.RightID,
		Depth:    jn.Depth,
	}
	if jn.Criterion != nil {
		n.Criterion, err = ned.decodeCriterion(jn.Criterion)
		if err != nil {
			return nil, fmt.Errorf("unmarshalling node %v: %v", n.ID, err)
		}
	}
	if jn.Prediction != nil {
		n.Prediction = decodePrediction(jn.Prediction)
	}
	return n, nil
}

func encodeCriterion(c feature.Criterion) (*jsonCriterion, error) {
	switch c := c.(type) {
	case feature.ContinuousCriterion:
		t := c.Threshold()
		return &jsonCriterion{Column: c.Column(), Threshold: &t}, nil
	case feature.CategoricalCriterion:
		return &jsonCriterion{Column: c.Column(), Categories: c.Categories()}, nil
	}
	return nil, fmt.Errorf("unknown criterion type %T", c)
}

func (ned *nodeEncodeDecoder) decodeCriterion(jc *jsonCriterion) (feature.Criterion, error) {
	f := ned.schema.Column(jc.Column)
	if f == nil {
		return nil, fmt.Errorf("criterion references unknown column %d", jc.Column)
	}
	switch f := f.(type) {
	case *feature.ContinuousFeature:
		if jc.Threshold == nil {
			return nil, fmt.Errorf("criterion on numeric column %d has no threshold", jc.Column)
		}
		return feature.NewContinuousCriterion(f, jc.Column, *jc.Threshold), nil
	case *feature.CategoricalFeature:
		if len(jc.Categories) == 0 {
			return nil, fmt.Errorf("criterion on categorical column %d has no categories", jc.Column)
		}
		return feature.NewCategoricalCriterion(f, jc.Column, jc.Categories), nil
	}
	return nil, fmt.Errorf("unknown feature type %T for column %d", f, jc.Column)
}

func encodePrediction(p *tree.Prediction) *jsonPrediction {
	if p.Kind() == feature.Numeric {
		mean := p.Mean()
		return &jsonPrediction{Mean: &mean, Variance: p.Variance(), Weight: p.Weight()}
	}
	return &jsonPrediction{Probabilities: p.Probabilities(), Weight: p.Weight()}
}

func decodePrediction(jp *jsonPrediction) *tree.Prediction {
	if jp.Mean != nil {
		return tree.NewRegressionPrediction(*jp.Mean, jp.Variance, jp.Weight)
	}
	return tree.NewClassificationPrediction(jp.Probabilities, jp.Weight)
}
