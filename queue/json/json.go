/*
Package json provides a task codec that serializes tasks as JSON, so
that queue implementations with an external backend can store them.
*/
package json

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pmoros/arbol/dataset"
	"github.com/pmoros/arbol/queue"
	"github.com/pmoros/arbol/tree"
)

/*
TaskEncodeDecoder is an interface for objects
that allow encoding tasks as slices of bytes and decoding
them back to tasks. It is used to serialize tasks into a
representation to store on redis.
*/
type TaskEncodeDecoder interface {

	//Encode receives a *queue.Task
	//and returns a slice of bytes with the task encoded or an
	//error if the encoding could not be performed for
	//some reason.
	Encode(context.Context, *queue.Task) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *queue.Task decoded from the slice of bytes
	//or an error if the decoding could not be performed
	//for some reason.
	Decode(context.Context, []byte) (*queue.Task, error)
}

type jsonEncodeDecoder struct {
	ns tree.NodeStore
}

type jsonTask struct {
	NodeID string `json:"id"`
	Subset []int  `json:"sub"`
}

/*
New takes a tree.NodeStore and returns a TaskEncodeDecoder that
serializes a task as its node's ID and its row subset. The node
itself is resolved against the given node store when decoding:
workers sharing a queue must share the node store too, as well as
the training table the subsets index into.
*/
func New(ns tree.NodeStore) TaskEncodeDecoder {
	return &jsonEncodeDecoder{ns}
}

func (jed *jsonEncodeDecoder) Encode(ctx context.Context, t *queue.Task) ([]byte, error) {
	return json.Marshal(&jsonTask{NodeID: t.ID(), Subset: t.Subset})
}

func (jed *jsonEncodeDecoder) Decode(ctx context.Context, data []byte) (*queue.Task, error) {
	jt := &jsonTask{}
	err := json.Unmarshal(data, jt)
	if err != nil {
		return nil, fmt.Errorf("decoding task from json: %v", err)
	}
	t := &queue.Task{Subset: dataset.Subset(jt.Subset)}
	t.Node, err = jed.ns.Get(ctx, jt.NodeID)
	if err != nil {
		return nil, fmt.Errorf("decoding json task: getting task node: %v", err)
	}
	if t.Node == nil {
		return nil, fmt.Errorf("decoding json task: could not get node %q from node store", jt.NodeID)
	}
	return t, nil
}
