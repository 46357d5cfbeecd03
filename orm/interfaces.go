package orm

import (
	"github.com/gogo/protobuf/proto"
)

// Model is implemented by any entity that can be stored using ModelBucket.
// Models are serialized using their protobuf representation.
type Model interface {
	proto.Message

	// Validate returns an error if the model is not in a valid state to
	// be saved in the database (eg. field missing, out of range, ...)
	Validate() error
}

// ModelSlicePtr is a pointer to a slice of models, for example *[]Share or
// *[]*Share. It is used as the destination of queries that return many
// entities.
type ModelSlicePtr interface{}
