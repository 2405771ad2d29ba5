package domain

import "github.com/google/uuid"

// Aggregate kinds used by Ref.
const (
	KindProductRef = "product"
	KindOrderRef   = "order"
)

// Ref is a value identity shared by all aggregates: a stable unique id plus
// the kind of thing it names. Two refs are equal when both kind and id match.
type Ref struct {
	kind string
	id   uuid.UUID
}

// NewRef mints a fresh identity of the given kind.
func NewRef(kind string) Ref {
	return Ref{kind: kind, id: uuid.New()}
}

// RefOf rebuilds an identity from a stored id.
func RefOf(kind string, id uuid.UUID) (Ref, error) {
	if id == uuid.Nil {
		return Ref{}, NewError(KindInvalidArgument, "id cannot be empty")
	}
	return Ref{kind: kind, id: id}, nil
}

func (r Ref) ID() uuid.UUID { return r.id }

func (r Ref) Kind() string { return r.kind }

func (r Ref) Equal(other Ref) bool {
	return r.kind == other.kind && r.id == other.id
}

func (r Ref) String() string {
	return r.kind + "/" + r.id.String()
}
