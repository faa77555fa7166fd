package shape

import (
	"reflect"

	"github.com/labelle-toolkit/serialization/entity"
)

var (
	entityRefType    = reflect.TypeOf(entity.ID(0))
	entityRefPtrType = reflect.TypeOf((*entity.ID)(nil))
)

// IsEntityRef reports whether a Shape's leaf carries a reference to another
// entity, and therefore needs to be visited by the remap pass (§4.4).
func (s *Shape) IsEntityRef() bool {
	return s.Kind == EntityRef || s.Kind == OptionalEntityRef
}
