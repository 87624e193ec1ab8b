package lang

//go:generate go tool stringer --linecomment --type Type --output type_string.go

// Type is the static type of an expression.
type Type int

const (
	TypeNumber   Type = iota // Number
	TypeBoolean              // Boolean
	TypeText                 // Text
	TypeDeferred             // Deferred
	TypeField                // FieldName
	TypeList                 // List
)

// Accepts reports whether a value of type t satisfies a context requiring
// want. [TypeDeferred] satisfies every requirement.
func (t Type) Accepts(want Type) bool {
	return t == want || t == TypeDeferred
}
