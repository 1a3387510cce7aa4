package feature

import "fmt"

/*
Value is a tagged scalar: either a numeric value holding a float32
or a categorical value holding an integer category code. The kind
of a value never changes once built, and must match the kind of
the feature for the column it is stored under.
*/
type Value struct {
	kind Kind
	num  float32
	cat  int
}

/*
NewNumericValue takes a float32 and returns a numeric Value
holding it.
*/
func NewNumericValue(n float32) Value {
	return Value{kind: Numeric, num: n}
}

/*
NewCategoricalValue takes a category code and returns a categorical
Value holding it.
*/
func NewCategoricalValue(code int) Value {
	return Value{kind: Categorical, cat: code}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

/*
Number returns the float32 payload of a numeric value. For
categorical values it returns 0: callers must branch on Kind
before reading the payload.
*/
func (v Value) Number() float32 {
	return v.num
}

/*
Category returns the category code payload of a categorical value.
For numeric values it returns 0: callers must branch on Kind before
reading the payload.
*/
func (v Value) Category() int {
	return v.cat
}

func (v Value) String() string {
	if v.kind == Numeric {
		return fmt.Sprintf("%v", v.num)
	}
	return fmt.Sprintf("#%d", v.cat)
}
