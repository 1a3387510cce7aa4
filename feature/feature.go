package feature

import "fmt"

/*
Kind identifies the type of the values a feature can take:
numeric values or categorical values.
*/
type Kind int

const (
	// Numeric is the kind of features whose values are
	// floating-point numbers.
	Numeric Kind = iota
	// Categorical is the kind of features whose values are
	// codes for a finite set of categories.
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	}
	return fmt.Sprintf("unknown kind %d", int(k))
}

/*
Feature represents a property that can be observed on every
row of a dataset: a column.
*/
type Feature interface {
	Name() string
	Kind() Kind
	Valid(Value) (bool, error)
}

/*
ContinuousFeature represents a property that can be observed
and that takes a numeric value.
*/
type ContinuousFeature struct {
	name string
}

/*
CategoricalFeature represents a property that can be observed and that
can only take a value among a finite set of categories. Values for the
feature are integer codes: indices into the feature's category slice.
*/
type CategoricalFeature struct {
	name       string
	categories []string
}

/*
NewContinuousFeature takes a name string and returns a continuous
feature with the given name.
*/
func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{name}
}

/*
NewCategoricalFeature takes a name string and a slice of category
strings and returns a categorical feature with the given name and
categories. The code for a category is its index on the given slice.
*/
func NewCategoricalFeature(name string, categories []string) *CategoricalFeature {
	return &CategoricalFeature{name, categories}
}

/*
Name returns a string with the name of the feature
*/
func (cf *ContinuousFeature) Name() string {
	return cf.name
}

// Kind returns Numeric
func (cf *ContinuousFeature) Kind() Kind {
	return Numeric
}

/*
Valid receives a Value and returns a boolean and an error. When the
value is numeric it returns true and nil, otherwise it returns false
and an error describing the mismatch.
*/
func (cf *ContinuousFeature) Valid(v Value) (bool, error) {
	if v.Kind() != Numeric {
		return false, &ValueKindError{Feature: cf.name, Want: Numeric, Got: v.Kind()}
	}
	return true, nil
}

func (cf *ContinuousFeature) String() string {
	return cf.name
}

/*
Name returns a string with the name of the feature
*/
func (df *CategoricalFeature) Name() string {
	return df.name
}

// Kind returns Categorical
func (df *CategoricalFeature) Kind() Kind {
	return Categorical
}

/*
Valid receives a Value and returns a boolean and an error. When the
value is categorical and its code is one of the feature's category
codes, the method returns true and nil. Otherwise it returns false
and an error describing the reason.
*/
func (df *CategoricalFeature) Valid(v Value) (bool, error) {
	if v.Kind() != Categorical {
		return false, &ValueKindError{Feature: df.name, Want: Categorical, Got: v.Kind()}
	}
	if v.Category() < 0 || v.Category() >= len(df.categories) {
		return false, fmt.Errorf("categorical feature %s got unknown category code %d", df.name, v.Category())
	}
	return true, nil
}

/*
Categories returns a string slice with the categories available for
the feature. The code for a category is its index on the slice.
*/
func (df *CategoricalFeature) Categories() []string {
	return df.categories
}

/*
Category takes a category code and returns the category string it
stands for and a boolean indicating whether the code is known to
the feature.
*/
func (df *CategoricalFeature) Category(code int) (string, bool) {
	if code < 0 || code >= len(df.categories) {
		return "", false
	}
	return df.categories[code], true
}

/*
CategoryCode takes a category string and returns its integer code
and a boolean indicating whether the category is known to the
feature.
*/
func (df *CategoricalFeature) CategoryCode(category string) (int, bool) {
	for i, c := range df.categories {
		if c == category {
			return i, true
		}
	}
	return 0, false
}

func (df *CategoricalFeature) String() string {
	return df.name
}

/*
ValueKindError is the error returned when a value of one kind is
supplied for a feature of the other kind.
*/
type ValueKindError struct {
	Feature string
	Want    Kind
	Got     Kind
}

func (e *ValueKindError) Error() string {
	return fmt.Sprintf("feature %s expects a %v value, got a %v value", e.Feature, e.Want, e.Got)
}
