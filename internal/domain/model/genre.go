package model

// Genre is a catalog category. A book may belong to many genres.
type Genre struct {
	ID   int64
	Name string
}
