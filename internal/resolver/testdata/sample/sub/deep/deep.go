package deep

// D is defined two levels below the package root.
type D struct {
	Depth int
}
