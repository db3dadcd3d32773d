package m

// M is defined in the m subpackage.
type M struct {
	Label string
}
