package component

// Identity holds the label an entity shows on the grid. Noun rules may
// rewrite it.
type Identity struct {
	Name string
}
