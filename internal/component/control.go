package component

// ControlIntent marks an entity as player controlled. Keymap resolves a key
// name to the step it requests.
type ControlIntent struct {
	Keymap map[string]Direction
}

// Resolve looks up key in the keymap.
func (c *ControlIntent) Resolve(key string) Direction {
	if c == nil || c.Keymap == nil {
		return DirNone
	}
	return c.Keymap[key]
}
