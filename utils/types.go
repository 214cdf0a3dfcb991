package utils

// AttributeMap is a loosely typed set of named parameters, usually decoded from JSON.
type AttributeMap map[string]interface{}

// Has returns whether the given name is present in the map.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}
