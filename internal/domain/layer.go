package domain

// Layer is a DDD layer name. Layers constrain the direction of project
// references: dependencies point inward, with the presentation layer
// additionally allowed to reference infrastructure as the composition
// root where container modules are registered.
type Layer string

const (
	LayerDomain         Layer = "domain"
	LayerApplication    Layer = "application"
	LayerInfrastructure Layer = "infrastructure"
	LayerPresentation   Layer = "presentation"
)

var allowedReferences = map[Layer][]Layer{
	LayerDomain:         {},
	LayerApplication:    {LayerDomain},
	LayerInfrastructure: {LayerApplication, LayerDomain},
	LayerPresentation:   {LayerApplication, LayerInfrastructure, LayerDomain},
}

// KnownLayer reports whether l is one of the four recognized layers.
func KnownLayer(l Layer) bool {
	_, ok := allowedReferences[l]
	return ok
}

// CanReference reports whether a project in layer l may reference a
// project in layer other. Same-layer references are always allowed.
func (l Layer) CanReference(other Layer) bool {
	if l == other {
		return true
	}
	for _, a := range allowedReferences[l] {
		if a == other {
			return true
		}
	}
	return false
}

// Layers returns the four layers ordered from innermost out.
func Layers() []Layer {
	return []Layer{LayerDomain, LayerApplication, LayerInfrastructure, LayerPresentation}
}
