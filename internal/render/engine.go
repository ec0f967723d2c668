package render

// Engine is the 3D scene capability the renderer drives. Implementations
// own scene-object lifetime: Apply replaces the entire scene graph from the
// description, and must tear down any extra pass attached by a previous
// Apply before attaching the new one.
type Engine interface {
	// Apply rebuilds the engine scene from the description.
	Apply(*Scene)
	// Camera returns the current view transform.
	Camera() Camera
	// SetCamera restores a previously captured view transform.
	SetCamera(Camera)
	// ResetCamera fits the camera to the scene bounds with the default
	// isometric orientation.
	ResetCamera()
	// SetBackground sets the surface background brightness (0..1 gray).
	SetBackground(float64)
}
