package layout

// Box is an axis-aligned 3D hitbox.
type Box struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// SpatialFitter maps a logical zone to a clickable 3D hitbox. Asset-specific fitters
// live with the 3D front end.
type SpatialFitter interface {
	Hitbox(z FretZone) Box
}

// PlanarFitter places zones on a flat neck of the given dimensions, nut at the origin,
// length along X, strings along Y, thickness along Z.
type PlanarFitter struct {
	Length    float64
	Width     float64
	Thickness float64
}

// Hitbox implements SpatialFitter.
func (p PlanarFitter) Hitbox(z FretZone) Box {
	return Box{
		Min: [3]float64{z.Bounds.X * p.Length, z.Bounds.Y * p.Width, 0},
		Max: [3]float64{(z.Bounds.X + z.Bounds.W) * p.Length, (z.Bounds.Y + z.Bounds.H) * p.Width, p.Thickness},
	}
}
