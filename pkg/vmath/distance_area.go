package vmath

// Distance is a non-negative scalar length. Uniform scaling multiplies
// a Distance by the scale factor; rotation and translation leave it
// unchanged.
type Distance float64

// Scale applies a uniform-scaling factor to a distance.
func (d Distance) Scale(factor float64) Distance { return Distance(float64(d) * factor) }

// Float returns the underlying float64.
func (d Distance) Float() float64 { return float64(d) }

// Area is a non-negative scalar surface area. Uniform scaling
// multiplies an Area by the square of the scale factor; rotation and
// translation leave it unchanged.
type Area float64

// Scale applies a uniform-scaling factor to an area.
func (a Area) Scale(factor float64) Area { return Area(float64(a) * factor * factor) }

// Float returns the underlying float64.
func (a Area) Float() float64 { return float64(a) }
