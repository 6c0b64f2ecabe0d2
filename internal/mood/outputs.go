package mood

// FrameOutputs is the contract between the simulation core and the
// renderer: a flat set of named continuous values refreshed every tick.
// The renderer reads these and nothing else from the simulation.
type FrameOutputs struct {
	Rotation float64 // pendulum angle, rad

	CameraX float64
	CameraY float64

	MoodOpacity float64
	MoodBlur    float64

	BeamOpacity float64
	BeamBlur    float64
	BeamGrain   float64
	BeamScale   float64

	BulbBrightness float64
	BulbHalo       float64

	LogoVisibility float64
	LogoJitterX    float64
	LogoJitterY    float64
}
