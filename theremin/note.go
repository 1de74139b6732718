package theremin

// A Note is one sounding pitch with its own loudness envelope. Frequency,
// volume and start anchor are fixed at creation; amplitude chases target one
// envelope step per sample. The oscillator phase at time t is
// frequency*(t-start), so the start anchor places the note on the shared
// phase axis.
type Note struct {
	frequency float64
	volume    float64
	start     float64
	amplitude float64
	target    float64
}

// restNote is the permanent base of the note stack: silent, with its target
// held at 1 so it never decays while the instrument is idle. It is replaced
// like any other note once a real one arrives.
func restNote() Note {
	return Note{frequency: 0, volume: 0, start: 0, amplitude: 1, target: 1}
}
