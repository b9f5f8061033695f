package features

// Vector is an assembled feature vector laid out as
// job embedding ++ resume embedding ++ [experience years] ++ [keyword overlap].
type Vector []float64

// Length returns the vector length for embedding dimension d.
func Length(d int) int {
	return 2*d + 2
}

// Dimension returns the embedding dimension D the vector was built with.
func (v Vector) Dimension() int {
	if len(v) < 2 {
		return 0
	}
	return (len(v) - 2) / 2
}

// JobEmbedding returns the job description embedding slice.
func (v Vector) JobEmbedding() []float64 {
	d := v.Dimension()
	return v[:d]
}

// ResumeEmbedding returns the resume embedding slice.
func (v Vector) ResumeEmbedding() []float64 {
	d := v.Dimension()
	return v[d : 2*d]
}

// ExperienceYears returns the experience slot.
func (v Vector) ExperienceYears() float64 {
	if len(v) < 2 {
		return 0
	}
	return v[len(v)-2]
}

// KeywordOverlap returns the shared keyword count slot.
func (v Vector) KeywordOverlap() float64 {
	if len(v) < 2 {
		return 0
	}
	return v[len(v)-1]
}
