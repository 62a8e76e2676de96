package models

type AssessmentKind string

const (
	KindRIASEC AssessmentKind = "riasec"
	KindMBTI   AssessmentKind = "mbti"
)

// Dimension is an axis scored independently by the scorer. RIASEC uses the six
// interest categories, MBTI the four letter pairs. The eight MBTI letters are
// dimensions too; they carry letter affinities when ranking type profiles.
type Dimension string

const (
	DimRealistic     Dimension = "realistic"
	DimInvestigative Dimension = "investigative"
	DimArtistic      Dimension = "artistic"
	DimSocial        Dimension = "social"
	DimEnterprising  Dimension = "enterprising"
	DimConventional  Dimension = "conventional"

	DimEI Dimension = "EI"
	DimSN Dimension = "SN"
	DimTF Dimension = "TF"
	DimJP Dimension = "JP"

	LetterE Dimension = "E"
	LetterI Dimension = "I"
	LetterS Dimension = "S"
	LetterN Dimension = "N"
	LetterT Dimension = "T"
	LetterF Dimension = "F"
	LetterJ Dimension = "J"
	LetterP Dimension = "P"
)

// RIASECDimensions is the declared enumeration order. Classification ties are
// broken by position in this slice.
var RIASECDimensions = []Dimension{
	DimRealistic,
	DimInvestigative,
	DimArtistic,
	DimSocial,
	DimEnterprising,
	DimConventional,
}

// MBTIDimensions is the fixed order used to build a type code.
var MBTIDimensions = []Dimension{DimEI, DimSN, DimTF, DimJP}

// MBTILetters lists the letters in pair order: first letter then second letter.
var MBTILetters = []Dimension{LetterE, LetterI, LetterS, LetterN, LetterT, LetterF, LetterJ, LetterP}

// Letters returns the first and second letter of an MBTI dimension.
func (d Dimension) Letters() (first, second Dimension, ok bool) {
	if len(d) != 2 {
		return "", "", false
	}
	for _, m := range MBTIDimensions {
		if m == d {
			return Dimension(d[:1]), Dimension(d[1:]), true
		}
	}
	return "", "", false
}

// Dimensions returns the scored dimensions of an assessment kind in their
// declared order.
func (k AssessmentKind) Dimensions() []Dimension {
	switch k {
	case KindRIASEC:
		return append([]Dimension(nil), RIASECDimensions...)
	case KindMBTI:
		return append([]Dimension(nil), MBTIDimensions...)
	default:
		return nil
	}
}

// Scale returns the Likert range answers of this kind must fall into.
func (k AssessmentKind) Scale() Scale {
	switch k {
	case KindMBTI:
		return Scale{Min: 1, Max: 7}
	default:
		return Scale{Min: 1, Max: 5}
	}
}

func (k AssessmentKind) Valid() bool {
	return k == KindRIASEC || k == KindMBTI
}

// Accepts reports whether d is a scored dimension of this kind.
func (k AssessmentKind) Accepts(d Dimension) bool {
	for _, candidate := range k.Dimensions() {
		if candidate == d {
			return true
		}
	}
	return false
}

// Scale is an inclusive Likert range.
type Scale struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (s Scale) Contains(value int) bool {
	return value >= s.Min && value <= s.Max
}

// Midpoint is the neutral answer. Only meaningful for odd-sized scales.
func (s Scale) Midpoint() int {
	return (s.Min + s.Max) / 2
}

type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
)
