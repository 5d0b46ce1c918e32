package types

import "fmt"

// Direction represents the merge intent of a chunk toward its neighbors
type Direction int

const (
	// Unset means the chunk has no dependency on its neighbors
	Unset Direction = iota
	// Forward means the chunk attaches to the following chunk
	Forward
	// Backward means the chunk attaches to the preceding chunk
	Backward
)

// String returns the lowercase name of the direction
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unset"
	}
}

// MarshalText encodes the direction as its name
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name
func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "forward":
		*d = Forward
	case "backward":
		*d = Backward
	case "unset", "":
		*d = Unset
	default:
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidToken, string(text))
	}
	return nil
}

// Token is a single unit produced by a segmenter backend.
// Offsets are measured in Unicode code points from the start of the text.
type Token struct {
	Content        string `json:"content"`
	BeginOffset    int    `json:"begin_offset"`
	Label          string `json:"label,omitempty"` // Dependency label (e.g. "PRT")
	PartOfSpeech   string `json:"pos,omitempty"`
	HeadTokenIndex int    `json:"head_token_index"`
	TokenIndex     int    `json:"token_index"`
}

// Validate checks if the token is usable for chunk construction
func (t *Token) Validate() error {
	if t.Content == "" {
		return fmt.Errorf("%w: token %d: %w", ErrInvalidToken, t.TokenIndex, ErrEmptyContent)
	}
	if t.BeginOffset < 0 {
		return fmt.Errorf("%w: token %d has negative offset", ErrInvalidToken, t.TokenIndex)
	}
	return nil
}
