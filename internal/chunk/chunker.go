// Package chunk splits extracted document text into bounded, overlapping
// spans used as the atomic unit of embedding and retrieval.
package chunk

import "unicode"

// Config controls the sliding window. Size and Overlap are measured in
// runes so multi-byte text never splits mid-character.
type Config struct {
	Size    int
	Overlap int
}

// DefaultConfig matches the ingestion pipeline's fixed parameters.
func DefaultConfig() Config {
	return Config{
		Size:    1000,
		Overlap: 200,
	}
}

// Chunker produces fixed-size chunks with bounded overlap.
type Chunker struct {
	cfg Config
}

func New(cfg Config) *Chunker {
	if cfg.Size <= 0 {
		cfg = DefaultConfig()
	}
	if cfg.Overlap < 0 {
		cfg.Overlap = 0
	}
	if cfg.Overlap >= cfg.Size {
		cfg.Overlap = cfg.Size - 1
	}
	return &Chunker{cfg: cfg}
}

// Split returns the ordered chunks of text. Every chunk is at most
// cfg.Size runes, adjacent chunks share at most cfg.Overlap runes, and the
// concatenation of non-overlapping portions reconstructs the input. Cuts
// back off to a word boundary when one exists past the overlap region;
// otherwise the cut is a hard one. Empty input yields no chunks.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= c.cfg.Size {
		return []string{text}
	}

	chunks := make([]string, 0, 1+(len(runes)-c.cfg.Size)/(c.cfg.Size-c.cfg.Overlap))
	start := 0
	for start < len(runes) {
		end := start + c.cfg.Size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		// Prefer cutting at whitespace, but never move the cut into the
		// overlap region or the window would stop advancing.
		cut := end
		for i := end; i > start+c.cfg.Overlap+1; i-- {
			if unicode.IsSpace(runes[i-1]) {
				cut = i
				break
			}
		}
		end = cut

		chunks = append(chunks, string(runes[start:end]))
		start = end - c.cfg.Overlap
	}

	return chunks
}
