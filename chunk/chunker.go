package chunk

import (
	"iter"
	"strings"
)

// DefaultMaxSize is the soft chunk size limit in characters.
const DefaultMaxSize = 1000

// SplitFunc segments text into an ordered sequence of sentences.
// Chunking never implements grammar itself; segmentation is pluggable.
type SplitFunc func(text string) []string

// Chunker splits long-form text into bounded-size units along sentence
// boundaries. The size limit is a target, not a hard cap: a single sentence
// longer than the limit becomes its own oversized chunk rather than being
// truncated or dropped.
type Chunker struct {
	maxSize int
	split   SplitFunc
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithMaxSize sets the soft chunk size limit in characters.
// Default is DefaultMaxSize.
func WithMaxSize(size int) Option {
	return func(c *Chunker) error {
		if size <= 0 {
			return ErrInvalidMaxSize
		}
		c.maxSize = size
		return nil
	}
}

// WithSplitFunc sets the sentence segmentation function.
// Default is Sentences.
func WithSplitFunc(fn SplitFunc) Option {
	return func(c *Chunker) error {
		if fn == nil {
			return ErrSplitFuncRequired
		}
		c.split = fn
		return nil
	}
}

// NewChunker creates a new chunker.
func NewChunker(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		maxSize: DefaultMaxSize,
		split:   Sentences,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Chunk returns a lazy, finite, restartable sequence of chunks in original
// reading order. Sentences are joined with single spaces; joining all chunks
// with single spaces recovers the whitespace-normalized input. Empty input
// yields an empty sequence.
func (c *Chunker) Chunk(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		var current strings.Builder
		for _, sentence := range c.split(text) {
			if current.Len() > 0 && current.Len()+1+len(sentence) > c.maxSize {
				if !yield(current.String()) {
					return
				}
				current.Reset()
			}
			if current.Len() > 0 {
				current.WriteByte(' ')
			}
			current.WriteString(sentence)
		}
		if current.Len() > 0 {
			yield(current.String())
		}
	}
}

// ChunkAll collects the chunk sequence into a slice.
func (c *Chunker) ChunkAll(text string) []string {
	var chunks []string
	for chunk := range c.Chunk(text) {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// sentence terminators followed by a space mark a boundary
var boundaryReplacer = strings.NewReplacer(
	". ", ".\x00",
	"! ", "!\x00",
	"? ", "?\x00",
)

// Sentences is the default sentence segmentation.
// It normalizes whitespace, then splits after terminal punctuation.
// Abbreviations are not special-cased; callers needing real sentence
// segmentation plug in their own SplitFunc.
func Sentences(text string) []string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return nil
	}

	parts := strings.Split(boundaryReplacer.Replace(normalized), "\x00")
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}
