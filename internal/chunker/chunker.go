// Package chunker provides a markdown-structure-aware text splitter.
package chunker

import (
	"regexp"
	"strings"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// DefaultTargetTokens is the default target token count per chunk.
const DefaultTargetTokens = 1500

// DefaultMaxTokens is the default maximum token count per chunk.
const DefaultMaxTokens = 2000

// DefaultMinTokens is the default minimum token count for a chunk to be
// emitted on its own.
const DefaultMinTokens = 200

// DefaultOverlapTokens is the default token overlap carried between
// consecutive chunks.
const DefaultOverlapTokens = 100

var (
	orderedListPattern = regexp.MustCompile(`^\d+\.`)
	sentencePattern    = regexp.MustCompile(`[.!?]+`)
)

// Splitter splits document text into chunks along markdown structure
// boundaries: headers, fenced code blocks, lists and tables each end or
// start a section, and sections are packed into chunks up to a token
// budget with sentence-level overlap between consecutive chunks.
type Splitter struct {
	targetTokens  int
	maxTokens     int
	minTokens     int
	overlapTokens int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithTargetTokens sets the target token count per chunk.
func WithTargetTokens(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.targetTokens = n
		}
	}
}

// WithMaxTokens sets the maximum token count per chunk.
func WithMaxTokens(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithMinTokens sets the minimum token count for a chunk.
func WithMinTokens(n int) Option {
	return func(s *Splitter) {
		if n >= 0 {
			s.minTokens = n
		}
	}
}

// WithOverlapTokens sets the token overlap between chunks.
func WithOverlapTokens(n int) Option {
	return func(s *Splitter) {
		if n >= 0 {
			s.overlapTokens = n
		}
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		targetTokens:  DefaultTargetTokens,
		maxTokens:     DefaultMaxTokens,
		minTokens:     DefaultMinTokens,
		overlapTokens: DefaultOverlapTokens,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.maxTokens < s.targetTokens {
		s.maxTokens = s.targetTokens
	}
	if s.minTokens > s.targetTokens {
		s.minTokens = s.targetTokens
	}

	return s
}

// section is a structurally homogeneous run of lines.
type section struct {
	content     string
	sectionType domain.ChunkType
	header      string
}

// Split splits the content into ordered chunks. Document IDs are left
// for the caller to assign.
//
// Chunks below the minimum token count are merged forward rather than
// emitted alone; a non-empty document always yields at least one chunk.
func (s *Splitter) Split(content string) []domain.Chunk {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	sections := parseSections(content)

	var chunks []domain.Chunk
	var current string
	currentStart := 0
	currentHeader := ""

	for _, sec := range sections {
		if current != "" && countTokens(current+sec.content) > s.maxTokens {
			if countTokens(current) >= s.minTokens {
				chunks = append(chunks, s.makeChunk(current, currentStart, len(chunks), currentHeader))
			}

			overlap := s.overlapText(current)
			current = overlap + sec.content
			currentStart = s.nextStart(content, current, currentStart)
			currentHeader = sec.header
			continue
		}

		if current != "" {
			current += "\n\n" + sec.content
		} else {
			current = sec.content
			if idx := strings.Index(content, sec.content); idx >= 0 {
				currentStart = idx
			}
			currentHeader = sec.header
		}
	}

	if current != "" && (countTokens(current) >= s.minTokens || len(chunks) == 0) {
		chunks = append(chunks, s.makeChunk(current, currentStart, len(chunks), currentHeader))
	}

	return chunks
}

// parseSections walks the lines once, grouping them into sections by
// structural type. A fenced code block is one section regardless of its
// interior; a header line always starts a new section.
func parseSections(text string) []section {
	var sections []section
	var current []string
	currentHeader := ""
	currentType := domain.ChunkTypeParagraph
	inCodeBlock := false

	flush := func(t domain.ChunkType) {
		if len(current) > 0 {
			sections = append(sections, section{
				content:     strings.Join(current, "\n"),
				sectionType: t,
				header:      currentHeader,
			})
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)

		if strings.HasPrefix(stripped, "```") {
			if inCodeBlock {
				current = append(current, line)
				flush(domain.ChunkTypeCode)
				inCodeBlock = false
				currentType = domain.ChunkTypeParagraph
			} else {
				flush(currentType)
				current = []string{line}
				inCodeBlock = true
				currentType = domain.ChunkTypeCode
			}
			continue
		}

		if inCodeBlock {
			current = append(current, line)
			continue
		}

		switch {
		case strings.HasPrefix(stripped, "#"):
			flush(currentType)
			currentHeader = stripped
			current = []string{line}
			currentType = domain.ChunkTypeHeader

		case isListLine(stripped):
			if currentType != domain.ChunkTypeList {
				flush(currentType)
				currentType = domain.ChunkTypeList
			}
			current = append(current, line)

		case strings.Count(stripped, "|") >= 2:
			if currentType != domain.ChunkTypeTable {
				flush(currentType)
				currentType = domain.ChunkTypeTable
			}
			current = append(current, line)

		case stripped == "":
			// A blank line terminates lists and tables but is kept
			// inside paragraph runs.
			if currentType == domain.ChunkTypeList || currentType == domain.ChunkTypeTable {
				flush(currentType)
				currentType = domain.ChunkTypeParagraph
			} else {
				current = append(current, line)
			}

		default:
			if currentType == domain.ChunkTypeList || currentType == domain.ChunkTypeTable {
				flush(currentType)
				current = []string{line}
				currentType = domain.ChunkTypeParagraph
			} else {
				current = append(current, line)
				if currentType == domain.ChunkTypeHeader {
					currentType = domain.ChunkTypeParagraph
				}
			}
		}
	}

	flush(currentType)
	return sections
}

func isListLine(stripped string) bool {
	return strings.HasPrefix(stripped, "- ") ||
		strings.HasPrefix(stripped, "* ") ||
		strings.HasPrefix(stripped, "+ ") ||
		orderedListPattern.MatchString(stripped)
}

func (s *Splitter) makeChunk(content string, startOffset, index int, header string) domain.Chunk {
	content = strings.TrimSpace(content)
	return domain.Chunk{
		ChunkIndex:    index,
		Content:       content,
		ChunkType:     classify(content),
		SectionHeader: header,
		TokenCount:    countTokens(content),
		StartOffset:   startOffset,
		EndOffset:     startOffset + len(content),
	}
}

// overlapText takes whole sentences from the end of the chunk, up to
// the overlap budget, to carry context into the next chunk.
func (s *Splitter) overlapText(text string) string {
	if text == "" || s.overlapTokens == 0 {
		return ""
	}

	sentences := sentencePattern.Split(text, -1)
	var kept []string
	tokens := 0

	for i := len(sentences) - 1; i >= 0; i-- {
		sentence := strings.TrimSpace(sentences[i])
		if sentence == "" {
			continue
		}
		n := countTokens(sentence)
		if tokens+n > s.overlapTokens {
			break
		}
		kept = append([]string{sentence}, kept...)
		tokens += n
	}

	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, ". ") + ". "
}

// nextStart locates where the non-overlap content of the next chunk
// begins in the full text.
func (s *Splitter) nextStart(fullText, current string, previousStart int) int {
	overlap := strings.TrimSpace(s.overlapText(current))
	if overlap == "" {
		return previousStart
	}
	idx := strings.Index(fullText[previousStart:], overlap)
	if idx < 0 {
		return previousStart
	}
	return previousStart + idx + len(overlap)
}

// classify labels a finished chunk by its dominant structure.
func classify(content string) domain.ChunkType {
	stripped := strings.TrimSpace(content)
	switch {
	case strings.HasPrefix(content, "#"):
		return domain.ChunkTypeHeader
	case strings.Contains(content, "```"):
		return domain.ChunkTypeCode
	case strings.Count(content, "|") >= 4 && strings.Contains(content, "\n"):
		return domain.ChunkTypeTable
	case isListLine(stripped):
		return domain.ChunkTypeList
	default:
		return domain.ChunkTypeParagraph
	}
}

// countTokens estimates the token count as words times 1.3, close
// enough for budgeting without an exact tokenizer.
func countTokens(text string) int {
	return len(strings.Fields(text)) * 13 / 10
}
