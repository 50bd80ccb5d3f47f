package segmenter

import (
	"context"
	"fmt"
	"strings"
)

const systemPrompt = "You are an assistant that splits text into coherent spoken lines that will be subtitled. " +
	"Make sure each line stands on its own line, carries a complete and natural thought, and avoids " +
	"lines with too many words so the subtitle stays easy to read in the context of a presentation."

const userPromptTemplate = "Split the following text into spoken lines, each one a complete idea. " +
	"Each line must be on its own line, contain at least %d words, " +
	"and the text must be copied exactly as I send it: %s"

// Segment asks the completion backend for a line split and then enforces the
// minimum word count locally. The backend is called once; any failure yields
// no lines.
func (s *implSegmenter) Segment(ctx context.Context, text string, minWords int) ([]string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Info(ctx, "Segmenting %d words (min %d per line)", WordCount(text), minWords)

	content, err := s.completer.Complete(ctx, systemPrompt, fmt.Sprintf(userPromptTemplate, minWords, text))
	if err != nil {
		s.logger.Error(ctx, "Completion request failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrSegmentation, err)
	}

	lines := Merge(SplitLines(content), minWords)
	if len(lines) == 0 {
		s.logger.Error(ctx, "Completion returned no usable lines")
		return nil, fmt.Errorf("%w: empty completion", ErrSegmentation)
	}

	s.logger.Info(ctx, "Segmented into %d lines", len(lines))
	return lines, nil
}

// SplitLines splits on line breaks and drops blank lines.
func SplitLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Merge runs the short-line merge pass twice. A line under minWords is joined
// onto the previous accumulated line, or starts the accumulator when there is
// none. Lines are never split or reordered.
func Merge(lines []string, minWords int) []string {
	return mergePass(mergePass(lines, minWords), minWords)
}

func mergePass(lines []string, minWords int) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if WordCount(line) >= minWords || len(out) == 0 {
			out = append(out, line)
			continue
		}
		out[len(out)-1] += " " + line
	}
	return out
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
