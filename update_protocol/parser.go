package update_protocol

import "strings"

// Protocol markers. They are matched case-sensitively at line start, exactly
// as the system prompt instructs the model to emit them.
const (
	FileStartMarker = "<<LLM_FILE_START:"
	FileEndMarker   = "<<LLM_FILE_END>>"

	// Continuation tokens. The parser treats them as ordinary content; only
	// the surrounding orchestration may act on them.
	MoreOutputMarker    = "<<LLM_MORE_OUTPUT_AVAILABLE>>"
	ContinuedEndMarker  = "<<LLM_CONTINUED_OUTPUT_END>>"
	filenameCloseMarker = ">>"
)

// FileBlock is a (filename, content) pair recovered from marker-delimited
// response text.
type FileBlock struct {
	Filename string
	Content  string
}

// ExtractFileBlocks scans model-response text for marker-delimited file
// blocks. It returns the blocks in order of appearance plus a filename map
// where a later block for the same filename overwrites the earlier one.
// Malformed marker syntax never fails; a start marker with no matching end
// marker closes implicitly at end of input.
func ExtractFileBlocks(text string) ([]FileBlock, map[string]string) {
	var blocks []FileBlock
	files := make(map[string]string)

	lines := strings.Split(text, "\n")
	i := 0
	for i < len(lines) {
		line := lines[i]
		if !strings.HasPrefix(line, FileStartMarker) {
			i++
			continue
		}

		filename := strings.TrimPrefix(line, FileStartMarker)
		filename = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(filename), filenameCloseMarker))

		var contentLines []string
		i++
		for i < len(lines) {
			if strings.HasPrefix(lines[i], FileEndMarker) {
				i++
				break
			}
			contentLines = append(contentLines, lines[i])
			i++
		}

		if filename == "" {
			continue
		}

		content := strings.Trim(strings.Join(stripFenceLines(contentLines), "\n"), "\n")
		blocks = append(blocks, FileBlock{Filename: filename, Content: content})
		files[filename] = content
	}

	return blocks, files
}

// stripFenceLines drops markdown fence lines the model wrapped around block
// content despite instructions not to. Each fence line toggles an
// inside-fence flag and is never counted as content, so a fenced block's
// payload survives while the fences themselves do not.
func stripFenceLines(lines []string) []string {
	var cleaned []string
	insideFence := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			insideFence = !insideFence
			continue
		}
		cleaned = append(cleaned, line)
	}
	return cleaned
}
