package lang

import "strings"

// CountLOC counts analyzable lines of code: blank and comment-only lines are
// excluded. The heuristic is conservative per language: it tracks the block
// comment pair where the language has one and otherwise only skips lines that
// start with a line-comment marker, so a code line trailing a comment still
// counts.
func (r *Registry) CountLOC(l Language, lines []string) int {
	info, ok := r.byLang[l]
	if !ok {
		return countPlain(lines)
	}

	count := 0
	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if inBlock {
			if idx := strings.Index(trimmed, info.BlockClose); idx >= 0 {
				inBlock = false
				rest := strings.TrimSpace(trimmed[idx+len(info.BlockClose):])
				if rest != "" && !isLineComment(rest, info.LineComments) {
					count++
				}
			}
			continue
		}

		if isLineComment(trimmed, info.LineComments) {
			continue
		}

		if info.BlockOpen != "" && strings.HasPrefix(trimmed, info.BlockOpen) {
			rest := trimmed[len(info.BlockOpen):]
			if idx := strings.Index(rest, info.BlockClose); idx >= 0 {
				tail := strings.TrimSpace(rest[idx+len(info.BlockClose):])
				if tail != "" && !isLineComment(tail, info.LineComments) {
					count++
				}
			} else {
				inBlock = true
			}
			continue
		}

		count++
	}
	return count
}

func isLineComment(trimmed string, markers []string) bool {
	for _, m := range markers {
		if strings.HasPrefix(trimmed, m) {
			return true
		}
	}
	return false
}

func countPlain(lines []string) int {
	count := 0
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
