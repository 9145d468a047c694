package chunker

// Text segmentation helpers. Units tile the input exactly: every byte
// of the text belongs to exactly one unit, with trailing whitespace
// attached to the unit it follows. This is what makes the chunk
// coverage invariant hold for the sentence and paragraph strategies.

// splitSentences returns sentence units. A sentence ends at a run of
// '.', '!' or '?' (closing quotes and brackets included) followed by
// whitespace; the whitespace run belongs to the ended sentence. Text
// with no terminator is a single unit.
func splitSentences(text string) []unit {
	if text == "" {
		return nil
	}

	var units []unit
	start := 0
	i := 0
	for i < len(text) {
		if !isTerminator(text[i]) {
			i++
			continue
		}
		// Consume the terminator run and any closing punctuation.
		for i < len(text) && (isTerminator(text[i]) || isClosing(text[i])) {
			i++
		}
		// Only a following whitespace run ends the sentence; "3.14"
		// or "e.g.x" keep going.
		if i < len(text) && !isSpace(text[i]) {
			continue
		}
		for i < len(text) && isSpace(text[i]) {
			i++
		}
		units = append(units, unit{start: start, end: i})
		start = i
	}
	if start < len(text) {
		units = append(units, unit{start: start, end: len(text)})
	}
	return units
}

// splitParagraphs returns paragraph units. A paragraph ends at a blank
// line; the newline run belongs to the ended paragraph.
func splitParagraphs(text string) []unit {
	if text == "" {
		return nil
	}

	var units []unit
	start := 0
	i := 0
	for i < len(text) {
		if text[i] != '\n' {
			i++
			continue
		}
		// Count the newline run, tolerating \r and blank-line spaces.
		j := i
		newlines := 0
		for j < len(text) && (text[j] == '\n' || text[j] == '\r' || text[j] == ' ' || text[j] == '\t') {
			if text[j] == '\n' {
				newlines++
			}
			j++
		}
		if newlines < 2 {
			i = j
			continue
		}
		units = append(units, unit{start: start, end: j})
		start = j
		i = j
	}
	if start < len(text) {
		units = append(units, unit{start: start, end: len(text)})
	}
	return units
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isClosing(b byte) bool {
	return b == '"' || b == '\'' || b == ')' || b == ']'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
