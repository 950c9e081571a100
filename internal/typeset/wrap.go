package typeset

import "strings"

// wrapText breaks text into lines no wider than maxWidth, measuring with
// width. Newlines start new paragraphs; blank paragraphs become empty lines.
// Words wider than maxWidth are split between runes. maxWidth <= 0 disables
// wrapping.
func wrapText(text string, maxWidth float64, width func(string) float64) []string {
	text = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\t", " ").Replace(text)
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapWords(words, maxWidth, width)...)
	}
	return lines
}

const widthSlack = 1e-6

func wrapWords(words []string, maxWidth float64, width func(string) float64) []string {
	if maxWidth <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var (
		lines []string
		line  string
	)
	start := func(word string) {
		if width(word) <= maxWidth+widthSlack {
			line = word
			return
		}
		pieces := breakWord(word, maxWidth, width)
		lines = append(lines, pieces[:len(pieces)-1]...)
		line = pieces[len(pieces)-1]
	}

	for _, w := range words {
		if line == "" {
			start(w)
			continue
		}
		candidate := line + " " + w
		if width(candidate) <= maxWidth+widthSlack {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = ""
		start(w)
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// breakWord splits a single word into pieces that fit maxWidth. Every piece
// holds at least one rune so the loop always makes progress.
func breakWord(word string, maxWidth float64, width func(string) float64) []string {
	var (
		pieces []string
		cur    []rune
	)
	for _, r := range word {
		next := append(cur, r)
		if len(cur) > 0 && width(string(next)) > maxWidth+widthSlack {
			pieces = append(pieces, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	if len(cur) > 0 {
		pieces = append(pieces, string(cur))
	}
	return pieces
}
