package terrain

import "strings"

// Pattern is a bitmap mask; '*' marks a solid cell, anything else is ignored.
type Pattern []string

// Banner is the default mask stamped into the middle of a fresh arena.
var Banner = ParsePattern(`
******  ******  *     *  *     *     *     *****   *     *
*       *       **    *  *     *    * *    *    *   *   *
*       *       * *   *  *     *   *   *   *    *    * *
*  ***  ****    *  *  *  *     *  *** ***  *  **      *
*    *  *       *   * *  *     *  *     *  *  *       *
*    *  *       *    **  *     *  *     *  *   *      *
******  ******  *     *  *******  *     *  *    *     *
`)

// ParsePattern splits text into rows, dropping leading and trailing blank lines.
func ParsePattern(text string) Pattern {
	text = strings.Trim(text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return Pattern(strings.Split(text, "\n"))
}

func (p Pattern) Width() int {
	w := 0
	for _, line := range p {
		if len(line) > w {
			w = len(line)
		}
	}
	return w
}

func (p Pattern) Height() int { return len(p) }

// SolidCount returns the number of '*' cells in the mask.
func (p Pattern) SolidCount() int {
	n := 0
	for _, line := range p {
		n += strings.Count(line, "*")
	}
	return n
}
