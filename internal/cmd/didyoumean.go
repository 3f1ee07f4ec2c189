package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// levenshtein computes the edit distance between two strings, by rune so
// accented names count one edit per letter.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	row := make([]int, lb+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= la; i++ {
		prev := i - 1
		row[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			val := min(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = val
		}
	}
	return row[lb]
}

// suggestCommand finds the closest command name to the unknown input.
// Returns empty string if no close match (distance > 3).
func suggestCommand(unknown string, commands []string) string {
	unknown = strings.ToLower(unknown)
	bestDist := 4
	bestMatch := ""
	for _, cmd := range commands {
		d := levenshtein(unknown, strings.ToLower(cmd))
		if d < bestDist {
			bestDist = d
			bestMatch = cmd
		}
	}
	return bestMatch
}

// suggestFlag finds the closest flag name to the unknown input.
// Leading dashes are ignored for comparison but kept in the result.
func suggestFlag(unknown string, flags []string) string {
	stripped := strings.TrimLeft(unknown, "-")
	if stripped == "" {
		return ""
	}
	stripped = strings.ToLower(stripped)
	bestDist := 4
	bestMatch := ""
	for _, f := range flags {
		fStripped := strings.TrimLeft(f, "-")
		d := levenshtein(stripped, strings.ToLower(fStripped))
		if d < bestDist {
			bestDist = d
			bestMatch = f
		}
	}
	return bestMatch
}

// commandNames lists the visible subcommands of cmd, aliases included.
func commandNames(cmd *cobra.Command) []string {
	var names []string
	for _, c := range cmd.Commands() {
		if c.Hidden {
			continue
		}
		names = append(names, c.Name())
		names = append(names, c.Aliases...)
	}
	return names
}

// flagNames lists every visible flag reachable from cmd as "--name".
func flagNames(cmd *cobra.Command) []string {
	var names []string
	seen := map[string]bool{}
	collect := func(f *pflag.Flag) {
		if f.Hidden || seen[f.Name] {
			return
		}
		seen[f.Name] = true
		names = append(names, "--"+f.Name)
	}
	cmd.Flags().VisitAll(collect)
	cmd.InheritedFlags().VisitAll(collect)
	return names
}
