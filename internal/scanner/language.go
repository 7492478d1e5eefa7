package scanner

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// indicatorLanguages maps project manifest files to the language they
// imply. A manifest hit short-circuits line counting entirely; the
// manifest is a stronger signal than extension statistics.
var indicatorLanguages = []struct {
	file     string
	language string
}{
	{"go.mod", "Go"},
	{"Cargo.toml", "Rust"},
	{"package.json", "JavaScript"},
	{"pyproject.toml", "Python"},
	{"Gemfile", "Ruby"},
	{"pom.xml", "Java"},
}

// extLanguages maps file extensions to languages for line counting.
var extLanguages = map[string]string{
	".go":    "Go",
	".rs":    "Rust",
	".py":    "Python",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".java":  "Java",
	".rb":    "Ruby",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".hpp":   "C++",
	".cs":    "C#",
	".php":   "PHP",
	".swift": "Swift",
	".kt":    "Kotlin",
	".sh":    "Shell",
	".lua":   "Lua",
	".zig":   "Zig",
}

const (
	// languageSizeLimitMB skips line counting for large directories.
	languageSizeLimitMB = 5.0

	// languageNonGitSizeLimitMB is the harder limit for non-git
	// directories, which are usually download or data folders.
	languageNonGitSizeLimitMB = 10.0

	// languageSubdirLimit skips counting for directories with many
	// subdirectories; those are containers of projects, not projects.
	languageSubdirLimit = 8

	// languageFileLimit caps how many files line counting reads.
	languageFileLimit = 2000
)

// detectLanguage determines the primary language of a directory together
// with total and non-blank line counts.
//
// Project manifests decide immediately with zero line counts. Large or
// container-like directories report "Mixed" instead of paying for a full
// count.
func detectLanguage(dir string, sizeMB float64, nonGit bool) (language string, totalLines, codeLines int) {
	for _, ind := range indicatorLanguages {
		if fileExists(filepath.Join(dir, ind.file)) {
			return ind.language, 0, 0
		}
	}

	if nonGit && sizeMB > languageNonGitSizeLimitMB {
		return "Mixed", 0, 0
	}
	if sizeMB > languageSizeLimitMB {
		return "Mixed", 0, 0
	}
	if countSubdirs(dir, languageSubdirLimit) >= languageSubdirLimit {
		return "Mixed", 0, 0
	}

	return countLines(dir)
}

// countLines walks dir and tallies lines per language by extension.
// The primary language is the one with the most non-blank lines.
func countLines(dir string) (string, int, int) {
	perLanguage := map[string]int{}
	totalLines, codeLines, files := 0, 0, 0

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		language, ok := extLanguages[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}
		if files >= languageFileLimit {
			return filepath.SkipAll
		}
		files++

		total, code := fileLines(path)
		totalLines += total
		codeLines += code
		perLanguage[language] += code
		return nil
	})

	primary := ""
	best := 0
	for language, lines := range perLanguage {
		if lines > best || (lines == best && language < primary) {
			primary, best = language, lines
		}
	}
	return primary, totalLines, codeLines
}

func fileLines(path string) (total, code int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		total++
		if strings.TrimSpace(sc.Text()) != "" {
			code++
		}
	}
	return total, code
}

func countSubdirs(dir string, limit int) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			n++
			if n >= limit {
				break
			}
		}
	}
	return n
}
