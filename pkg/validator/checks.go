package validator

import (
	"io/fs"
	"path"
	"regexp"
	"strings"
)

// Files and directories inspected inside a project.
const (
	claudeFile   = "CLAUDE.md"
	initialFile  = "INITIAL.md"
	claudeDir    = ".claude"
	examplesDir  = ".claude/examples"
	prpsDir      = "PRPs"
	metaDir      = ".aigenio"
	metaFile     = ".aigenio/project.json"
	gitignore    = ".gitignore"
	docsDir      = "docs"
	claudeMaxPts = 7
)

// RequiredSections must appear in CLAUDE.md.
var RequiredSections = []string{
	"Project Description",
	"Context Engineering Rules",
	"Best Practices",
	"Workflow",
}

var (
	projectInfoPatterns = compileAll(`project\s*type`, `framework|technolog`, `languages?`, `description`)
	setupPatterns       = compileAll(`setup|installation|install`, `command|\brun\b`, `environment`, `dependenc`)
	workflowPatterns    = compileAll(`workflow`, `\bsteps?\b|process`, `(?m)^\s*\d+\.`, `\b(first|then|after|finally)\b`)

	initialSections = []string{"description", "objectives", "implementation", "criteria"}
	frameworkFiles  = []string{"package.json", "composer.json", "requirements.txt", "pyproject.toml", "go.mod", "Cargo.toml", "tsconfig.json", "vite.config.js", "webpack.config.js"}
	readmeFiles     = []string{"README.md", "readme.md", "README.txt", "README"}
	testDirs        = []string{"test", "tests", "__tests__", "spec"}
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

type check struct {
	score       float64
	errors      []string
	warnings    []string
	suggestions []string
}

func validateBasic(fsys fs.FS) Part {
	p := Part{}
	p.merge(validateClaude(fsys))
	p.merge(validateDirectories(fsys))
	p.MaxScore = 10
	return p
}

func validateClaude(fsys fs.FS) Part {
	p := Part{}
	data, err := fs.ReadFile(fsys, claudeFile)
	if err != nil {
		p.add(check{errors: []string{"CLAUDE.md not found"}})
		p.capAt(claudeMaxPts)
		return p
	}

	content := string(data)
	p.add(check{score: 1})
	p.add(checkLength(content))
	p.add(checkSections(content))
	p.add(checkPatterns(content, projectInfoPatterns, "CLAUDE.md should say more about the project"))
	p.add(checkPatterns(content, setupPatterns, "CLAUDE.md should include setup instructions"))
	p.add(checkPractices(content))
	p.add(checkPatterns(content, workflowPatterns, "CLAUDE.md should define a development workflow"))
	p.capAt(claudeMaxPts)
	return p
}

func checkLength(content string) check {
	switch n := len(content); {
	case n > 1000:
		return check{score: 1}
	case n > 500:
		return check{score: 0.5, warnings: []string{"CLAUDE.md could be more detailed"}}
	default:
		return check{warnings: []string{"CLAUDE.md is too short"}}
	}
}

func checkSections(content string) check {
	lower := strings.ToLower(content)
	c := check{}
	for _, section := range RequiredSections {
		if strings.Contains(lower, strings.ToLower(section)) {
			c.score += 0.5
		} else {
			c.warnings = append(c.warnings, "Section '"+section+"' is missing from CLAUDE.md")
		}
	}
	return c
}

// checkPatterns awards a quarter point per matching pattern and warns
// below half a point.
func checkPatterns(content string, patterns []*regexp.Regexp, warning string) check {
	c := check{}
	for _, re := range patterns {
		if re.MatchString(content) {
			c.score += 0.25
		}
	}
	if c.score < 0.5 {
		c.warnings = append(c.warnings, warning)
	}
	c.score = min(1, c.score)
	return c
}

func checkPractices(content string) check {
	lower := strings.ToLower(content)
	c := check{}
	if strings.Contains(lower, "best practices") {
		c.score += 0.5
	} else {
		c.warnings = append(c.warnings, "CLAUDE.md should include best practices")
	}
	if strings.Contains(lower, "conventions") {
		c.score += 0.5
	} else {
		c.warnings = append(c.warnings, "CLAUDE.md should define code conventions")
	}
	return c
}

func validateDirectories(fsys fs.FS) Part {
	p := Part{}
	if isDir(fsys, claudeDir) {
		p.add(check{score: 1})
		if isDir(fsys, examplesDir) {
			p.add(check{score: 1})
		} else {
			p.add(check{warnings: []string{".claude/examples/ not found"}})
		}
	} else {
		p.add(check{warnings: []string{".claude/ not found"}})
	}

	if isDir(fsys, metaDir) {
		p.add(check{score: 1})
		if exists(fsys, metaFile) {
			p.add(check{score: 0.5})
		} else {
			p.add(check{warnings: []string{".aigenio/project.json not found"}})
		}
	} else {
		p.add(check{warnings: []string{".aigenio/ not found, run setup to create it"}})
	}
	p.capAt(3)
	return p
}

func validateAdvanced(fsys fs.FS) Part {
	p := Part{}

	if data, err := fs.ReadFile(fsys, initialFile); err == nil {
		p.add(check{score: 2})
		p.add(checkInitial(string(data)))
	} else {
		p.add(check{suggestions: []string{"Create INITIAL.md to describe the current feature"}})
	}

	p.add(checkExamples(fsys))
	p.add(checkPRPs(fsys))

	found := 0
	for _, f := range frameworkFiles {
		if exists(fsys, f) {
			found++
		}
	}
	c := check{}
	if found > 0 {
		c.score = 1
	}
	if found < 2 {
		c.suggestions = append(c.suggestions, "Consider adding more framework configuration files")
	}
	p.add(c)

	p.capAt(7)
	return p
}

func checkInitial(content string) check {
	lower := strings.ToLower(content)
	c := check{}
	for _, s := range initialSections {
		if strings.Contains(lower, s) {
			c.score += 0.25
		}
	}
	if len(content) < 500 {
		c.warnings = append(c.warnings, "INITIAL.md should be more detailed")
	}
	return c
}

func checkExamples(fsys fs.FS) check {
	if !isDir(fsys, examplesDir) {
		return check{suggestions: []string{"Create .claude/examples/ with representative examples"}}
	}
	n := len(markdownFiles(fsys, examplesDir))
	switch {
	case n > 2:
		return check{score: 1.5}
	case n > 0:
		return check{score: 1}
	default:
		return check{warnings: []string{"examples directory is empty"}}
	}
}

func checkPRPs(fsys fs.FS) check {
	if !isDir(fsys, prpsDir) {
		return check{suggestions: []string{"Create a PRPs/ directory for product requirement prompts"}}
	}
	switch n := len(markdownFiles(fsys, prpsDir)); {
	case n > 2:
		return check{score: 1.5}
	case n > 0:
		return check{score: 1}
	default:
		return check{warnings: []string{"PRPs directory is empty"}}
	}
}

func validateQuality(fsys fs.FS) Part {
	p := Part{}

	docs := check{}
	if anyExists(fsys, readmeFiles) {
		docs.score += 0.5
	} else {
		docs.suggestions = append(docs.suggestions, "Create README.md with the basics of the project")
	}
	if isDir(fsys, docsDir) {
		docs.score += 0.5
	} else {
		docs.suggestions = append(docs.suggestions, "Consider a docs/ directory for documentation")
	}
	p.add(docs)

	consistency := check{score: 0.5}
	if data, err := fs.ReadFile(fsys, claudeFile); err == nil && len(data) > 100 {
		consistency.score = 1
	}
	p.add(consistency)

	practices := check{}
	if exists(fsys, gitignore) {
		practices.score += 0.5
	} else {
		practices.suggestions = append(practices.suggestions, "Add a .gitignore")
	}
	if anyDir(fsys, testDirs) {
		practices.score += 0.5
	} else {
		practices.suggestions = append(practices.suggestions, "Add a test suite to the project")
	}
	p.add(practices)

	p.capAt(3)
	return p
}

func exists(fsys fs.FS, name string) bool {
	_, err := fs.Stat(fsys, name)
	return err == nil
}

func isDir(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && info.IsDir()
}

func anyExists(fsys fs.FS, names []string) bool {
	for _, n := range names {
		if exists(fsys, n) {
			return true
		}
	}
	return false
}

func anyDir(fsys fs.FS, names []string) bool {
	for _, n := range names {
		if isDir(fsys, n) {
			return true
		}
	}
	return false
}

func markdownFiles(fsys fs.FS, dir string) []string {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(path.Ext(e.Name()), ".md") {
			out = append(out, e.Name())
		}
	}
	return out
}
