package runbook

import (
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/conform/internal/domain"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// frontmatter is the optional YAML document between --- markers at the
// top of a runbook.
type frontmatter struct {
	Title     string `yaml:"title"`
	Toolchain string `yaml:"toolchain"`
	Solution  string `yaml:"solution"`
}

// sectionDoc is the schema of one fenced yaml block. A block may carry
// any subset of the keys; contents merge into the blueprint in document
// order. Blocks that carry none of them are treated as illustration.
type sectionDoc struct {
	Solution   string                 `yaml:"solution"`
	Projects   []domain.ProjectSpec   `yaml:"projects"`
	Packages   []domain.PackageRef    `yaml:"packages"`
	References []domain.ReferenceSpec `yaml:"references"`
	Remedies   []domain.RemedySpec    `yaml:"remedies"`
}

// Load reads and parses the runbook at path.
func Load(path string) (*Blueprint, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("runbook: read %s: %w", path, err)
	}
	bp, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("runbook: parse %s: %w", path, err)
	}
	bp.Path = path
	return bp, nil
}

// Parse decodes runbook markdown into a blueprint. The heading in
// effect when a yaml block is encountered is recorded as that content's
// section, and the first level-1 heading becomes the title unless the
// frontmatter set one.
func Parse(src []byte) (*Blueprint, error) {
	meta, body, err := splitFrontmatter(src)
	if err != nil {
		return nil, err
	}

	bp := &Blueprint{Sections: map[Section]string{}}
	if len(meta) > 0 {
		var fm frontmatter
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return nil, fmt.Errorf("frontmatter: %w", err)
		}
		bp.Title = fm.Title
		bp.Toolchain = fm.Toolchain
		bp.Solution = fm.Solution
	}

	doc := goldmark.New().Parser().Parse(gmtext.NewReader(body))
	heading := ""
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			heading = nodeText(node, body)
			if bp.Title == "" && node.Level == 1 {
				bp.Title = heading
			}
		case *ast.FencedCodeBlock:
			lang := string(node.Language(body))
			if lang != "yaml" && lang != "yml" {
				return ast.WalkContinue, nil
			}
			if err := bp.merge(blockText(node, body), heading); err != nil {
				return ast.WalkStop, fmt.Errorf("yaml block under %q: %w", heading, err)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return bp, nil
}

func (b *Blueprint) merge(block string, heading string) error {
	var doc sectionDoc
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return err
	}
	if doc.Solution != "" {
		b.Solution = doc.Solution
	}
	if len(doc.Projects) > 0 {
		b.Projects = append(b.Projects, doc.Projects...)
		b.noteSection(SectionProjects, heading)
	}
	if len(doc.Packages) > 0 {
		b.Packages = append(b.Packages, doc.Packages...)
		b.noteSection(SectionPackages, heading)
	}
	if len(doc.References) > 0 {
		b.References = append(b.References, doc.References...)
		b.noteSection(SectionReferences, heading)
	}
	if len(doc.Remedies) > 0 {
		b.Remedies = append(b.Remedies, doc.Remedies...)
		b.noteSection(SectionRemediation, heading)
	}
	return nil
}

// splitFrontmatter separates the leading YAML frontmatter from the
// markdown body. Input without an opening delimiter is returned whole;
// an opening delimiter without a closing one is an error.
func splitFrontmatter(src []byte) (meta, body []byte, err error) {
	lines := strings.SplitAfter(string(src), "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r\n") != "---" {
		return nil, src, nil
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r\n") == "---" {
			meta = []byte(strings.Join(lines[1:i], ""))
			body = []byte(strings.Join(lines[i+1:], ""))
			return meta, body, nil
		}
	}
	return nil, nil, fmt.Errorf("frontmatter: missing closing delimiter")
}

// nodeText collects the plain text of an inline container such as a
// heading.
func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// blockText returns the body of a fenced code block.
func blockText(n *ast.FencedCodeBlock, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String()
}
