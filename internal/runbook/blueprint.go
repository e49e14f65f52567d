// Package runbook parses markdown instruction documents into the
// blueprint the runner executes.
//
// A runbook is a human-readable document. The machine-readable parts
// are an optional YAML frontmatter (title, toolchain, solution) and
// fenced yaml blocks declaring projects, packages, references, and
// documented remediations. Everything else is prose and is ignored by
// the parser, so the same file serves as both a guide for people and
// input for the runner.
package runbook

import (
	"nathanbeddoewebdev/conform/internal/domain"
)

// Section identifies a kind of machine-readable runbook content.
type Section string

const (
	SectionProjects    Section = "projects"
	SectionPackages    Section = "packages"
	SectionReferences  Section = "references"
	SectionRemediation Section = "remediation"
)

// Blueprint is the desired state a runbook declares for a target tree.
type Blueprint struct {
	Title      string
	Toolchain  string
	Solution   string
	Projects   []domain.ProjectSpec
	Packages   []domain.PackageRef
	References []domain.ReferenceSpec
	Remedies   []domain.RemedySpec

	// Sections maps each populated section kind to the heading text it
	// appeared under, so error records can cite the runbook section.
	Sections map[Section]string

	// Path is the file the blueprint was loaded from, when known.
	Path string
}

// Project returns the named project spec.
func (b *Blueprint) Project(name string) (domain.ProjectSpec, bool) {
	for _, p := range b.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return domain.ProjectSpec{}, false
}

// Templates returns the distinct project templates the blueprint uses,
// in declaration order.
func (b *Blueprint) Templates() []string {
	seen := map[string]struct{}{}
	var templates []string
	for _, p := range b.Projects {
		if p.Template == "" {
			continue
		}
		if _, ok := seen[p.Template]; ok {
			continue
		}
		seen[p.Template] = struct{}{}
		templates = append(templates, p.Template)
	}
	return templates
}

// SectionHeading returns the heading the section appeared under, or
// the section name itself when the runbook had no heading above it.
func (b *Blueprint) SectionHeading(s Section) string {
	if h, ok := b.Sections[s]; ok && h != "" {
		return h
	}
	return string(s)
}

func (b *Blueprint) noteSection(s Section, heading string) {
	if b.Sections == nil {
		b.Sections = map[Section]string{}
	}
	if _, ok := b.Sections[s]; !ok {
		b.Sections[s] = heading
	}
}
