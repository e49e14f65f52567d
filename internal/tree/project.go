package tree

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nathanbeddoewebdev/conform/internal/domain"
)

// Project is the parsed state of one csproj on disk.
type Project struct {
	Name            string
	Path            string // csproj path relative to the target root
	Sdk             string
	TargetFramework string
	Packages        []domain.PackageRef
	References      []string // referenced project names
	// Invalid carries the parse error text for a csproj that exists
	// but could not be read as XML. The file's presence still counts.
	Invalid string
}

type projectFile struct {
	XMLName        xml.Name        `xml:"Project"`
	Sdk            string          `xml:"Sdk,attr"`
	PropertyGroups []propertyGroup `xml:"PropertyGroup"`
	ItemGroups     []itemGroup     `xml:"ItemGroup"`
}

type propertyGroup struct {
	TargetFramework string `xml:"TargetFramework"`
}

type itemGroup struct {
	PackageReferences []packageReference `xml:"PackageReference"`
	ProjectReferences []projectReference `xml:"ProjectReference"`
}

type packageReference struct {
	Include string `xml:"Include,attr"`
	Version string `xml:"Version,attr"`
}

type projectReference struct {
	Include string `xml:"Include,attr"`
}

// ParseProject reads the csproj at root/rel. A file that exists but is
// not well-formed XML yields a Project with Invalid set, not an error;
// corruption is a finding for the validation phase to report.
func ParseProject(root, rel string) (*Project, error) {
	name := strings.TrimSuffix(filepath.Base(rel), ".csproj")
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return nil, fmt.Errorf("tree: read project %s: %w", rel, err)
	}

	p := &Project{Name: name, Path: filepath.ToSlash(rel)}
	var pf projectFile
	if err := xml.Unmarshal(data, &pf); err != nil {
		p.Invalid = err.Error()
		return p, nil
	}

	p.Sdk = pf.Sdk
	for _, pg := range pf.PropertyGroups {
		if pg.TargetFramework != "" {
			p.TargetFramework = pg.TargetFramework
		}
	}
	for _, ig := range pf.ItemGroups {
		for _, pr := range ig.PackageReferences {
			if pr.Include == "" {
				continue
			}
			p.Packages = append(p.Packages, domain.PackageRef{
				Project: name,
				ID:      pr.Include,
				Version: pr.Version,
			})
		}
		for _, rr := range ig.ProjectReferences {
			if rr.Include == "" {
				continue
			}
			ref := strings.ReplaceAll(rr.Include, `\`, "/")
			p.References = append(p.References, strings.TrimSuffix(filepath.Base(ref), ".csproj"))
		}
	}
	return p, nil
}

// HasPackage reports whether the project already references the
// package, ignoring version.
func (p *Project) HasPackage(id string) bool {
	for _, pkg := range p.Packages {
		if strings.EqualFold(pkg.ID, id) {
			return true
		}
	}
	return false
}

// HasReference reports whether the project already references the
// named project.
func (p *Project) HasReference(name string) bool {
	for _, r := range p.References {
		if r == name {
			return true
		}
	}
	return false
}
