// internal/domain/models/project.go
package models

// Project is a tracked piece of work. It has no structural relation to
// users or teams beyond free-text tags.
type Project struct {
	ProjectID   string   `bson:"project_id" json:"project_id"`
	DisplayName string   `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Tags        []string `bson:"tags,omitempty" json:"tags,omitempty"`
	GithubURLs  []string `bson:"github_urls,omitempty" json:"github_urls,omitempty"`
}

// NewProject returns a project with the given identifier and name.
func NewProject(projectID, displayName string) *Project {
	return &Project{ProjectID: projectID, DisplayName: displayName}
}

// IsValid reports whether the record may be written.
func (p *Project) IsValid() bool {
	return p.ProjectID != ""
}

// HasTag reports whether tag is in the tag set.
func (p *Project) HasTag(tag string) bool {
	return contains(p.Tags, tag)
}

// AddTag adds tag to the tag set, preserving uniqueness.
func (p *Project) AddTag(tag string) bool {
	if tag == "" || contains(p.Tags, tag) {
		return false
	}
	p.Tags = append(p.Tags, tag)
	return true
}

// AddGithubURL adds url to the repository URL set, preserving uniqueness.
func (p *Project) AddGithubURL(url string) bool {
	if url == "" || contains(p.GithubURLs, url) {
		return false
	}
	p.GithubURLs = append(p.GithubURLs, url)
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
