package belfast

import "fmt"

// Vocabulary is the set of IRIs the cleanup stages operate on.
type Vocabulary struct {
	CanonicalNamespace string `yaml:"canonical_namespace"`
	GroupURI           string `yaml:"group_uri"`

	Manuscript string `yaml:"manuscript"`
	GroupSheet string `yaml:"group_sheet"`

	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	GivenName   string `yaml:"given_name"`
	FamilyName  string `yaml:"family_name"`
	Mentions    string `yaml:"mentions"`
	About       string `yaml:"about"`
	Affiliation string `yaml:"affiliation"`
	URL         string `yaml:"url"`
}

// Default returns the vocabulary used by the Belfast Group project.
func Default() Vocabulary {
	return Vocabulary{
		CanonicalNamespace: CanonicalNamespace,
		GroupURI:           GroupURI,
		Manuscript:         ClassManuscript,
		GroupSheet:         ClassGroupSheet,
		Title:              PropTitle,
		Author:             PropAuthor,
		GivenName:          PropGivenName,
		FamilyName:         PropFamilyName,
		Mentions:           PropMentions,
		About:              PropAbout,
		Affiliation:        PropAffiliation,
		URL:                PropURL,
	}
}

// Merge overrides fields of v with the non-empty fields of other.
func (v *Vocabulary) Merge(other Vocabulary) {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&v.CanonicalNamespace, other.CanonicalNamespace)
	set(&v.GroupURI, other.GroupURI)
	set(&v.Manuscript, other.Manuscript)
	set(&v.GroupSheet, other.GroupSheet)
	set(&v.Title, other.Title)
	set(&v.Author, other.Author)
	set(&v.GivenName, other.GivenName)
	set(&v.FamilyName, other.FamilyName)
	set(&v.Mentions, other.Mentions)
	set(&v.About, other.About)
	set(&v.Affiliation, other.Affiliation)
	set(&v.URL, other.URL)
}

// Validate reports the first empty IRI.
func (v Vocabulary) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"canonical_namespace", v.CanonicalNamespace},
		{"group_uri", v.GroupURI},
		{"manuscript", v.Manuscript},
		{"group_sheet", v.GroupSheet},
		{"title", v.Title},
		{"author", v.Author},
		{"given_name", v.GivenName},
		{"family_name", v.FamilyName},
		{"mentions", v.Mentions},
		{"about", v.About},
		{"affiliation", v.Affiliation},
		{"url", v.URL},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("vocabulary.%s is required", f.name)
		}
	}
	return nil
}
