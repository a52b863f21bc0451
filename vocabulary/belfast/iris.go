package belfast

// Standard namespaces used by group sheet data.
const (
	// DC is the Dublin Core terms namespace.
	DC = "http://purl.org/dc/terms/"

	// SchemaOrg is the schema.org namespace.
	SchemaOrg = "http://schema.org/"

	// BIBO is the Bibliographic Ontology namespace.
	BIBO = "http://purl.org/ontology/bibo/"

	// BG is the local Belfast Group ontology namespace.
	BG = "http://belfastgroup.library.emory.edu/ontologies/2013/6/belfastgroup/#"
)

// CanonicalNamespace is the base IRI for smushed group sheet identifiers.
// The MD5 hex digest of the normalized content is appended to it.
const CanonicalNamespace = "http://belfastgroup.library.emory.edu/groupsheets/md5/"

// GroupURI identifies the Belfast Group itself (VIAF).
const GroupURI = "http://viaf.org/viaf/123393054"

// Class IRIs.
const (
	// ClassManuscript is the generic manuscript type used by archival RDF.
	ClassManuscript = BIBO + "Manuscript"

	// ClassGroupSheet is assigned to manuscripts identified as group sheets.
	// Extends: ClassManuscript
	ClassGroupSheet = BG + "GroupSheet"
)

// Property IRIs.
const (
	// PropTitle is the title of a manuscript: a literal or an ordered list of literals.
	PropTitle = DC + "title"

	// PropAuthor links a manuscript to its author (IRI or blank node).
	PropAuthor = SchemaOrg + "author"

	// PropGivenName and PropFamilyName name a blank-node author.
	PropGivenName  = SchemaOrg + "givenName"
	PropFamilyName = SchemaOrg + "familyName"

	// PropMentions links a document or manuscript to something it references.
	PropMentions = SchemaOrg + "mentions"

	// PropAbout links a document to its subject.
	PropAbout = SchemaOrg + "about"

	// PropAffiliation links a person to an organization.
	PropAffiliation = SchemaOrg + "affiliation"

	// PropURL links a manuscript to an external resource (e.g. a TEI transcription).
	// Objects of this property are never rewritten.
	PropURL = SchemaOrg + "URL"
)

// AnonymousAuthor stands in for a missing author when computing identifiers.
const AnonymousAuthor = "anonymous"
