package cms

// Link represents a single resource link.
type Link struct {
	Href      string `json:"href"                yaml:"href"`
	Rel       string `json:"rel,omitempty"       yaml:"rel,omitempty"`
	Method    string `json:"method,omitempty"    yaml:"method,omitempty"`
	MediaType string `json:"mediaType,omitempty" yaml:"mediaType,omitempty"`
}

// Resource is the base structure shared by all API resources.
type Resource struct {
	ID          string `json:"id"                    yaml:"id"`
	Type        string `json:"type,omitempty"        yaml:"type,omitempty"`
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedDate Date   `json:"createdDate,omitzero"  yaml:"createdDate,omitempty"`
	UpdatedDate Date   `json:"updatedDate,omitzero"  yaml:"updatedDate,omitempty"`
	Links       []Link `json:"links,omitempty"       yaml:"links,omitempty"`
}

// Item represents a published content item.
type Item struct {
	Resource

	Slug         string   `json:"slug,omitempty"     yaml:"slug,omitempty"`
	Language     string   `json:"language,omitempty" yaml:"language,omitempty"`
	Translatable bool     `json:"translatable"       yaml:"translatable"`
	Status       string   `json:"status,omitempty"   yaml:"status,omitempty"`
	Taxonomies   []string `json:"taxonomies,omitempty" yaml:"taxonomies,omitempty"`
	Fields       Fields   `json:"fields,omitempty"   yaml:"fields,omitempty"`
}

// Taxonomy represents a published taxonomy.
type Taxonomy struct {
	Resource

	ShortName string `json:"shortName,omitempty" yaml:"shortName,omitempty"`
}

// Category represents a category inside a taxonomy.
type Category struct {
	Resource

	APIName  string `json:"apiName,omitempty"  yaml:"apiName,omitempty"`
	Position int    `json:"position,omitempty" yaml:"position,omitempty"`
	Parent   *RefID `json:"parent,omitempty"   yaml:"parent,omitempty"`
}

// RefID references another resource by id.
type RefID struct {
	ID string `json:"id" yaml:"id"`
}

// Rendition describes one rendition of a digital asset.
type Rendition struct {
	Name   string `json:"name"             yaml:"name"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Links  []Link `json:"links,omitempty"  yaml:"links,omitempty"`
}

// JobStatus is the lifecycle state of a publish job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "inprogress"
	JobComplete   JobStatus = "complete"
	JobFailed     JobStatus = "failed"
)

// Terminal reports whether the status is a terminal state.
func (s JobStatus) Terminal() bool {
	return s == JobComplete || s == JobFailed
}

// PublishJob represents an asynchronous publish or unpublish operation.
type PublishJob struct {
	ID            string      `json:"id"                      yaml:"id"`
	Operation     string      `json:"operation"               yaml:"operation"`
	Status        JobStatus   `json:"status"                  yaml:"status"`
	Message       string      `json:"message,omitempty"       yaml:"message,omitempty"`
	Items         []string    `json:"items,omitempty"         yaml:"items,omitempty"`
	StartedDate   Date        `json:"startedDate,omitzero"    yaml:"startedDate,omitempty"`
	CompletedDate Date        `json:"completedDate,omitzero"  yaml:"completedDate,omitempty"`
	Errors        []ErrorBody `json:"errors,omitempty"        yaml:"errors,omitempty"`
}

// PublishJobRequest is the payload for submitting a publish job.
type PublishJobRequest struct {
	Operation string   `json:"operation"          yaml:"operation"`
	Items     []string `json:"items"              yaml:"items"`
	Channels  []string `json:"channels,omitempty" yaml:"channels,omitempty"`
}

// ListResponse represents a paginated list response. The pagination
// fields are pointers so their absence can be told apart from zero
// values; a payload without them must still decode correctly, and the
// paginator leaves its state unchanged in that case.
type ListResponse[T any] struct {
	Items        []T    `json:"items"                  yaml:"items"`
	Count        *int   `json:"count,omitempty"        yaml:"count,omitempty"`
	TotalResults *int   `json:"totalResults,omitempty" yaml:"totalResults,omitempty"`
	HasMore      *bool  `json:"hasMore,omitempty"      yaml:"hasMore,omitempty"`
	Limit        int    `json:"limit,omitempty"        yaml:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"       yaml:"offset,omitempty"`
	Links        []Link `json:"links,omitempty"        yaml:"links,omitempty"`
}

// ItemList is a paginated list of items.
type ItemList = ListResponse[Item]

// TaxonomyList is a paginated list of taxonomies.
type TaxonomyList = ListResponse[Taxonomy]

// CategoryList is a paginated list of categories.
type CategoryList = ListResponse[Category]
